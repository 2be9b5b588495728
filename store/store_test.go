package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/graphchat/types"
)

func TestLRU(t *testing.T) {
	kv := newStore(t, types.CacheConfig{Driver: DriverLRU, Size: 64})
	testBasic(t, kv)
	testGetSet(t, kv)
	testTTL(t, kv)
}

func TestBadger(t *testing.T) {
	kv := newStore(t, types.CacheConfig{Driver: DriverBadger, Path: t.TempDir()})
	defer kv.(interface{ Close() error }).Close()
	testBasic(t, kv)
	testGetSet(t, kv)
}

func TestNewDefaults(t *testing.T) {
	kv, err := New(types.CacheConfig{})
	require.NoError(t, err)
	assert.NotNil(t, kv)

	_, err = New(types.CacheConfig{Driver: DriverBadger})
	assert.Error(t, err)

	_, err = New(types.CacheConfig{Driver: "mongo"})
	assert.Error(t, err)
}

func testBasic(t *testing.T, kv Store) {
	kv.Clear()
	require.NoError(t, kv.Set("key1", "bar", 0))
	require.NoError(t, kv.Set("key2", "baz", 0))

	value, ok := kv.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "bar", value)

	require.NoError(t, kv.Set("key1", "foo", 0))
	value, ok = kv.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, "foo", value)
	assert.True(t, kv.Has("key1"))

	require.NoError(t, kv.Del("key1"))
	_, ok = kv.Get("key1")
	assert.False(t, ok)
	assert.False(t, kv.Has("key1"))

	assert.Equal(t, 1, kv.Len())
	assert.Equal(t, []string{"key2"}, kv.Keys())

	kv.Clear()
	assert.Equal(t, 0, kv.Len())
}

func testGetSet(t *testing.T, kv Store) {
	kv.Clear()
	calls := 0
	get := func(key string) (interface{}, error) {
		calls++
		return fmt.Sprintf("%s-value", key), nil
	}

	value, err := kv.GetSet("schema:neo4j", 0, get)
	require.NoError(t, err)
	assert.Equal(t, "schema:neo4j-value", value)

	value, err = kv.GetSet("schema:neo4j", 0, get)
	require.NoError(t, err)
	assert.Equal(t, "schema:neo4j-value", value)
	assert.Equal(t, 1, calls)

	_, err = kv.GetSet("broken", 0, func(key string) (interface{}, error) {
		return nil, fmt.Errorf("boom")
	})
	assert.Error(t, err)
	assert.False(t, kv.Has("broken"))
}

func testTTL(t *testing.T, kv Store) {
	kv.Clear()
	require.NoError(t, kv.Set("short", "v", 20*time.Millisecond))
	require.NoError(t, kv.Set("long", "v", time.Hour))
	assert.True(t, kv.Has("short"))

	time.Sleep(50 * time.Millisecond)
	assert.False(t, kv.Has("short"))
	_, ok := kv.Get("short")
	assert.False(t, ok)
	assert.Equal(t, []string{"long"}, kv.Keys())
}

func newStore(t *testing.T, cfg types.CacheConfig) Store {
	kv, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return kv
}
