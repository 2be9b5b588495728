package lru

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Cache lru cache, entries may carry a ttl
type Cache struct {
	size int
	lru  *lru.ARCCache
}

type entry struct {
	value   interface{}
	expires time.Time // zero means never
}

func (e entry) expired() bool {
	return !e.expires.IsZero() && time.Now().After(e.expires)
}

// New create a new LRU cache
func New(size int) (*Cache, error) {
	cache := &Cache{size: size}
	lru, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	cache.lru = lru
	return cache, nil
}

// Get looks up a key's value from the cache.
func (cache *Cache) Get(key string) (value interface{}, ok bool) {
	e, ok := cache.entry(key, false)
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set adds a value to the cache.
func (cache *Cache) Set(key string, value interface{}, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	cache.lru.Add(key, e)
	return nil
}

// Del remove is used to purge a key from the cache
func (cache *Cache) Del(key string) error {
	cache.lru.Remove(key)
	return nil
}

// Has check if the cache is exist ( without updating recency or frequency )
func (cache *Cache) Has(key string) bool {
	_, has := cache.entry(key, true)
	return has
}

// Len returns the number of live entries
func (cache *Cache) Len() int {
	return len(cache.Keys())
}

// Keys returns all the live keys
func (cache *Cache) Keys() []string {
	res := []string{}
	for _, key := range cache.lru.Keys() {
		keystr, ok := key.(string)
		if !ok {
			keystr = fmt.Sprintf("%v", key)
		}
		if _, ok := cache.entry(keystr, true); ok {
			res = append(res, keystr)
		}
	}
	return res
}

// Clear is used to clear the cache
func (cache *Cache) Clear() {
	cache.lru.Purge()
}

// GetSet looks up a key's value from the cache. if does not exist add to the cache
func (cache *Cache) GetSet(key string, ttl time.Duration, getValue func(key string) (interface{}, error)) (interface{}, error) {
	value, ok := cache.Get(key)
	if !ok {
		var err error
		value, err = getValue(key)
		if err != nil {
			return nil, err
		}
		cache.Set(key, value, ttl)
	}
	return value, nil
}

// entry returns a live entry, expired entries are removed
func (cache *Cache) entry(key string, peek bool) (entry, bool) {
	var raw interface{}
	var ok bool
	if peek {
		raw, ok = cache.lru.Peek(key)
	} else {
		raw, ok = cache.lru.Get(key)
	}
	if !ok {
		return entry{}, false
	}

	e, ok := raw.(entry)
	if !ok {
		return entry{}, false
	}

	if e.expired() {
		cache.lru.Remove(key)
		return entry{}, false
	}
	return e, true
}
