package badger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// KeyPrefix namespaces the keys, the data directory may be shared
const KeyPrefix = "graphchat:"

// Badger the badger store, values are stored as JSON
type Badger struct {
	db   *badger.DB
	path string
	mu   sync.RWMutex
}

func key(name string) []byte {
	return []byte(KeyPrefix + name)
}

// New create a new badger store
func New(path string) (*Badger, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &Badger{db: db, path: path}, nil
}

// Path returns the data directory
func (b *Badger) Path() string {
	return b.path
}

// Close close the badger database
func (b *Badger) Close() error {
	return b.db.Close()
}

// Get get a value by key
func (b *Badger) Get(name string) (value interface{}, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var result interface{}
	var found bool

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(name))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &result); err != nil {
				return err
			}
			found = true
			return nil
		})
	})

	if err != nil {
		return nil, false
	}

	return result, found
}

// Set set a key-value pair with optional TTL
func (b *Badger) Set(name string, value interface{}, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key(name), data)
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Del delete a key
func (b *Badger) Del(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key(name))
	})
}

// Has check if a key exists
func (b *Badger) Has(name string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var exists bool
	b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key(name))
		exists = (err == nil)
		return nil
	})
	return exists
}

// Len get the number of keys in the store
func (b *Badger) Len() int {
	return len(b.Keys())
}

// Keys get all keys in the store
func (b *Badger) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := []string{}
	b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(KeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, strings.TrimPrefix(string(it.Item().Key()), KeyPrefix))
		}
		return nil
	})
	return keys
}

// Clear remove the graphchat keys from the store
func (b *Badger) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.db.DropPrefix([]byte(KeyPrefix)); err != nil {
		log.Warn("badger store clear: %s", err.Error())
	}
}

// GetSet get a value or set it if it doesn't exist
func (b *Badger) GetSet(name string, ttl time.Duration, getValue func(key string) (interface{}, error)) (interface{}, error) {
	if value, ok := b.Get(name); ok {
		return value, nil
	}

	newValue, err := getValue(name)
	if err != nil {
		return nil, err
	}

	if err := b.Set(name, newValue, ttl); err != nil {
		return nil, err
	}

	return newValue, nil
}
