package store

import "time"

// Store The interface of a key-value store
type Store interface {
	Get(key string) (value interface{}, ok bool)
	Set(key string, value interface{}, ttl time.Duration) error
	Del(key string) error
	Has(key string) bool
	Len() int
	Keys() []string
	Clear()
	GetSet(key string, ttl time.Duration, getValue func(key string) (interface{}, error)) (interface{}, error)
}

// Drivers
const (
	DriverLRU    = "lru"
	DriverBadger = "badger"
)

// DefaultSize the default capacity of the lru store
const DefaultSize = 1024
