package store

import (
	"fmt"

	"github.com/yaoapp/graphchat/store/badger"
	"github.com/yaoapp/graphchat/store/lru"
	"github.com/yaoapp/graphchat/types"
)

// New create a store by the cache setting
func New(cfg types.CacheConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverLRU:
		size := cfg.Size
		if size <= 0 {
			size = DefaultSize
		}
		return lru.New(size)

	case DriverBadger:
		if cfg.Path == "" {
			return nil, fmt.Errorf("badger store requires a path")
		}
		return badger.New(cfg.Path)
	}

	return nil, fmt.Errorf("the store driver %s does not support", cfg.Driver)
}
