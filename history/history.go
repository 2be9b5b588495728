// Package history records answered questions per session.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yaoapp/graphchat/helper"
	"github.com/yaoapp/graphchat/store"
	"github.com/yaoapp/graphchat/types"
)

// New create a history manager by the history setting
func New(cfg types.HistoryConfig) (Manager, error) {
	expire := time.Duration(cfg.Expire) * time.Second

	switch cfg.Driver {
	case "", DriverMemory:
		size := cfg.Size
		if size <= 0 {
			size = store.DefaultSize
		}
		kv, err := store.New(types.CacheConfig{Driver: store.DriverLRU, Size: size})
		if err != nil {
			return nil, err
		}
		return NewMemory(kv, expire), nil

	case DriverBuntDB:
		return NewBuntDB(helper.EnvString(cfg.Path, ":memory:"), expire)

	case DriverRedis:
		host := helper.EnvString(cfg.Host, "127.0.0.1")
		options := []string{
			helper.EnvString(cfg.Port, "6379"),
			helper.EnvString(cfg.DB, "0"),
			helper.EnvString(cfg.Password),
			helper.EnvString(cfg.Username),
		}
		return NewRedis(host, expire, options...)
	}

	return nil, fmt.Errorf("the history driver %s does not support", cfg.Driver)
}

// ID generate a new session or entry id
func ID() string {
	return uuid.NewString()
}

// prepare fills the id and the creation time of an entry
func prepare(session string, entry Entry) (Entry, error) {
	if session == "" {
		return entry, fmt.Errorf("session id is required")
	}
	entry.SessionID = session
	if entry.ID == "" {
		entry.ID = ID()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return entry, nil
}
