package history

import "github.com/yaoapp/graphchat/types"

// Entry one answered question
type Entry = types.HistoryEntry

// Manager records the answered questions of each session, oldest first
type Manager interface {
	Append(session string, entry Entry) error
	List(session string) ([]Entry, error)
	Clear(session string) error
	Close() error
}

// Drivers
const (
	DriverMemory = "memory"
	DriverBuntDB = "buntdb"
	DriverRedis  = "redis"
)

// KeyPrefix the prefix of every history key
const KeyPrefix = "graphchat:history"
