package history

import (
	"fmt"
	"sync"
	"time"

	"github.com/yaoapp/graphchat/store"
)

// Memory keeps the history in a key-value store
type Memory struct {
	kv      store.Store
	expired time.Duration
	mu      sync.Mutex
}

// NewMemory create a memory history on a store
func NewMemory(kv store.Store, expired time.Duration) *Memory {
	return &Memory{kv: kv, expired: expired}
}

// Append add an entry to the session
func (mem *Memory) Append(session string, entry Entry) error {
	entry, err := prepare(session, entry)
	if err != nil {
		return err
	}

	mem.mu.Lock()
	defer mem.mu.Unlock()

	entries := mem.entries(session)
	entries = append(entries, entry)
	return mem.kv.Set(mem.key(session), entries, mem.expired)
}

// List returns the entries of the session
func (mem *Memory) List(session string) ([]Entry, error) {
	mem.mu.Lock()
	defer mem.mu.Unlock()

	entries := mem.entries(session)
	res := make([]Entry, len(entries))
	copy(res, entries)
	return res, nil
}

// Clear remove the entries of the session
func (mem *Memory) Clear(session string) error {
	mem.mu.Lock()
	defer mem.mu.Unlock()
	return mem.kv.Del(mem.key(session))
}

// Close does nothing, the store is owned by the caller
func (mem *Memory) Close() error {
	return nil
}

func (mem *Memory) entries(session string) []Entry {
	value, ok := mem.kv.Get(mem.key(session))
	if !ok {
		return []Entry{}
	}
	entries, ok := value.([]Entry)
	if !ok {
		return []Entry{}
	}
	return entries
}

func (mem *Memory) key(session string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, session)
}
