package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/buntdb"
	"github.com/yaoapp/kun/log"
)

// BuntDB BuntDB history, one key per entry ordered by creation time
type BuntDB struct {
	db      *buntdb.DB
	expired time.Duration
}

// NewBuntDB create a new BuntDB history, a datafile in a missing directory falls back to memory
func NewBuntDB(datafile string, expired time.Duration) (*BuntDB, error) {
	bunt := &BuntDB{expired: expired}
	if datafile != ":memory:" {
		if _, err := os.Stat(filepath.Dir(datafile)); err != nil {
			log.Warn("History buntdb: %s does not exist, using memory", filepath.Dir(datafile))
			datafile = ":memory:"
		}
	}

	data, err := buntdb.Open(datafile)
	if err != nil {
		return nil, err
	}
	bunt.db = data
	return bunt, nil
}

// Append add an entry to the session
func (bunt *BuntDB) Append(session string, entry Entry) error {
	entry, err := prepare(session, entry)
	if err != nil {
		return err
	}

	skey := fmt.Sprintf("%s:%s:%020d:%s", KeyPrefix, session, entry.CreatedAt.UnixNano(), entry.ID)
	bytes, err := jsoniter.Marshal(entry)
	if err != nil {
		log.Error("History buntdb Append: %s key %s", err.Error(), skey)
		return err
	}

	var option *buntdb.SetOptions = nil
	if bunt.expired > 0 {
		option = &buntdb.SetOptions{Expires: true, TTL: bunt.expired}
	}

	err = bunt.db.Update(func(tx *buntdb.Tx) error {
		_, _, err = tx.Set(skey, string(bytes), option)
		return err
	})

	if err != nil {
		log.Error("History buntdb Append: %s key %s", err.Error(), skey)
		return err
	}
	return nil
}

// List returns the entries of the session
func (bunt *BuntDB) List(session string) ([]Entry, error) {
	entries := []Entry{}
	err := bunt.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(bunt.pattern(session), func(key, value string) bool {
			var entry Entry
			if err := jsoniter.UnmarshalFromString(value, &entry); err != nil {
				log.Error("History buntdb List: %s key %s", err.Error(), key)
				return true
			}
			entries = append(entries, entry)
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear remove the entries of the session
func (bunt *BuntDB) Clear(session string) error {
	return bunt.db.Update(func(tx *buntdb.Tx) error {
		keys := []string{}
		err := tx.AscendKeys(bunt.pattern(session), func(key, value string) bool {
			keys = append(keys, key)
			return true
		})
		if err != nil {
			return err
		}

		for _, key := range keys {
			if _, err := tx.Delete(key); err != nil && err != buntdb.ErrNotFound {
				return err
			}
		}
		return nil
	})
}

// Close close the database
func (bunt *BuntDB) Close() error {
	return bunt.db.Close()
}

func (bunt *BuntDB) pattern(session string) string {
	return fmt.Sprintf("%s:%s:*", KeyPrefix, session)
}
