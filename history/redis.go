package history

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/yaoapp/kun/any"
	"github.com/yaoapp/kun/log"
)

// Redis history, one list per session
type Redis struct {
	timeout time.Duration
	expired time.Duration
	options *redis.Options
	rdb     *redis.Client
}

// NewRedis create a new redis history
// host string, port int, db int, password string, username string, timeout int
func NewRedis(host string, expired time.Duration, options ...string) (*Redis, error) {

	inst := &Redis{
		timeout: 5 * time.Second,
		expired: expired,
		options: &redis.Options{},
		rdb:     nil,
	}

	port := 6379
	if len(options) > 0 && options[0] != "" {
		port = any.Of(options[0]).CInt()
	}

	if len(options) > 1 && options[1] != "" {
		inst.options.DB = any.Of(options[1]).CInt()
	}

	if len(options) > 2 {
		inst.options.Password = options[2]
	}

	if len(options) > 3 {
		inst.options.Username = options[3]
	}

	if len(options) > 4 && options[4] != "" {
		inst.timeout = time.Duration(any.Of(options[4]).CInt()) * time.Second
	}

	inst.options.Addr = fmt.Sprintf("%s:%d", host, port)

	client := redis.NewClient(inst.options).WithTimeout(inst.timeout)
	_, err := client.Ping(context.Background()).Result()
	if err != nil {
		log.Error("History redis Ping: %s host: %s", err.Error(), inst.options.Addr)
		return nil, err
	}

	inst.rdb = client
	return inst, nil
}

// Append add an entry to the session
func (r *Redis) Append(session string, entry Entry) error {
	entry, err := prepare(session, entry)
	if err != nil {
		return err
	}

	skey := r.key(session)
	bytes, err := jsoniter.Marshal(entry)
	if err != nil {
		log.Error("History redis Append: %s key %s", err.Error(), skey)
		return err
	}

	ctx := context.Background()
	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, skey, bytes)
		if r.expired > 0 {
			pipe.Expire(ctx, skey, r.expired)
		}
		return nil
	})
	if err != nil {
		log.Error("History redis Append: %s", err.Error())
		return err
	}
	return nil
}

// List returns the entries of the session
func (r *Redis) List(session string) ([]Entry, error) {
	skey := r.key(session)
	values, err := r.rdb.LRange(context.Background(), skey, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []Entry{}, nil
		}
		log.Error("History redis List: %s ERROR:%s", skey, err.Error())
		return nil, err
	}

	entries := make([]Entry, 0, len(values))
	for _, value := range values {
		var entry Entry
		if err := jsoniter.UnmarshalFromString(value, &entry); err != nil {
			log.Error("History redis List JSON: %s ERROR:%s", skey, err.Error())
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Clear remove the entries of the session
func (r *Redis) Clear(session string) error {
	skey := r.key(session)
	log.Debug("History redis Clear: %s", skey)
	if err := r.rdb.Del(context.Background(), skey).Err(); err != nil {
		log.Error("History redis Clear: %s", err.Error())
		return err
	}
	return nil
}

// Close close the client
func (r *Redis) Close() error {
	return r.rdb.Close()
}

func (r *Redis) key(session string) string {
	return fmt.Sprintf("%s:%s", KeyPrefix, session)
}
