// Package redis is a small JSON-document wrapper around go-redis.
package redis

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	gredis "github.com/Laisky/go-redis/v2"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by GetJSON when the key does not exist.
var ErrNotFound = errors.New("redis key not found")

// DB is a wrapper for go-redis
type DB struct {
	cli   *redis.Client
	utils *gredis.Utils
}

// NewDB creates a new DB instance
func NewDB(opt *redis.Options) *DB {
	return NewDBFromClient(redis.NewClient(opt))
}

// NewDBFromClient wraps an existing client.
func NewDBFromClient(cli *redis.Client) *DB {
	return &DB{
		cli:   cli,
		utils: gredis.NewRedisUtils(cli),
	}
}

// Ping checks the server is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.cli.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	return nil
}

// SetJSON stores val encoded as json under key, ttl 0 means no expiry.
func (db *DB) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	payload, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "marshal %s", key)
	}

	if err = db.utils.SetItem(ctx, key, string(payload), ttl); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}

	return nil
}

// GetJSON decodes the json stored under key into out.
func (db *DB) GetJSON(ctx context.Context, key string, out any) error {
	payload, err := db.cli.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return errors.Wrap(ErrNotFound, key)
		}
		return errors.Wrapf(err, "get %s", key)
	}

	if err = json.Unmarshal(payload, out); err != nil {
		return errors.Wrapf(err, "unmarshal %s", key)
	}

	return nil
}

// Close closes the underlying client.
func (db *DB) Close() error {
	return db.cli.Close()
}
