// Package redisstore implements sessions.Store on Redis. TTLs are enforced by
// Redis key expiry and Take maps onto GETDEL.
package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	brokererrors "github.com/jrsteele09/mcp-oauth-broker/internal/errors"
	"github.com/jrsteele09/mcp-oauth-broker/sessions"
)

const DefaultKeyPrefix = "mcp-broker:"

var (
	_ sessions.Store = (*Store)(nil)
	_ sessions.Taker = (*Store)(nil)
)

// Config contains configuration options for the Redis store
type Config struct {
	// Client is the Redis client instance
	Client redis.UniversalClient

	// KeyPrefix is prepended to every key.
	// Default: "mcp-broker:"
	KeyPrefix string
}

type Store struct {
	client    redis.UniversalClient
	keyPrefix string
}

func New(config Config) (*Store, error) {
	if config.Client == nil {
		return nil, errors.New("[redisstore.New] redis client is required")
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = DefaultKeyPrefix
	}
	return &Store{
		client:    config.Client,
		keyPrefix: config.KeyPrefix,
	}, nil
}

// Dial connects to addr and verifies the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, keyPrefix string) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrapf(err, "[redisstore.Dial] ping %s", addr)
	}
	return New(Config{Client: client, KeyPrefix: keyPrefix})
}

func (s *Store) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(key), value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "[Store.Put] set %s", key)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, brokererrors.ErrNotFound
		}
		return nil, errors.Wrapf(err, "[Store.Get] get %s", key)
	}
	return data, nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrapf(err, "[Store.Delete] del %s", key)
	}
	return nil
}

func (s *Store) Take(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.GetDel(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, brokererrors.ErrNotFound
		}
		return nil, errors.Wrapf(err, "[Store.Take] getdel %s", key)
	}
	return data, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) key(key string) string {
	return s.keyPrefix + key
}
