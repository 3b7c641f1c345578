package cache

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Redis adapts a go-redis client to the Store interface so multiple analyzer
// processes can share one validity window. TTL enforcement is delegated to
// Redis key expiry.
type Redis struct {
	client *redis.Client
	ttls   TTLTable
	log    *logrus.Logger
}

// NewRedis connects to addr (plain host:port or a redis:// URL) and pings the
// server. A connection failure is returned rather than fatal so the caller can
// fall back to the in-memory store.
func NewRedis(ctx context.Context, addr string, ttls TTLTable, log *logrus.Logger) (*Redis, error) {
	opts := &redis.Options{Addr: addr}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if ttls == nil {
		ttls = DefaultTTLTable()
	}
	return &Redis{client: client, ttls: ttls, log: log}, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		r.log.WithError(err).WithField("key", key).Warn("redis get failed, treating as miss")
		return nil, false
	}
	return value, true
}

func (r *Redis) Put(ctx context.Context, key string, value []byte, category Category) {
	if err := r.client.Set(ctx, key, value, r.ttls.TTL(category)).Err(); err != nil {
		r.log.WithError(err).WithField("key", key).Warn("redis set failed")
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
