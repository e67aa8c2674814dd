package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNotAcquired = errors.New("lock held by another owner")

// releaseScript deletes the key only while it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	rdb *redis.Client
	log *zap.Logger
}

func New(rdb *redis.Client, log *zap.Logger) *Locker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Locker{rdb: rdb, log: log}
}

type Lease struct {
	rdb   *redis.Client
	key   string
	token string
}

// Acquire takes the named lock for ttl. It does not wait: a held lock returns ErrNotAcquired.
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (*Lease, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &Lease{rdb: l.rdb, key: key, token: token}, nil
}

func (l *Lease) Release(ctx context.Context) error {
	return releaseScript.Run(ctx, l.rdb, []string{l.key}, l.token).Err()
}

// WithLock runs fn while holding key. ErrNotAcquired is returned untouched so callers can skip quietly.
// A failed release is logged; the key then stays held until ttl expires.
func (l *Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	lease, err := l.Acquire(ctx, key, ttl)
	if err != nil {
		return err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			l.log.Warn("lock release failed", zap.String("key", key), zap.Duration("ttl", ttl), zap.Error(err))
		}
	}()
	return fn(ctx)
}
