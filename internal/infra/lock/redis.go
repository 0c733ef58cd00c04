package lock

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"signup/internal/domain/service"
	"signup/internal/errors"
)

const (
	redisKeyPrefix    = "signup:register:"
	redisRetryInitial = 10 * time.Millisecond
	redisRetryMax     = 200 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// redisLocker serialises registrations of one email across processes with
// SET NX PX. ttl bounds how long a crashed holder can block others.
type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisLocker returns an EmailLocker backed by client.
func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *slog.Logger) service.EmailLocker {
	return &redisLocker{client: client, ttl: ttl, logger: logger}
}

func (l *redisLocker) Lock(ctx context.Context, email string) (service.UnlockFunc, error) {
	key := redisKeyPrefix + email
	token := uuid.NewString()
	backoff := redisRetryInitial

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrap(err, "acquire email lock")
		}
		if ok {
			break
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil, errors.Wrap(ctx.Err(), "waiting for email lock")
		case <-timer.C:
		}

		backoff = min(backoff*2, redisRetryMax)
	}

	return func() {
		// Release even if the request context was cancelled meanwhile.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("Failed to release email lock", slog.String("key", key), slog.Any("error", err))
		}
	}, nil
}
