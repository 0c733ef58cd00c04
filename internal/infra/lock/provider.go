package lock

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"signup/config"
	"signup/internal/domain/lifecycle"
	"signup/internal/domain/service"
	"signup/internal/errors"
)

// LockerParams holds dependencies for NewEmailLocker, injected by Fx.
type LockerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewEmailLocker builds the EmailLocker named by lock.provider.
func NewEmailLocker(params LockerParams) (service.EmailLocker, error) {
	cfg := params.Config.Lock
	if cfg == nil || cfg.Provider == "" || cfg.Provider == config.LockProviderLocal {
		var wait time.Duration
		if cfg != nil {
			wait = cfg.Wait
		}

		return WithWait(NewLocalLocker(), wait), nil
	}

	if cfg.Provider != config.LockProviderRedis {
		return nil, errors.Errorf("unknown lock provider: %s", cfg.Provider)
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis address is required for redis lock provider")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}
			params.Logger.Info("Using redis email lock", slog.String("addr", cfg.Redis.Addr))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return WithWait(NewRedisLocker(client, cfg.TTL, params.Logger), cfg.Wait), nil
}

type waitLocker struct {
	next service.EmailLocker
	wait time.Duration
}

// WithWait bounds how long Lock may block. A non-positive wait returns next
// unchanged.
func WithWait(next service.EmailLocker, wait time.Duration) service.EmailLocker {
	if wait <= 0 {
		return next
	}

	return &waitLocker{next: next, wait: wait}
}

func (l *waitLocker) Lock(ctx context.Context, email string) (service.UnlockFunc, error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	return l.next.Lock(waitCtx, email)
}
