// Package persistence selects the User Store backend named by storage.driver.
package persistence

import (
	"log/slog"

	"go.uber.org/fx"

	"signup/config"
	"signup/internal/domain/repository"
	"signup/internal/errors"
	"signup/internal/infra/persistence/memory"
	"signup/internal/infra/persistence/postgres"
)

// StoreParams holds dependencies for NewStore, injected by Fx.
type StoreParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// StoreResult exposes the selected backend to the rest of the graph.
type StoreResult struct {
	fx.Out

	TxManager repository.TransactionManager
	UserRepo  repository.UserRepository
}

// NewStore builds the configured User Store.
func NewStore(params StoreParams) (StoreResult, error) {
	switch params.Config.Storage.Driver {
	case config.StorageDriverPostgres, "":
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return StoreResult{}, err
		}

		return StoreResult{
			TxManager: postgres.NewTransactionManager(db),
			UserRepo:  postgres.NewUserRepository(db),
		}, nil

	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory user store, data is lost on restart")
		store := memory.NewStore()

		return StoreResult{
			TxManager: memory.NewTransactionManager(store),
			UserRepo:  memory.NewUserRepository(store),
		}, nil

	default:
		return StoreResult{}, errors.Errorf("unknown storage driver: %s", params.Config.Storage.Driver)
	}
}
