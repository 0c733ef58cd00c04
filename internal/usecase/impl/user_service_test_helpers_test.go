package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"signup/config"
	"signup/internal/domain/service"
	"signup/internal/infra/auth"
	"signup/internal/infra/lock"
	"signup/internal/infra/persistence/memory"
	mockSvc "signup/internal/mocks/service"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// noopLocker never blocks, leaving the store's unique index as the only guard.
type noopLocker struct{}

func (noopLocker) Lock(context.Context, string) (service.UnlockFunc, error) {
	return func() {}, nil
}

// memoryFixtures wires the service to an in-memory store with real hashing
// and token issuing.
type memoryFixtures struct {
	service   *userService
	store     *memory.Store
	tokens    service.TokenService
	hasher    service.PasswordHasher
	publisher *mockSvc.MockEventPublisher
}

func newMemoryFixtures(t *testing.T, locker service.EmailLocker) memoryFixtures {
	t.Helper()

	store := memory.NewStore()
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost)
	tokens, err := auth.NewJWTService(&config.Config{}, newDiscardLogger())
	require.NoError(t, err)

	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().PublishUserRegistered(mock.Anything, mock.Anything).Return(nil).Maybe()

	if locker == nil {
		locker = lock.NewLocalLocker()
	}

	svc := NewUserService(UserServiceParams{
		TxManager:    memory.NewTransactionManager(store),
		UserRepo:     memory.NewUserRepository(store),
		Hasher:       hasher,
		TokenService: tokens,
		Locker:       locker,
		Publisher:    publisher,
		Logger:       newDiscardLogger(),
	}).(*userService)

	return memoryFixtures{
		service:   svc,
		store:     store,
		tokens:    tokens,
		hasher:    hasher,
		publisher: publisher,
	}
}
