package impl

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	deliverycontext "signup/internal/delivery/context"
	"signup/internal/domain/entity"
	domainerrors "signup/internal/domain/errors"
	"signup/internal/domain/repository"
	"signup/internal/domain/service"
	"signup/internal/errors"
	"signup/internal/infra/persistence/memory"
	mockRepo "signup/internal/mocks/repository"
	mockSvc "signup/internal/mocks/service"
	"signup/internal/usecase"
)

func anaInput() *usecase.RegisterUserInput {
	return &usecase.RegisterUserInput{
		Name:     "Ana",
		Email:    "ana@test.cl",
		Password: "Secr3t!",
		Phones: []usecase.PhoneInput{
			{Number: "12345678", CityCode: "1", CountryCode: "56"},
		},
	}
}

func TestUserService_RegisterUser_Success(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	ctx := context.Background()

	output, err := fx.service.RegisterUser(ctx, anaInput())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, output.ID)
	assert.True(t, output.IsActive)
	assert.NotEmpty(t, output.Token)
	assert.False(t, output.Created.IsZero())
	assert.Equal(t, output.Created, output.Modified)
	assert.Equal(t, output.Created, output.LastLogin)

	stored, err := memory.NewUserRepository(fx.store).FindByEmail(ctx, "ana@test.cl")
	require.NoError(t, err)
	assert.Equal(t, output.ID, stored.ID)
	assert.Equal(t, "Ana", stored.Name)
	assert.Equal(t, output.Token, stored.Token)
	require.Len(t, stored.Phones, 1)
	assert.Equal(t, "12345678", stored.Phones[0].Number)
	assert.Equal(t, "1", stored.Phones[0].CityCode)
	assert.Equal(t, "56", stored.Phones[0].CountryCode)
	assert.Equal(t, stored.ID, stored.Phones[0].UserID)

	assert.NotEqual(t, "Secr3t!", stored.PasswordHash)
	assert.True(t, fx.hasher.Check("Secr3t!", stored.PasswordHash))
}

func TestUserService_RegisterUser_TokenCarriesEmail(t *testing.T) {
	fx := newMemoryFixtures(t, nil)

	output, err := fx.service.RegisterUser(context.Background(), anaInput())
	require.NoError(t, err)

	claims, err := fx.tokens.Verify(output.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@test.cl", claims.Subject)
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestUserService_RegisterUser_SameInstantForAllTimestamps(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC)
	fx.service.now = func() time.Time { return fixed }

	output, err := fx.service.RegisterUser(context.Background(), anaInput())

	require.NoError(t, err)
	assert.Equal(t, fixed, output.Created)
	assert.Equal(t, fixed, output.Modified)
	assert.Equal(t, fixed, output.LastLogin)
}

func TestUserService_RegisterUser_NoPhones(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	input := anaInput()
	input.Phones = nil

	_, err := fx.service.RegisterUser(context.Background(), input)
	require.NoError(t, err)

	stored, err := memory.NewUserRepository(fx.store).FindByEmail(context.Background(), "ana@test.cl")
	require.NoError(t, err)
	assert.Empty(t, stored.Phones)
}

func TestUserService_RegisterUser_DuplicateEmail(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	ctx := context.Background()

	_, err := fx.service.RegisterUser(ctx, anaInput())
	require.NoError(t, err)

	output, err := fx.service.RegisterUser(ctx, anaInput())

	assert.Nil(t, output)
	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
	assert.Equal(t, domainerrors.CodeDuplicateEmail, domainerrors.Code(err))
	assert.Equal(t, 1, fx.store.Len())
}

func TestUserService_RegisterUser_DuplicateEmailIgnoresCase(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	ctx := context.Background()

	_, err := fx.service.RegisterUser(ctx, anaInput())
	require.NoError(t, err)

	input := anaInput()
	input.Email = "ANA@Test.CL"
	_, err = fx.service.RegisterUser(ctx, input)

	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
	assert.Equal(t, 1, fx.store.Len())
}

func TestUserService_RegisterUser_InvalidEmailFormat(t *testing.T) {
	cases := []string{
		"not-an-email",
		"a@b",
		"@b.com",
		"ana@test.c",
		"ana@test.c0m",
		"ana test@test.cl",
		" ana@test.cl ",
		strings.Repeat("a", 250) + "@test.cl",
		"",
	}

	for _, email := range cases {
		t.Run(email, func(t *testing.T) {
			fx := newMemoryFixtures(t, nil)
			input := anaInput()
			input.Email = email

			output, err := fx.service.RegisterUser(context.Background(), input)

			assert.Nil(t, output)
			require.ErrorIs(t, err, domainerrors.ErrInvalidEmailFormat)
			assert.Equal(t, 0, fx.store.Len())
		})
	}
}

func TestUserService_RegisterUser_PaddedEmailIsNotTheSameAccount(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	ctx := context.Background()

	_, err := fx.service.RegisterUser(ctx, anaInput())
	require.NoError(t, err)

	input := anaInput()
	input.Email = " ana@test.cl "
	_, err = fx.service.RegisterUser(ctx, input)

	require.ErrorIs(t, err, domainerrors.ErrInvalidEmailFormat)
	assert.Equal(t, 1, fx.store.Len())
}

func TestUserService_RegisterUser_UniquenessCheckedBeforeFormat(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokens := mockSvc.NewMockTokenService(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	userRepo.EXPECT().ExistsByEmail(mock.Anything, "not-an-email").Return(true, nil)

	svc := NewUserService(UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokens,
		Locker:       noopLocker{},
		Publisher:    publisher,
		Logger:       newDiscardLogger(),
	})

	input := anaInput()
	input.Email = "not-an-email"
	_, err := svc.RegisterUser(context.Background(), input)

	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
}

func TestUserService_RegisterUser_DigestNeverReturnedAndSalted(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	ctx := context.Background()

	first := anaInput()
	second := anaInput()
	second.Email = "otra@test.cl"

	_, err := fx.service.RegisterUser(ctx, first)
	require.NoError(t, err)
	_, err = fx.service.RegisterUser(ctx, second)
	require.NoError(t, err)

	repo := memory.NewUserRepository(fx.store)
	a, err := repo.FindByEmail(ctx, first.Email)
	require.NoError(t, err)
	b, err := repo.FindByEmail(ctx, second.Email)
	require.NoError(t, err)

	assert.NotEqual(t, a.PasswordHash, b.PasswordHash)
	assert.True(t, fx.hasher.Check("Secr3t!", a.PasswordHash))
	assert.True(t, fx.hasher.Check("Secr3t!", b.PasswordHash))
}

func TestUserService_RegisterUser_PasswordHashFailure(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	input := anaInput()
	input.Password = strings.Repeat("x", 100)

	_, err := fx.service.RegisterUser(context.Background(), input)

	require.ErrorIs(t, err, domainerrors.ErrPasswordHashFailure)
	assert.Equal(t, 0, fx.store.Len())
}

func TestUserService_RegisterUser_TokenIssuanceFailure(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	tokens := mockSvc.NewMockTokenService(t)
	tokens.EXPECT().Issue("ana@test.cl").Return("", errors.New("signing key unavailable"))
	fx.service.tokenService = tokens

	output, err := fx.service.RegisterUser(context.Background(), anaInput())

	assert.Nil(t, output)
	require.ErrorIs(t, err, domainerrors.ErrTokenIssuanceFailure)
	assert.Equal(t, 0, fx.store.Len())
}

func TestUserService_RegisterUser_PersistenceFailure(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokens := mockSvc.NewMockTokenService(t)
	publisher := mockSvc.NewMockEventPublisher(t)

	userRepo.EXPECT().ExistsByEmail(mock.Anything, "ana@test.cl").Return(false, nil)
	hasher.EXPECT().Hash("Secr3t!").Return("digest", nil)
	tokens.EXPECT().Issue("ana@test.cl").Return("token", nil)
	txManager.EXPECT().
		Execute(mock.Anything, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		Run(func(ctx context.Context, fn func(repository.RepositoryFactory) error) {
			factory := mockRepo.NewMockRepositoryFactory(t)
			txUserRepo := mockRepo.NewMockUserRepository(t)
			factory.EXPECT().UserRepo().Return(txUserRepo)
			txUserRepo.EXPECT().
				Save(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(_ context.Context, user *entity.User) {
					assert.Equal(t, "digest", user.PasswordHash)
					assert.Equal(t, "token", user.Token)
				}).
				Return(errors.New("connection reset"))

			_ = fn(factory)
		}).
		Return(errors.New("connection reset"))

	svc := NewUserService(UserServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenService: tokens,
		Locker:       noopLocker{},
		Publisher:    publisher,
		Logger:       newDiscardLogger(),
	})

	output, err := svc.RegisterUser(context.Background(), anaInput())

	assert.Nil(t, output)
	require.ErrorIs(t, err, domainerrors.ErrPersistenceFailure)
	publisher.AssertNotCalled(t, "PublishUserRegistered", mock.Anything, mock.Anything)
}

func TestUserService_RegisterUser_UniqueConstraintMapsToDuplicate(t *testing.T) {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)

	userRepo.EXPECT().ExistsByEmail(mock.Anything, "ana@test.cl").Return(false, nil)
	txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		Return(errors.Wrap(repository.ErrDuplicateEmail, "failed to create user"))

	fx := newMemoryFixtures(t, noopLocker{})
	fx.service.txManager = txManager
	fx.service.userRepo = userRepo

	_, err := fx.service.RegisterUser(context.Background(), anaInput())

	require.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
}

func TestUserService_RegisterUser_ExistenceCheckFailure(t *testing.T) {
	userRepo := mockRepo.NewMockUserRepository(t)
	userRepo.EXPECT().ExistsByEmail(mock.Anything, "ana@test.cl").Return(false, errors.New("timeout"))

	fx := newMemoryFixtures(t, nil)
	fx.service.userRepo = userRepo

	_, err := fx.service.RegisterUser(context.Background(), anaInput())

	require.ErrorIs(t, err, domainerrors.ErrPersistenceFailure)
	assert.Equal(t, 0, fx.store.Len())
}

func TestUserService_RegisterUser_LockFailure(t *testing.T) {
	locker := mockSvc.NewMockEmailLocker(t)
	locker.EXPECT().Lock(mock.Anything, "ana@test.cl").Return(nil, context.DeadlineExceeded)

	fx := newMemoryFixtures(t, locker)

	_, err := fx.service.RegisterUser(context.Background(), anaInput())

	require.ErrorIs(t, err, domainerrors.ErrPersistenceFailure)
	assert.Equal(t, 0, fx.store.Len())
}

func TestUserService_RegisterUser_PublishFailureDoesNotFailRegistration(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	publisher := mockSvc.NewMockEventPublisher(t)
	publisher.EXPECT().
		PublishUserRegistered(mock.Anything, mock.AnythingOfType("*service.UserRegisteredEvent")).
		Return(errors.New("broker down"))
	fx.service.publisher = publisher

	output, err := fx.service.RegisterUser(context.Background(), anaInput())

	require.NoError(t, err)
	assert.NotNil(t, output)
	assert.Equal(t, 1, fx.store.Len())
}

func TestUserService_RegisterUser_PublishesEvent(t *testing.T) {
	fx := newMemoryFixtures(t, nil)
	publisher := mockSvc.NewMockEventPublisher(t)
	var got *service.UserRegisteredEvent
	publisher.EXPECT().
		PublishUserRegistered(mock.Anything, mock.Anything).
		Run(func(_ context.Context, event *service.UserRegisteredEvent) { got = event }).
		Return(nil)
	fx.service.publisher = publisher

	ctx := deliverycontext.WithRequestID(context.Background(), "req-42")
	output, err := fx.service.RegisterUser(ctx, anaInput())
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "req-42", got.RequestID)
	assert.Equal(t, output.ID.String(), got.UserID)
	assert.Equal(t, "ana@test.cl", got.Email)
	assert.Equal(t, 1, got.PhoneCount)
	assert.Equal(t, output.Created, got.RegisteredAt)
}

func TestUserService_RegisterUser_ConcurrentSameEmail(t *testing.T) {
	lockers := map[string]service.EmailLocker{
		"with lock":         nil,
		"unique index only": noopLocker{},
	}

	for name, locker := range lockers {
		t.Run(name, func(t *testing.T) {
			fx := newMemoryFixtures(t, locker)

			const attempts = 8
			var (
				wg     sync.WaitGroup
				mu     sync.Mutex
				ok     int
				failed []error
			)
			for range attempts {
				wg.Add(1)
				go func() {
					defer wg.Done()
					input := anaInput()
					input.Email = "race@test.com"
					_, err := fx.service.RegisterUser(context.Background(), input)

					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						ok++
					} else {
						failed = append(failed, err)
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, ok)
			assert.Len(t, failed, attempts-1)
			for _, err := range failed {
				assert.ErrorIs(t, err, domainerrors.ErrDuplicateEmail)
			}
			assert.Equal(t, 1, fx.store.Len())
		})
	}
}
