// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.uber.org/fx"

	deliverycontext "signup/internal/delivery/context"
	"signup/internal/domain/entity"
	domainerrors "signup/internal/domain/errors"
	"signup/internal/domain/repository"
	"signup/internal/domain/service"
	"signup/internal/errors"
	"signup/internal/usecase"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	locker       service.EmailLocker
	publisher    service.EventPublisher
	logger       *slog.Logger
	now          func() time.Time
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	Locker       service.EmailLocker
	Publisher    service.EventPublisher
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		locker:       params.Locker,
		publisher:    params.Publisher,
		logger:       params.Logger,
		now:          time.Now,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser checks that the email is free, then that it is well formed,
// and stores the new user with its phones and a fresh session token in one
// write. The email stays locked from the check until the write completes.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	email := entity.CanonicalEmail(input.Email)
	logger := srv.log(ctx).With(slog.String("email", email))
	logger.Info("Starting registration")

	unlock, err := srv.locker.Lock(ctx, email)
	if err != nil {
		logger.Error("Failed to lock email", slog.Any("error", err))

		return nil, domainerrors.ErrPersistenceFailure.WithDetails(err.Error())
	}
	defer unlock()

	exists, err := srv.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		logger.Error("Failed to check email uniqueness", slog.Any("error", err))

		return nil, domainerrors.ErrPersistenceFailure.WithDetails(err.Error())
	}
	if exists {
		logger.Info("Registration rejected, email already registered")

		return nil, domainerrors.ErrDuplicateEmail
	}

	if !entity.IsValidEmail(email) {
		logger.Info("Registration rejected, malformed email")

		return nil, domainerrors.ErrInvalidEmailFormat
	}

	user, err := srv.buildUser(input, email)
	if err != nil {
		logger.Error("Failed to build user", slog.Any("error", err))

		return nil, err
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.UserRepo().Save(ctx, user)
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		logger.Info("Registration rejected by unique email constraint")

		return nil, domainerrors.ErrDuplicateEmail
	}
	if err != nil {
		logger.Error("Failed to save user", slog.Any("error", err))

		return nil, domainerrors.ErrPersistenceFailure.WithDetails(err.Error())
	}

	logger.Info("User registered", slog.String("user_id", user.ID.String()), slog.Int("phones", len(user.Phones)))
	srv.publishRegistered(ctx, user)

	return &usecase.RegisterOutput{
		ID:        user.ID,
		Created:   user.CreatedAt,
		Modified:  user.UpdatedAt,
		LastLogin: user.LastLoginAt,
		Token:     user.Token,
		IsActive:  user.IsActive,
	}, nil
}

// buildUser assembles the record to store. A single instant is used for
// every timestamp.
func (srv *userService) buildUser(input *usecase.RegisterUserInput, email string) (*entity.User, error) {
	digest, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailure.WithDetails(err.Error())
	}

	token, err := srv.tokenService.Issue(email)
	if err != nil {
		return nil, domainerrors.ErrTokenIssuanceFailure.WithDetails(err.Error())
	}

	id := uuid.New()
	now := srv.now().UTC()

	phones := make([]*entity.Phone, 0, len(input.Phones))
	for _, p := range input.Phones {
		phones = append(phones, &entity.Phone{
			UserID:      id,
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}

	return &entity.User{
		ID:           id,
		Name:         input.Name,
		Email:        email,
		PasswordHash: digest,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
		IsActive:     true,
		Token:        token,
		Phones:       phones,
	}, nil
}

// publishRegistered announces a committed registration. Failures are logged
// only since the user is already stored.
func (srv *userService) publishRegistered(ctx context.Context, user *entity.User) {
	event := &service.UserRegisteredEvent{
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
		UserID:       user.ID.String(),
		Email:        user.Email,
		PhoneCount:   len(user.Phones),
		RegisteredAt: user.CreatedAt,
	}

	if err := srv.publisher.PublishUserRegistered(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish user registered event",
			slog.String("user_id", event.UserID),
			slog.Any("error", err),
		)
	}
}
