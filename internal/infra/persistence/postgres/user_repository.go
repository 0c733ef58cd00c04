package postgres

import (
	"context"

	"gorm.io/gorm"

	"signup/internal/domain/entity"
	"signup/internal/domain/repository"
	"signup/internal/errors"
	"signup/internal/infra/persistence/model"
)

// userRepository implements repository.UserRepository using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a GORM-backed User Store. Pass a transaction to
// bind it to that transaction.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// ExistsByEmail reports whether any user has exactly this email.
func (repo *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("email = ?", email).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, "failed to check user email")
	}

	return count > 0, nil
}

// FindByEmail retrieves a single user by their email address, preloading phones.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Preload("Phones", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("email = ?", email).
		First(&userM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// Save inserts the user and its phones. GORM creates the associations in the
// same statement batch, so run it inside TransactionManager.Execute to make
// the write atomic.
func (repo *userRepository) Save(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		switch {
		case isUniqueConstraintViolation(err):
			return errors.Wrapf(repository.ErrDuplicateEmail, "constraint %s", pgConstraintName(err))
		case isNotNullConstraintViolation(err), isCheckConstraintViolation(err):
			return errors.Wrap(err, "user record violates a column constraint")
		case isForeignKeyConstraintViolation(err):
			return errors.Wrap(err, "phone references an unknown user")
		default:
			return errors.Wrap(err, "failed to save user")
		}
	}

	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt
	for i, phoneM := range userM.Phones {
		if i < len(user.Phones) {
			user.Phones[i].ID = phoneM.ID
			user.Phones[i].UserID = phoneM.UserID
		}
	}

	return nil
}

// --- Mapper Functions ---

func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	phones := make([]*entity.Phone, 0, len(data.Phones))
	for _, p := range data.Phones {
		phones = append(phones, &entity.Phone{
			ID:          p.ID,
			UserID:      p.UserID,
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}

	return &entity.User{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
		LastLoginAt:  data.LastLoginAt,
		IsActive:     data.IsActive,
		Token:        data.Token,
		Phones:       phones,
	}
}

func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	phones := make([]*model.PhoneModel, 0, len(data.Phones))
	for _, p := range data.Phones {
		phones = append(phones, &model.PhoneModel{
			UserID:      data.ID,
			Number:      p.Number,
			CityCode:    p.CityCode,
			CountryCode: p.CountryCode,
		})
	}

	return &model.UserModel{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Token:        data.Token,
		IsActive:     data.IsActive,
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
		LastLoginAt:  data.LastLoginAt,
		Phones:       phones,
	}
}
