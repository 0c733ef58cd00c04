package auth

import (
	"signup/config"
	"signup/internal/domain/service"
	"signup/internal/errors"
)

// NewPasswordHasher selects the Credential Hasher named by auth.hasher.
func NewPasswordHasher(cfg *config.Config) (service.PasswordHasher, error) {
	if cfg.Auth == nil {
		return NewBcryptHasher(), nil
	}

	switch cfg.Auth.Hasher {
	case config.HasherBcrypt, "":
		if cfg.Auth.BcryptCost == 0 {
			return NewBcryptHasher(), nil
		}

		return NewBcryptHasherWithCost(cfg.Auth.BcryptCost), nil
	case config.HasherArgon2id:
		return NewArgon2idHasher(), nil
	default:
		return nil, errors.Errorf("unknown password hasher: %s", cfg.Auth.Hasher)
	}
}
