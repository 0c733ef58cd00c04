package auth

import (
	"github.com/alexedwards/argon2id"

	"signup/internal/domain/service"
	"signup/internal/errors"
)

// argon2idHasher implements PasswordHasher with argon2id, encoding digests in
// the PHC string format so parameters travel with the hash.
type argon2idHasher struct {
	params *argon2id.Params
}

// NewArgon2idHasher returns an argon2id hasher with argon2id.DefaultParams.
func NewArgon2idHasher() service.PasswordHasher {
	return NewArgon2idHasherWithParams(argon2id.DefaultParams)
}

// NewArgon2idHasherWithParams returns an argon2id hasher with explicit cost parameters.
func NewArgon2idHasherWithParams(params *argon2id.Params) service.PasswordHasher {
	return &argon2idHasher{params: params}
}

func (h *argon2idHasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", errors.Wrap(err, "argon2id hash")
	}

	return hash, nil
}

func (h *argon2idHasher) Check(password, hash string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, hash)

	return err == nil && match
}
