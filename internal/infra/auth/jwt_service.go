package auth

import (
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"signup/config"
	"signup/internal/domain/service"
	"signup/internal/errors"
)

const (
	tokenTTL            = 24 * time.Hour
	generatedKeyLength  = 32
	minimumAccessKeyLen = 16
)

// jwtService is the HS256 implementation of TokenService. key is set once at
// construction and only read afterwards.
type jwtService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewJWTService builds the process-wide token issuer. Without a configured
// secretKey.access a random key is generated here, so tokens are then only
// verifiable by this process.
func NewJWTService(cfg *config.Config, logger *slog.Logger) (service.TokenService, error) {
	key := []byte(cfg.SecretKey.Access)
	if len(key) == 0 {
		generated, err := generateKey()
		if err != nil {
			return nil, err
		}
		key = generated
		logger.Warn("No access secret configured, using a per-process signing key")
	} else if len(key) < minimumAccessKeyLen {
		return nil, errors.Errorf("access secret must be at least %d bytes", minimumAccessKeyLen)
	}

	return newJWTService(key, tokenTTL, time.Now), nil
}

func newJWTService(key []byte, ttl time.Duration, now func() time.Time) *jwtService {
	return &jwtService{key: key, ttl: ttl, now: now}
}

func generateKey() ([]byte, error) {
	key := make([]byte, generatedKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, errors.Wrap(err, "generate signing key")
	}

	return key, nil
}

// Issue signs a token whose subject is the given claim.
func (s *jwtService) Issue(subject string) (string, error) {
	issuedAt := s.now()
	claims := service.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify parses tokenString, rejecting anything not signed with HS256 by this key.
func (s *jwtService) Verify(tokenString string) (*service.Claims, error) {
	claims := &service.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

func (s *jwtService) TTL() time.Duration {
	return s.ttl
}
