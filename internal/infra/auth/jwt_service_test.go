package auth

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"signup/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAccessSecret = "test_access_secret_key_very_long_for_testing"

func newTestConfig(secret string) *config.Config {
	return &config.Config{
		SecretKey: config.SecretKeyConfig{Access: secret},
		Auth:      &config.AuthConfig{Hasher: config.HasherBcrypt},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig(testAccessSecret), discardLogger())
	require.NoError(t, err)

	before := time.Now().Truncate(time.Second)
	token, err := tokenService.Issue("u@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := tokenService.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u@example.com", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.False(t, claims.IssuedAt.Before(before))
	assert.Equal(t, 24*time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
	assert.Equal(t, 24*time.Hour, tokenService.TTL())
}

func TestJWTService_TamperedPayloadFails(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig(testAccessSecret), discardLogger())
	require.NoError(t, err)

	token, err := tokenService.Issue("u@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip one byte at a time across the whole signed payload.
	signed := parts[0] + "." + parts[1]
	for i := range len(signed) {
		if signed[i] == '.' {
			continue
		}
		tampered := []byte(signed)
		tampered[i] = flipBase64URL(tampered[i])

		_, err := tokenService.Verify(string(tampered) + "." + parts[2])
		assert.Error(t, err, "tampering byte %d must fail verification", i)
	}
}

func TestJWTService_TamperedSignatureFails(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig(testAccessSecret), discardLogger())
	require.NoError(t, err)

	token, err := tokenService.Issue("u@example.com")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	sig[0] = flipBase64URL(sig[0])

	_, err = tokenService.Verify(parts[0] + "." + parts[1] + "." + string(sig))
	assert.Error(t, err)
}

func TestJWTService_OtherKeyFails(t *testing.T) {
	issuer, err := NewJWTService(newTestConfig(testAccessSecret), discardLogger())
	require.NoError(t, err)
	verifier, err := NewJWTService(newTestConfig("another_secret_key_that_is_long_enough"), discardLogger())
	require.NoError(t, err)

	token, err := issuer.Issue("u@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredTokenFails(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	tokenService := newJWTService([]byte(testAccessSecret), time.Hour, func() time.Time { return clock })

	token, err := tokenService.Issue("u@example.com")
	require.NoError(t, err)

	clock = issuedAt.Add(59 * time.Minute)
	_, err = tokenService.Verify(token)
	require.NoError(t, err)

	clock = issuedAt.Add(61 * time.Minute)
	_, err = tokenService.Verify(token)
	assert.Error(t, err)
}

func TestJWTService_GeneratedKeyIsStableForProcess(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig(""), discardLogger())
	require.NoError(t, err)

	first, err := tokenService.Issue("a@example.com")
	require.NoError(t, err)
	second, err := tokenService.Issue("b@example.com")
	require.NoError(t, err)

	_, err = tokenService.Verify(first)
	assert.NoError(t, err)
	_, err = tokenService.Verify(second)
	assert.NoError(t, err)

	other, err := NewJWTService(newTestConfig(""), discardLogger())
	require.NoError(t, err)
	_, err = other.Verify(first)
	assert.Error(t, err)
}

func TestJWTService_ShortSecretRejected(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig("short"), discardLogger())
	assert.Error(t, err)
	assert.Nil(t, tokenService)
}

func TestJWTService_InvalidToken(t *testing.T) {
	tokenService, err := NewJWTService(newTestConfig(testAccessSecret), discardLogger())
	require.NoError(t, err)

	claims, err := tokenService.Verify("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

// flipBase64URL swaps c for a different character of the base64url alphabet.
func flipBase64URL(c byte) byte {
	if c == 'A' {
		return 'B'
	}

	return 'A'
}
