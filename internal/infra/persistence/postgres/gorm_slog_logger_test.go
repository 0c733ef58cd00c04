package postgres

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"signup/config"
	deliverycontext "signup/internal/delivery/context"
	"signup/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	secretDigest = "$2a$10$DIGESTDIGEST"
	secretToken  = "eyJSECRETTOKEN"
)

// newDryRunDB builds statements without a server so the logger sees the
// exact SQL a real INSERT would produce.
func newDryRunDB(t *testing.T, l logger.Interface) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN: "host=localhost user=signup dbname=signup sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               l,
	})
	require.NoError(t, err)

	return db
}

func newSecretUser() *entity.User {
	now := time.Now().UTC()

	return &entity.User{
		ID:           uuid.New(),
		Name:         "Ana",
		Email:        "ana@test.cl",
		PasswordHash: secretDigest,
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
		IsActive:     true,
		Token:        secretToken,
		Phones:       []*entity.Phone{{Number: "12345678", CityCode: "1", CountryCode: "56"}},
	}
}

func newBufferedGormLogger(debug bool) (*bytes.Buffer, logger.Interface) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	cfg := &config.Config{}
	cfg.Env.Debug = debug

	return &buf, newGormSlogLogger(base, cfg)
}

func TestGormSlogLogger_ErrorCarriesRequestID(t *testing.T) {
	buf, l := newBufferedGormLogger(false)
	ctx := deliverycontext.WithRequestID(context.Background(), "req-1")

	l.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT INTO users", 0 }, errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "GORM query failed")
	assert.Contains(t, out, "request_id=req-1")
	assert.Contains(t, out, "error=boom")
}

func TestGormSlogLogger_IgnoresRecordNotFound(t *testing.T) {
	buf, l := newBufferedGormLogger(false)

	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT", 0 }, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestGormSlogLogger_QueriesOnlyInDebug(t *testing.T) {
	buf, l := newBufferedGormLogger(false)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Empty(t, buf.String())

	buf, l = newBufferedGormLogger(true)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	assert.Contains(t, buf.String(), "GORM query")
}

func TestGormSlogLogger_SlowQuery(t *testing.T) {
	buf, l := newBufferedGormLogger(false)

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT pg_sleep(1)", 1 }, nil)

	assert.Contains(t, buf.String(), "GORM slow query")
}

func TestGormSlogLogger_ParamsFilterDropsValues(t *testing.T) {
	_, l := newBufferedGormLogger(true)
	filter, ok := l.(gorm.ParamsFilter)
	require.True(t, ok)

	sql, params := filter.ParamsFilter(context.Background(), "INSERT INTO users (password_hash) VALUES ($1)", secretDigest)

	assert.Equal(t, "INSERT INTO users (password_hash) VALUES ($1)", sql)
	assert.Empty(t, params)
}

func TestGormSlogLogger_DebugInsertKeepsSecretsOut(t *testing.T) {
	buf, l := newBufferedGormLogger(true)
	db := newDryRunDB(t, l)

	require.NoError(t, NewUserRepository(db).Save(context.Background(), newSecretUser()))

	out := buf.String()
	assert.Contains(t, out, `INSERT INTO \"users\"`)
	assert.NotContains(t, out, secretDigest)
	assert.NotContains(t, out, secretToken)
}

func TestGormSlogLogger_FailedInsertKeepsSecretsOut(t *testing.T) {
	buf, l := newBufferedGormLogger(false)
	db := newDryRunDB(t, l)
	err := db.Callback().Create().After("gorm:create").Register("test:fail_insert", func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("connection reset"))
	})
	require.NoError(t, err)

	require.Error(t, NewUserRepository(db).Save(context.Background(), newSecretUser()))

	out := buf.String()
	assert.Contains(t, out, "GORM query failed")
	assert.Contains(t, out, `INSERT INTO \"users\"`)
	assert.NotContains(t, out, secretDigest)
	assert.NotContains(t, out, secretToken)
}
