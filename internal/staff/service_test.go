package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupStaffTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:stafftest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS staff_users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	sequences := `
CREATE TABLE IF NOT EXISTS id_sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(sequences).Error)
	require.NoError(t, db.Exec("DELETE FROM staff_users").Error)
	require.NoError(t, db.Exec("DELETE FROM id_sequences").Error)

	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "phoneshop-test", ExpirationMinutes: 30}
	// Low-cost Argon2 params keep the test quick.
	passCfg := config.PasswordConfig{ArgonMemoryKB: 8, ArgonTime: 1, ArgonParallelism: 1, ArgonSaltLen: 8, ArgonKeyLen: 16}
	ids := identifier.NewService(identifier.NewRepository(), nil, config.IdentifierConfig{MaxAttempts: 5})
	logg := logger.New(logger.Options{ServiceName: "staff-test"})

	return NewService(NewRepository(db), ids, testTxRunner{db: db}, jwtCfg, passCfg, logg)
}

func TestCreateStaffAndLogin(t *testing.T) {
	db := setupStaffTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, CreateStaffInput{
		Name:     "Ama Mensah",
		Username: "Ama.Mensah",
		Password: "correct-horse-battery",
		Role:     "sales",
	})
	require.NoError(t, err)
	assert.Equal(t, "STF-0001", created.PublicID)
	assert.Equal(t, "ama.mensah", created.Username)
	assert.NotEqual(t, "correct-horse-battery", created.PasswordHash)

	result, err := svc.Login(ctx, LoginInput{Username: "AMA.MENSAH", Password: "correct-horse-battery"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, created.ID, result.Staff.ID)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	db := setupStaffTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, CreateStaffInput{
		Name:     "Kofi",
		Username: "kofi",
		Password: "super-secret-pass",
		Role:     "manager",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginInput{Username: "kofi", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	db := setupStaffTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	created, err := svc.CreateStaff(ctx, CreateStaffInput{
		Name:     "Yaw",
		Username: "yaw",
		Password: "super-secret-pass",
		Role:     "sales",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, created.ID))

	_, err = svc.Login(ctx, LoginInput{Username: "yaw", Password: "super-secret-pass"})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func TestCreateStaffDuplicateUsername(t *testing.T) {
	db := setupStaffTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, CreateStaffInput{
		Name:     "First",
		Username: "shared",
		Password: "super-secret-pass",
		Role:     "sales",
	})
	require.NoError(t, err)

	_, err = svc.CreateStaff(ctx, CreateStaffInput{
		Name:     "Second",
		Username: "shared",
		Password: "super-secret-pass",
		Role:     "sales",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}
