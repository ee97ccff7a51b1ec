package customers

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

func setupCustomersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:customerstest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  email TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	sequences := `
CREATE TABLE IF NOT EXISTS id_sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(sequences).Error)
	require.NoError(t, db.Exec("DELETE FROM customers").Error)
	require.NoError(t, db.Exec("DELETE FROM id_sequences").Error)

	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	ids := identifier.NewService(identifier.NewRepository(), nil, config.IdentifierConfig{MaxAttempts: 5})
	logg := logger.New(logger.Options{ServiceName: "customers-test"})
	return NewService(NewRepository(db), ids, testTxRunner{db: db}, logg)
}

func TestCreateCustomerAssignsSequentialIDs(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	first, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Abena", PhoneNumber: "0244000001"})
	require.NoError(t, err)
	assert.Equal(t, "CUST-0001", first.PublicID)

	second, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Kwame", PhoneNumber: "0244000002"})
	require.NoError(t, err)
	assert.Equal(t, "CUST-0002", second.PublicID)
}

func TestCreateCustomerRequiresNameAndPhone(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.CreateCustomer(context.Background(), CreateCustomerInput{Name: "  ", PhoneNumber: ""})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestGetCustomerNotFound(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.GetCustomer(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestListCustomersFiltersByPhone(t *testing.T) {
	db := setupCustomersTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	_, err := svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Abena", PhoneNumber: "0244000001"})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(ctx, CreateCustomerInput{Name: "Kwame", PhoneNumber: "0244000002"})
	require.NoError(t, err)

	rows, err := svc.ListCustomers(ctx, ListCustomersFilter{PhoneNumber: "0244000002"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Kwame", rows[0].Name)
}
