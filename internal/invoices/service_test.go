package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func setupInvoicesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:invoicestest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	invoices := `
CREATE TABLE IF NOT EXISTS invoices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  invoice_number TEXT NOT NULL UNIQUE,
  transaction_type TEXT NOT NULL,
  transaction_id INTEGER NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  staff_name TEXT NOT NULL,
  item_description TEXT NOT NULL,
  subtotal_cents INTEGER NOT NULL,
  discount_cents INTEGER NOT NULL,
  total_cents INTEGER NOT NULL,
  issued_at DATETIME NOT NULL,
  created_at DATETIME,
  UNIQUE (transaction_type, transaction_id)
);`
	sequences := `
CREATE TABLE IF NOT EXISTS id_sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(invoices).Error)
	require.NoError(t, db.Exec(sequences).Error)
	require.NoError(t, db.Exec("DELETE FROM invoices").Error)
	require.NoError(t, db.Exec("DELETE FROM id_sequences").Error)

	return db
}

func newTestService(t *testing.T, db *gorm.DB, now time.Time) *Service {
	t.Helper()

	clock := fixedClock{now: now}
	ids := identifier.NewService(identifier.NewRepository(), clock, config.IdentifierConfig{MaxAttempts: 5})
	logg := logger.New(logger.Options{ServiceName: "invoices-test"})
	return NewService(NewRepository(db), ids, clock, logg)
}

func testSnapshot() Snapshot {
	return Snapshot{
		CustomerName:    "Abena Owusu",
		CustomerPhone:   "0244000001",
		StaffName:       "Kofi",
		ItemDescription: "Samsung Galaxy S21",
		SubtotalCents:   60000,
		DiscountCents:   0,
		TotalCents:      60000,
	}
}

func TestIssueAndFind(t *testing.T) {
	db := setupInvoicesTestDB(t)
	now := time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC)
	svc := newTestService(t, db, now)
	ctx := context.Background()

	invoice, err := svc.IssueTx(ctx, db, enums.TransactionTypeDirectSale, 1, testSnapshot())
	require.NoError(t, err)
	assert.Equal(t, "INV-20240615103045", invoice.InvoiceNumber)
	assert.Equal(t, now, invoice.IssuedAt)

	found, err := svc.Find(ctx, invoice.InvoiceNumber)
	require.NoError(t, err)
	assert.Equal(t, "Abena Owusu", found.CustomerName)
	assert.Equal(t, int64(60000), found.TotalCents)
}

func TestIssueTwiceForSameTransactionConflicts(t *testing.T) {
	db := setupInvoicesTestDB(t)
	svc := newTestService(t, db, time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC))
	ctx := context.Background()

	_, err := svc.IssueTx(ctx, db, enums.TransactionTypeSwap, 7, testSnapshot())
	require.NoError(t, err)

	_, err = svc.IssueTx(ctx, db, enums.TransactionTypeSwap, 7, testSnapshot())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func TestSameSecondInvoicesGetUniqueNumbers(t *testing.T) {
	db := setupInvoicesTestDB(t)
	svc := newTestService(t, db, time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC))
	ctx := context.Background()

	first, err := svc.IssueTx(ctx, db, enums.TransactionTypeDirectSale, 1, testSnapshot())
	require.NoError(t, err)
	second, err := svc.IssueTx(ctx, db, enums.TransactionTypeDirectSale, 2, testSnapshot())
	require.NoError(t, err)

	assert.NotEqual(t, first.InvoiceNumber, second.InvoiceNumber)
	assert.Equal(t, "INV-20240615103045-1", second.InvoiceNumber)
}

func TestFindUnknownInvoice(t *testing.T) {
	db := setupInvoicesTestDB(t)
	svc := newTestService(t, db, time.Now())

	_, err := svc.Find(context.Background(), "INV-19700101000000")
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
