package resales

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
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

func setupResalesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:resalestest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	pendingResales := `
CREATE TABLE IF NOT EXISTS pending_resales (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  transaction_type TEXT NOT NULL,
  swap_id INTEGER UNIQUE,
  sale_id INTEGER UNIQUE,
  customer_id INTEGER NOT NULL,
  staff_id INTEGER NOT NULL,
  outgoing_phone_id INTEGER NOT NULL,
  outgoing_phone_value_cents INTEGER NOT NULL,
  outgoing_phone_status TEXT NOT NULL,
  incoming_phone_id INTEGER,
  incoming_phone_value_cents INTEGER,
  incoming_phone_status TEXT,
  balance_paid_cents INTEGER NOT NULL,
  discount_cents INTEGER NOT NULL,
  final_price_cents INTEGER NOT NULL,
  profit_status TEXT NOT NULL,
  profit_amount_cents INTEGER,
  resale_value_cents INTEGER,
  transaction_date DATETIME NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	sequences := `
CREATE TABLE IF NOT EXISTS id_sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`
	require.NoError(t, db.Exec(pendingResales).Error)
	require.NoError(t, db.Exec(sequences).Error)
	require.NoError(t, db.Exec("DELETE FROM pending_resales").Error)
	require.NoError(t, db.Exec("DELETE FROM id_sequences").Error)

	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	clock := fixedClock{now: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)}
	ids := identifier.NewService(identifier.NewRepository(), clock, config.IdentifierConfig{MaxAttempts: 5})
	logg := logger.New(logger.Options{ServiceName: "resales-test"})
	return NewService(NewRepository(db), ids, logg)
}

func testSale(id int64, amountPaid int64) *models.Sale {
	return &models.Sale{
		ID:                 id,
		CustomerID:         1,
		PhoneID:            10,
		OriginalPriceCents: amountPaid,
		DiscountCents:      0,
		AmountPaidCents:    amountPaid,
		CreatedByID:        2,
		CreatedAt:          time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}
}

func testSwap(id int64) *models.Swap {
	return &models.Swap{
		ID:                    id,
		CustomerID:            1,
		NewPhoneID:            10,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		BalancePaidCents:      45000,
		DiscountCents:         5000,
		FinalPriceCents:       40000,
		ResaleStatus:          enums.ResaleStatusPending,
		CreatedByID:           2,
		CreatedAt:             time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}
}

func TestRecordForSaleComputesProfit(t *testing.T) {
	db := setupResalesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	phone := &models.Phone{ID: 10, CostPriceCents: 50000}
	sale := testSale(1, 60000)

	var row *models.PendingResale
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = svc.RecordForSaleTx(ctx, tx, sale, phone)
		return err
	}))

	assert.Equal(t, "PRSL-0001", row.PublicID)
	assert.Equal(t, enums.TransactionTypeDirectSale, row.TransactionType)
	assert.Equal(t, enums.ProfitStatusProfitMade, row.ProfitStatus)
	require.NotNil(t, row.ProfitAmountCents)
	assert.Equal(t, int64(10000), *row.ProfitAmountCents)
	require.NotNil(t, row.ResaleValueCents)
	assert.Equal(t, int64(60000), *row.ResaleValueCents)
	assert.Equal(t, enums.PhoneStatusSold, row.OutgoingPhoneStatus)
	assert.Nil(t, row.IncomingPhoneID)
}

func TestRecordForSaleBreakEvenIsLoss(t *testing.T) {
	db := setupResalesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	phone := &models.Phone{ID: 10, CostPriceCents: 60000}
	sale := testSale(2, 60000)

	var row *models.PendingResale
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = svc.RecordForSaleTx(ctx, tx, sale, phone)
		return err
	}))

	assert.Equal(t, enums.ProfitStatusLoss, row.ProfitStatus)
	require.NotNil(t, row.ProfitAmountCents)
	assert.Equal(t, int64(0), *row.ProfitAmountCents)
}

func TestRecordForSaleIdempotent(t *testing.T) {
	db := setupResalesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	phone := &models.Phone{ID: 10, CostPriceCents: 50000}
	sale := testSale(3, 60000)

	var first, second *models.PendingResale
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		first, err = svc.RecordForSaleTx(ctx, tx, sale, phone)
		return err
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		second, err = svc.RecordForSaleTx(ctx, tx, sale, phone)
		return err
	}))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PublicID, second.PublicID)

	var count int64
	require.NoError(t, db.Model(&models.PendingResale{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRecordForSwapOpensPendingRow(t *testing.T) {
	db := setupResalesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	newPhone := &models.Phone{ID: 10, CostPriceCents: 50000}
	tradeIn := &models.Phone{ID: 11, CostPriceCents: 20000}
	swap := testSwap(1)

	var row *models.PendingResale
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = svc.RecordForSwapTx(ctx, tx, swap, newPhone, tradeIn)
		return err
	}))

	assert.Equal(t, enums.TransactionTypeSwap, row.TransactionType)
	assert.Equal(t, enums.PhoneStatusSwapped, row.OutgoingPhoneStatus)
	require.NotNil(t, row.IncomingPhoneStatus)
	assert.Equal(t, enums.PhoneStatusAvailable, *row.IncomingPhoneStatus)
	require.NotNil(t, row.IncomingPhoneValueCents)
	assert.Equal(t, int64(20000), *row.IncomingPhoneValueCents)
	assert.Equal(t, enums.ProfitStatusPending, row.ProfitStatus)
	require.NotNil(t, row.ResaleValueCents)
	assert.Equal(t, int64(0), *row.ResaleValueCents)
	assert.Equal(t, int64(40000), row.FinalPriceCents)
}

func TestCloseChainSettlesMirrorRow(t *testing.T) {
	db := setupResalesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	newPhone := &models.Phone{ID: 10, CostPriceCents: 50000}
	tradeIn := &models.Phone{ID: 11, CostPriceCents: 20000}
	swap := testSwap(2)

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := svc.RecordForSwapTx(ctx, tx, swap, newPhone, tradeIn)
		return err
	}))
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return svc.CloseChainTx(ctx, tx, swap.ID, 25000, 5000, enums.PhoneStatusSold)
	}))

	row, err := svc.GetBySwapID(ctx, swap.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.ProfitStatusProfitMade, row.ProfitStatus)
	require.NotNil(t, row.ResaleValueCents)
	assert.Equal(t, int64(25000), *row.ResaleValueCents)
	require.NotNil(t, row.ProfitAmountCents)
	assert.Equal(t, int64(5000), *row.ProfitAmountCents)
	require.NotNil(t, row.IncomingPhoneStatus)
	assert.Equal(t, enums.PhoneStatusSold, *row.IncomingPhoneStatus)
}

func TestListFiltersByProfitStatus(t *testing.T) {
	db := setupResalesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.RecordForSaleTx(ctx, tx, testSale(4, 60000), &models.Phone{ID: 10, CostPriceCents: 50000}); err != nil {
			return err
		}
		_, err := svc.RecordForSwapTx(ctx, tx, testSwap(3), &models.Phone{ID: 12, CostPriceCents: 50000}, &models.Phone{ID: 13, CostPriceCents: 20000})
		return err
	}))

	pending := enums.ProfitStatusPending
	rows, err := svc.List(ctx, ListFilter{ProfitStatus: &pending})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, enums.TransactionTypeSwap, rows[0].TransactionType)
}
