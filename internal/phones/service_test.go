package phones

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupPhonesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:phonestest?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS phones (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  imei TEXT UNIQUE,
  category TEXT,
  condition TEXT NOT NULL,
  status TEXT NOT NULL,
  cost_price_cents INTEGER NOT NULL,
  value_cents INTEGER,
  is_available INTEGER NOT NULL,
  is_swappable INTEGER NOT NULL,
  current_owner_type TEXT NOT NULL,
  current_owner_id INTEGER,
  swapped_from_id INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS phone_ownership_history (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  phone_id INTEGER NOT NULL,
  owner_type TEXT NOT NULL,
  owner_id INTEGER,
  reason TEXT NOT NULL,
  transaction_type TEXT,
  transaction_id INTEGER,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS repair_tickets (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  tracking_code TEXT NOT NULL UNIQUE,
  phone_id INTEGER NOT NULL,
  customer_id INTEGER,
  issue TEXT NOT NULL,
  returned_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS id_sequences (
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);`,
	}
	for _, stmt := range stmts {
		require.NoError(t, db.Exec(stmt).Error)
	}
	for _, table := range []string{"phones", "phone_ownership_history", "repair_tickets", "id_sequences"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	return db
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()

	ids := identifier.NewService(identifier.NewRepository(), nil, config.IdentifierConfig{MaxAttempts: 5})
	logg := logger.New(logger.Options{ServiceName: "phones-test"})
	return NewService(NewRepository(db), ids, testTxRunner{db: db}, nil, logg)
}

func registerTestPhone(t *testing.T, svc *Service, cost int64, value int64) *models.Phone {
	t.Helper()

	phone, err := svc.RegisterPhone(context.Background(), RegisterPhoneInput{
		Brand:          "Samsung",
		Model:          "Galaxy S21",
		Condition:      enums.PhoneConditionUsed,
		CostPriceCents: &cost,
		ValueCents:     &value,
		IsSwappable:    true,
	})
	require.NoError(t, err)
	return phone
}

func TestRegisterPhoneDefaults(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)

	phone := registerTestPhone(t, svc, 40000, 60000)
	assert.Equal(t, "PHON-0001", phone.PublicID)
	assert.Equal(t, enums.PhoneStatusAvailable, phone.Status)
	assert.True(t, phone.IsAvailable)
	assert.Equal(t, enums.OwnerTypeShop, phone.CurrentOwnerType)

	history, err := svc.GetOwnershipHistory(context.Background(), phone.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, enums.OwnershipReasonRegistered, history[0].Reason)
}

func TestRegisterPhoneRequiresCostPrice(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)

	_, err := svc.RegisterPhone(context.Background(), RegisterPhoneInput{
		Brand:     "Samsung",
		Model:     "A12",
		Condition: enums.PhoneConditionNew,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestRegisterTradeInUsesAcceptedValueAsCost(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)

	var tradeIn *models.Phone
	err := testTxRunner{db: db}.WithTx(context.Background(), func(tx *gorm.DB) error {
		phone, err := svc.RegisterTradeInTx(context.Background(), tx, RegisterTradeInInput{
			Description:        "Old X",
			AcceptedValueCents: 20000,
		})
		if err != nil {
			return err
		}
		tradeIn = phone
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), tradeIn.CostPriceCents)
	assert.Equal(t, "Old", tradeIn.Brand)
	assert.Equal(t, "X", tradeIn.Model)
	assert.Equal(t, enums.PhoneStatusAvailable, tradeIn.Status)
	assert.True(t, tradeIn.IsSwappable)
}

func TestTransitionTable(t *testing.T) {
	allStatuses := []enums.PhoneStatus{
		enums.PhoneStatusAvailable,
		enums.PhoneStatusSwapped,
		enums.PhoneStatusSold,
		enums.PhoneStatusUnderRepair,
	}
	reasonsByPair := map[[2]enums.PhoneStatus]enums.OwnershipReason{
		{enums.PhoneStatusAvailable, enums.PhoneStatusSwapped}:     enums.OwnershipReasonSwap,
		{enums.PhoneStatusAvailable, enums.PhoneStatusSold}:        enums.OwnershipReasonSale,
		{enums.PhoneStatusAvailable, enums.PhoneStatusUnderRepair}: enums.OwnershipReasonRepair,
		{enums.PhoneStatusUnderRepair, enums.PhoneStatusAvailable}: enums.OwnershipReasonRepairCompleted,
	}

	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			if from == to {
				continue
			}
			reason, legal := reasonsByPair[[2]enums.PhoneStatus{from, to}]
			if !legal {
				reason = enums.OwnershipReasonSale
			}

			phone := registerTestPhone(t, svc, 10000, 20000)
			require.NoError(t, db.Exec("UPDATE phones SET status = ?, is_available = ? WHERE id = ?",
				from, from == enums.PhoneStatusAvailable, phone.ID).Error)
			phone.Status = from

			err := testTxRunner{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
				return svc.TransitionTx(ctx, tx, phone, to, reason)
			})
			if legal {
				require.NoError(t, err, "expected %s -> %s to be legal", from, to)
			} else {
				require.Error(t, err, "expected %s -> %s to be illegal", from, to)
				assert.True(t, pkgerrors.Is(err, pkgerrors.CodeIllegalTransition), "%s -> %s", from, to)
			}
		}
	}
}

func TestSwappedToAvailableRejected(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	phone := registerTestPhone(t, svc, 10000, 20000)
	require.NoError(t, db.Exec("UPDATE phones SET status = 'SWAPPED', is_available = 0 WHERE id = ?", phone.ID).Error)
	phone.Status = enums.PhoneStatusSwapped

	err := testTxRunner{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
		return svc.TransitionTx(ctx, tx, phone, enums.PhoneStatusAvailable, enums.OwnershipReasonResaleReturn)
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeIllegalTransition))
}

func TestTransitionLoserGetsPhoneNotAvailable(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	phone := registerTestPhone(t, svc, 10000, 20000)

	// Both commands loaded the phone as AVAILABLE; the CAS serializes them.
	firstView := *phone
	secondView := *phone

	err := testTxRunner{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
		return svc.TransitionTx(ctx, tx, &firstView, enums.PhoneStatusSold, enums.OwnershipReasonSale)
	})
	require.NoError(t, err)

	err = testTxRunner{db: db}.WithTx(ctx, func(tx *gorm.DB) error {
		return svc.TransitionTx(ctx, tx, &secondView, enums.PhoneStatusSold, enums.OwnershipReasonSale)
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodePhoneNotAvailable))
}

func TestRepairRoundTrip(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)
	ctx := context.Background()

	phone := registerTestPhone(t, svc, 10000, 20000)

	ticket, err := svc.MarkUnderRepair(ctx, MarkUnderRepairInput{PhoneID: phone.ID, Issue: "cracked screen"})
	require.NoError(t, err)
	assert.Regexp(t, `^REP-\d{8}-\d{4}$`, ticket.TrackingCode)
	assert.Equal(t, "REP-0001", ticket.PublicID)

	current, err := svc.GetPhone(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PhoneStatusUnderRepair, current.Status)
	assert.Equal(t, enums.OwnerTypeRepair, current.CurrentOwnerType)

	returned, err := svc.ReturnPhoneFromRepair(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PhoneStatusAvailable, returned.Status)
	assert.Equal(t, enums.OwnerTypeShop, returned.CurrentOwnerType)

	open, err := NewRepository(db).GetOpenRepairTicket(ctx, phone.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	history, err := svc.GetOwnershipHistory(ctx, phone.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, enums.OwnershipReasonRepairCompleted, history[2].Reason)
}

func TestGetByIMEIMissReturnsNil(t *testing.T) {
	db := setupPhonesTestDB(t)
	svc := newTestService(t, db)

	phone, err := svc.GetByIMEI(context.Background(), "000000000000000")
	require.NoError(t, err)
	assert.Nil(t, phone)
}
