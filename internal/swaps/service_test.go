package swaps

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/customers"
	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	"github.com/gyamfidev/phoneshop-backend/internal/invoices"
	"github.com/gyamfidev/phoneshop-backend/internal/phones"
	"github.com/gyamfidev/phoneshop-backend/internal/resales"
	"github.com/gyamfidev/phoneshop-backend/internal/staff"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{14}(-\d+)?$`)

type testTxRunner struct {
	db *gorm.DB
}

func (r testTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupSwapsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:swapstest?mode=memory&cache=shared"), &gorm.Config{})
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
		`CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  phone_number TEXT NOT NULL,
  email TEXT,
  address TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS staff_users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  public_id TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  username TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS swaps (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  new_phone_id INTEGER NOT NULL,
  given_phone_description TEXT NOT NULL,
  given_phone_value_cents INTEGER NOT NULL,
  given_phone_imei TEXT,
  given_phone_id INTEGER,
  balance_paid_cents INTEGER NOT NULL,
  discount_cents INTEGER NOT NULL,
  final_price_cents INTEGER NOT NULL,
  resale_status TEXT NOT NULL,
  resale_value_cents INTEGER,
  profit_or_loss_cents INTEGER,
  linked_to_resale_id INTEGER,
  invoice_number TEXT,
  created_by_id INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS sales (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  customer_id INTEGER NOT NULL,
  phone_id INTEGER NOT NULL,
  original_price_cents INTEGER NOT NULL,
  discount_cents INTEGER NOT NULL,
  amount_paid_cents INTEGER NOT NULL,
  contact_phone TEXT,
  contact_email TEXT,
  receipt_sent INTEGER NOT NULL DEFAULT 0,
  invoice_number TEXT,
  created_by_id INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS pending_resales (
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
);`,
		`CREATE TABLE IF NOT EXISTS invoices (
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
	for _, table := range []string{
		"phones", "phone_ownership_history", "customers", "staff_users",
		"swaps", "sales", "pending_resales", "invoices", "repair_tickets", "id_sequences",
	} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}

	return db
}

type engineFixture struct {
	db     *gorm.DB
	engine *Service
	phones *phones.Service
	ledger *resales.Service
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db := setupSwapsTestDB(t)
	logg := logger.New(logger.Options{ServiceName: "swaps-test"})
	ids := identifier.NewService(identifier.NewRepository(), nil, config.IdentifierConfig{MaxAttempts: 5})
	tx := testTxRunner{db: db}

	phoneSvc := phones.NewService(phones.NewRepository(db), ids, tx, nil, logg)
	ledger := resales.NewService(resales.NewRepository(db), ids, logg)
	invoiceSvc := invoices.NewService(invoices.NewRepository(db), ids, nil, logg)

	engine := NewService(
		NewRepository(db),
		phoneSvc,
		customers.NewRepository(db),
		staff.NewRepository(db),
		ledger,
		invoiceSvc,
		nil,
		tx,
		logg,
	)
	return &engineFixture{db: db, engine: engine, phones: phoneSvc, ledger: ledger}
}

func (f *engineFixture) seedCustomer(t *testing.T, name string) *models.Customer {
	t.Helper()

	customer := &models.Customer{PublicID: "CUST-" + name, Name: name, PhoneNumber: "024" + name}
	require.NoError(t, f.db.Create(customer).Error)
	return customer
}

func (f *engineFixture) seedStaff(t *testing.T, name string) *models.StaffUser {
	t.Helper()

	user := &models.StaffUser{
		PublicID:     "STF-" + name,
		Name:         name,
		Username:     name,
		PasswordHash: "x",
		Role:         enums.StaffRoleSales,
		Active:       true,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *engineFixture) stockPhone(t *testing.T, cost, value int64) *models.Phone {
	t.Helper()

	phone, err := f.phones.RegisterPhone(context.Background(), phones.RegisterPhoneInput{
		Brand:          "Samsung",
		Model:          "Galaxy S21",
		Condition:      enums.PhoneConditionNew,
		CostPriceCents: &cost,
		ValueCents:     &value,
		IsSwappable:    true,
	})
	require.NoError(t, err)
	return phone
}

func TestDirectSaleProfit(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c1")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 40000, 60000)

	result, err := f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         customer.ID,
		PhoneID:            phone.ID,
		OriginalPriceCents: 60000,
		DiscountCents:      0,
		StaffID:            staffUser.ID,
	})
	require.NoError(t, err)

	sold, err := f.phones.GetPhone(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PhoneStatusSold, sold.Status)
	assert.Equal(t, enums.OwnerTypeCustomer, sold.CurrentOwnerType)
	require.NotNil(t, sold.CurrentOwnerID)
	assert.Equal(t, customer.ID, *sold.CurrentOwnerID)

	assert.Equal(t, int64(60000), result.Sale.AmountPaidCents)
	assert.Regexp(t, invoiceNumberPattern, result.Invoice.InvoiceNumber)
	require.NotNil(t, result.Sale.InvoiceNumber)
	assert.Equal(t, result.Invoice.InvoiceNumber, *result.Sale.InvoiceNumber)

	row, err := f.ledger.GetBySaleID(ctx, result.Sale.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.TransactionTypeDirectSale, row.TransactionType)
	assert.Equal(t, enums.ProfitStatusProfitMade, row.ProfitStatus)
	require.NotNil(t, row.ProfitAmountCents)
	assert.Equal(t, int64(20000), *row.ProfitAmountCents)
}

func TestDirectSaleLoss(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c1")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 50000, 45000)

	result, err := f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         customer.ID,
		PhoneID:            phone.ID,
		OriginalPriceCents: 40000,
		DiscountCents:      0,
		StaffID:            staffUser.ID,
	})
	require.NoError(t, err)

	row, err := f.ledger.GetBySaleID(ctx, result.Sale.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.ProfitStatusLoss, row.ProfitStatus)
	require.NotNil(t, row.ProfitAmountCents)
	assert.Equal(t, int64(-10000), *row.ProfitAmountCents)
}

func TestSwapOpensPendingChain(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c2")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 30000, 50000)

	result, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		NewPhoneID:            phone.ID,
		BalancePaidCents:      30000,
		DiscountCents:         0,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)

	swapped, err := f.phones.GetPhone(ctx, phone.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PhoneStatusSwapped, swapped.Status)

	tradeIn := result.TradeIn
	assert.Equal(t, enums.PhoneStatusAvailable, tradeIn.Status)
	assert.Equal(t, enums.OwnerTypeShop, tradeIn.CurrentOwnerType)
	assert.Equal(t, int64(20000), tradeIn.CostPriceCents)
	require.NotNil(t, tradeIn.SwappedFromID)
	assert.Equal(t, result.Swap.ID, *tradeIn.SwappedFromID)

	assert.Equal(t, int64(30000), result.Swap.FinalPriceCents)
	assert.Equal(t, enums.ResaleStatusPending, result.Swap.ResaleStatus)

	row, err := f.ledger.GetBySwapID(ctx, result.Swap.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	require.NotNil(t, row.IncomingPhoneStatus)
	assert.Equal(t, enums.PhoneStatusAvailable, *row.IncomingPhoneStatus)
	assert.Equal(t, enums.ProfitStatusPending, row.ProfitStatus)
}

func TestDirectResaleClosesChainWithProfit(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c2")
	buyer := f.seedCustomer(t, "c3")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 30000, 50000)

	swapResult, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		NewPhoneID:            phone.ID,
		BalancePaidCents:      30000,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)

	_, err = f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         buyer.ID,
		PhoneID:            swapResult.TradeIn.ID,
		OriginalPriceCents: 25000,
		StaffID:            staffUser.ID,
	})
	require.NoError(t, err)

	origin, err := f.engine.GetSwap(ctx, swapResult.Swap.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ResaleStatusSold, origin.ResaleStatus)
	require.NotNil(t, origin.ResaleValueCents)
	assert.Equal(t, int64(25000), *origin.ResaleValueCents)
	require.NotNil(t, origin.ProfitOrLossCents)
	assert.Equal(t, int64(5000), *origin.ProfitOrLossCents)

	row, err := f.ledger.GetBySwapID(ctx, origin.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, enums.ProfitStatusProfitMade, row.ProfitStatus)
	require.NotNil(t, row.ProfitAmountCents)
	assert.Equal(t, int64(5000), *row.ProfitAmountCents)
	require.NotNil(t, row.IncomingPhoneStatus)
	assert.Equal(t, enums.PhoneStatusSold, *row.IncomingPhoneStatus)
}

func TestReswapClosesChainViaLink(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c2")
	next := f.seedCustomer(t, "c4")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 30000, 50000)

	first, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		NewPhoneID:            phone.ID,
		BalancePaidCents:      30000,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)

	second, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            next.ID,
		GivenPhoneDescription: "Y Classic",
		GivenPhoneValueCents:  10000,
		NewPhoneID:            first.TradeIn.ID,
		BalancePaidCents:      15000,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), second.Swap.FinalPriceCents)

	origin, err := f.engine.GetSwap(ctx, first.Swap.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ResaleStatusSwappedAgain, origin.ResaleStatus)
	require.NotNil(t, origin.LinkedToResaleID)
	assert.Equal(t, second.Swap.ID, *origin.LinkedToResaleID)
	require.NotNil(t, origin.ResaleValueCents)
	assert.Equal(t, int64(25000), *origin.ResaleValueCents)
	require.NotNil(t, origin.ProfitOrLossCents)
	assert.Equal(t, int64(5000), *origin.ProfitOrLossCents)
}

func TestSecondSaleOfSamePhoneFails(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c1")
	other := f.seedCustomer(t, "c5")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 40000, 60000)

	input := RecordDirectSaleInput{
		CustomerID:         customer.ID,
		PhoneID:            phone.ID,
		OriginalPriceCents: 60000,
		StaffID:            staffUser.ID,
	}
	_, err := f.engine.RecordDirectSale(ctx, input)
	require.NoError(t, err)

	input.CustomerID = other.ID
	_, err = f.engine.RecordDirectSale(ctx, input)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodePhoneNotAvailable))

	var saleCount, invoiceCount, ledgerCount int64
	require.NoError(t, f.db.Model(&models.Sale{}).Count(&saleCount).Error)
	require.NoError(t, f.db.Model(&models.Invoice{}).Count(&invoiceCount).Error)
	require.NoError(t, f.db.Model(&models.PendingResale{}).Count(&ledgerCount).Error)
	assert.Equal(t, int64(1), saleCount)
	assert.Equal(t, int64(1), invoiceCount)
	assert.Equal(t, int64(1), ledgerCount)
}

func TestResoldTradeInStaysClosed(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c2")
	buyer := f.seedCustomer(t, "c3")
	late := f.seedCustomer(t, "c6")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 30000, 50000)

	swapResult, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		NewPhoneID:            phone.ID,
		BalancePaidCents:      30000,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)

	_, err = f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         buyer.ID,
		PhoneID:            swapResult.TradeIn.ID,
		OriginalPriceCents: 25000,
		StaffID:            staffUser.ID,
	})
	require.NoError(t, err)

	_, err = f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         late.ID,
		PhoneID:            swapResult.TradeIn.ID,
		OriginalPriceCents: 25000,
		StaffID:            staffUser.ID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodePhoneNotAvailable))

	origin, err := f.engine.GetSwap(ctx, swapResult.Swap.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ResaleStatusSold, origin.ResaleStatus)
	require.NotNil(t, origin.ResaleValueCents)
	assert.Equal(t, int64(25000), *origin.ResaleValueCents)
}

func TestSwapRejectsForeignTradeInIMEI(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	owner := f.seedCustomer(t, "c1")
	swapper := f.seedCustomer(t, "c2")
	staffUser := f.seedStaff(t, "s1")

	imei := "356938035643809"
	cost, value := int64(40000), int64(60000)
	ownedPhone, err := f.phones.RegisterPhone(ctx, phones.RegisterPhoneInput{
		Brand:          "Apple",
		Model:          "iPhone 12",
		IMEI:           &imei,
		Condition:      enums.PhoneConditionUsed,
		CostPriceCents: &cost,
		ValueCents:     &value,
		IsSwappable:    true,
	})
	require.NoError(t, err)
	_, err = f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         owner.ID,
		PhoneID:            ownedPhone.ID,
		OriginalPriceCents: 60000,
		StaffID:            staffUser.ID,
	})
	require.NoError(t, err)

	stock := f.stockPhone(t, 30000, 50000)
	_, err = f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            swapper.ID,
		GivenPhoneDescription: "Apple iPhone 12",
		GivenPhoneValueCents:  20000,
		GivenPhoneIMEI:        &imei,
		NewPhoneID:            stock.ID,
		BalancePaidCents:      30000,
		StaffID:               staffUser.ID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeImeiOwnership))
}

func TestSwapRestocksReturningCustomerPhone(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c1")
	staffUser := f.seedStaff(t, "s1")

	imei := "356938035643810"
	cost, value := int64(40000), int64(60000)
	ownedPhone, err := f.phones.RegisterPhone(ctx, phones.RegisterPhoneInput{
		Brand:          "Apple",
		Model:          "iPhone 12",
		IMEI:           &imei,
		Condition:      enums.PhoneConditionUsed,
		CostPriceCents: &cost,
		ValueCents:     &value,
		IsSwappable:    true,
	})
	require.NoError(t, err)
	_, err = f.engine.RecordDirectSale(ctx, RecordDirectSaleInput{
		CustomerID:         customer.ID,
		PhoneID:            ownedPhone.ID,
		OriginalPriceCents: 60000,
		StaffID:            staffUser.ID,
	})
	require.NoError(t, err)

	stock := f.stockPhone(t, 30000, 50000)
	result, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Apple iPhone 12",
		GivenPhoneValueCents:  20000,
		GivenPhoneIMEI:        &imei,
		NewPhoneID:            stock.ID,
		BalancePaidCents:      30000,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)

	assert.Equal(t, ownedPhone.ID, result.TradeIn.ID)
	restocked, err := f.phones.GetPhone(ctx, ownedPhone.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PhoneStatusAvailable, restocked.Status)
	assert.Equal(t, enums.OwnerTypeShop, restocked.CurrentOwnerType)
	assert.Nil(t, restocked.CurrentOwnerID)
	assert.Equal(t, int64(20000), restocked.CostPriceCents)
	require.NotNil(t, restocked.SwappedFromID)
	assert.Equal(t, result.Swap.ID, *restocked.SwappedFromID)
}

func TestSwapRequiresSwappablePhone(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c1")
	staffUser := f.seedStaff(t, "s1")

	cost, value := int64(30000), int64(50000)
	phone, err := f.phones.RegisterPhone(ctx, phones.RegisterPhoneInput{
		Brand:          "Samsung",
		Model:          "Galaxy S21",
		Condition:      enums.PhoneConditionNew,
		CostPriceCents: &cost,
		ValueCents:     &value,
		IsSwappable:    false,
	})
	require.NoError(t, err)

	_, err = f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		NewPhoneID:            phone.ID,
		BalancePaidCents:      30000,
		StaffID:               staffUser.ID,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodePhoneNotSwappable))
}

func TestDirectSaleRejectsDiscountAbovePrice(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.RecordDirectSale(context.Background(), RecordDirectSaleInput{
		CustomerID:         1,
		PhoneID:            1,
		OriginalPriceCents: 10000,
		DiscountCents:      20000,
		StaffID:            1,
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestSwapDiscountAboveBalanceFloorsFinalPrice(t *testing.T) {
	f := newEngineFixture(t)
	ctx := context.Background()
	customer := f.seedCustomer(t, "c1")
	staffUser := f.seedStaff(t, "s1")
	phone := f.stockPhone(t, 30000, 50000)

	result, err := f.engine.RecordSwap(ctx, RecordSwapInput{
		CustomerID:            customer.ID,
		GivenPhoneDescription: "Old X",
		GivenPhoneValueCents:  20000,
		NewPhoneID:            phone.ID,
		BalancePaidCents:      10000,
		DiscountCents:         15000,
		StaffID:               staffUser.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Swap.FinalPriceCents)
}
