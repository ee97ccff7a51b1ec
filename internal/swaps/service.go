package swaps

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/customers"
	"github.com/gyamfidev/phoneshop-backend/internal/invoices"
	"github.com/gyamfidev/phoneshop-backend/internal/phones"
	"github.com/gyamfidev/phoneshop-backend/internal/resales"
	"github.com/gyamfidev/phoneshop-backend/internal/staff"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
	"github.com/gyamfidev/phoneshop-backend/pkg/outbox"
	"github.com/gyamfidev/phoneshop-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the swap engine. It executes the sale and swap commands as
// single transactions spanning the phone registry, the pending-resale ledger,
// the chain linker and the invoice service.
type Service struct {
	repo      Repository
	phones    *phones.Service
	customers customers.Repository
	staff     staff.Repository
	ledger    *resales.Service
	invoices  *invoices.Service
	events    *outbox.Service
	tx        txRunner
	logg      *logger.Logger
}

func NewService(
	repo Repository,
	phoneSvc *phones.Service,
	customerRepo customers.Repository,
	staffRepo staff.Repository,
	ledger *resales.Service,
	invoiceSvc *invoices.Service,
	events *outbox.Service,
	tx txRunner,
	logg *logger.Logger,
) *Service {
	return &Service{
		repo:      repo,
		phones:    phoneSvc,
		customers: customerRepo,
		staff:     staffRepo,
		ledger:    ledger,
		invoices:  invoiceSvc,
		events:    events,
		tx:        tx,
		logg:      logg,
	}
}

// RecordDirectSale sells an in-stock phone for cash. When the phone arrived
// through an earlier swap, the same transaction also closes that swap's
// resale chain.
func (s *Service) RecordDirectSale(ctx context.Context, input RecordDirectSaleInput) (*SaleResult, error) {
	if err := validateDirectSale(input); err != nil {
		return nil, err
	}
	amountPaid := input.OriginalPriceCents - input.DiscountCents

	var result SaleResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customer, staffUser, err := s.loadPartiesTx(ctx, tx, input.CustomerID, input.StaffID)
		if err != nil {
			return err
		}

		phone, err := s.loadPhoneTx(ctx, tx, input.PhoneID)
		if err != nil {
			return err
		}
		if phone.Status != enums.PhoneStatusAvailable {
			return pkgerrors.New(pkgerrors.CodePhoneNotAvailable, "phone is not available for sale").
				WithDetails(map[string]any{"phone_id": phone.PublicID, "status": phone.Status})
		}

		sale := &models.Sale{
			CustomerID:         input.CustomerID,
			PhoneID:            phone.ID,
			OriginalPriceCents: input.OriginalPriceCents,
			DiscountCents:      input.DiscountCents,
			AmountPaidCents:    amountPaid,
			ContactPhone:       input.ContactPhone,
			ContactEmail:       input.ContactEmail,
			CreatedByID:        input.StaffID,
		}
		if err := s.repo.WithTx(tx).CreateSale(ctx, sale); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating sale")
		}

		if err := s.phones.TransitionTx(ctx, tx, phone, enums.PhoneStatusSold, enums.OwnershipReasonSale); err != nil {
			return err
		}
		txType := enums.TransactionTypeDirectSale
		if err := s.phones.SetOwnerTx(ctx, tx, phone, enums.OwnerTypeCustomer, &input.CustomerID, enums.OwnershipReasonSale, &txType, &sale.ID); err != nil {
			return err
		}

		if _, err := s.ledger.RecordForSaleTx(ctx, tx, sale, phone); err != nil {
			return err
		}
		if err := s.closeChainForSaleTx(ctx, tx, phone, sale); err != nil {
			return err
		}

		invoice, err := s.invoices.IssueTx(ctx, tx, enums.TransactionTypeDirectSale, sale.ID, invoices.Snapshot{
			CustomerName:    customer.Name,
			CustomerPhone:   customer.PhoneNumber,
			StaffName:       staffUser.Name,
			ItemDescription: phone.Brand + " " + phone.Model,
			SubtotalCents:   input.OriginalPriceCents,
			DiscountCents:   input.DiscountCents,
			TotalCents:      amountPaid,
		})
		if err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).SetSaleInvoiceNumber(ctx, sale.ID, invoice.InvoiceNumber); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stamping sale invoice")
		}
		sale.InvoiceNumber = &invoice.InvoiceNumber

		if s.events != nil {
			err := s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventSaleRecorded,
				AggregateType: enums.AggregateSale,
				AggregateID:   strconv.FormatInt(sale.ID, 10),
				Version:       1,
				Data: payloads.SaleRecordedEvent{
					SaleID:          sale.ID,
					CustomerID:      sale.CustomerID,
					PhoneID:         sale.PhoneID,
					AmountPaidCents: sale.AmountPaidCents,
					DiscountCents:   sale.DiscountCents,
					InvoiceNumber:   invoice.InvoiceNumber,
					ContactPhone:    sale.ContactPhone,
					ContactEmail:    sale.ContactEmail,
				},
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing sale event")
			}
		}

		result = SaleResult{Sale: sale, Phone: phone, Invoice: invoice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"sale_id": result.Sale.ID,
		"phone":   result.Phone.PublicID,
		"invoice": result.Invoice.InvoiceNumber,
	})
	s.logg.Info(logCtx, "direct sale recorded")
	return &result, nil
}

// RecordSwap takes in a trade-in phone plus cash for an in-stock phone. When
// the outgoing phone itself arrived through an earlier swap, the same
// transaction closes that chain as a re-swap.
func (s *Service) RecordSwap(ctx context.Context, input RecordSwapInput) (*SwapResult, error) {
	if err := validateSwap(input); err != nil {
		return nil, err
	}
	finalPrice := input.BalancePaidCents - input.DiscountCents
	if finalPrice < 0 {
		finalPrice = 0
	}

	var result SwapResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		customer, staffUser, err := s.loadPartiesTx(ctx, tx, input.CustomerID, input.StaffID)
		if err != nil {
			return err
		}

		newPhone, err := s.loadPhoneTx(ctx, tx, input.NewPhoneID)
		if err != nil {
			return err
		}
		if newPhone.Status != enums.PhoneStatusAvailable {
			return pkgerrors.New(pkgerrors.CodePhoneNotAvailable, "phone is not available for swap").
				WithDetails(map[string]any{"phone_id": newPhone.PublicID, "status": newPhone.Status})
		}
		if !newPhone.IsSwappable {
			return pkgerrors.New(pkgerrors.CodePhoneNotSwappable, "phone may not be swapped out").
				WithDetails(map[string]any{"phone_id": newPhone.PublicID})
		}

		returning, err := s.checkTradeInIMEITx(ctx, tx, input)
		if err != nil {
			return err
		}

		if err := s.phones.TransitionTx(ctx, tx, newPhone, enums.PhoneStatusSwapped, enums.OwnershipReasonSwap); err != nil {
			return err
		}

		swap := &models.Swap{
			CustomerID:            input.CustomerID,
			NewPhoneID:            newPhone.ID,
			GivenPhoneDescription: strings.TrimSpace(input.GivenPhoneDescription),
			GivenPhoneValueCents:  input.GivenPhoneValueCents,
			GivenPhoneIMEI:        input.GivenPhoneIMEI,
			BalancePaidCents:      input.BalancePaidCents,
			DiscountCents:         input.DiscountCents,
			FinalPriceCents:       finalPrice,
			ResaleStatus:          enums.ResaleStatusPending,
			CreatedByID:           input.StaffID,
		}
		if err := s.repo.WithTx(tx).CreateSwap(ctx, swap); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating swap")
		}

		txType := enums.TransactionTypeSwap
		if err := s.phones.SetOwnerTx(ctx, tx, newPhone, enums.OwnerTypeCustomer, &input.CustomerID, enums.OwnershipReasonSwap, &txType, &swap.ID); err != nil {
			return err
		}

		tradeIn, err := s.stockTradeInTx(ctx, tx, input, returning, swap.ID)
		if err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).SetSwapGivenPhone(ctx, swap.ID, tradeIn.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking trade-in phone")
		}
		swap.GivenPhoneID = &tradeIn.ID

		if _, err := s.ledger.RecordForSwapTx(ctx, tx, swap, newPhone, tradeIn); err != nil {
			return err
		}
		if err := s.closeChainForSwapTx(ctx, tx, newPhone, swap); err != nil {
			return err
		}

		invoice, err := s.invoices.IssueTx(ctx, tx, enums.TransactionTypeSwap, swap.ID, invoices.Snapshot{
			CustomerName:    customer.Name,
			CustomerPhone:   customer.PhoneNumber,
			StaffName:       staffUser.Name,
			ItemDescription: newPhone.Brand + " " + newPhone.Model,
			SubtotalCents:   input.BalancePaidCents,
			DiscountCents:   input.DiscountCents,
			TotalCents:      finalPrice,
		})
		if err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).SetSwapInvoiceNumber(ctx, swap.ID, invoice.InvoiceNumber); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stamping swap invoice")
		}
		swap.InvoiceNumber = &invoice.InvoiceNumber

		if s.events != nil {
			err := s.events.Emit(ctx, tx, outbox.DomainEvent{
				EventType:     enums.EventSwapRecorded,
				AggregateType: enums.AggregateSwap,
				AggregateID:   strconv.FormatInt(swap.ID, 10),
				Version:       1,
				Data: payloads.SwapRecordedEvent{
					SwapID:                swap.ID,
					CustomerID:            swap.CustomerID,
					NewPhoneID:            swap.NewPhoneID,
					GivenPhoneID:          swap.GivenPhoneID,
					GivenPhoneValueCents:  swap.GivenPhoneValueCents,
					BalancePaidCents:      swap.BalancePaidCents,
					FinalPriceCents:       swap.FinalPriceCents,
					InvoiceNumber:         invoice.InvoiceNumber,
					GivenPhoneDescription: swap.GivenPhoneDescription,
				},
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing swap event")
			}
		}

		result = SwapResult{Swap: swap, Phone: newPhone, TradeIn: tradeIn, Invoice: invoice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"swap_id":   result.Swap.ID,
		"new_phone": result.Phone.PublicID,
		"trade_in":  result.TradeIn.PublicID,
		"invoice":   result.Invoice.InvoiceNumber,
	})
	s.logg.Info(logCtx, "swap recorded")
	return &result, nil
}

// checkTradeInIMEITx resolves the trade-in IMEI against the registry. An
// unknown IMEI is fine; a known one must currently belong to the swapping
// customer, and the existing row is then re-stocked instead of duplicated.
func (s *Service) checkTradeInIMEITx(ctx context.Context, tx *gorm.DB, input RecordSwapInput) (*models.Phone, error) {
	if input.GivenPhoneIMEI == nil || strings.TrimSpace(*input.GivenPhoneIMEI) == "" {
		return nil, nil
	}
	existing, err := s.phones.Repo().WithTx(tx).GetByIMEI(ctx, strings.TrimSpace(*input.GivenPhoneIMEI))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up trade-in imei")
	}
	if existing.CurrentOwnerType != enums.OwnerTypeCustomer ||
		existing.CurrentOwnerID == nil ||
		*existing.CurrentOwnerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeImeiOwnership, "trade-in imei belongs to a different customer").
			WithDetails(map[string]any{"imei": *input.GivenPhoneIMEI})
	}
	return existing, nil
}

func (s *Service) stockTradeInTx(ctx context.Context, tx *gorm.DB, input RecordSwapInput, returning *models.Phone, swapID int64) (*models.Phone, error) {
	if returning != nil {
		if err := s.phones.RestockTradeInTx(ctx, tx, returning, input.GivenPhoneValueCents, swapID); err != nil {
			return nil, err
		}
		return returning, nil
	}

	tradeIn, err := s.phones.RegisterTradeInTx(ctx, tx, phones.RegisterTradeInInput{
		Description:        input.GivenPhoneDescription,
		IMEI:               input.GivenPhoneIMEI,
		AcceptedValueCents: input.GivenPhoneValueCents,
	})
	if err != nil {
		return nil, err
	}
	if err := s.phones.Repo().WithTx(tx).SetSwappedFrom(ctx, tradeIn.ID, swapID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "linking trade-in to swap")
	}
	tradeIn.SwappedFromID = &swapID
	return tradeIn, nil
}

func (s *Service) loadPartiesTx(ctx context.Context, tx *gorm.DB, customerID, staffID int64) (*models.Customer, *models.StaffUser, error) {
	customer, err := s.customers.WithTx(tx).GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	staffUser, err := s.staff.WithTx(tx).GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff user not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading staff user")
	}
	return customer, staffUser, nil
}

func (s *Service) loadPhoneTx(ctx context.Context, tx *gorm.DB, phoneID int64) (*models.Phone, error) {
	phone, err := s.phones.Repo().WithTx(tx).GetByID(ctx, phoneID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "phone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading phone")
	}
	return phone, nil
}

// GetSwap returns one swap by id.
func (s *Service) GetSwap(ctx context.Context, id int64) (*models.Swap, error) {
	swap, err := s.repo.GetSwapByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "swap not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading swap")
	}
	return swap, nil
}

// GetSale returns one sale by id.
func (s *Service) GetSale(ctx context.Context, id int64) (*models.Sale, error) {
	sale, err := s.repo.GetSaleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sale")
	}
	return sale, nil
}

func (s *Service) ListSwaps(ctx context.Context, filter ListSwapsFilter) ([]models.Swap, error) {
	rows, err := s.repo.ListSwaps(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing swaps")
	}
	return rows, nil
}

func (s *Service) ListSales(ctx context.Context, filter ListSalesFilter) ([]models.Sale, error) {
	rows, err := s.repo.ListSales(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sales")
	}
	return rows, nil
}

func validateDirectSale(input RecordDirectSaleInput) error {
	if input.CustomerID <= 0 || input.PhoneID <= 0 || input.StaffID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer, phone and staff are required")
	}
	if input.OriginalPriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "original price must not be negative")
	}
	if input.DiscountCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	if input.DiscountCents > input.OriginalPriceCents {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must not exceed the original price")
	}
	return nil
}

func validateSwap(input RecordSwapInput) error {
	if input.CustomerID <= 0 || input.NewPhoneID <= 0 || input.StaffID <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer, phone and staff are required")
	}
	if strings.TrimSpace(input.GivenPhoneDescription) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "trade-in description is required")
	}
	if input.GivenPhoneValueCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "trade-in value must not be negative")
	}
	if input.BalancePaidCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "balance paid must not be negative")
	}
	if input.DiscountCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount must not be negative")
	}
	return nil
}
