package resales

import (
	"context"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	dbpkg "github.com/gyamfidev/phoneshop-backend/pkg/db"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

// Service is the pending-resale ledger: one flat row per transaction, written
// by the swap engine and closed by the chain linker. Clients only ever query.
type Service struct {
	repo Repository
	ids  *identifier.Service
	logg *logger.Logger
}

func NewService(repo Repository, ids *identifier.Service, logg *logger.Logger) *Service {
	return &Service{repo: repo, ids: ids, logg: logg}
}

// RecordForSaleTx mirrors a direct sale into the ledger. Re-invocation for
// the same sale is a no-op thanks to the unique sale_id column.
func (s *Service) RecordForSaleTx(ctx context.Context, tx *gorm.DB, sale *models.Sale, phone *models.Phone) (*models.PendingResale, error) {
	repo := s.repo.WithTx(tx)

	existing, err := repo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking ledger row")
	}
	if existing != nil {
		return existing, nil
	}

	profit := sale.AmountPaidCents - phone.CostPriceCents
	profitStatus := enums.ProfitStatusLoss
	if profit > 0 {
		profitStatus = enums.ProfitStatusProfitMade
	}

	publicID, err := s.ids.NextResaleID(tx)
	if err != nil {
		return nil, err
	}

	saleID := sale.ID
	resaleValue := sale.AmountPaidCents
	row := &models.PendingResale{
		PublicID:                publicID,
		TransactionType:         enums.TransactionTypeDirectSale,
		SaleID:                  &saleID,
		CustomerID:              sale.CustomerID,
		StaffID:                 sale.CreatedByID,
		OutgoingPhoneID:         phone.ID,
		OutgoingPhoneValueCents: sale.AmountPaidCents,
		OutgoingPhoneStatus:     enums.PhoneStatusSold,
		BalancePaidCents:        sale.AmountPaidCents,
		DiscountCents:           sale.DiscountCents,
		FinalPriceCents:         sale.AmountPaidCents,
		ProfitStatus:            profitStatus,
		ProfitAmountCents:       &profit,
		ResaleValueCents:        &resaleValue,
		TransactionDate:         sale.CreatedAt,
	}
	if err := repo.Create(ctx, row); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return repo.GetBySaleID(ctx, sale.ID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating ledger row")
	}
	return row, nil
}

// RecordForSwapTx mirrors a swap into the ledger with the trade-in side still
// open. Re-invocation for the same swap is a no-op.
func (s *Service) RecordForSwapTx(ctx context.Context, tx *gorm.DB, swap *models.Swap, newPhone, tradeIn *models.Phone) (*models.PendingResale, error) {
	repo := s.repo.WithTx(tx)

	existing, err := repo.GetBySwapID(ctx, swap.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking ledger row")
	}
	if existing != nil {
		return existing, nil
	}

	publicID, err := s.ids.NextResaleID(tx)
	if err != nil {
		return nil, err
	}

	swapID := swap.ID
	zero := int64(0)
	incomingStatus := enums.PhoneStatusAvailable
	row := &models.PendingResale{
		PublicID:                publicID,
		TransactionType:         enums.TransactionTypeSwap,
		SwapID:                  &swapID,
		CustomerID:              swap.CustomerID,
		StaffID:                 swap.CreatedByID,
		OutgoingPhoneID:         newPhone.ID,
		OutgoingPhoneValueCents: swap.FinalPriceCents,
		OutgoingPhoneStatus:     enums.PhoneStatusSwapped,
		IncomingPhoneID:         &tradeIn.ID,
		IncomingPhoneValueCents: &swap.GivenPhoneValueCents,
		IncomingPhoneStatus:     &incomingStatus,
		BalancePaidCents:        swap.BalancePaidCents,
		DiscountCents:           swap.DiscountCents,
		FinalPriceCents:         swap.FinalPriceCents,
		ProfitStatus:            enums.ProfitStatusPending,
		ProfitAmountCents:       &zero,
		ResaleValueCents:        &zero,
		TransactionDate:         swap.CreatedAt,
	}
	if err := repo.Create(ctx, row); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return repo.GetBySwapID(ctx, swap.ID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating ledger row")
	}
	return row, nil
}

// CloseChainTx settles the mirror row for a swap whose trade-in phone has now
// left inventory.
func (s *Service) CloseChainTx(ctx context.Context, tx *gorm.DB, swapID int64, resaleValueCents, profitAmountCents int64, incomingStatus enums.PhoneStatus) error {
	profitStatus := enums.ProfitStatusForAmount(profitAmountCents)
	err := s.repo.WithTx(tx).CloseChain(ctx, swapID, resaleValueCents, profitAmountCents, profitStatus, incomingStatus)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing ledger chain")
	}
	return nil
}

// GetBySwapID returns the mirror row for a swap, or nil if absent.
func (s *Service) GetBySwapID(ctx context.Context, swapID int64) (*models.PendingResale, error) {
	row, err := s.repo.GetBySwapID(ctx, swapID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ledger row")
	}
	return row, nil
}

// GetBySaleID returns the mirror row for a sale, or nil if absent.
func (s *Service) GetBySaleID(ctx context.Context, saleID int64) (*models.PendingResale, error) {
	row, err := s.repo.GetBySaleID(ctx, saleID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ledger row")
	}
	return row, nil
}

// List returns a filtered page of ledger rows.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.PendingResale, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing ledger rows")
	}
	return rows, nil
}
