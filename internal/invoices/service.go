package invoices

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

// Service guarantees the invoice bijection: one number per transaction, one
// transaction per number.
type Service struct {
	repo  Repository
	ids   *identifier.Service
	clock identifier.Clock
	logg  *logger.Logger
}

func NewService(repo Repository, ids *identifier.Service, clock identifier.Clock, logg *logger.Logger) *Service {
	if clock == nil {
		clock = identifier.SystemClock{}
	}
	return &Service{repo: repo, ids: ids, clock: clock, logg: logg}
}

// IssueTx allocates an invoice number and writes the immutable snapshot row
// inside the caller's transaction. Issuing twice for the same transaction
// fails with a conflict.
func (s *Service) IssueTx(ctx context.Context, tx *gorm.DB, txType enums.TransactionType, txID int64, snapshot Snapshot) (*models.Invoice, error) {
	if !txType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid transaction type").
			WithDetails(map[string]any{"transaction_type": txType})
	}
	if txID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}

	number, err := s.ids.NextInvoiceNumber(tx)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceNumber:   number,
		TransactionType: txType,
		TransactionID:   txID,
		CustomerName:    snapshot.CustomerName,
		CustomerPhone:   snapshot.CustomerPhone,
		StaffName:       snapshot.StaffName,
		ItemDescription: snapshot.ItemDescription,
		SubtotalCents:   snapshot.SubtotalCents,
		DiscountCents:   snapshot.DiscountCents,
		TotalCents:      snapshot.TotalCents,
		IssuedAt:        s.clock.Now().UTC(),
	}
	if err := s.repo.WithTx(tx).Create(ctx, invoice); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "transaction already invoiced").
				WithDetails(map[string]any{"transaction_type": txType, "transaction_id": txID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating invoice")
	}

	logCtx := s.logg.WithInvoiceNumber(ctx, invoice.InvoiceNumber)
	s.logg.Info(logCtx, "invoice issued")
	return invoice, nil
}

// Find returns the invoice for the given number.
func (s *Service) Find(ctx context.Context, number string) (*models.Invoice, error) {
	invoice, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading invoice")
	}
	return invoice, nil
}

// FindForTransaction returns the invoice issued for a specific transaction.
func (s *Service) FindForTransaction(ctx context.Context, txType enums.TransactionType, txID int64) (*models.Invoice, error) {
	invoice, err := s.repo.GetByTransaction(ctx, txType, txID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading invoice")
	}
	return invoice, nil
}
