package swaps

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/outbox"
	"github.com/gyamfidev/phoneshop-backend/pkg/outbox/payloads"
)

// The chain linker closes the resale side of an earlier swap when its
// trade-in phone leaves inventory again. Both close paths share the enclosing
// transaction of the resale command, so a rollback leaves the chain open.

// closeChainForSaleTx settles the originating swap of a phone that was just
// sold outright. A phone with no originating swap closes nothing.
func (s *Service) closeChainForSaleTx(ctx context.Context, tx *gorm.DB, outgoing *models.Phone, sale *models.Sale) error {
	if outgoing.SwappedFromID == nil {
		return nil
	}
	resaleValue := sale.AmountPaidCents
	return s.closeChainTx(ctx, tx, *outgoing.SwappedFromID, sale.ID, enums.ResaleStatusSold, resaleValue, nil)
}

// closeChainForSwapTx settles the originating swap of a phone that just went
// out as the new phone of a subsequent swap. The chain realizes the cash the
// customer added plus the value of the phone they handed in.
func (s *Service) closeChainForSwapTx(ctx context.Context, tx *gorm.DB, outgoing *models.Phone, newSwap *models.Swap) error {
	if outgoing.SwappedFromID == nil {
		return nil
	}
	resaleValue := newSwap.FinalPriceCents + newSwap.GivenPhoneValueCents
	return s.closeChainTx(ctx, tx, *outgoing.SwappedFromID, newSwap.ID, enums.ResaleStatusSwappedAgain, resaleValue, &newSwap.ID)
}

func (s *Service) closeChainTx(ctx context.Context, tx *gorm.DB, originSwapID, resaleTxID int64, status enums.ResaleStatus, resaleValueCents int64, linkedToResaleID *int64) error {
	repo := s.repo.WithTx(tx)

	origin, err := repo.GetSwapByID(ctx, originSwapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeInternal, "phone references a missing swap").
				WithDetails(map[string]any{"swap_id": originSwapID})
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading originating swap")
	}
	if origin.ResaleStatus != enums.ResaleStatusPending {
		return pkgerrors.New(pkgerrors.CodeChainAlreadyClosed, "trade-in phone was already resold").
			WithDetails(map[string]any{"swap_id": origin.ID, "resale_status": origin.ResaleStatus})
	}

	profit := resaleValueCents - origin.GivenPhoneValueCents
	closed, err := repo.CloseSwapChain(ctx, origin.ID, status, resaleValueCents, profit, linkedToResaleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing swap chain")
	}
	if !closed {
		return pkgerrors.New(pkgerrors.CodeChainAlreadyClosed, "trade-in phone was already resold").
			WithDetails(map[string]any{"swap_id": origin.ID})
	}

	if err := s.ledger.CloseChainTx(ctx, tx, origin.ID, resaleValueCents, profit, enums.PhoneStatusSold); err != nil {
		return err
	}

	if s.events != nil {
		err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventResaleChainClosed,
			AggregateType: enums.AggregateSwap,
			AggregateID:   strconv.FormatInt(origin.ID, 10),
			Version:       1,
			Data: payloads.ResaleChainClosedEvent{
				SwapID:            origin.ID,
				ResaleTransaction: resaleTxID,
				ResaleStatus:      status,
				ResaleValueCents:  resaleValueCents,
				ProfitOrLossCents: profit,
				ProfitStatus:      enums.ProfitStatusForAmount(profit),
				ClosedAt:          time.Now().UTC(),
			},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing chain-closed event")
		}
	}
	return nil
}
