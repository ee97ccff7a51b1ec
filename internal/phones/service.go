package phones

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	dbpkg "github.com/gyamfidev/phoneshop-backend/pkg/db"
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

type transitionKey struct {
	from enums.PhoneStatus
	to   enums.PhoneStatus
}

// transitionRules is the full status machine. A (from,to) pair absent from
// this table is an illegal transition no matter the reason.
var transitionRules = map[transitionKey]enums.OwnershipReason{
	{enums.PhoneStatusAvailable, enums.PhoneStatusSwapped}:     enums.OwnershipReasonSwap,
	{enums.PhoneStatusAvailable, enums.PhoneStatusSold}:        enums.OwnershipReasonSale,
	{enums.PhoneStatusAvailable, enums.PhoneStatusUnderRepair}: enums.OwnershipReasonRepair,
	{enums.PhoneStatusUnderRepair, enums.PhoneStatusAvailable}: enums.OwnershipReasonRepairCompleted,
}

// Service is the phone registry: it owns phone state, the status machine and
// the append-only ownership history.
type Service struct {
	repo   Repository
	ids    *identifier.Service
	tx     txRunner
	events *outbox.Service
	logg   *logger.Logger
}

func NewService(repo Repository, ids *identifier.Service, tx txRunner, events *outbox.Service, logg *logger.Logger) *Service {
	return &Service{repo: repo, ids: ids, tx: tx, events: events, logg: logg}
}

// RegisterPhone stocks a purchased phone as AVAILABLE, owned by the shop.
func (s *Service) RegisterPhone(ctx context.Context, input RegisterPhoneInput) (*models.Phone, error) {
	if input.CostPriceCents == nil || *input.CostPriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost_price is required and must not be negative")
	}
	if input.ValueCents != nil && *input.ValueCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must not be negative")
	}
	if !input.Condition.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid phone condition").
			WithDetails(map[string]any{"condition": input.Condition})
	}
	brand := strings.TrimSpace(input.Brand)
	model := strings.TrimSpace(input.Model)
	if brand == "" || model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand and model are required")
	}

	var created *models.Phone
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		phone, err := s.createPhoneTx(ctx, tx, models.Phone{
			Brand:            brand,
			Model:            model,
			IMEI:             input.IMEI,
			Category:         input.Category,
			Condition:        input.Condition,
			Status:           enums.PhoneStatusAvailable,
			CostPriceCents:   *input.CostPriceCents,
			ValueCents:       input.ValueCents,
			IsAvailable:      true,
			IsSwappable:      input.IsSwappable,
			CurrentOwnerType: enums.OwnerTypeShop,
		}, enums.OwnershipReasonRegistered, nil, nil)
		if err != nil {
			return err
		}
		created = phone
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithPhoneID(ctx, created.PublicID)
	s.logg.Info(logCtx, "phone registered")
	return created, nil
}

// RegisterTradeInTx stocks a trade-in phone inside the caller's transaction.
// The accepted value becomes the cost price; swapped_from_id is set by the
// caller once the parent swap row exists.
func (s *Service) RegisterTradeInTx(ctx context.Context, tx *gorm.DB, input RegisterTradeInInput) (*models.Phone, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "trade-in description is required")
	}
	if input.AcceptedValueCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "accepted value must not be negative")
	}

	brand, model := splitDescription(description)
	return s.createPhoneTx(ctx, tx, models.Phone{
		Brand:            brand,
		Model:            model,
		IMEI:             input.IMEI,
		Condition:        enums.PhoneConditionUsed,
		Status:           enums.PhoneStatusAvailable,
		CostPriceCents:   input.AcceptedValueCents,
		IsAvailable:      true,
		IsSwappable:      true,
		CurrentOwnerType: enums.OwnerTypeShop,
	}, enums.OwnershipReasonTradeIn, nil, nil)
}

// RestockTradeInTx returns a phone the customer previously took away (sold or
// swapped to them) to shop inventory as the trade-in of a new swap. The caller
// verifies ownership first; this only performs the mechanics.
func (s *Service) RestockTradeInTx(ctx context.Context, tx *gorm.DB, phone *models.Phone, acceptedValueCents, swapID int64) error {
	repo := s.repo.WithTx(tx)

	swapped, err := repo.CASStatus(ctx, phone.ID, phone.Status, enums.PhoneStatusAvailable)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restocking phone")
	}
	if !swapped {
		return pkgerrors.New(pkgerrors.CodeConflict, "phone status changed concurrently").
			WithDetails(map[string]any{"phone_id": phone.PublicID})
	}
	if err := repo.Restock(ctx, phone.ID, acceptedValueCents, swapID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restocking phone")
	}

	txType := enums.TransactionTypeSwap
	if err := s.SetOwnerTx(ctx, tx, phone, enums.OwnerTypeShop, nil, enums.OwnershipReasonTradeIn, &txType, &swapID); err != nil {
		return err
	}
	phone.Status = enums.PhoneStatusAvailable
	phone.IsAvailable = true
	phone.Condition = enums.PhoneConditionUsed
	phone.IsSwappable = true
	phone.CostPriceCents = acceptedValueCents
	phone.SwappedFromID = &swapID
	return nil
}

func (s *Service) createPhoneTx(ctx context.Context, tx *gorm.DB, phone models.Phone, reason enums.OwnershipReason, txType *enums.TransactionType, txID *int64) (*models.Phone, error) {
	publicID, err := s.ids.NextPhoneID(tx)
	if err != nil {
		return nil, err
	}
	phone.PublicID = publicID

	repo := s.repo.WithTx(tx)
	if err := repo.Create(ctx, &phone); err != nil {
		if dbpkg.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone with this imei already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating phone")
	}

	history := &models.PhoneOwnershipHistory{
		PhoneID:         phone.ID,
		OwnerType:       enums.OwnerTypeShop,
		Reason:          reason,
		TransactionType: txType,
		TransactionID:   txID,
	}
	if err := repo.AppendHistory(ctx, history); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending ownership history")
	}
	return &phone, nil
}

// TransitionTx applies a status change inside the caller's transaction. The
// compare-and-swap on the status column is what serializes concurrent
// commands against the same phone.
func (s *Service) TransitionTx(ctx context.Context, tx *gorm.DB, phone *models.Phone, to enums.PhoneStatus, reason enums.OwnershipReason) error {
	from := phone.Status
	required, ok := transitionRules[transitionKey{from, to}]
	if !ok || required != reason {
		return pkgerrors.New(pkgerrors.CodeIllegalTransition, "illegal phone status transition").
			WithDetails(map[string]any{"from": from, "to": to, "reason": reason})
	}

	repo := s.repo.WithTx(tx)
	swapped, err := repo.CASStatus(ctx, phone.ID, from, to)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating phone status")
	}
	if !swapped {
		if from == enums.PhoneStatusAvailable {
			return pkgerrors.New(pkgerrors.CodePhoneNotAvailable, "phone is no longer available").
				WithDetails(map[string]any{"phone_id": phone.PublicID})
		}
		return pkgerrors.New(pkgerrors.CodeConflict, "phone status changed concurrently").
			WithDetails(map[string]any{"phone_id": phone.PublicID})
	}
	phone.Status = to
	phone.IsAvailable = to == enums.PhoneStatusAvailable

	if s.events != nil {
		err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPhoneStatusChanged,
			AggregateType: enums.AggregatePhone,
			AggregateID:   phone.PublicID,
			Version:       1,
			Data: payloads.PhoneStatusChangedEvent{
				PhoneID:    phone.ID,
				PublicID:   phone.PublicID,
				FromStatus: from,
				ToStatus:   to,
				ChangedAt:  time.Now().UTC(),
			},
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing status event")
		}
	}
	return nil
}

// SetOwnerTx updates the current owner and appends the history row in one
// transaction step.
func (s *Service) SetOwnerTx(ctx context.Context, tx *gorm.DB, phone *models.Phone, ownerType enums.OwnerType, ownerID *int64, reason enums.OwnershipReason, txType *enums.TransactionType, txID *int64) error {
	repo := s.repo.WithTx(tx)
	if err := repo.UpdateOwner(ctx, phone.ID, ownerType, ownerID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating phone owner")
	}
	history := &models.PhoneOwnershipHistory{
		PhoneID:         phone.ID,
		OwnerType:       ownerType,
		OwnerID:         ownerID,
		Reason:          reason,
		TransactionType: txType,
		TransactionID:   txID,
	}
	if err := repo.AppendHistory(ctx, history); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "appending ownership history")
	}
	phone.CurrentOwnerType = ownerType
	phone.CurrentOwnerID = ownerID
	return nil
}

// MarkUnderRepair opens a repair ticket and takes the phone out of inventory.
func (s *Service) MarkUnderRepair(ctx context.Context, input MarkUnderRepairInput) (*models.RepairTicket, error) {
	issue := strings.TrimSpace(input.Issue)
	if issue == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair issue is required")
	}

	var ticket *models.RepairTicket
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		phone, err := repo.GetByID(ctx, input.PhoneID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "phone not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading phone")
		}
		if phone.Status != enums.PhoneStatusAvailable {
			return pkgerrors.New(pkgerrors.CodePhoneNotAvailable, "phone is not available for repair intake").
				WithDetails(map[string]any{"status": phone.Status})
		}

		if err := s.TransitionTx(ctx, tx, phone, enums.PhoneStatusUnderRepair, enums.OwnershipReasonRepair); err != nil {
			return err
		}
		if err := s.SetOwnerTx(ctx, tx, phone, enums.OwnerTypeRepair, nil, enums.OwnershipReasonRepair, nil, nil); err != nil {
			return err
		}

		publicID, err := s.ids.NextRepairID(tx)
		if err != nil {
			return err
		}
		trackingCode, err := s.ids.NewRepairTrackingCode(tx)
		if err != nil {
			return err
		}
		row := &models.RepairTicket{
			PublicID:     publicID,
			TrackingCode: trackingCode,
			PhoneID:      phone.ID,
			CustomerID:   input.CustomerID,
			Issue:        issue,
		}
		if err := repo.CreateRepairTicket(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating repair ticket")
		}
		ticket = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithField(ctx, "tracking_code", ticket.TrackingCode)
	s.logg.Info(logCtx, "phone sent for repair")
	return ticket, nil
}

// ReturnPhoneFromRepair brings a repaired phone back to AVAILABLE.
func (s *Service) ReturnPhoneFromRepair(ctx context.Context, phoneID int64) (*models.Phone, error) {
	var returned *models.Phone
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		phone, err := repo.GetByID(ctx, phoneID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "phone not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading phone")
		}

		if err := s.TransitionTx(ctx, tx, phone, enums.PhoneStatusAvailable, enums.OwnershipReasonRepairCompleted); err != nil {
			return err
		}
		if err := s.SetOwnerTx(ctx, tx, phone, enums.OwnerTypeShop, nil, enums.OwnershipReasonRepairCompleted, nil, nil); err != nil {
			return err
		}
		if err := repo.CloseRepairTicket(ctx, phone.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "closing repair ticket")
		}
		returned = phone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return returned, nil
}

// GetPhone looks up a phone by internal id.
func (s *Service) GetPhone(ctx context.Context, id int64) (*models.Phone, error) {
	phone, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "phone not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading phone")
	}
	return phone, nil
}

// GetByIMEI looks up a phone by IMEI; a miss returns nil, not an error, since
// an unknown trade-in IMEI is a normal condition.
func (s *Service) GetByIMEI(ctx context.Context, imei string) (*models.Phone, error) {
	phone, err := s.repo.GetByIMEI(ctx, imei)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up imei")
	}
	return phone, nil
}

// ListPhones returns a filtered page of phones.
func (s *Service) ListPhones(ctx context.Context, filter ListPhonesFilter) ([]models.Phone, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing phones")
	}
	return rows, nil
}

// ListAvailable returns AVAILABLE phones, optionally only swappable ones.
func (s *Service) ListAvailable(ctx context.Context, onlySwappable bool) ([]models.Phone, error) {
	status := enums.PhoneStatusAvailable
	return s.ListPhones(ctx, ListPhonesFilter{Status: &status, OnlySwappable: onlySwappable})
}

// GetOwnershipHistory returns the append-only history for a phone.
func (s *Service) GetOwnershipHistory(ctx context.Context, phoneID int64) ([]models.PhoneOwnershipHistory, error) {
	if _, err := s.GetPhone(ctx, phoneID); err != nil {
		return nil, err
	}
	rows, err := s.repo.GetHistory(ctx, phoneID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading ownership history")
	}
	return rows, nil
}

// Repo exposes the repository for engine-level composition.
func (s *Service) Repo() Repository {
	return s.repo
}

func splitDescription(description string) (string, string) {
	parts := strings.SplitN(description, " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return description, description
}
