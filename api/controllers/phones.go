package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gyamfidev/phoneshop-backend/api/responses"
	"github.com/gyamfidev/phoneshop-backend/api/validators"
	"github.com/gyamfidev/phoneshop-backend/internal/phones"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type phoneResponse struct {
	ID               int64                `json:"id"`
	PublicID         string               `json:"public_id"`
	Brand            string               `json:"brand"`
	Model            string               `json:"model"`
	IMEI             *string              `json:"imei,omitempty"`
	Category         *string              `json:"category,omitempty"`
	Condition        enums.PhoneCondition `json:"condition"`
	Status           enums.PhoneStatus    `json:"status"`
	CostPriceCents   int64                `json:"cost_price_cents"`
	ValueCents       *int64               `json:"value_cents,omitempty"`
	IsAvailable      bool                 `json:"is_available"`
	IsSwappable      bool                 `json:"is_swappable"`
	CurrentOwnerType enums.OwnerType      `json:"current_owner_type"`
	CurrentOwnerID   *int64               `json:"current_owner_id,omitempty"`
	SwappedFromID    *int64               `json:"swapped_from_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

func phoneResponseFromModel(m *models.Phone) phoneResponse {
	return phoneResponse{
		ID:               m.ID,
		PublicID:         m.PublicID,
		Brand:            m.Brand,
		Model:            m.Model,
		IMEI:             m.IMEI,
		Category:         m.Category,
		Condition:        m.Condition,
		Status:           m.Status,
		CostPriceCents:   m.CostPriceCents,
		ValueCents:       m.ValueCents,
		IsAvailable:      m.IsAvailable,
		IsSwappable:      m.IsSwappable,
		CurrentOwnerType: m.CurrentOwnerType,
		CurrentOwnerID:   m.CurrentOwnerID,
		SwappedFromID:    m.SwappedFromID,
		CreatedAt:        m.CreatedAt,
	}
}

type historyResponse struct {
	ID              int64                  `json:"id"`
	OwnerType       enums.OwnerType        `json:"owner_type"`
	OwnerID         *int64                 `json:"owner_id,omitempty"`
	Reason          enums.OwnershipReason  `json:"reason"`
	TransactionType *enums.TransactionType `json:"transaction_type,omitempty"`
	TransactionID   *int64                 `json:"transaction_id,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
}

type repairTicketResponse struct {
	ID           int64      `json:"id"`
	PublicID     string     `json:"public_id"`
	TrackingCode string     `json:"tracking_code"`
	PhoneID      int64      `json:"phone_id"`
	CustomerID   *int64     `json:"customer_id,omitempty"`
	Issue        string     `json:"issue"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func PhoneRegister(svc *phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload phones.RegisterPhoneInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.RegisterPhone(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, phoneResponseFromModel(created))
	}
}

func PhoneGet(svc *phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		phone, err := svc.GetPhone(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, phoneResponseFromModel(phone))
	}
}

func PhoneList(svc *phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := phones.ListPhonesFilter{
			Brand:         strings.TrimSpace(r.URL.Query().Get("brand")),
			OnlySwappable: r.URL.Query().Get("swappable") == "true",
			Limit:         limit,
			Cursor:        cursor,
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.PhoneStatus(strings.ToUpper(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown phone status").
					WithDetails(map[string]any{"status": raw}))
				return
			}
			filter.Status = &status
		}

		rows, err := svc.ListPhones(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]phoneResponse, 0, len(rows))
		for i := range rows {
			items = append(items, phoneResponseFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

func PhoneHistory(svc *phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.GetOwnershipHistory(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]historyResponse, 0, len(rows))
		for _, row := range rows {
			items = append(items, historyResponse{
				ID:              row.ID,
				OwnerType:       row.OwnerType,
				OwnerID:         row.OwnerID,
				Reason:          row.Reason,
				TransactionType: row.TransactionType,
				TransactionID:   row.TransactionID,
				CreatedAt:       row.CreatedAt,
			})
		}
		responses.WriteSuccess(w, items)
	}
}

type markRepairRequest struct {
	Issue      string `json:"issue" validate:"required,min=1,max=500"`
	CustomerID *int64 `json:"customer_id,omitempty"`
}

func PhoneMarkRepair(svc *phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload markRepairRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ticket, err := svc.MarkUnderRepair(r.Context(), phones.MarkUnderRepairInput{
			PhoneID:    id,
			Issue:      payload.Issue,
			CustomerID: payload.CustomerID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, repairTicketResponse{
			ID:           ticket.ID,
			PublicID:     ticket.PublicID,
			TrackingCode: ticket.TrackingCode,
			PhoneID:      ticket.PhoneID,
			CustomerID:   ticket.CustomerID,
			Issue:        ticket.Issue,
			ReturnedAt:   ticket.ReturnedAt,
			CreatedAt:    ticket.CreatedAt,
		})
	}
}

func PhoneReturnFromRepair(svc *phones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		phone, err := svc.ReturnPhoneFromRepair(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, phoneResponseFromModel(phone))
	}
}
