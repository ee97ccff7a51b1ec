package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gyamfidev/phoneshop-backend/api/responses"
	"github.com/gyamfidev/phoneshop-backend/internal/resales"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type resaleResponse struct {
	ID                      int64                 `json:"id"`
	PublicID                string                `json:"public_id"`
	TransactionType         enums.TransactionType `json:"transaction_type"`
	SwapID                  *int64                `json:"swap_id,omitempty"`
	SaleID                  *int64                `json:"sale_id,omitempty"`
	CustomerID              int64                 `json:"customer_id"`
	StaffID                 int64                 `json:"staff_id"`
	OutgoingPhoneID         int64                 `json:"outgoing_phone_id"`
	OutgoingPhoneValueCents int64                 `json:"outgoing_phone_value_cents"`
	OutgoingPhoneStatus     enums.PhoneStatus     `json:"outgoing_phone_status"`
	IncomingPhoneID         *int64                `json:"incoming_phone_id,omitempty"`
	IncomingPhoneValueCents *int64                `json:"incoming_phone_value_cents,omitempty"`
	IncomingPhoneStatus     *enums.PhoneStatus    `json:"incoming_phone_status,omitempty"`
	BalancePaidCents        int64                 `json:"balance_paid_cents"`
	DiscountCents           int64                 `json:"discount_cents"`
	FinalPriceCents         int64                 `json:"final_price_cents"`
	ProfitStatus            enums.ProfitStatus    `json:"profit_status"`
	ProfitAmountCents       *int64                `json:"profit_amount_cents,omitempty"`
	ResaleValueCents        *int64                `json:"resale_value_cents,omitempty"`
	TransactionDate         time.Time             `json:"transaction_date"`
}

func resaleResponseFromModel(m *models.PendingResale) resaleResponse {
	return resaleResponse{
		ID:                      m.ID,
		PublicID:                m.PublicID,
		TransactionType:         m.TransactionType,
		SwapID:                  m.SwapID,
		SaleID:                  m.SaleID,
		CustomerID:              m.CustomerID,
		StaffID:                 m.StaffID,
		OutgoingPhoneID:         m.OutgoingPhoneID,
		OutgoingPhoneValueCents: m.OutgoingPhoneValueCents,
		OutgoingPhoneStatus:     m.OutgoingPhoneStatus,
		IncomingPhoneID:         m.IncomingPhoneID,
		IncomingPhoneValueCents: m.IncomingPhoneValueCents,
		IncomingPhoneStatus:     m.IncomingPhoneStatus,
		BalancePaidCents:        m.BalancePaidCents,
		DiscountCents:           m.DiscountCents,
		FinalPriceCents:         m.FinalPriceCents,
		ProfitStatus:            m.ProfitStatus,
		ProfitAmountCents:       m.ProfitAmountCents,
		ResaleValueCents:        m.ResaleValueCents,
		TransactionDate:         m.TransactionDate,
	}
}

func ResaleList(svc *resales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := resales.ListFilter{Limit: limit, Cursor: cursor}
		if raw := r.URL.Query().Get("profit_status"); raw != "" {
			status := enums.ProfitStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown profit status").
					WithDetails(map[string]any{"profit_status": raw}))
				return
			}
			filter.ProfitStatus = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("incoming_phone_status")); raw != "" {
			status := enums.PhoneStatus(strings.ToUpper(raw))
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown phone status").
					WithDetails(map[string]any{"incoming_phone_status": raw}))
				return
			}
			filter.IncomingPhoneStatus = &status
		}
		filter.CustomerID, err = queryInt64Ptr(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.StaffID, err = queryInt64Ptr(r, "staff_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.From, err = queryDatePtr(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		filter.To, err = queryDatePtr(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.List(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]resaleResponse, 0, len(rows))
		for i := range rows {
			items = append(items, resaleResponseFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}
