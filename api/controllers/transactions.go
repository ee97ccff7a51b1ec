package controllers

import (
	"net/http"
	"time"

	"github.com/gyamfidev/phoneshop-backend/api/middleware"
	"github.com/gyamfidev/phoneshop-backend/api/responses"
	"github.com/gyamfidev/phoneshop-backend/api/validators"
	"github.com/gyamfidev/phoneshop-backend/internal/swaps"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type saleResponse struct {
	ID                 int64     `json:"id"`
	CustomerID         int64     `json:"customer_id"`
	PhoneID            int64     `json:"phone_id"`
	OriginalPriceCents int64     `json:"original_price_cents"`
	DiscountCents      int64     `json:"discount_cents"`
	AmountPaidCents    int64     `json:"amount_paid_cents"`
	InvoiceNumber      *string   `json:"invoice_number,omitempty"`
	CreatedByID        int64     `json:"created_by_id"`
	CreatedAt          time.Time `json:"created_at"`
}

func saleResponseFromModel(m *models.Sale) saleResponse {
	return saleResponse{
		ID:                 m.ID,
		CustomerID:         m.CustomerID,
		PhoneID:            m.PhoneID,
		OriginalPriceCents: m.OriginalPriceCents,
		DiscountCents:      m.DiscountCents,
		AmountPaidCents:    m.AmountPaidCents,
		InvoiceNumber:      m.InvoiceNumber,
		CreatedByID:        m.CreatedByID,
		CreatedAt:          m.CreatedAt,
	}
}

type swapResponse struct {
	ID                    int64              `json:"id"`
	CustomerID            int64              `json:"customer_id"`
	NewPhoneID            int64              `json:"new_phone_id"`
	GivenPhoneDescription string             `json:"given_phone_description"`
	GivenPhoneValueCents  int64              `json:"given_phone_value_cents"`
	GivenPhoneID          *int64             `json:"given_phone_id,omitempty"`
	BalancePaidCents      int64              `json:"balance_paid_cents"`
	DiscountCents         int64              `json:"discount_cents"`
	FinalPriceCents       int64              `json:"final_price_cents"`
	ResaleStatus          enums.ResaleStatus `json:"resale_status"`
	ResaleValueCents      *int64             `json:"resale_value_cents,omitempty"`
	ProfitOrLossCents     *int64             `json:"profit_or_loss_cents,omitempty"`
	LinkedToResaleID      *int64             `json:"linked_to_resale_id,omitempty"`
	InvoiceNumber         *string            `json:"invoice_number,omitempty"`
	CreatedByID           int64              `json:"created_by_id"`
	CreatedAt             time.Time          `json:"created_at"`
}

func swapResponseFromModel(m *models.Swap) swapResponse {
	return swapResponse{
		ID:                    m.ID,
		CustomerID:            m.CustomerID,
		NewPhoneID:            m.NewPhoneID,
		GivenPhoneDescription: m.GivenPhoneDescription,
		GivenPhoneValueCents:  m.GivenPhoneValueCents,
		GivenPhoneID:          m.GivenPhoneID,
		BalancePaidCents:      m.BalancePaidCents,
		DiscountCents:         m.DiscountCents,
		FinalPriceCents:       m.FinalPriceCents,
		ResaleStatus:          m.ResaleStatus,
		ResaleValueCents:      m.ResaleValueCents,
		ProfitOrLossCents:     m.ProfitOrLossCents,
		LinkedToResaleID:      m.LinkedToResaleID,
		InvoiceNumber:         m.InvoiceNumber,
		CreatedByID:           m.CreatedByID,
		CreatedAt:             m.CreatedAt,
	}
}

type saleCreatedResponse struct {
	Sale    saleResponse    `json:"sale"`
	Phone   phoneResponse   `json:"phone"`
	Invoice invoiceResponse `json:"invoice"`
}

type swapCreatedResponse struct {
	Swap    swapResponse    `json:"swap"`
	Phone   phoneResponse   `json:"phone"`
	TradeIn phoneResponse   `json:"trade_in"`
	Invoice invoiceResponse `json:"invoice"`
}

func SaleCreate(svc *swaps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload swaps.RecordDirectSaleInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.StaffID = middleware.StaffIDFromContext(r.Context())

		result, err := svc.RecordDirectSale(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, saleCreatedResponse{
			Sale:    saleResponseFromModel(result.Sale),
			Phone:   phoneResponseFromModel(result.Phone),
			Invoice: invoiceResponseFromModel(result.Invoice),
		})
	}
}

func SwapCreate(svc *swaps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload swaps.RecordSwapInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.StaffID = middleware.StaffIDFromContext(r.Context())

		result, err := svc.RecordSwap(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, swapCreatedResponse{
			Swap:    swapResponseFromModel(result.Swap),
			Phone:   phoneResponseFromModel(result.Phone),
			TradeIn: phoneResponseFromModel(result.TradeIn),
			Invoice: invoiceResponseFromModel(result.Invoice),
		})
	}
}

func SaleGet(svc *swaps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sale, err := svc.GetSale(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, saleResponseFromModel(sale))
	}
}

func SwapGet(svc *swaps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		swap, err := svc.GetSwap(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, swapResponseFromModel(swap))
	}
}

func SaleList(svc *swaps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := swaps.ListSalesFilter{Limit: limit, Cursor: cursor}
		filter.CustomerID, err = queryInt64Ptr(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListSales(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]saleResponse, 0, len(rows))
		for i := range rows {
			items = append(items, saleResponseFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}

func SwapList(svc *swaps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := swaps.ListSwapsFilter{Limit: limit, Cursor: cursor}
		filter.CustomerID, err = queryInt64Ptr(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if raw := r.URL.Query().Get("resale_status"); raw != "" {
			status := enums.ResaleStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown resale status").
					WithDetails(map[string]any{"resale_status": raw}))
				return
			}
			filter.ResaleStatus = &status
		}

		rows, err := svc.ListSwaps(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]swapResponse, 0, len(rows))
		for i := range rows {
			items = append(items, swapResponseFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}
