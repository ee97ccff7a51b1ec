package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gyamfidev/phoneshop-backend/api/responses"
	"github.com/gyamfidev/phoneshop-backend/internal/invoices"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
	"github.com/gyamfidev/phoneshop-backend/pkg/types"
)

type invoiceResponse struct {
	InvoiceNumber   string                `json:"invoice_number"`
	TransactionType enums.TransactionType `json:"transaction_type"`
	TransactionID   int64                 `json:"transaction_id"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone"`
	StaffName       string                `json:"staff_name"`
	ItemDescription string                `json:"item_description"`
	SubtotalCents   int64                 `json:"subtotal_cents"`
	DiscountCents   int64                 `json:"discount_cents"`
	TotalCents      int64                 `json:"total_cents"`
	Subtotal        string                `json:"subtotal"`
	Discount        string                `json:"discount"`
	Total           string                `json:"total"`
	IssuedAt        time.Time             `json:"issued_at"`
}

func invoiceResponseFromModel(m *models.Invoice) invoiceResponse {
	return invoiceResponse{
		InvoiceNumber:   m.InvoiceNumber,
		TransactionType: m.TransactionType,
		TransactionID:   m.TransactionID,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		StaffName:       m.StaffName,
		ItemDescription: m.ItemDescription,
		SubtotalCents:   m.SubtotalCents,
		DiscountCents:   m.DiscountCents,
		TotalCents:      m.TotalCents,
		Subtotal:        types.FormatCents(m.SubtotalCents),
		Discount:        types.FormatCents(m.DiscountCents),
		Total:           types.FormatCents(m.TotalCents),
		IssuedAt:        m.IssuedAt,
	}
}

func InvoiceGet(svc *invoices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number := strings.TrimSpace(chi.URLParam(r, "number"))
		if number == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice number is required"))
			return
		}

		invoice, err := svc.Find(r.Context(), number)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, invoiceResponseFromModel(invoice))
	}
}
