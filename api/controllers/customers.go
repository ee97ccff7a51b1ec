package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gyamfidev/phoneshop-backend/api/responses"
	"github.com/gyamfidev/phoneshop-backend/api/validators"
	"github.com/gyamfidev/phoneshop-backend/internal/customers"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type customerResponse struct {
	ID          int64     `json:"id"`
	PublicID    string    `json:"public_id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Email       *string   `json:"email,omitempty"`
	Address     *string   `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func customerResponseFromModel(m *models.Customer) customerResponse {
	return customerResponse{
		ID:          m.ID,
		PublicID:    m.PublicID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
		Address:     m.Address,
		CreatedAt:   m.CreatedAt,
	}
}

func CustomerCreate(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload customers.CreateCustomerInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCustomer(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, customerResponseFromModel(created))
	}
}

func CustomerGet(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customer, err := svc.GetCustomer(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, customerResponseFromModel(customer))
	}
}

func CustomerList(svc *customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListCustomers(r.Context(), customers.ListCustomersFilter{
			PhoneNumber: strings.TrimSpace(r.URL.Query().Get("phone_number")),
			Limit:       limit,
			Cursor:      cursor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]customerResponse, 0, len(rows))
		for i := range rows {
			items = append(items, customerResponseFromModel(&rows[i]))
		}
		responses.WriteSuccess(w, items)
	}
}
