package controllers

import (
	"net/http"

	"github.com/gyamfidev/phoneshop-backend/api/middleware"
	"github.com/gyamfidev/phoneshop-backend/api/responses"
	"github.com/gyamfidev/phoneshop-backend/api/validators"
	"github.com/gyamfidev/phoneshop-backend/internal/staff"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

// Login exchanges staff credentials for an access token.
func Login(svc *staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload staff.LoginInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// Me returns the authenticated staff user's profile.
func Me(svc *staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		staffID := middleware.StaffIDFromContext(r.Context())
		if staffID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff context missing"))
			return
		}

		user, err := svc.GetStaff(r.Context(), staffID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, staff.StaffView{
			ID:       user.ID,
			PublicID: user.PublicID,
			Name:     user.Name,
			Username: user.Username,
			Role:     user.Role,
		})
	}
}

// StaffCreate onboards a staff user. Admin only; enforced in the router.
func StaffCreate(svc *staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload staff.CreateStaffInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.CreateStaff(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, staff.StaffView{
			ID:       user.ID,
			PublicID: user.PublicID,
			Name:     user.Name,
			Username: user.Username,
			Role:     user.Role,
		})
	}
}

// StaffDeactivate disables a staff login. Admin only; enforced in the router.
func StaffDeactivate(svc *staff.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"id": id, "active": false})
	}
}
