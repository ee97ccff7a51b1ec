package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gyamfidev/phoneshop-backend/api/controllers"
	"github.com/gyamfidev/phoneshop-backend/api/middleware"
	"github.com/gyamfidev/phoneshop-backend/internal/customers"
	"github.com/gyamfidev/phoneshop-backend/internal/invoices"
	"github.com/gyamfidev/phoneshop-backend/internal/phones"
	"github.com/gyamfidev/phoneshop-backend/internal/resales"
	"github.com/gyamfidev/phoneshop-backend/internal/staff"
	"github.com/gyamfidev/phoneshop-backend/internal/swaps"
	"github.com/gyamfidev/phoneshop-backend/pkg/config"
	"github.com/gyamfidev/phoneshop-backend/pkg/db"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
	"github.com/gyamfidev/phoneshop-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. The redis client is
// optional; without it the idempotency and login rate-limit layers are
// skipped.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    db.Pinger
	Redis *redis.Client

	Staff     *staff.Service
	Customers *customers.Service
	Phones    *phones.Service
	Swaps     *swaps.Service
	Resales   *resales.Service
	Invoices  *invoices.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var cache redis.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		login := controllers.Login(deps.Staff, logg)
		if deps.Redis != nil {
			policy := middleware.NewAuthRateLimitPolicy(
				"login",
				cfg.RateLimit.LoginWindow,
				cfg.RateLimit.LoginIPLimit,
				cfg.RateLimit.LoginUsernameLimit,
			)
			r.With(middleware.AuthRateLimit(policy, deps.Redis, logg)).Post("/login", login)
		} else {
			r.Post("/login", login)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, nil, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Get("/auth/me", controllers.Me(deps.Staff, logg))

		r.Route("/staff", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, enums.StaffRoleAdmin.String()))
			r.Post("/", controllers.StaffCreate(deps.Staff, logg))
			r.Delete("/{id}", controllers.StaffDeactivate(deps.Staff, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controllers.CustomerCreate(deps.Customers, logg))
			r.Get("/", controllers.CustomerList(deps.Customers, logg))
			r.Get("/{id}", controllers.CustomerGet(deps.Customers, logg))
		})

		r.Route("/phones", func(r chi.Router) {
			r.Post("/", controllers.PhoneRegister(deps.Phones, logg))
			r.Get("/", controllers.PhoneList(deps.Phones, logg))
			r.Get("/{id}", controllers.PhoneGet(deps.Phones, logg))
			r.Get("/{id}/history", controllers.PhoneHistory(deps.Phones, logg))
			r.Post("/{id}/repair", controllers.PhoneMarkRepair(deps.Phones, logg))
			r.Post("/{id}/repair/return", controllers.PhoneReturnFromRepair(deps.Phones, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/sales", controllers.SaleCreate(deps.Swaps, logg))
			r.Get("/sales", controllers.SaleList(deps.Swaps, logg))
			r.Get("/sales/{id}", controllers.SaleGet(deps.Swaps, logg))
			r.Post("/swaps", controllers.SwapCreate(deps.Swaps, logg))
			r.Get("/swaps", controllers.SwapList(deps.Swaps, logg))
			r.Get("/swaps/{id}", controllers.SwapGet(deps.Swaps, logg))
		})

		r.Get("/resales", controllers.ResaleList(deps.Resales, logg))
		r.Get("/invoices/{number}", controllers.InvoiceGet(deps.Invoices, logg))
	})

	return r
}
