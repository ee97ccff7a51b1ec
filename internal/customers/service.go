package customers

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/internal/identifier"
	dbpkg "github.com/gyamfidev/phoneshop-backend/pkg/db"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	pkgerrors "github.com/gyamfidev/phoneshop-backend/pkg/errors"
	"github.com/gyamfidev/phoneshop-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type Service struct {
	repo Repository
	ids  *identifier.Service
	tx   txRunner
	logg *logger.Logger
}

func NewService(repo Repository, ids *identifier.Service, tx txRunner, logg *logger.Logger) *Service {
	return &Service{repo: repo, ids: ids, tx: tx, logg: logg}
}

// CreateCustomer registers a customer and allocates its CUST-NNNN id in the
// same transaction.
func (s *Service) CreateCustomer(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.PhoneNumber)
	if name == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and phone number are required")
	}

	var created *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		publicID, err := s.ids.NextCustomerID(tx)
		if err != nil {
			return err
		}
		customer := &models.Customer{
			PublicID:    publicID,
			Name:        name,
			PhoneNumber: phone,
			Email:       input.Email,
			Address:     input.Address,
		}
		if err := s.repo.WithTx(tx).Create(ctx, customer); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating customer")
		}
		created = customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithField(ctx, "customer_id", created.PublicID)
	s.logg.Info(logCtx, "customer created")
	return created, nil
}

// GetCustomer looks up a customer by internal id.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading customer")
	}
	return customer, nil
}

// ListCustomers returns a filtered page of customers.
func (s *Service) ListCustomers(ctx context.Context, filter ListCustomersFilter) ([]models.Customer, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing customers")
	}
	return rows, nil
}
