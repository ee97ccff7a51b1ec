package resales

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	"github.com/gyamfidev/phoneshop-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, row *models.PendingResale) error
	GetBySwapID(ctx context.Context, swapID int64) (*models.PendingResale, error)
	GetBySaleID(ctx context.Context, saleID int64) (*models.PendingResale, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.PendingResale, error)
	List(ctx context.Context, filter ListFilter) ([]models.PendingResale, error)
	CloseChain(ctx context.Context, swapID int64, resaleValueCents, profitAmountCents int64, profitStatus enums.ProfitStatus, incomingStatus enums.PhoneStatus) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, row *models.PendingResale) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) GetBySwapID(ctx context.Context, swapID int64) (*models.PendingResale, error) {
	return r.getOne(ctx, "swap_id = ?", swapID)
}

func (r *repository) GetBySaleID(ctx context.Context, saleID int64) (*models.PendingResale, error) {
	return r.getOne(ctx, "sale_id = ?", saleID)
}

func (r *repository) GetByPublicID(ctx context.Context, publicID string) (*models.PendingResale, error) {
	var row models.PendingResale
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) getOne(ctx context.Context, query string, arg any) (*models.PendingResale, error) {
	var row models.PendingResale
	err := r.db.WithContext(ctx).Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.PendingResale, error) {
	query := r.db.WithContext(ctx).Model(&models.PendingResale{})
	if filter.ProfitStatus != nil {
		query = query.Where("profit_status = ?", *filter.ProfitStatus)
	}
	if filter.IncomingPhoneStatus != nil {
		query = query.Where("incoming_phone_status = ?", *filter.IncomingPhoneStatus)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.StaffID != nil {
		query = query.Where("staff_id = ?", *filter.StaffID)
	}
	if filter.From != nil {
		query = query.Where("transaction_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("transaction_date < ?", *filter.To)
	}
	if cursor, err := pagination.ParseCursor(filter.Cursor); err != nil {
		return nil, err
	} else if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.PendingResale
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CloseChain(ctx context.Context, swapID int64, resaleValueCents, profitAmountCents int64, profitStatus enums.ProfitStatus, incomingStatus enums.PhoneStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.PendingResale{}).
		Where("swap_id = ?", swapID).
		Updates(map[string]any{
			"incoming_phone_status": incomingStatus,
			"resale_value_cents":    resaleValueCents,
			"profit_amount_cents":   profitAmountCents,
			"profit_status":         profitStatus,
		}).Error
}
