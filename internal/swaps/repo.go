package swaps

import (
	"context"

	"gorm.io/gorm"

	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
	"github.com/gyamfidev/phoneshop-backend/pkg/enums"
	"github.com/gyamfidev/phoneshop-backend/pkg/pagination"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateSwap(ctx context.Context, swap *models.Swap) error
	CreateSale(ctx context.Context, sale *models.Sale) error
	GetSwapByID(ctx context.Context, id int64) (*models.Swap, error)
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	ListSwaps(ctx context.Context, filter ListSwapsFilter) ([]models.Swap, error)
	ListSales(ctx context.Context, filter ListSalesFilter) ([]models.Sale, error)

	SetSwapGivenPhone(ctx context.Context, swapID, phoneID int64) error
	SetSwapInvoiceNumber(ctx context.Context, swapID int64, number string) error
	SetSaleInvoiceNumber(ctx context.Context, saleID int64, number string) error

	// CloseSwapChain settles the resale side of a swap, guarded on the row
	// still being pending. Returns false when another closer won.
	CloseSwapChain(ctx context.Context, swapID int64, status enums.ResaleStatus, resaleValueCents, profitOrLossCents int64, linkedToResaleID *int64) (bool, error)
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

func (r *repository) CreateSwap(ctx context.Context, swap *models.Swap) error {
	return r.db.WithContext(ctx).Create(swap).Error
}

func (r *repository) CreateSale(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *repository) GetSwapByID(ctx context.Context, id int64) (*models.Swap, error) {
	var swap models.Swap
	if err := r.db.WithContext(ctx).First(&swap, id).Error; err != nil {
		return nil, err
	}
	return &swap, nil
}

func (r *repository) GetSaleByID(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).First(&sale, id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *repository) ListSwaps(ctx context.Context, filter ListSwapsFilter) ([]models.Swap, error) {
	query := r.db.WithContext(ctx).Model(&models.Swap{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.ResaleStatus != nil {
		query = query.Where("resale_status = ?", *filter.ResaleStatus)
	}
	if cursor, err := pagination.ParseCursor(filter.Cursor); err != nil {
		return nil, err
	} else if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Swap
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) ListSales(ctx context.Context, filter ListSalesFilter) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).Model(&models.Sale{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if cursor, err := pagination.ParseCursor(filter.Cursor); err != nil {
		return nil, err
	} else if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Sale
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) SetSwapGivenPhone(ctx context.Context, swapID, phoneID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Swap{}).
		Where("id = ?", swapID).
		Update("given_phone_id", phoneID).Error
}

func (r *repository) SetSwapInvoiceNumber(ctx context.Context, swapID int64, number string) error {
	return r.db.WithContext(ctx).
		Model(&models.Swap{}).
		Where("id = ?", swapID).
		Update("invoice_number", number).Error
}

func (r *repository) SetSaleInvoiceNumber(ctx context.Context, saleID int64, number string) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", saleID).
		Update("invoice_number", number).Error
}

func (r *repository) CloseSwapChain(ctx context.Context, swapID int64, status enums.ResaleStatus, resaleValueCents, profitOrLossCents int64, linkedToResaleID *int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Swap{}).
		Where("id = ? AND resale_status = ?", swapID, enums.ResaleStatusPending).
		Updates(map[string]any{
			"resale_status":        status,
			"resale_value_cents":   resaleValueCents,
			"profit_or_loss_cents": profitOrLossCents,
			"linked_to_resale_id":  linkedToResaleID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
