package phones

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
	Create(ctx context.Context, phone *models.Phone) error
	GetByID(ctx context.Context, id int64) (*models.Phone, error)
	GetByPublicID(ctx context.Context, publicID string) (*models.Phone, error)
	GetByIMEI(ctx context.Context, imei string) (*models.Phone, error)
	List(ctx context.Context, filter ListPhonesFilter) ([]models.Phone, error)

	// CASStatus flips status from->to only when the persisted status still
	// matches from. Returns false when another writer won the race.
	CASStatus(ctx context.Context, phoneID int64, from, to enums.PhoneStatus) (bool, error)
	UpdateOwner(ctx context.Context, phoneID int64, ownerType enums.OwnerType, ownerID *int64) error
	SetSwappedFrom(ctx context.Context, phoneID, swapID int64) error
	Restock(ctx context.Context, phoneID, costPriceCents, swapID int64) error
	AppendHistory(ctx context.Context, row *models.PhoneOwnershipHistory) error
	GetHistory(ctx context.Context, phoneID int64) ([]models.PhoneOwnershipHistory, error)

	CreateRepairTicket(ctx context.Context, ticket *models.RepairTicket) error
	CloseRepairTicket(ctx context.Context, phoneID int64) error
	GetOpenRepairTicket(ctx context.Context, phoneID int64) (*models.RepairTicket, error)
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

func (r *repository) Create(ctx context.Context, phone *models.Phone) error {
	return r.db.WithContext(ctx).Create(phone).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*models.Phone, error) {
	var phone models.Phone
	if err := r.db.WithContext(ctx).First(&phone, id).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

func (r *repository) GetByPublicID(ctx context.Context, publicID string) (*models.Phone, error) {
	var phone models.Phone
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&phone).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

func (r *repository) GetByIMEI(ctx context.Context, imei string) (*models.Phone, error) {
	var phone models.Phone
	if err := r.db.WithContext(ctx).Where("imei = ?", imei).First(&phone).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

func (r *repository) List(ctx context.Context, filter ListPhonesFilter) ([]models.Phone, error) {
	query := r.db.WithContext(ctx).Model(&models.Phone{})
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.OnlySwappable {
		query = query.Where("is_swappable = ?", true)
	}
	if cursor, err := pagination.ParseCursor(filter.Cursor); err != nil {
		return nil, err
	} else if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Phone
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(filter.Limit)).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CASStatus(ctx context.Context, phoneID int64, from, to enums.PhoneStatus) (bool, error) {
	res := r.db.WithContext(ctx).Exec(
		"UPDATE phones SET status = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?",
		to, to == enums.PhoneStatusAvailable, phoneID, from,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) UpdateOwner(ctx context.Context, phoneID int64, ownerType enums.OwnerType, ownerID *int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Phone{}).
		Where("id = ?", phoneID).
		Updates(map[string]any{
			"current_owner_type": ownerType,
			"current_owner_id":   ownerID,
		}).Error
}

func (r *repository) SetSwappedFrom(ctx context.Context, phoneID, swapID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Phone{}).
		Where("id = ?", phoneID).
		Update("swapped_from_id", swapID).Error
}

func (r *repository) Restock(ctx context.Context, phoneID, costPriceCents, swapID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Phone{}).
		Where("id = ?", phoneID).
		Updates(map[string]any{
			"cost_price_cents": costPriceCents,
			"condition":        enums.PhoneConditionUsed,
			"is_swappable":     true,
			"swapped_from_id":  swapID,
		}).Error
}

func (r *repository) AppendHistory(ctx context.Context, row *models.PhoneOwnershipHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) GetHistory(ctx context.Context, phoneID int64) ([]models.PhoneOwnershipHistory, error) {
	var rows []models.PhoneOwnershipHistory
	err := r.db.WithContext(ctx).
		Where("phone_id = ?", phoneID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CreateRepairTicket(ctx context.Context, ticket *models.RepairTicket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *repository) CloseRepairTicket(ctx context.Context, phoneID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.RepairTicket{}).
		Where("phone_id = ? AND returned_at IS NULL", phoneID).
		Update("returned_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}

func (r *repository) GetOpenRepairTicket(ctx context.Context, phoneID int64) (*models.RepairTicket, error) {
	var ticket models.RepairTicket
	err := r.db.WithContext(ctx).
		Where("phone_id = ? AND returned_at IS NULL", phoneID).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ticket, nil
}
