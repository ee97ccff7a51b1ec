package identifier

import (
	"errors"

	"gorm.io/gorm"

	dbpkg "github.com/gyamfidev/phoneshop-backend/pkg/db"
	"github.com/gyamfidev/phoneshop-backend/pkg/db/models"
)

// Repository owns the id_sequences counters and collision checks for random
// tracking codes. All operations run on the caller's transaction so a rolled
// back command never leaks a visible allocation into committed state.
type Repository interface {
	NextValue(tx *gorm.DB, name string) (int64, error)
	TrackingCodeExists(tx *gorm.DB, code string) (bool, error)
}

type repository struct{}

func NewRepository() Repository {
	return repository{}
}

func (repository) NextValue(tx *gorm.DB, name string) (int64, error) {
	if tx == nil {
		return 0, errors.New("transaction required")
	}

	res := tx.Exec("UPDATE id_sequences SET value = value + 1 WHERE name = ?", name)
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		err := tx.Create(&models.IDSequence{Name: name, Value: 1}).Error
		if err != nil {
			if !dbpkg.IsUniqueViolation(err) {
				return 0, err
			}
			// Lost the insert race; bump the row the winner created.
			bump := tx.Exec("UPDATE id_sequences SET value = value + 1 WHERE name = ?", name)
			if bump.Error != nil {
				return 0, bump.Error
			}
		}
	}

	var row models.IDSequence
	if err := tx.Where("name = ?", name).First(&row).Error; err != nil {
		return 0, err
	}
	return row.Value, nil
}

func (repository) TrackingCodeExists(tx *gorm.DB, code string) (bool, error) {
	if tx == nil {
		return false, errors.New("transaction required")
	}
	var count int64
	err := tx.Model(&models.RepairTicket{}).Where("tracking_code = ?", code).Count(&count).Error
	return count > 0, err
}
