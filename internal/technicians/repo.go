package technicians

import (
	"context"

	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a technicians repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]models.Technician, error) {
	var techs []models.Technician
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&techs).Error
	if err != nil {
		return nil, err
	}
	return techs, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Technician, error) {
	var tech models.Technician
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tech).Error
	if err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Technician{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
