package checkout

import (
	"context"

	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the order records produced by checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrderRecords(ctx context.Context, records []models.OrderRecord) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a checkout repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateOrderRecords(ctx context.Context, records []models.OrderRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&records).Error
}
