package lifecycle

import (
	"context"
	"fmt"

	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a lifecycle repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context, kind enums.RecordKind) ([]Record, error) {
	switch kind {
	case enums.RecordKindOrder:
		var rows []models.OrderRecord
		err := r.db.WithContext(ctx).
			Preload("Technician").
			Order("created_at DESC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]Record, 0, len(rows))
		for i := range rows {
			out = append(out, Record{Order: &rows[i]})
		}
		return out, nil
	case enums.RecordKindRepair:
		var rows []models.RepairRecord
		err := r.db.WithContext(ctx).
			Preload("Technician").
			Preload("RequiredProducts").
			Order("due_date ASC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]Record, 0, len(rows))
		for i := range rows {
			out = append(out, Record{Repair: &rows[i]})
		}
		return out, nil
	case enums.RecordKindDispatch:
		var rows []models.DispatchRecord
		err := r.db.WithContext(ctx).
			Order("created_at DESC").
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		out := make([]Record, 0, len(rows))
		for i := range rows {
			out = append(out, Record{Dispatch: &rows[i]})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported record kind %q", kind)
	}
}

func (r *repository) Find(ctx context.Context, kind enums.RecordKind, id int64) (*Record, error) {
	switch kind {
	case enums.RecordKindOrder:
		var row models.OrderRecord
		err := r.db.WithContext(ctx).
			Preload("Technician").
			Where("id = ?", id).
			First(&row).Error
		if err != nil {
			return nil, err
		}
		return &Record{Order: &row}, nil
	case enums.RecordKindRepair:
		var row models.RepairRecord
		err := r.db.WithContext(ctx).
			Preload("Technician").
			Preload("RequiredProducts").
			Where("id = ?", id).
			First(&row).Error
		if err != nil {
			return nil, err
		}
		return &Record{Repair: &row}, nil
	case enums.RecordKindDispatch:
		var row models.DispatchRecord
		err := r.db.WithContext(ctx).
			Where("id = ?", id).
			First(&row).Error
		if err != nil {
			return nil, err
		}
		return &Record{Dispatch: &row}, nil
	default:
		return nil, fmt.Errorf("unsupported record kind %q", kind)
	}
}

func (r *repository) UpdateStatusWhere(ctx context.Context, kind enums.RecordKind, id int64, expected, target string, technicianID *int64) (int64, error) {
	updates := map[string]any{"status": target}
	if technicianID != nil {
		updates["technician_id"] = *technicianID
	}

	tx := r.db.WithContext(ctx)
	switch kind {
	case enums.RecordKindOrder:
		tx = tx.Model(&models.OrderRecord{})
	case enums.RecordKindRepair:
		tx = tx.Model(&models.RepairRecord{})
	case enums.RecordKindDispatch:
		tx = tx.Model(&models.DispatchRecord{})
	default:
		return 0, fmt.Errorf("unsupported record kind %q", kind)
	}

	res := tx.Where("id = ? AND status = ?", id, expected).Updates(updates)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
