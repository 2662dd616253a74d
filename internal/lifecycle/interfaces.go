package lifecycle

import (
	"context"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the synced record tables.
// List and Find return rows in the kind's display ordering; UpdateStatusWhere
// applies a conditional status change scoped to the expected current status
// and reports the number of rows it touched.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context, kind enums.RecordKind) ([]Record, error)
	Find(ctx context.Context, kind enums.RecordKind, id int64) (*Record, error)
	UpdateStatusWhere(ctx context.Context, kind enums.RecordKind, id int64, expected, target string, technicianID *int64) (int64, error)
}

// TechnicianDirectory checks technician ids referenced by assignment requests.
type TechnicianDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
