package technicians

import (
	"context"

	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
)

// Repository exposes the read-only technician reference data used when
// assigning orders and repairs.
type Repository interface {
	List(ctx context.Context) ([]models.Technician, error)
	FindByID(ctx context.Context, id int64) (*models.Technician, error)
	Exists(ctx context.Context, id int64) (bool, error)
}
