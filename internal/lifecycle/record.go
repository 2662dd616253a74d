package lifecycle

import (
	"github.com/fixpointhq/fixpoint-backend/pkg/db/models"
	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
)

// Record is one synced row viewed uniformly by the projection. Exactly one
// pointer is set, matching the owning controller's record kind.
type Record struct {
	Order    *models.OrderRecord    `json:"order,omitempty"`
	Repair   *models.RepairRecord   `json:"repair,omitempty"`
	Dispatch *models.DispatchRecord `json:"dispatch,omitempty"`
}

// ID returns the database id of the underlying row, or zero when unset.
func (r Record) ID() int64 {
	switch {
	case r.Order != nil:
		return r.Order.ID
	case r.Repair != nil:
		return r.Repair.ID
	case r.Dispatch != nil:
		return r.Dispatch.ID
	default:
		return 0
	}
}

// Status returns the underlying row's status as its wire string.
func (r Record) Status() string {
	switch {
	case r.Order != nil:
		return r.Order.Status.String()
	case r.Repair != nil:
		return r.Repair.Status.String()
	case r.Dispatch != nil:
		return r.Dispatch.Status.String()
	default:
		return ""
	}
}

// Kind reports which record table the row belongs to.
func (r Record) Kind() enums.RecordKind {
	switch {
	case r.Order != nil:
		return enums.RecordKindOrder
	case r.Repair != nil:
		return enums.RecordKindRepair
	case r.Dispatch != nil:
		return enums.RecordKindDispatch
	default:
		return ""
	}
}
