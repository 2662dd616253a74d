package models

import (
	"time"

	"github.com/lib/pq"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
)

// DispatchRecord is a delivery run for a completed order.
type DispatchRecord struct {
	ID          int64                `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID     *int64               `gorm:"column:order_id" json:"order_id,omitempty"`
	Destination string               `gorm:"column:destination;not null" json:"destination"`
	CourierNote string               `gorm:"column:courier_note" json:"courier_note"`
	Items       pq.StringArray       `gorm:"column:items;type:text[]" json:"items,omitempty"`
	Status      enums.DispatchStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table aligned with enums.RecordKindDispatch.Table().
func (DispatchRecord) TableName() string {
	return "dispatch_records"
}
