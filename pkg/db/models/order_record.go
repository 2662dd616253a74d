package models

import (
	"time"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
)

// OrderRecord is a retail order shared across roles. The database assigns the
// id; every role observes the same row through its own projection.
type OrderRecord struct {
	ID             int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerName   string            `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerPhone  string            `gorm:"column:customer_phone" json:"customer_phone"`
	ProductName    string            `gorm:"column:product_name;not null" json:"product_name"`
	PriceCents     int64             `gorm:"column:price_cents;not null" json:"price_cents"`
	Quantity       int               `gorm:"column:quantity;not null;default:1" json:"quantity"`
	Status         enums.OrderStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	TechnicianID   *int64            `gorm:"column:technician_id" json:"technician_id,omitempty"`
	Technician     *Technician       `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	CartSessionID  *string           `gorm:"column:cart_session_id" json:"cart_session_id,omitempty"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table aligned with enums.RecordKindOrder.Table().
func (OrderRecord) TableName() string {
	return "order_records"
}
