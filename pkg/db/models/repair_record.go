package models

import (
	"time"

	"github.com/fixpointhq/fixpoint-backend/pkg/enums"
)

// RepairRecord is a device repair job shared across roles.
type RepairRecord struct {
	ID               int64              `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CustomerName     string             `gorm:"column:customer_name;not null" json:"customer_name"`
	CustomerPhone    string             `gorm:"column:customer_phone" json:"customer_phone"`
	DeviceName       string             `gorm:"column:device_name;not null" json:"device_name"`
	IssueDescription string             `gorm:"column:issue_description" json:"issue_description"`
	DueDate          time.Time          `gorm:"column:due_date;not null" json:"due_date"`
	Status           enums.RepairStatus `gorm:"column:status;type:text;not null;default:'pending'" json:"status"`
	TechnicianID     *int64             `gorm:"column:technician_id" json:"technician_id,omitempty"`
	Technician       *Technician        `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	RequiredProducts []RepairProduct    `gorm:"foreignKey:RepairID;constraint:OnDelete:CASCADE" json:"required_products,omitempty"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName keeps the table aligned with enums.RecordKindRepair.Table().
func (RepairRecord) TableName() string {
	return "repair_records"
}

// RepairProduct is a read-only required-part line attached to a repair.
type RepairProduct struct {
	ID          int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RepairID    int64  `gorm:"column:repair_id;not null" json:"repair_id"`
	ProductName string `gorm:"column:product_name;not null" json:"product_name"`
	Quantity    int    `gorm:"column:quantity;not null;default:1" json:"quantity"`
}

// TableName pins the join table name.
func (RepairProduct) TableName() string {
	return "repair_products"
}
