package models

// Technician is read-only reference data consumed when assigning work.
type Technician struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name       string `gorm:"column:name;not null" json:"name"`
	Speciality string `gorm:"column:speciality" json:"speciality"`
}

// TableName pins the reference table name.
func (Technician) TableName() string {
	return "technicians"
}
