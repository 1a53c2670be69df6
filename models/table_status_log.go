package models

import "time"

// TableStatusLog is the audit trail of staff status changes on a table.
// Derived occupancy is computed on read and never logged.
type TableStatusLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TableID    uint      `gorm:"not null;index" json:"table_id"`
	FromStatus string    `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to_status"`
	ChangedBy  string    `gorm:"type:varchar(100)" json:"changed_by"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
