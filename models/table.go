package models

import "time"

// Table statuses. Occupancy is derived from open orders on read; the stored
// value is only a hint written by staff actions.
const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"table_number"`
	Status      string    `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	Section     string    `gorm:"type:varchar(20)" json:"section"`
	SeatCount   int       `gorm:"not null;default:2" json:"seat_count"`
	ServerName  string    `gorm:"type:varchar(100)" json:"server_name"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
