package models

import "time"

// PrepStation is one named kitchen station. The prep-station view routes
// items by the menu category each active station cooks; a floor with no
// registered stations runs as a single undivided kitchen.
type PrepStation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Category  string    `gorm:"type:varchar(50);not null" json:"category"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
