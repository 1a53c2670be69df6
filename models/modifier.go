package models

import "time"

// ModifierGroup is a named set of add-ons a guest picks from, e.g.
// "Toppings". MaxSelect caps how many modifiers of the group one item may
// carry; zero means unlimited.
type ModifierGroup struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	MaxSelect int        `gorm:"not null;default:0" json:"max_select"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	Modifiers []Modifier `gorm:"foreignKey:GroupID" json:"modifiers,omitempty"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// Modifier is one catalog add-on with its surcharge.
type Modifier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GroupID   uint      `gorm:"not null;index" json:"group_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"price"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
