package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Item statuses, in forward order. An item never moves backwards.
// Locked is terminal and only reachable through the expired-item sweep.
const (
	ItemStatusDraft     = "draft"
	ItemStatusLimbo     = "limbo"
	ItemStatusPending   = "pending"
	ItemStatusFired     = "fired"
	ItemStatusCompleted = "completed"
	ItemStatusLocked    = "locked"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order       Order               `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID  uint                `gorm:"not null" json:"menu_item_id"`
	MenuItem    MenuItem            `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item"`
	Quantity    int                 `gorm:"not null" json:"quantity"`
	Price       float64             `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes       string              `gorm:"type:text" json:"notes"`
	Modifiers   []OrderItemModifier `gorm:"foreignKey:OrderItemID" json:"modifiers,omitempty"`
	Status      string              `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	IsLocked    bool                `gorm:"not null;default:false" json:"is_locked"`
	FiredAt     *time.Time          `json:"fired_at,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedAt   time.Time           `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"not null" json:"updated_at"`
}

// BeforeCreate validates row-level constraints at the store boundary.
// Price and quantity are immutable after creation, so create time is the
// only place they need checking; status is only ever written through the
// lifecycle service.
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	if oi.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// Editable reports whether the ordering screen may still change this item.
func (oi *OrderItem) Editable() bool {
	return oi.Status == ItemStatusDraft || oi.Status == ItemStatusLimbo
}
