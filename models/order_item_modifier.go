package models

import "time"

// OrderItemModifier is a modifier attached to one order item. Name and price
// are captured at attach time so later catalog edits never change a bill.
type OrderItemModifier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderItemID uint      `gorm:"not null;index" json:"order_item_id"`
	ModifierID  uint      `gorm:"not null" json:"modifier_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
