package models

import "time"

const (
	OrderStatusOpen   = "open"
	OrderStatusClosed = "closed"

	OrderTypeDineIn  = "dine_in"
	OrderTypeTakeout = "takeout"
)

type Order struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	TableID   uint   `gorm:"not null;index" json:"table_id"`
	Table     Table  `gorm:"foreignKey:TableID" json:"-"`
	OrderType string `gorm:"type:varchar(20);not null;default:'dine_in'" json:"order_type"`
	Status    string `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	// DelayExpiresAt holds the absolute expiry of the edit window. Nil means
	// no window is open for this order.
	DelayExpiresAt *time.Time  `json:"delay_expires_at,omitempty"`
	Subtotal       float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax            float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Total          float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	CreatedAt      time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems     []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
}
