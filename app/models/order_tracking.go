package models

import "time"

// OrderTrackingEntry is an append-only timeline entry on an order. The webhook
// engine appends one when a captured payment is matched to an order.
type OrderTrackingEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"index;not null" json:"order_id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}
