package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment status values shared by orders and donations.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Order is owned by the upstream checkout flow. This service only mutates
// PaymentStatus and appends tracking entries; it never creates or deletes rows.
type Order struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	OrderNumber   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_number"`
	TransactionID string    `gorm:"type:varchar(191);index;not null;default:''" json:"transaction_id"`
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentMethod string    `gorm:"type:varchar(40);not null;default:''" json:"payment_method"`
	Amount        float64   `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Currency      string    `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	CustomerEmail string    `gorm:"type:varchar(255);not null;default:''" json:"customer_email"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func FindOrderByTransactionID(db *gorm.DB, transactionID string) (*Order, error) {
	var order Order
	err := db.Where("transaction_id = ?", transactionID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
