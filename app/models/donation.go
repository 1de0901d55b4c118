package models

import (
	"time"

	"gorm.io/gorm"
)

// Donation is owned by the upstream donation flow; only PaymentStatus is
// mutated here.
type Donation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TransactionID string    `gorm:"type:varchar(191);index;not null;default:''" json:"transaction_id"`
	PaymentStatus string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	Amount        float64   `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Currency      string    `gorm:"type:varchar(8);not null;default:'INR'" json:"currency"`
	DonorName     string    `gorm:"type:varchar(255);not null;default:''" json:"donor_name"`
	DonorEmail    string    `gorm:"type:varchar(255);not null;default:''" json:"donor_email"`
	Note          string    `gorm:"type:text" json:"note"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func FindDonationByTransactionID(db *gorm.DB, transactionID string) (*Donation, error) {
	var donation Donation
	err := db.Where("transaction_id = ?", transactionID).First(&donation).Error
	if err != nil {
		return nil, err
	}
	return &donation, nil
}
