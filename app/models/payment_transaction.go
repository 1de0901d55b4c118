package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Entity types a ledger row can link to. Empty means the webhook referenced a
// transaction this system does not track.
const (
	EntityTypeOrder    = "order"
	EntityTypeDonation = "donation"
)

// PaymentTransaction is the append-only ledger. Exactly one row is written per
// processed (non-unhandled) webhook event, entity linkage nullable.
type PaymentTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TxnID       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"txn_id" validate:"required"`
	ReferenceID string    `gorm:"type:varchar(191);index;not null" json:"reference_id" validate:"required"`
	EntityType  string    `gorm:"type:varchar(20);not null;default:''" json:"entity_type" validate:"omitempty,oneof=order donation"`
	EntityID    *uint     `gorm:"index" json:"entity_id"`
	Amount      float64   `gorm:"type:decimal(12,2);not null;default:0" json:"amount" validate:"gte=0"`
	Gateway     string    `gorm:"type:varchar(20);not null;index" json:"gateway" validate:"required"`
	Method      string    `gorm:"type:varchar(40);not null;default:''" json:"method"`
	Status      string    `gorm:"type:varchar(20);not null;index" json:"status" validate:"required,oneof=completed failed refunded"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (p *PaymentTransaction) Validate() error {
	v := validator.New()
	return v.Struct(p)
}

func ListPaymentTransactionsByReference(db *gorm.DB, referenceID string) ([]PaymentTransaction, error) {
	var rows []PaymentTransaction
	err := db.Where("reference_id = ?", referenceID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
