package payment

import (
	"time"

	"github.com/sevakart/payments/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the webhook service.
type Repository interface {
	FindOrderByTransactionID(transactionID string) (*models.Order, error)
	FindDonationByTransactionID(transactionID string) (*models.Donation, error)
	UpdateOrderPaymentStatus(transactionID, status string) error
	UpdateDonationPaymentStatus(transactionID, status string) error
	CreateOrderTracking(entry *models.OrderTrackingEntry) error
	CreatePaymentTransaction(row *models.PaymentTransaction) error
	CreateAuditLog(entry *models.AuditLogEntry) error
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a webhook repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) FindOrderByTransactionID(transactionID string) (*models.Order, error) {
	return models.FindOrderByTransactionID(r.db, transactionID)
}

func (r *gormRepository) FindDonationByTransactionID(transactionID string) (*models.Donation, error) {
	return models.FindDonationByTransactionID(r.db, transactionID)
}

func (r *gormRepository) UpdateOrderPaymentStatus(transactionID, status string) error {
	return guardedStatusUpdate(r.db.Model(&models.Order{}), transactionID, status)
}

func (r *gormRepository) UpdateDonationPaymentStatus(transactionID, status string) error {
	return guardedStatusUpdate(r.db.Model(&models.Donation{}), transactionID, status)
}

// guardedStatusUpdate is a best-effort filter update keyed by exact
// transaction id. A completion never overwrites a refund, so a delayed
// capture arriving after the refund leaves the newer state intact.
func guardedStatusUpdate(q *gorm.DB, transactionID, status string) error {
	q = q.Where("transaction_id = ?", transactionID)
	if status == models.PaymentStatusCompleted {
		q = q.Where("payment_status <> ?", models.PaymentStatusRefunded)
	}
	return q.Update("payment_status", status).Error
}

func (r *gormRepository) CreateOrderTracking(entry *models.OrderTrackingEntry) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) CreatePaymentTransaction(row *models.PaymentTransaction) error {
	return r.db.Create(row).Error
}

func (r *gormRepository) CreateAuditLog(entry *models.AuditLogEntry) error {
	return r.db.Create(entry).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "gateway"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := r.db.Where("gateway = ? AND provider_event_id = ?", event.Gateway, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
