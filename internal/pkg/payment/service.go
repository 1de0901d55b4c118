package payment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sevakart/payments/app/models"
	"gorm.io/gorm"
)

// Service applies verified, normalized provider events to local payment
// state: dedupe, entity resolution, reconciliation and audit trail.
type Service struct {
	repo Repository
}

// NewService creates a webhook service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a webhook service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// Process runs one delivery through dedupe, resolution, reconciliation and
// audit. The returned error is fatal (no ack); everything recoverable lands in
// Result.Secondary and in the ledger row's processing_error column.
func (s *Service) Process(ctx context.Context, ev *CanonicalEvent) (*Result, error) {
	_ = ctx
	if ev == nil || strings.TrimSpace(ev.Gateway) == "" {
		return nil, errors.New("canonical event with gateway is required")
	}

	eventID := strings.TrimSpace(ev.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256(ev.RawBody)
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	created, stored, err := s.repo.CreateWebhookEventIfNotExists(&models.WebhookEvent{
		Gateway:         ev.Gateway,
		ProviderEventID: eventID,
		EventType:       ev.RawEventType,
		PayloadJSON:     string(ev.RawBody),
		SignatureValid:  ev.SignatureValid,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{}
	if !created {
		res.Duplicate = true
		return res, nil
	}
	if ev.Kind == KindUnhandled {
		res.Ignored = true
		if err := s.repo.MarkWebhookProcessed(stored.ID, ""); err != nil {
			res.Secondary = fmt.Errorf("mark processed: %w", err)
		}
		return res, nil
	}

	status := ev.Kind.PaymentStatus()
	var secondary *multierror.Error

	// Both lookups always run; zero, one or two matches are all terminal
	// outcomes. A reference id present in both tables updates both.
	order, err := s.repo.FindOrderByTransactionID(ev.ReferenceID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		secondary = multierror.Append(secondary, fmt.Errorf("order lookup: %w", err))
	}
	donation, err := s.repo.FindDonationByTransactionID(ev.ReferenceID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		secondary = multierror.Append(secondary, fmt.Errorf("donation lookup: %w", err))
	}

	if order != nil {
		if err := s.repo.UpdateOrderPaymentStatus(ev.ReferenceID, status); err != nil {
			secondary = multierror.Append(secondary, fmt.Errorf("order status update: %w", err))
		} else {
			res.OrderMatched = true
			if ev.Kind == KindCaptured {
				entry := &models.OrderTrackingEntry{
					OrderID: order.ID,
					Title:   "Payment received",
					Detail:  fmt.Sprintf("Payment of %.2f captured via %s (ref %s)", ev.Amount, ev.Gateway, ev.ReferenceID),
				}
				if err := s.repo.CreateOrderTracking(entry); err != nil {
					secondary = multierror.Append(secondary, fmt.Errorf("order tracking: %w", err))
				}
			}
		}
	}
	if donation != nil {
		if err := s.repo.UpdateDonationPaymentStatus(ev.ReferenceID, status); err != nil {
			secondary = multierror.Append(secondary, fmt.Errorf("donation status update: %w", err))
		} else {
			res.DonationMatched = true
		}
	}

	// Exactly one ledger row per processed event, matched or not. On a dual
	// match the order is the linked entity.
	txn := &models.PaymentTransaction{
		TxnID:       uuid.NewString(),
		ReferenceID: ev.ReferenceID,
		Amount:      ev.Amount,
		Gateway:     ev.Gateway,
		Method:      ev.Method,
		Status:      status,
	}
	switch {
	case order != nil:
		txn.EntityType = models.EntityTypeOrder
		id := order.ID
		txn.EntityID = &id
	case donation != nil:
		txn.EntityType = models.EntityTypeDonation
		id := donation.ID
		txn.EntityID = &id
	}
	if err := txn.Validate(); err != nil {
		secondary = multierror.Append(secondary, fmt.Errorf("ledger row invalid: %w", err))
	} else if err := s.repo.CreatePaymentTransaction(txn); err != nil {
		secondary = multierror.Append(secondary, fmt.Errorf("ledger write: %w", err))
	} else {
		res.TxnID = txn.TxnID
		vals, _ := json.Marshal(txn)
		audit := &models.AuditLogEntry{
			Action:    "payment_webhook." + string(ev.Kind),
			RecordID:  txn.ID,
			NewValues: string(vals),
		}
		if err := s.repo.CreateAuditLog(audit); err != nil {
			secondary = multierror.Append(secondary, fmt.Errorf("audit write: %w", err))
		}
	}

	procErr := ""
	if agg := secondary.ErrorOrNil(); agg != nil {
		procErr = agg.Error()
	}
	if err := s.repo.MarkWebhookProcessed(stored.ID, procErr); err != nil {
		secondary = multierror.Append(secondary, fmt.Errorf("mark processed: %w", err))
	}
	res.Secondary = secondary.ErrorOrNil()
	return res, nil
}
