package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sevakart/payments/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeRepository is an in-memory Repository double mirroring the guarded
// update semantics of the GORM implementation.
type fakeRepository struct {
	orders    map[string]*models.Order
	donations map[string]*models.Donation

	tracking []models.OrderTrackingEntry
	txns     []models.PaymentTransaction
	audits   []models.AuditLogEntry

	events    map[string]*models.WebhookEvent
	processed map[uint]string
	nextID    uint

	trackingErr error
	orderErr    error
	ledgerErr   error
	markErr     error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders:    map[string]*models.Order{},
		donations: map[string]*models.Donation{},
		events:    map[string]*models.WebhookEvent{},
		processed: map[uint]string{},
	}
}

func (f *fakeRepository) FindOrderByTransactionID(txnID string) (*models.Order, error) {
	if o, ok := f.orders[txnID]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) FindDonationByTransactionID(txnID string) (*models.Donation, error) {
	if d, ok := f.donations[txnID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) UpdateOrderPaymentStatus(txnID, status string) error {
	if f.orderErr != nil {
		return f.orderErr
	}
	if o, ok := f.orders[txnID]; ok {
		if status == models.PaymentStatusCompleted && o.PaymentStatus == models.PaymentStatusRefunded {
			return nil
		}
		o.PaymentStatus = status
	}
	return nil
}

func (f *fakeRepository) UpdateDonationPaymentStatus(txnID, status string) error {
	if d, ok := f.donations[txnID]; ok {
		if status == models.PaymentStatusCompleted && d.PaymentStatus == models.PaymentStatusRefunded {
			return nil
		}
		d.PaymentStatus = status
	}
	return nil
}

func (f *fakeRepository) CreateOrderTracking(entry *models.OrderTrackingEntry) error {
	if f.trackingErr != nil {
		return f.trackingErr
	}
	f.tracking = append(f.tracking, *entry)
	return nil
}

func (f *fakeRepository) CreatePaymentTransaction(row *models.PaymentTransaction) error {
	if f.ledgerErr != nil {
		return f.ledgerErr
	}
	f.nextID++
	row.ID = f.nextID
	f.txns = append(f.txns, *row)
	return nil
}

func (f *fakeRepository) CreateAuditLog(entry *models.AuditLogEntry) error {
	f.audits = append(f.audits, *entry)
	return nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := fmt.Sprintf("%s|%s", event.Gateway, event.ProviderEventID)
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	f.nextID++
	event.ID = f.nextID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepository) MarkWebhookProcessed(id uint, processingError string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.processed[id] = processingError
	return nil
}

func capturedEvent(ref string, amount float64) *CanonicalEvent {
	return &CanonicalEvent{
		Gateway:         GatewayRazorpay,
		Kind:            KindCaptured,
		ReferenceID:     ref,
		Amount:          amount,
		Method:          "card",
		RawEventType:    "payment.captured",
		ProviderEventID: "evt_" + ref,
		RawBody:         []byte(`{"event":"payment.captured"}`),
	}
}

func TestServiceProcess_CapturedMatchingOrder(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["pay_123"] = &models.Order{ID: 7, TransactionID: "pay_123", PaymentStatus: models.PaymentStatusPending}
	svc := NewService(repo)

	res, err := svc.Process(context.Background(), capturedEvent("pay_123", 2500))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, res.OrderMatched)
	assert.False(t, res.Duplicate)
	assert.Equal(t, models.PaymentStatusCompleted, repo.orders["pay_123"].PaymentStatus)

	require.Len(t, repo.tracking, 1)
	assert.Equal(t, uint(7), repo.tracking[0].OrderID)
	assert.Contains(t, repo.tracking[0].Detail, "2500.00")

	require.Len(t, repo.txns, 1)
	txn := repo.txns[0]
	assert.Equal(t, "pay_123", txn.ReferenceID)
	assert.Equal(t, 2500.0, txn.Amount)
	assert.Equal(t, GatewayRazorpay, txn.Gateway)
	assert.Equal(t, models.PaymentStatusCompleted, txn.Status)
	assert.Equal(t, models.EntityTypeOrder, txn.EntityType)
	require.NotNil(t, txn.EntityID)
	assert.Equal(t, uint(7), *txn.EntityID)

	require.Len(t, repo.audits, 1)
	assert.Equal(t, "payment_webhook.captured", repo.audits[0].Action)
	assert.Equal(t, txn.ID, repo.audits[0].RecordID)

	// ledger row marked processed without error
	assert.Equal(t, "", repo.processed[1])
}

func TestServiceProcess_NoMatchStillWritesLedger(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	ev := &CanonicalEvent{
		Gateway:      GatewayUPI,
		Kind:         KindFailed,
		ReferenceID:  "UPI99",
		Amount:       99.50,
		Method:       "upi",
		RawEventType: "FAILED",
		RawBody:      []byte(`{"transactionId":"UPI99","amount":"99.50","status":"FAILED"}`),
	}
	res, err := svc.Process(context.Background(), ev)
	require.NoError(t, err)

	assert.False(t, res.OrderMatched)
	assert.False(t, res.DonationMatched)
	require.Len(t, repo.txns, 1)
	assert.Equal(t, "UPI99", repo.txns[0].ReferenceID)
	assert.Equal(t, models.PaymentStatusFailed, repo.txns[0].Status)
	assert.Equal(t, "", repo.txns[0].EntityType)
	assert.Nil(t, repo.txns[0].EntityID)
	require.Len(t, repo.audits, 1)
}

func TestServiceProcess_RedeliveryIsIdempotent(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["pay_123"] = &models.Order{ID: 7, TransactionID: "pay_123", PaymentStatus: models.PaymentStatusPending}
	svc := NewService(repo)

	first, err := svc.Process(context.Background(), capturedEvent("pay_123", 2500))
	require.NoError(t, err)
	assert.False(t, first.Duplicate)

	second, err := svc.Process(context.Background(), capturedEvent("pay_123", 2500))
	require.NoError(t, err)
	assert.True(t, second.Duplicate)

	// exactly one tracking entry, one ledger row, one audit entry
	assert.Len(t, repo.tracking, 1)
	assert.Len(t, repo.txns, 1)
	assert.Len(t, repo.audits, 1)
}

func TestServiceProcess_MissingProviderEventIDHashesBody(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	ev := &CanonicalEvent{
		Gateway:      GatewayUPI,
		Kind:         KindCaptured,
		ReferenceID:  "UPI7",
		Amount:       10,
		RawEventType: "SUCCESS",
		RawBody:      []byte(`{"transactionId":"UPI7","amount":"10.00","status":"SUCCESS"}`),
	}
	_, err := svc.Process(context.Background(), ev)
	require.NoError(t, err)

	// identical body redelivered -> same synthetic id -> duplicate
	res, err := svc.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Len(t, repo.txns, 1)
}

func TestServiceProcess_UnhandledWritesNoLedger(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo)

	ev := &CanonicalEvent{
		Gateway:         GatewayStripe,
		Kind:            KindUnhandled,
		RawEventType:    "customer.created",
		ProviderEventID: "evt_x",
		RawBody:         []byte(`{"id":"evt_x","type":"customer.created"}`),
	}
	res, err := svc.Process(context.Background(), ev)
	require.NoError(t, err)

	assert.True(t, res.Ignored)
	assert.Empty(t, repo.txns)
	assert.Empty(t, repo.audits)
	// still recorded and marked processed for traceability
	assert.Len(t, repo.events, 1)
	assert.Equal(t, "", repo.processed[1])
}

func TestServiceProcess_DualMatchUpdatesBoth(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["ref_1"] = &models.Order{ID: 1, TransactionID: "ref_1", PaymentStatus: models.PaymentStatusPending}
	repo.donations["ref_1"] = &models.Donation{ID: 2, TransactionID: "ref_1", PaymentStatus: models.PaymentStatusPending}
	svc := NewService(repo)

	res, err := svc.Process(context.Background(), capturedEvent("ref_1", 100))
	require.NoError(t, err)

	assert.True(t, res.OrderMatched)
	assert.True(t, res.DonationMatched)
	assert.Equal(t, models.PaymentStatusCompleted, repo.orders["ref_1"].PaymentStatus)
	assert.Equal(t, models.PaymentStatusCompleted, repo.donations["ref_1"].PaymentStatus)

	// one ledger row per event even on a dual match, linked to the order
	require.Len(t, repo.txns, 1)
	assert.Equal(t, models.EntityTypeOrder, repo.txns[0].EntityType)
}

func TestServiceProcess_TrackingFailureIsSecondary(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["pay_9"] = &models.Order{ID: 9, TransactionID: "pay_9", PaymentStatus: models.PaymentStatusPending}
	repo.trackingErr = errors.New("insert denied")
	svc := NewService(repo)

	res, err := svc.Process(context.Background(), capturedEvent("pay_9", 50))
	require.NoError(t, err)

	// primary status change applied, failure surfaced as secondary
	assert.Equal(t, models.PaymentStatusCompleted, repo.orders["pay_9"].PaymentStatus)
	require.Error(t, res.Secondary)
	assert.Contains(t, res.Secondary.Error(), "order tracking")

	// failure recorded on the ledger row
	assert.Contains(t, repo.processed[1], "order tracking")

	// ledger and audit still written
	assert.Len(t, repo.txns, 1)
	assert.Len(t, repo.audits, 1)
}

func TestServiceProcess_OrderUpdateFailureDoesNotBlockDonation(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["ref_2"] = &models.Order{ID: 3, TransactionID: "ref_2", PaymentStatus: models.PaymentStatusPending}
	repo.donations["ref_2"] = &models.Donation{ID: 4, TransactionID: "ref_2", PaymentStatus: models.PaymentStatusPending}
	repo.orderErr = errors.New("lock wait timeout")
	svc := NewService(repo)

	res, err := svc.Process(context.Background(), capturedEvent("ref_2", 75))
	require.NoError(t, err)

	assert.False(t, res.OrderMatched)
	assert.True(t, res.DonationMatched)
	assert.Equal(t, models.PaymentStatusCompleted, repo.donations["ref_2"].PaymentStatus)
	require.Error(t, res.Secondary)
}

func TestServiceProcess_RefundNotOverwrittenByLateCapture(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["pay_old"] = &models.Order{ID: 5, TransactionID: "pay_old", PaymentStatus: models.PaymentStatusRefunded}
	svc := NewService(repo)

	_, err := svc.Process(context.Background(), capturedEvent("pay_old", 10))
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusRefunded, repo.orders["pay_old"].PaymentStatus)
}

func TestServiceProcess_MarkProcessedFailureIsSecondary(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["pay_8"] = &models.Order{ID: 8, TransactionID: "pay_8", PaymentStatus: models.PaymentStatusPending}
	repo.markErr = errors.New("connection reset")
	svc := NewService(repo)

	res, err := svc.Process(context.Background(), capturedEvent("pay_8", 20))
	require.NoError(t, err)

	// the delivery is still acked, the bookkeeping failure is surfaced
	assert.True(t, res.OrderMatched)
	require.Error(t, res.Secondary)
	assert.Contains(t, res.Secondary.Error(), "mark processed")

	repoUnhandled := newFakeRepository()
	repoUnhandled.markErr = errors.New("connection reset")
	svcUnhandled := NewService(repoUnhandled)

	ev := &CanonicalEvent{
		Gateway:         GatewayStripe,
		Kind:            KindUnhandled,
		RawEventType:    "customer.created",
		ProviderEventID: "evt_y",
		RawBody:         []byte(`{"id":"evt_y","type":"customer.created"}`),
	}
	res, err = svcUnhandled.Process(context.Background(), ev)
	require.NoError(t, err)
	assert.True(t, res.Ignored)
	require.Error(t, res.Secondary)
	assert.Contains(t, res.Secondary.Error(), "mark processed")
}

func TestServiceProcess_RequiresGateway(t *testing.T) {
	svc := NewService(newFakeRepository())
	_, err := svc.Process(context.Background(), &CanonicalEvent{})
	require.Error(t, err)
	_, err = svc.Process(context.Background(), nil)
	require.Error(t, err)
}
