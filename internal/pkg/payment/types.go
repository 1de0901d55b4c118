package payment

import "github.com/sevakart/payments/app/models"

// EventKind is the canonical outcome classification of a provider event.
type EventKind string

const (
	KindCaptured  EventKind = "captured"
	KindFailed    EventKind = "failed"
	KindRefunded  EventKind = "refunded"
	KindUnhandled EventKind = "unhandled"
)

// PaymentStatus maps a canonical kind to the entity payment status it results in.
func (k EventKind) PaymentStatus() string {
	switch k {
	case KindCaptured:
		return models.PaymentStatusCompleted
	case KindFailed:
		return models.PaymentStatusFailed
	case KindRefunded:
		return models.PaymentStatusRefunded
	default:
		return ""
	}
}

// Gateway identifiers accepted on the webhook endpoint.
const (
	GatewayRazorpay = "razorpay"
	GatewayStripe   = "stripe"
	GatewayPaypal   = "paypal"
	GatewayUPI      = "upi"
)

// CanonicalEvent is the provider-agnostic shape of one webhook delivery after
// adapter normalization. Amount is always in major units.
type CanonicalEvent struct {
	Gateway         string
	Kind            EventKind
	ReferenceID     string
	Amount          float64
	Method          string
	RawEventType    string
	ProviderEventID string
	SignatureValid  bool
	RawBody         []byte
}

// Result summarizes one processed webhook delivery. Secondary carries
// aggregated non-blocking write failures; it never prevents the 200 ack.
type Result struct {
	Duplicate       bool
	Ignored         bool
	OrderMatched    bool
	DonationMatched bool
	TxnID           string
	Secondary       error
}
