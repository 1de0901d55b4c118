package payment

import (
	"encoding/json"
	"strings"
)

// razorpayEvent mirrors the subset of Razorpay's webhook envelope this service
// consumes. Payment events nest the entity under payload.payment, refund
// events under payload.refund.
type razorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity razorpayPaymentEntity `json:"entity"`
		} `json:"payment"`
		Refund struct {
			Entity razorpayRefundEntity `json:"entity"`
		} `json:"refund"`
	} `json:"payload"`
}

// Amounts are pointers so an absent field is distinguishable from zero paise.
type razorpayPaymentEntity struct {
	ID     string `json:"id"`
	Amount *int64 `json:"amount"` // paise
	Status string `json:"status"`
	Method string `json:"method"`
}

type razorpayRefundEntity struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    *int64 `json:"amount"` // paise
}

func parseRazorpayEvent(body []byte) (*CanonicalEvent, error) {
	var raw razorpayEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Gateway: GatewayRazorpay, Field: "body", Reason: "not valid JSON"}
	}

	ev := &CanonicalEvent{
		Gateway:      GatewayRazorpay,
		Kind:         classifyRazorpayEvent(raw.Event),
		RawEventType: strings.TrimSpace(raw.Event),
		RawBody:      body,
	}
	if ev.Kind == KindUnhandled {
		return ev, nil
	}

	ref := strings.TrimSpace(raw.Payload.Payment.Entity.ID)
	amount := raw.Payload.Payment.Entity.Amount
	if ev.Kind == KindRefunded && ref == "" {
		// Refund events reference the original payment via the refund entity.
		ref = strings.TrimSpace(raw.Payload.Refund.Entity.PaymentID)
		amount = raw.Payload.Refund.Entity.Amount
	}
	if ref == "" {
		return nil, &ParseError{Gateway: GatewayRazorpay, Field: "payload.payment.entity.id", Reason: "missing reference id"}
	}
	if amount == nil {
		return nil, &ParseError{Gateway: GatewayRazorpay, Field: "payload.payment.entity.amount", Reason: "missing amount"}
	}
	if *amount < 0 {
		return nil, &ParseError{Gateway: GatewayRazorpay, Field: "payload.payment.entity.amount", Reason: "negative amount"}
	}

	ev.ReferenceID = ref
	ev.Amount = fromMinorUnits(*amount)
	ev.Method = strings.TrimSpace(raw.Payload.Payment.Entity.Method)
	return ev, nil
}

func classifyRazorpayEvent(eventType string) EventKind {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "payment.captured", "order.paid":
		return KindCaptured
	case "payment.failed":
		return KindFailed
	case "refund.created", "refund.processed":
		return KindRefunded
	default:
		return KindUnhandled
	}
}
