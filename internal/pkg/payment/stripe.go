package payment

import (
	"encoding/json"
	"strings"
)

// stripeEvent mirrors the subset of Stripe's event envelope this service
// consumes: the charge (or payment intent) object lives under data.object.
type stripeEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object stripeChargeObject `json:"object"`
	} `json:"data"`
}

// Amounts are pointers so an absent field is distinguishable from zero cents.
type stripeChargeObject struct {
	ID             string `json:"id"`
	Amount         *int64 `json:"amount"` // cents
	AmountRefunded *int64 `json:"amount_refunded"`
	Status         string `json:"status"`
	PaymentMethod  string `json:"payment_method"`
}

func parseStripeEvent(body []byte) (*CanonicalEvent, error) {
	var raw stripeEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Gateway: GatewayStripe, Field: "body", Reason: "not valid JSON"}
	}

	ev := &CanonicalEvent{
		Gateway:         GatewayStripe,
		Kind:            classifyStripeEvent(raw.Type),
		RawEventType:    strings.TrimSpace(raw.Type),
		ProviderEventID: strings.TrimSpace(raw.ID),
		RawBody:         body,
	}
	if ev.Kind == KindUnhandled {
		return ev, nil
	}

	ref := strings.TrimSpace(raw.Data.Object.ID)
	if ref == "" {
		return nil, &ParseError{Gateway: GatewayStripe, Field: "data.object.id", Reason: "missing reference id"}
	}
	amount := raw.Data.Object.Amount
	if ev.Kind == KindRefunded && raw.Data.Object.AmountRefunded != nil && *raw.Data.Object.AmountRefunded > 0 {
		amount = raw.Data.Object.AmountRefunded
	}
	if amount == nil {
		return nil, &ParseError{Gateway: GatewayStripe, Field: "data.object.amount", Reason: "missing amount"}
	}
	if *amount < 0 {
		return nil, &ParseError{Gateway: GatewayStripe, Field: "data.object.amount", Reason: "negative amount"}
	}

	ev.ReferenceID = ref
	ev.Amount = fromMinorUnits(*amount)
	ev.Method = strings.TrimSpace(raw.Data.Object.PaymentMethod)
	return ev, nil
}

func classifyStripeEvent(eventType string) EventKind {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "charge.succeeded", "payment_intent.succeeded":
		return KindCaptured
	case "charge.failed", "payment_intent.payment_failed":
		return KindFailed
	case "charge.refunded":
		return KindRefunded
	default:
		return KindUnhandled
	}
}
