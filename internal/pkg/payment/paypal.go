package payment

import (
	"encoding/json"
	"strings"
)

// paypalEvent mirrors the subset of PayPal's webhook envelope this service
// consumes: the capture/refund resource with a major-unit decimal amount.
type paypalEvent struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Resource  struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
	} `json:"resource"`
}

func parsePaypalEvent(body []byte) (*CanonicalEvent, error) {
	var raw paypalEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Gateway: GatewayPaypal, Field: "body", Reason: "not valid JSON"}
	}

	ev := &CanonicalEvent{
		Gateway:         GatewayPaypal,
		Kind:            classifyPaypalEvent(raw.EventType),
		RawEventType:    strings.TrimSpace(raw.EventType),
		ProviderEventID: strings.TrimSpace(raw.ID),
		RawBody:         body,
	}
	if ev.Kind == KindUnhandled {
		return ev, nil
	}

	ref := strings.TrimSpace(raw.Resource.ID)
	if ref == "" {
		return nil, &ParseError{Gateway: GatewayPaypal, Field: "resource.id", Reason: "missing reference id"}
	}
	amount, err := parseDecimalAmount(GatewayPaypal, "resource.amount.value", raw.Resource.Amount.Value)
	if err != nil {
		return nil, err
	}

	ev.ReferenceID = ref
	ev.Amount = amount
	return ev, nil
}

func classifyPaypalEvent(eventType string) EventKind {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "payment.capture.completed", "checkout.order.approved":
		return KindCaptured
	case "payment.capture.denied", "payment.capture.declined":
		return KindFailed
	case "payment.capture.refunded", "payment.capture.reversed":
		return KindRefunded
	default:
		return KindUnhandled
	}
}
