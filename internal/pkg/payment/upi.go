package payment

import (
	"encoding/json"
	"strings"
)

// upiNotification is the flat callback shape our UPI status poller posts.
// There is no discrete event-type field; the kind is derived from the
// reported status string.
type upiNotification struct {
	TransactionID string `json:"transactionId"`
	Amount        string `json:"amount"` // major-unit decimal string
	Status        string `json:"status"`
	VPA           string `json:"vpa"`
}

func parseUPINotification(body []byte) (*CanonicalEvent, error) {
	var raw upiNotification
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Gateway: GatewayUPI, Field: "body", Reason: "not valid JSON"}
	}

	status := strings.TrimSpace(raw.Status)
	ev := &CanonicalEvent{
		Gateway:      GatewayUPI,
		Kind:         classifyUPIStatus(status),
		RawEventType: status,
		Method:       "upi",
		RawBody:      body,
	}
	if ev.Kind == KindUnhandled {
		return ev, nil
	}

	ref := strings.TrimSpace(raw.TransactionID)
	if ref == "" {
		return nil, &ParseError{Gateway: GatewayUPI, Field: "transactionId", Reason: "missing reference id"}
	}
	amount, err := parseDecimalAmount(GatewayUPI, "amount", raw.Amount)
	if err != nil {
		return nil, err
	}

	ev.ReferenceID = ref
	ev.Amount = amount
	return ev, nil
}

func classifyUPIStatus(status string) EventKind {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "success", "completed", "captured":
		return KindCaptured
	case "failed", "failure", "declined", "expired":
		return KindFailed
	case "refunded", "refund":
		return KindRefunded
	default:
		return KindUnhandled
	}
}
