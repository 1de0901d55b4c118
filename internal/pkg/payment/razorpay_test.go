package payment

import "testing"

func TestClassifyRazorpayEvent(t *testing.T) {
	tests := []struct {
		in   string
		want EventKind
	}{
		{in: "payment.captured", want: KindCaptured},
		{in: "order.paid", want: KindCaptured},
		{in: "payment.failed", want: KindFailed},
		{in: "refund.created", want: KindRefunded},
		{in: "refund.processed", want: KindRefunded},
		{in: "payment.authorized", want: KindUnhandled},
		{in: "invoice.paid", want: KindUnhandled},
		{in: "", want: KindUnhandled},
	}

	for _, tt := range tests {
		if got := classifyRazorpayEvent(tt.in); got != tt.want {
			t.Fatalf("classifyRazorpayEvent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRazorpayEvent_Captured(t *testing.T) {
	body := []byte(`{
		"event": "payment.captured",
		"payload": {
			"payment": {
				"entity": { "id": "pay_123", "amount": 250000, "status": "captured", "method": "upi" }
			}
		}
	}`)

	ev, err := parseRazorpayEvent(body)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Kind != KindCaptured {
		t.Fatalf("expected captured, got %q", ev.Kind)
	}
	if ev.ReferenceID != "pay_123" {
		t.Fatalf("unexpected reference id %q", ev.ReferenceID)
	}
	// 250000 paise normalizes to 2500.00 rupees
	if ev.Amount != 2500 {
		t.Fatalf("expected amount 2500, got %v", ev.Amount)
	}
	if ev.Method != "upi" {
		t.Fatalf("unexpected method %q", ev.Method)
	}
}

func TestParseRazorpayEvent_RefundFallsBackToRefundEntity(t *testing.T) {
	body := []byte(`{
		"event": "refund.processed",
		"payload": {
			"refund": {
				"entity": { "id": "rfnd_9", "payment_id": "pay_123", "amount": 50000 }
			}
		}
	}`)

	ev, err := parseRazorpayEvent(body)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Kind != KindRefunded {
		t.Fatalf("expected refunded, got %q", ev.Kind)
	}
	if ev.ReferenceID != "pay_123" {
		t.Fatalf("expected refund to reference the original payment, got %q", ev.ReferenceID)
	}
	if ev.Amount != 500 {
		t.Fatalf("expected amount 500, got %v", ev.Amount)
	}
}

func TestParseRazorpayEvent_UnhandledKeepsKindWithoutError(t *testing.T) {
	ev, err := parseRazorpayEvent([]byte(`{"event":"payment.authorized"}`))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if ev.Kind != KindUnhandled {
		t.Fatalf("expected unhandled, got %q", ev.Kind)
	}
	if ev.RawEventType != "payment.authorized" {
		t.Fatalf("expected raw event type preserved, got %q", ev.RawEventType)
	}
}

func TestParseRazorpayEvent_Errors(t *testing.T) {
	if _, err := parseRazorpayEvent([]byte(`not json`)); !IsParseError(err) {
		t.Fatalf("expected parse error for invalid JSON, got %v", err)
	}
	if _, err := parseRazorpayEvent([]byte(`{"event":"payment.captured","payload":{}}`)); !IsParseError(err) {
		t.Fatalf("expected parse error for missing reference id, got %v", err)
	}
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","amount":-5}}}}`)
	if _, err := parseRazorpayEvent(body); !IsParseError(err) {
		t.Fatalf("expected parse error for negative amount, got %v", err)
	}
}

func TestParseRazorpayEvent_MissingAmountIsRejected(t *testing.T) {
	// An entity without the amount field must not normalize to zero rupees.
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_noamt","status":"captured"}}}}`)
	if _, err := parseRazorpayEvent(body); !IsParseError(err) {
		t.Fatalf("expected parse error for missing amount, got %v", err)
	}

	refund := []byte(`{"event":"refund.processed","payload":{"refund":{"entity":{"id":"rfnd_1","payment_id":"pay_1"}}}}`)
	if _, err := parseRazorpayEvent(refund); !IsParseError(err) {
		t.Fatalf("expected parse error for refund without amount, got %v", err)
	}

	// An explicit zero amount is still a valid value.
	zero := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_free","amount":0}}}}`)
	ev, err := parseRazorpayEvent(zero)
	if err != nil {
		t.Fatalf("unexpected parse error for zero amount: %v", err)
	}
	if ev.Amount != 0 {
		t.Fatalf("expected amount 0, got %v", ev.Amount)
	}
}
