package payment

import "strings"

// NormalizeGateway lowercases a `type` query value and applies the razorpay
// default for an empty selection.
func NormalizeGateway(gateway string) string {
	g := strings.ToLower(strings.TrimSpace(gateway))
	if g == "" {
		return GatewayRazorpay
	}
	return g
}

// SupportedGateway reports whether a gateway identifier is in the known set.
func SupportedGateway(gateway string) bool {
	switch gateway {
	case GatewayRazorpay, GatewayStripe, GatewayPaypal, GatewayUPI:
		return true
	default:
		return false
	}
}

// ParseEvent normalizes a raw provider payload into a CanonicalEvent via the
// adapter owning that provider's wire format. Unmapped event types yield a
// KindUnhandled event, never an error.
func ParseEvent(gateway string, body []byte) (*CanonicalEvent, error) {
	switch gateway {
	case GatewayRazorpay:
		return parseRazorpayEvent(body)
	case GatewayStripe:
		return parseStripeEvent(body)
	case GatewayPaypal:
		return parsePaypalEvent(body)
	case GatewayUPI:
		return parseUPINotification(body)
	default:
		return nil, ErrUnsupportedGateway
	}
}
