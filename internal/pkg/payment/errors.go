package payment

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedGateway is returned for a `type` value outside the known set.
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")

	// ErrInvalidSignature is returned when a signed delivery fails verification.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ParseError reports a provider payload that could not be normalized into a
// CanonicalEvent.
type ParseError struct {
	Gateway string
	Field   string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s webhook payload invalid: %s: %s", e.Gateway, e.Field, e.Reason)
}

func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
