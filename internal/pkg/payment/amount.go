package payment

import (
	"math"
	"strconv"
	"strings"
)

// fromMinorUnits converts an integer minor-unit amount (paise, cents) into
// major units.
func fromMinorUnits(v int64) float64 {
	return float64(v) / 100
}

// parseDecimalAmount parses a major-unit decimal string as delivered by
// providers without a minor-unit convention.
func parseDecimalAmount(gateway, field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, &ParseError{Gateway: gateway, Field: field, Reason: "missing amount"}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ParseError{Gateway: gateway, Field: field, Reason: "not a decimal amount"}
	}
	if f < 0 {
		return 0, &ParseError{Gateway: gateway, Field: field, Reason: "negative amount"}
	}
	return f, nil
}
