// Package priceutil holds the pure price-normalization helpers shared by the
// extraction pipeline and the analyzer.
package priceutil

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d.,]`)

// Parse converts a raw price string to a number. Non-numeric characters are
// stripped and a decimal comma becomes a decimal point. Returns nil on
// unparsable input instead of an error so one bad field never aborts a
// pipeline stage.
func Parse(raw string) *float64 {
	cleaned := strings.ReplaceAll(nonNumeric.ReplaceAllString(raw, ""), ",", ".")
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}

// Normalize rescales price against an optional reference price. When the
// value is less than half the reference it is assumed mis-scaled (cents
// instead of whole units, or a truncated selector match) and is multiplied by
// powers of 10 until it reaches at least 80% of the reference.
//
// The correction is a heuristic, not authoritative: a page whose true price
// legitimately differs from the reference by more than 2x (bundle vs. unit
// pricing) will be rescaled incorrectly.
func Normalize(price, reference *float64) *float64 {
	if price == nil {
		return nil
	}
	value := *price
	if reference != nil && value > 0 && value < *reference/2 {
		factor := 10.0
		for value*factor < *reference*0.8 {
			factor *= 10
		}
		value *= factor
	}
	return &value
}

// NormalizeString parses and rescales in one step.
func NormalizeString(raw string, reference *float64) *float64 {
	return Normalize(Parse(raw), reference)
}

// CalculateDiscount returns the rounded discount percentage, or nil unless
// the original price strictly exceeds the current one.
func CalculateDiscount(price, originalPrice *float64) *int {
	if price == nil || originalPrice == nil || *originalPrice <= *price {
		return nil
	}
	discount := int(math.Round((*originalPrice - *price) / *originalPrice * 100))
	return &discount
}
