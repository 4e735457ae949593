package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

// Patterns tried in order against cleaned element text. The two-decimals
// form goes first so "1 234,56 €" resolves before the bare-digits fallback
// can grab a partial match.
var (
	cleanPattern     = regexp.MustCompile(`[^\d,.\s€$]`)
	pricePatterns    = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)[,.](\d{2})\s*[€$]?`),
		regexp.MustCompile(`(\d+)\s*[€$]`),
		regexp.MustCompile(`[€$]\s*(\d+[,.]?\d*)`),
		regexp.MustCompile(`(\d+[,.]?\d*)`),
	}
	maxPlausiblePrice = 1000000.0
)

// parsePrice extracts the first plausible price from free-form element text.
// Everything except digits, separators, whitespace and currency glyphs is
// dropped before matching. Values outside (0, 1000000) are rejected as
// implausible. Returns nil when nothing parses.
func parsePrice(text string) *float64 {
	if text == "" {
		return nil
	}
	cleaned := strings.TrimSpace(cleanPattern.ReplaceAllString(text, " "))

	for _, pattern := range pricePatterns {
		match := pattern.FindStringSubmatch(cleaned)
		if match == nil {
			continue
		}
		raw := match[1]
		if len(match) > 2 && match[2] != "" {
			raw += "." + match[2]
		}
		value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil || value <= 0 || value >= maxPlausiblePrice {
			continue
		}
		return &value
	}
	return nil
}

// parseNumber parses a machine-formatted numeric attribute such as a JSON-LD
// offer price or a meta tag content value.
func parseNumber(raw string) *float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || value <= 0 {
		return nil
	}
	return &value
}
