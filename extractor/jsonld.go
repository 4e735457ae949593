package extractor

import (
	"encoding/json"

	"promotrack/models"

	"github.com/PuerkitoBio/goquery"
)

const jsonLDConfidence = 0.9

// JSONLDExtractor reads embedded schema.org Product blocks. It is the most
// trusted strategy: sites that ship structured data usually keep it accurate
// for SEO reasons.
type JSONLDExtractor struct{}

func (e *JSONLDExtractor) Name() string { return "json-ld" }

// Extract scans every ld+json script block, collects the Product nodes it can
// decode and keeps the most complete one. Malformed blocks are skipped
// individually so one broken script never fails the document.
func (e *JSONLDExtractor) Extract(doc *goquery.Document, host string) (*models.Candidate, error) {
	var candidates []*models.Candidate

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload interface{}
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		product := findProductNode(payload)
		if product == nil {
			return
		}
		candidates = append(candidates, e.parseProduct(product))
	})

	var best *models.Candidate
	for _, c := range candidates {
		if c.Price == nil {
			continue
		}
		if best == nil || completeness(c) > completeness(best) {
			best = c
		}
	}
	if best == nil {
		return nil, nil
	}

	best.Confidence = jsonLDConfidence
	best.Source = models.SourceJSONLD
	return best, nil
}

// findProductNode walks nested arrays and @graph containers looking for the
// first node typed as a Product.
func findProductNode(node interface{}) map[string]interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		if v["@type"] == "Product" {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			return findProductNode(graph)
		}
	case []interface{}:
		for _, item := range v {
			if product := findProductNode(item); product != nil {
				return product
			}
		}
	}
	return nil
}

func (e *JSONLDExtractor) parseProduct(product map[string]interface{}) *models.Candidate {
	offers := firstOffer(product["offers"])

	candidate := &models.Candidate{
		Name:        stringField(product, "name"),
		Description: stringField(product, "description"),
		Brand:       brandName(product["brand"]),
		Currency:    "EUR",
	}

	if offers != nil {
		if price := offerPrice(offers["price"]); price != nil {
			candidate.Price = price
		} else {
			candidate.Price = offerPrice(offers["lowPrice"])
		}
		candidate.OriginalPrice = offerPrice(offers["highPrice"])
		if currency := stringField(offers, "priceCurrency"); currency != "" {
			candidate.Currency = currency
		}
		candidate.Availability = stringField(offers, "availability")
	}

	return candidate
}

func firstOffer(offers interface{}) map[string]interface{} {
	switch v := offers.(type) {
	case map[string]interface{}:
		return v
	case []interface{}:
		if len(v) > 0 {
			if m, ok := v[0].(map[string]interface{}); ok {
				return m
			}
		}
	}
	return nil
}

// offerPrice tolerates both JSON numbers and numeric strings; schema.org
// pages ship either.
func offerPrice(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		if v > 0 {
			return &v
		}
	case string:
		return parseNumber(v)
	}
	return nil
}

func stringField(node map[string]interface{}, key string) string {
	if s, ok := node[key].(string); ok {
		return s
	}
	return ""
}

func brandName(brand interface{}) string {
	switch v := brand.(type) {
	case string:
		return v
	case map[string]interface{}:
		return stringField(v, "name")
	}
	return ""
}

// completeness scores how informative a candidate is: name +2, price +3,
// original price +1, brand +1. Ties keep the earlier block.
func completeness(c *models.Candidate) int {
	score := 0
	if c.Name != "" {
		score += 2
	}
	if c.Price != nil {
		score += 3
	}
	if c.OriginalPrice != nil {
		score++
	}
	if c.Brand != "" {
		score++
	}
	return score
}
