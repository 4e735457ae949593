package extractor

import (
	"promotrack/models"

	"github.com/PuerkitoBio/goquery"
)

const genericConfidence = 0.4

// selectorPair is one domain-specific extraction rule: where the current
// price lives and, optionally, where the struck original price lives.
type selectorPair struct {
	price      string
	original   string
	confidence float64
}

// domainSelectors maps known store hostnames to ordered selector pairs.
// Rules are tried in order; the highest-confidence pair that matches wins.
var domainSelectors = map[string][]selectorPair{
	"amazon.fr": {
		{price: ".a-price-current .a-price-integer", original: ".a-text-strike .a-price-integer", confidence: 0.9},
		{price: "#apex_desktop .a-price .a-price-current", original: ".a-text-strike", confidence: 0.8},
	},
	"cdiscount.com": {
		{price: ".fpPrice", original: ".fpStriked", confidence: 0.9},
	},
	"fnac.com": {
		{price: ".userPrice", original: ".oldUserPrice", confidence: 0.9},
	},
	"leclerc.fr": {
		{price: ".price", original: ".price-before", confidence: 0.8},
	},
}

// Selectors that usually carry the current price. Class names hinting at a
// superseded price ("old", "was", "before") are excluded so a sale page does
// not hand us the struck price as current.
var genericPriceSelectors = []string{
	`[class*="price"]:not([class*="old"]):not([class*="was"]):not([class*="before"])`,
	`[data-price]`,
	`.current-price`,
	`.sale-price`,
	`.final-price`,
}

// Selectors that usually carry the struck original price.
var genericOriginalSelectors = []string{
	`[class*="old-price"], [class*="was-price"], [class*="before-price"]`,
	`.original-price`,
	`del, s, strike`,
	`[class*="strike"]`,
}

// HeuristicExtractor is the lowest-trust, highest-coverage strategy: CSS
// selector heuristics over the static DOM, used because the structured
// strategies frequently find nothing.
type HeuristicExtractor struct{}

func (e *HeuristicExtractor) Name() string { return "html-heuristic" }

func (e *HeuristicExtractor) Extract(doc *goquery.Document, host string) (*models.Candidate, error) {
	// Phase 1: rules for the specific store.
	var best *models.Candidate
	for _, pair := range domainSelectors[host] {
		candidate := e.trySelector(doc, pair)
		if candidate != nil && (best == nil || candidate.Confidence > best.Confidence) {
			best = candidate
		}
	}
	if best != nil {
		return best, nil
	}

	// Phase 2: generic fallback.
	return e.extractGeneric(doc), nil
}

func (e *HeuristicExtractor) trySelector(doc *goquery.Document, pair selectorPair) *models.Candidate {
	priceEl := doc.Find(pair.price).First()
	if priceEl.Length() == 0 {
		return nil
	}
	price := parsePrice(priceEl.Text())
	if price == nil {
		return nil
	}

	var originalPrice *float64
	if pair.original != "" {
		if originalEl := doc.Find(pair.original).First(); originalEl.Length() > 0 {
			originalPrice = parsePrice(originalEl.Text())
		}
	}

	confidence := pair.confidence
	if confidence == 0 {
		confidence = 0.6
	}

	return &models.Candidate{
		Price:         price,
		OriginalPrice: originalPrice,
		Confidence:    confidence,
		Source:        models.SourceHTMLSpecific,
	}
}

func (e *HeuristicExtractor) extractGeneric(doc *goquery.Document) *models.Candidate {
	var price *float64
	for _, selector := range genericPriceSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if candidate := parsePrice(s.Text()); candidate != nil {
				price = candidate
				return false
			}
			return true
		})
		if price != nil {
			break
		}
	}
	if price == nil {
		return nil
	}

	// An original-price candidate is only credible if it exceeds the price
	// we just found.
	var originalPrice *float64
	for _, selector := range genericOriginalSelectors {
		doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if candidate := parsePrice(s.Text()); candidate != nil && *candidate > *price {
				originalPrice = candidate
				return false
			}
			return true
		})
		if originalPrice != nil {
			break
		}
	}

	return &models.Candidate{
		Price:         price,
		OriginalPrice: originalPrice,
		Confidence:    genericConfidence,
		Source:        models.SourceHTMLGeneric,
	}
}
