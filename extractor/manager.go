// Package extractor turns a parsed product page into one reconciled
// ProductInfo. Four independent strategies each propose a candidate; the
// manager merges their disagreements using a fixed trust order.
package extractor

import (
	"errors"
	"log"
	"net/url"

	"promotrack/models"
	"promotrack/priceutil"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoProduct is returned when every strategy came back empty.
var ErrNoProduct = errors.New("no extraction strategy found product information")

// Strategy is one way of reading a product page. Implementations return a nil
// candidate (not an error) when the page simply lacks their markup; errors are
// reserved for genuine failures and never abort the other strategies.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, host string) (*models.Candidate, error)
}

// referenceOrder is the trust order used to pick the scale-correction
// reference price. Merging also resolves each field from the first candidate
// that defines it, in strategy registration order — the two orders coincide
// because strategies are registered most-trusted first. Correctness depends
// on this ordering; do not reorder casually.
var referenceOrder = []models.Source{
	models.SourceJSONLD,
	models.SourceMetaTags,
	models.SourceMicrodata,
	models.SourceHTMLGeneric,
}

// Manager runs every strategy against a document and merges the candidates.
type Manager struct {
	strategies []Strategy
}

func NewManager() *Manager {
	return &Manager{
		strategies: []Strategy{
			&JSONLDExtractor{},
			&MetaExtractor{},
			&MicrodataExtractor{},
			&HeuristicExtractor{},
		},
	}
}

// Extract runs all strategies independently and merges their candidates.
// A single failing strategy is logged and skipped; Extract fails only when
// zero strategies produced a candidate.
func (m *Manager) Extract(doc *goquery.Document, pageURL string) (*models.ProductInfo, error) {
	host := ""
	if parsed, err := url.Parse(pageURL); err == nil {
		host = parsed.Hostname()
	}

	var candidates []*models.Candidate
	for _, strategy := range m.strategies {
		candidate, err := strategy.Extract(doc, host)
		if err != nil {
			log.Printf("extractor %s failed on %s: %v", strategy.Name(), pageURL, err)
			continue
		}
		if candidate != nil {
			candidates = append(candidates, candidate)
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoProduct
	}

	return merge(candidates), nil
}

func merge(candidates []*models.Candidate) *models.ProductInfo {
	price, originalPrice := combinePrices(candidates)

	info := &models.ProductInfo{
		Price:           price,
		OriginalPrice:   originalPrice,
		DiscountPercent: priceutil.CalculateDiscount(price, originalPrice),
		Source:          models.SourceCombined,
		Confidence:      0.5,
	}

	// Descriptive fields come from the first candidate that knows the
	// product's name.
	for _, c := range candidates {
		if c.Name == "" {
			continue
		}
		info.Name = c.Name
		info.Description = c.Description
		info.Brand = c.Brand
		info.Source = c.Source
		info.Confidence = c.Confidence
		if c.Currency != "" {
			info.Currency = c.Currency
		}
		break
	}

	return info
}

func combinePrices(candidates []*models.Candidate) (price, originalPrice *float64) {
	reference := referencePrice(candidates)

	for _, c := range candidates {
		if price == nil && c.Price != nil {
			price = priceutil.Normalize(c.Price, reference)
		}
		if originalPrice == nil && c.OriginalPrice != nil {
			originalPrice = priceutil.Normalize(c.OriginalPrice, reference)
		}
	}

	// Last resort for the original price: a generic-heuristic price above
	// the resolved one is usually the struck price read from the wrong slot.
	if originalPrice == nil && price != nil {
		for _, c := range candidates {
			if c.Source == models.SourceHTMLGeneric && c.Price != nil && *c.Price > *price {
				originalPrice = priceutil.Normalize(c.Price, reference)
				break
			}
		}
	}

	return price, originalPrice
}

// referencePrice picks the price used for scale correction: the first
// candidate in trust order that has one.
func referencePrice(candidates []*models.Candidate) *float64 {
	for _, source := range referenceOrder {
		for _, c := range candidates {
			if c.Source == source && c.Price != nil {
				return c.Price
			}
		}
	}
	for _, c := range candidates {
		if c.Price != nil {
			return c.Price
		}
	}
	return nil
}
