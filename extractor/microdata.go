package extractor

import (
	"strings"

	"promotrack/models"

	"github.com/PuerkitoBio/goquery"
)

const microdataConfidence = 0.8

// MicrodataExtractor reads inline itemprop annotations from the first element
// whose itemtype declares a Product.
type MicrodataExtractor struct{}

func (e *MicrodataExtractor) Name() string { return "microdata" }

func (e *MicrodataExtractor) Extract(doc *goquery.Document, host string) (*models.Candidate, error) {
	product := doc.Find(`[itemtype*="Product"]`).First()
	if product.Length() == 0 {
		return nil, nil
	}

	price := e.extractPrice(product.Find(`[itemprop="price"]`).First())
	if price == nil {
		return nil, nil
	}

	name := strings.TrimSpace(product.Find(`[itemprop="name"]`).First().Text())
	if name == "" {
		// Pages without an explicit name property almost always carry it in
		// the top-level heading.
		name = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	currency, _ := product.Find(`[itemprop="priceCurrency"]`).Attr("content")
	if currency == "" {
		currency = "EUR"
	}
	availability, _ := product.Find(`[itemprop="availability"]`).Attr("href")

	return &models.Candidate{
		Name:         name,
		Price:        price,
		Currency:     currency,
		Availability: availability,
		Confidence:   microdataConfidence,
		Source:       models.SourceMicrodata,
	}, nil
}

// extractPrice prefers the machine-readable content attribute over the
// element text.
func (e *MicrodataExtractor) extractPrice(price *goquery.Selection) *float64 {
	if price.Length() == 0 {
		return nil
	}
	if content, ok := price.Attr("content"); ok {
		if value := parseNumber(content); value != nil {
			return value
		}
	}
	return parsePrice(price.Text())
}
