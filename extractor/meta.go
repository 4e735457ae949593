package extractor

import (
	"regexp"
	"strings"

	"promotrack/models"

	"github.com/PuerkitoBio/goquery"
)

const metaConfidence = 0.7

// Meta price-amount keys, tried in order before the labeled twitter pair.
var metaPriceFields = []string{
	`meta[property="og:price:amount"]`,
	`meta[property="product:price:amount"]`,
	`meta[name="price"], meta[itemprop="price"]`,
}

var metaNumberPattern = regexp.MustCompile(`(\d+[,.]?\d*)`)

// MetaExtractor reads page-level metadata: Open Graph and product-schema
// price tags, plus the twitter:label1/twitter:data1 pair some shops use to
// encode the price as a labeled value.
type MetaExtractor struct{}

func (e *MetaExtractor) Name() string { return "meta-tags" }

func (e *MetaExtractor) Extract(doc *goquery.Document, host string) (*models.Candidate, error) {
	price := e.extractPrice(doc)
	if price == nil {
		return nil, nil
	}

	name, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if name == "" {
		name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	currency, _ := doc.Find(`meta[property="og:price:currency"]`).Attr("content")
	if currency == "" {
		currency, _ = doc.Find(`meta[property="product:price:currency"]`).Attr("content")
	}
	if currency == "" {
		currency, _ = doc.Find(`meta[itemprop="priceCurrency"]`).Attr("content")
	}
	if currency == "" {
		currency = "EUR"
	}

	return &models.Candidate{
		Name:       name,
		Price:      price,
		Currency:   currency,
		Confidence: metaConfidence,
		Source:     models.SourceMetaTags,
	}, nil
}

func (e *MetaExtractor) extractPrice(doc *goquery.Document) *float64 {
	for _, selector := range metaPriceFields {
		content, ok := doc.Find(selector).Attr("content")
		if !ok {
			continue
		}
		if price := parseNumber(content); price != nil {
			return price
		}
	}

	// Last resort: the twitter card data slot, but only when its label says
	// it holds a price.
	label, _ := doc.Find(`meta[name="twitter:label1"]`).Attr("content")
	data, _ := doc.Find(`meta[name="twitter:data1"]`).Attr("content")
	if data == "" || !labelMentionsPrice(label) {
		return nil
	}
	return parseLabeledPrice(data)
}

func labelMentionsPrice(label string) bool {
	label = strings.ToLower(label)
	return strings.Contains(label, "prix") || strings.Contains(label, "price")
}

func parseLabeledPrice(text string) *float64 {
	match := metaNumberPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}
	return parseNumber(strings.ReplaceAll(match[1], ",", "."))
}
