package extractor

import (
	"strings"
	"testing"

	"promotrack/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestJSONLDExtractsProduct(t *testing.T) {
	doc := makeDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Product",
		"name": "Casque Bluetooth XB900",
		"description": "Casque sans fil",
		"brand": {"@type": "Brand", "name": "Sony"},
		"offers": {
			"@type": "Offer",
			"price": "149.99",
			"priceCurrency": "EUR",
			"availability": "https://schema.org/InStock"
		}
	}
	</script></head><body></body></html>`)

	candidate, err := (&JSONLDExtractor{}).Extract(doc, "example.com")
	require.NoError(t, err)
	require.NotNil(t, candidate)

	assert.Equal(t, "Casque Bluetooth XB900", candidate.Name)
	assert.Equal(t, "Sony", candidate.Brand)
	require.NotNil(t, candidate.Price)
	assert.Equal(t, 149.99, *candidate.Price)
	assert.Equal(t, "EUR", candidate.Currency)
	assert.Equal(t, "https://schema.org/InStock", candidate.Availability)
	assert.Equal(t, models.SourceJSONLD, candidate.Source)
	assert.Equal(t, 0.9, candidate.Confidence)
}

func TestJSONLDProductInsideGraph(t *testing.T) {
	doc := makeDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Boutique"},
			{"@type": "Product", "name": "Aspirateur V12", "offers": {"price": 299}}
		]
	}
	</script></head><body></body></html>`)

	candidate, err := (&JSONLDExtractor{}).Extract(doc, "example.com")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "Aspirateur V12", candidate.Name)
	require.NotNil(t, candidate.Price)
	assert.Equal(t, 299.0, *candidate.Price)
}

func TestJSONLDSkipsMalformedBlocks(t *testing.T) {
	doc := makeDoc(t, `<html><head>
	<script type="application/ld+json">{not json at all</script>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Montre GT2", "offers": {"price": "89,99"}}
	</script>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Montre GT3", "offers": {"price": "119.00"}}
	</script>
	</head><body></body></html>`)

	candidate, err := (&JSONLDExtractor{}).Extract(doc, "example.com")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	// The "89,99" price is not machine-parseable, so the second product block
	// is the only complete one.
	assert.Equal(t, "Montre GT3", candidate.Name)
	require.NotNil(t, candidate.Price)
	assert.Equal(t, 119.0, *candidate.Price)
}

func TestJSONLDPrefersMostCompleteBlock(t *testing.T) {
	doc := makeDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "offers": {"price": 10}}
	</script>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Enceinte One", "brand": "Sonos",
	 "offers": {"price": 199, "highPrice": 249}}
	</script>
	</head><body></body></html>`)

	candidate, err := (&JSONLDExtractor{}).Extract(doc, "example.com")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, "Enceinte One", candidate.Name)
	require.NotNil(t, candidate.OriginalPrice)
	assert.Equal(t, 249.0, *candidate.OriginalPrice)
}

func TestJSONLDLowPriceFallback(t *testing.T) {
	doc := makeDoc(t, `<html><head><script type="application/ld+json">
	{"@type": "Product", "name": "TV 55", "offers": {"lowPrice": 499, "highPrice": 649}}
	</script></head><body></body></html>`)

	candidate, err := (&JSONLDExtractor{}).Extract(doc, "example.com")
	require.NoError(t, err)
	require.NotNil(t, candidate)
	require.NotNil(t, candidate.Price)
	assert.Equal(t, 499.0, *candidate.Price)
}

func TestJSONLDReturnsNilWithoutPrice(t *testing.T) {
	doc := makeDoc(t, `<html><head><script type="application/ld+json">
	{"@type": "Product", "name": "Fiche produit sans offre"}
	</script></head><body></body></html>`)

	candidate, err := (&JSONLDExtractor{}).Extract(doc, "example.com")
	require.NoError(t, err)
	assert.Nil(t, candidate)
}
