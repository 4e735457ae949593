package extractor

import (
	"errors"
	"testing"

	"promotrack/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerTrustsStructuredPriceOverHeuristic(t *testing.T) {
	// JSON-LD and the DOM disagree on the price; the structured value wins.
	doc := makeDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Robot pâtissier KM500", "offers": {"price": 279.00, "priceCurrency": "EUR"}}
	</script>
	</head><body>
	<span class="product-price">2,79 €</span>
	</body></html>`)

	info, err := NewManager().Extract(doc, "https://boutique-inconnue.fr/km500")
	require.NoError(t, err)

	assert.Equal(t, "Robot pâtissier KM500", info.Name)
	require.NotNil(t, info.Price)
	assert.Equal(t, 279.0, *info.Price)
	assert.Equal(t, models.SourceJSONLD, info.Source)
	assert.Equal(t, 0.9, info.Confidence)
}

func TestManagerHeuristicOriginalPriceFallback(t *testing.T) {
	// JSON-LD knows the current price but not the struck one; the generic
	// heuristic reads a higher price from the page, which becomes the
	// original price.
	doc := makeDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Friteuse AF300", "offers": {"price": 80}}
	</script>
	</head><body>
	<span class="product-price">100,00 €</span>
	</body></html>`)

	info, err := NewManager().Extract(doc, "https://boutique-inconnue.fr/af300")
	require.NoError(t, err)

	require.NotNil(t, info.Price)
	assert.Equal(t, 80.0, *info.Price)
	require.NotNil(t, info.OriginalPrice)
	assert.Equal(t, 100.0, *info.OriginalPrice)
	require.NotNil(t, info.DiscountPercent)
	assert.Equal(t, 20, *info.DiscountPercent)
}

func TestManagerScaleCorrectsAgainstReference(t *testing.T) {
	// The struck price misses its decimal scale; the trusted JSON-LD price
	// serves as the reference to rescale it.
	doc := makeDoc(t, `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Perceuse 18V", "offers": {"price": 125}}
	</script>
	</head><body>
	<span class="product-price">1,25 €</span>
	<del>2,50 €</del>
	</body></html>`)

	info, err := NewManager().Extract(doc, "https://boutique-inconnue.fr/perceuse")
	require.NoError(t, err)

	require.NotNil(t, info.Price)
	assert.Equal(t, 125.0, *info.Price)
	require.NotNil(t, info.OriginalPrice)
	assert.Equal(t, 250.0, *info.OriginalPrice)
}

func TestManagerDescriptiveFieldsFromFirstNamedCandidate(t *testing.T) {
	// The heuristic strategies never know the product name; when only meta
	// tags do, the merged info inherits their name, source and confidence.
	doc := makeDoc(t, `<html><head>
	<meta property="og:title" content="Lampe de bureau LED">
	<meta property="og:price:amount" content="39.90">
	</head><body></body></html>`)

	info, err := NewManager().Extract(doc, "https://boutique-inconnue.fr/lampe")
	require.NoError(t, err)

	assert.Equal(t, "Lampe de bureau LED", info.Name)
	assert.Equal(t, models.SourceMetaTags, info.Source)
	assert.Equal(t, 0.7, info.Confidence)
	assert.Equal(t, "EUR", info.Currency)
}

func TestManagerCombinedSourceWithoutName(t *testing.T) {
	doc := makeDoc(t, `<html><body>
	<span class="product-price">19,99 €</span>
	</body></html>`)

	info, err := NewManager().Extract(doc, "https://boutique-inconnue.fr/mystere")
	require.NoError(t, err)

	assert.Empty(t, info.Name)
	assert.Equal(t, models.SourceCombined, info.Source)
	assert.Equal(t, 0.5, info.Confidence)
}

func TestManagerNoProduct(t *testing.T) {
	doc := makeDoc(t, `<html><body><p>Page introuvable</p></body></html>`)

	_, err := NewManager().Extract(doc, "https://boutique-inconnue.fr/404")
	assert.ErrorIs(t, err, ErrNoProduct)
}

type failingStrategy struct{}

func (failingStrategy) Name() string { return "failing" }
func (failingStrategy) Extract(doc *goquery.Document, host string) (*models.Candidate, error) {
	return nil, errors.New("boom")
}

func TestManagerIsolatesStrategyFailure(t *testing.T) {
	doc := makeDoc(t, `<html><body>
	<span class="current-price">15,00 €</span>
	</body></html>`)

	m := &Manager{strategies: []Strategy{failingStrategy{}, &HeuristicExtractor{}}}
	info, err := m.Extract(doc, "https://boutique-inconnue.fr/isole")
	require.NoError(t, err)
	require.NotNil(t, info.Price)
	assert.Equal(t, 15.0, *info.Price)
}
