package extractor

import (
	"testing"

	"promotrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicDomainSelectors(t *testing.T) {
	doc := makeDoc(t, `<html><body>
	<div class="userPrice">449,99 €</div>
	<div class="oldUserPrice">549,99 €</div>
	</body></html>`)

	candidate, err := (&HeuristicExtractor{}).Extract(doc, "fnac.com")
	require.NoError(t, err)
	require.NotNil(t, candidate)

	require.NotNil(t, candidate.Price)
	assert.Equal(t, 449.99, *candidate.Price)
	require.NotNil(t, candidate.OriginalPrice)
	assert.Equal(t, 549.99, *candidate.OriginalPrice)
	assert.Equal(t, models.SourceHTMLSpecific, candidate.Source)
	assert.Equal(t, 0.9, candidate.Confidence)
}

func TestHeuristicGenericFallback(t *testing.T) {
	doc := makeDoc(t, `<html><body>
	<span class="product-price">79,00 €</span>
	<del>99,00 €</del>
	</body></html>`)

	candidate, err := (&HeuristicExtractor{}).Extract(doc, "boutique-inconnue.fr")
	require.NoError(t, err)
	require.NotNil(t, candidate)

	require.NotNil(t, candidate.Price)
	assert.Equal(t, 79.0, *candidate.Price)
	require.NotNil(t, candidate.OriginalPrice)
	assert.Equal(t, 99.0, *candidate.OriginalPrice)
	assert.Equal(t, models.SourceHTMLGeneric, candidate.Source)
	assert.Equal(t, 0.4, candidate.Confidence)
}

func TestHeuristicSkipsSupersededPriceClasses(t *testing.T) {
	doc := makeDoc(t, `<html><body>
	<span class="old-price">120,00 €</span>
	<span class="current-price">85,50 €</span>
	</body></html>`)

	candidate, err := (&HeuristicExtractor{}).Extract(doc, "boutique-inconnue.fr")
	require.NoError(t, err)
	require.NotNil(t, candidate)

	require.NotNil(t, candidate.Price)
	assert.Equal(t, 85.50, *candidate.Price)
}

func TestHeuristicRejectsLowerOriginalPrice(t *testing.T) {
	doc := makeDoc(t, `<html><body>
	<span class="current-price">85,50 €</span>
	<del>12,00 €</del>
	</body></html>`)

	candidate, err := (&HeuristicExtractor{}).Extract(doc, "boutique-inconnue.fr")
	require.NoError(t, err)
	require.NotNil(t, candidate)

	// A struck price below the current one is noise, not a promotion.
	assert.Nil(t, candidate.OriginalPrice)
}

func TestHeuristicNoPriceAnywhere(t *testing.T) {
	doc := makeDoc(t, `<html><body><p>Rupture de stock</p></body></html>`)

	candidate, err := (&HeuristicExtractor{}).Extract(doc, "boutique-inconnue.fr")
	require.NoError(t, err)
	assert.Nil(t, candidate)
}
