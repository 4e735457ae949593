package analyzer

import (
	"testing"

	"promotrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestAnalyzeSwapsInvertedPrices(t *testing.T) {
	info := &models.ProductInfo{
		Name:          "Grille-pain inox",
		Price:         fptr(100),
		OriginalPrice: fptr(80),
		Confidence:    0.5,
	}

	result := New().Analyze(info)

	require.NotNil(t, result.Price)
	assert.Equal(t, 80.0, *result.Price)
	require.NotNil(t, result.OriginalPrice)
	assert.Equal(t, 100.0, *result.OriginalPrice)
	require.NotNil(t, result.DiscountPercent)
	assert.Equal(t, 20, *result.DiscountPercent)

	// The input is left alone.
	assert.Equal(t, 100.0, *info.Price)
	assert.Equal(t, 80.0, *info.OriginalPrice)
}

func TestAnalyzeClearsNoiseDiscount(t *testing.T) {
	info := &models.ProductInfo{
		Price:         fptr(96),
		OriginalPrice: fptr(100),
		Confidence:    0.5,
	}

	result := New().Analyze(info)

	assert.Nil(t, result.OriginalPrice)
	assert.Nil(t, result.DiscountPercent)
}

func TestAnalyzeConfidence(t *testing.T) {
	tests := []struct {
		name     string
		info     models.ProductInfo
		expected float64
	}{
		{
			name:     "named product with valid discount pair",
			info:     models.ProductInfo{Name: "Casque audio", Price: fptr(80), OriginalPrice: fptr(100), Confidence: 0.5},
			expected: 0.7,
		},
		{
			name:     "short name earns nothing",
			info:     models.ProductInfo{Name: "TV", Price: fptr(80), Confidence: 0.5},
			expected: 0.5,
		},
		{
			name:     "implausible price is penalized",
			info:     models.ProductInfo{Name: "Lingot doré", Price: fptr(250000), Confidence: 0.5},
			expected: 0.3,
		},
		{
			name:     "zero confidence defaults to the midpoint",
			info:     models.ProductInfo{Price: fptr(80)},
			expected: 0.5,
		},
		{
			name:     "clamped at one",
			info:     models.ProductInfo{Name: "Aspirateur balai", Price: fptr(80), OriginalPrice: fptr(100), Confidence: 0.9},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := New().Analyze(&tt.info)
			assert.InDelta(t, tt.expected, result.Confidence, 1e-9)
		})
	}
}

func TestDetectPromotionStruckPriceTakesPriority(t *testing.T) {
	info := &models.ProductInfo{
		Price:           fptr(80),
		OriginalPrice:   fptr(100),
		DiscountPercent: func() *int { d := 20; return &d }(),
	}

	// Even with a lower last price on record, the page's own struck price
	// decides the classification.
	verdict := New().DetectPromotion(info, fptr(75))

	assert.True(t, verdict.IsPromotion)
	assert.Equal(t, models.PromotionStruckPrice, verdict.Type)
	assert.Equal(t, "20% off the listed price", verdict.Reason)
}

func TestDetectPromotionPriceDrop(t *testing.T) {
	info := &models.ProductInfo{Price: fptr(85)}

	verdict := New().DetectPromotion(info, fptr(100))

	assert.True(t, verdict.IsPromotion)
	assert.Equal(t, models.PromotionPriceDrop, verdict.Type)
	assert.Equal(t, "price moved from 100.00 to 85.00 (-15%)", verdict.Reason)
}

func TestDetectPromotionIgnoresSmallDrop(t *testing.T) {
	// 95 is above the 90% threshold of 100: not a drop.
	verdict := New().DetectPromotion(&models.ProductInfo{Price: fptr(95)}, fptr(100))

	assert.False(t, verdict.IsPromotion)
	assert.Equal(t, models.PromotionNone, verdict.Type)
}

func TestDetectPromotionFirstObservation(t *testing.T) {
	verdict := New().DetectPromotion(&models.ProductInfo{Price: fptr(50)}, nil)

	assert.False(t, verdict.IsPromotion)
	assert.Equal(t, models.PromotionNone, verdict.Type)
}
