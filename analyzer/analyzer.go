// Package analyzer sanity-checks merged prices and decides whether a scrape
// represents a promotion.
package analyzer

import (
	"fmt"
	"math"

	"promotrack/models"
	"promotrack/priceutil"
)

// Discounts under this percentage are treated as measurement noise, not real
// promotions.
const noiseDiscountPercent = 5

// A new price must undercut the last recorded one by at least this factor to
// count as a price drop.
const priceDropFactor = 0.9

// PriceAnalyzer derives an analyzed result from a merged extraction and
// classifies promotions against the last recorded price.
type PriceAnalyzer struct{}

func New() *PriceAnalyzer { return &PriceAnalyzer{} }

// Analyze returns a new ProductInfo with normalized prices, a recomputed
// discount and an adjusted confidence. The input is never mutated.
func (a *PriceAnalyzer) Analyze(info *models.ProductInfo) *models.ProductInfo {
	result := *info

	result.Price = priceutil.Normalize(info.Price, nil)
	result.OriginalPrice = priceutil.Normalize(info.OriginalPrice, nil)
	result.DiscountPercent = priceutil.CalculateDiscount(result.Price, result.OriginalPrice)

	// The heuristics sometimes mislabel the struck price; an "original"
	// below the current price means the two are swapped.
	if result.Price != nil && result.OriginalPrice != nil && *result.OriginalPrice < *result.Price {
		result.Price, result.OriginalPrice = result.OriginalPrice, result.Price
		result.DiscountPercent = priceutil.CalculateDiscount(result.Price, result.OriginalPrice)
	}

	// Sub-5% differences are rounding noise, not a struck price.
	if result.DiscountPercent != nil && *result.DiscountPercent < noiseDiscountPercent {
		result.OriginalPrice = nil
		result.DiscountPercent = nil
	}

	result.Confidence = a.calculateConfidence(&result)
	return &result
}

func (a *PriceAnalyzer) calculateConfidence(info *models.ProductInfo) float64 {
	confidence := info.Confidence
	if confidence == 0 {
		confidence = 0.5
	}

	if len(info.Name) > 5 {
		confidence += 0.1
	}
	if info.Price != nil && info.OriginalPrice != nil && *info.OriginalPrice > *info.Price {
		confidence += 0.1
	}
	if info.Price != nil && (*info.Price < 0.01 || *info.Price > 100000) {
		confidence -= 0.3
	}

	return math.Min(math.Max(confidence, 0), 1)
}

// DetectPromotion classifies the analyzed result. A struck price on the page
// takes priority over a drop versus the last recorded price.
func (a *PriceAnalyzer) DetectPromotion(info *models.ProductInfo, lastPrice *float64) models.PromotionVerdict {
	if info.Price == nil {
		return models.PromotionVerdict{Type: models.PromotionNone}
	}

	if info.OriginalPrice != nil && *info.Price < *info.OriginalPrice {
		discount := 0
		if info.DiscountPercent != nil {
			discount = *info.DiscountPercent
		}
		return models.PromotionVerdict{
			IsPromotion: true,
			Type:        models.PromotionStruckPrice,
			Reason:      fmt.Sprintf("%d%% off the listed price", discount),
		}
	}

	if lastPrice != nil && *info.Price < *lastPrice*priceDropFactor {
		drop := int(math.Round((*lastPrice - *info.Price) / *lastPrice * 100))
		return models.PromotionVerdict{
			IsPromotion: true,
			Type:        models.PromotionPriceDrop,
			Reason:      fmt.Sprintf("price moved from %.2f to %.2f (-%d%%)", *lastPrice, *info.Price, drop),
		}
	}

	return models.PromotionVerdict{Type: models.PromotionNone}
}
