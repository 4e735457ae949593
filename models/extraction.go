package models

// Source identifies which extraction strategy produced a candidate. The
// declaration order is the trust order consumed by the merge step.
type Source string

const (
	SourceJSONLD       Source = "json-ld"
	SourceMetaTags     Source = "meta-tags"
	SourceMicrodata    Source = "microdata"
	SourceHTMLSpecific Source = "html-specific"
	SourceHTMLGeneric  Source = "html-generic"
	SourceCombined     Source = "combined"
)

// Candidate is one strategy's proposed reading of a product page. It is
// immutable once produced; Confidence reflects the strategy's trust level,
// not the quality of the extracted data.
type Candidate struct {
	Name          string   `json:"name,omitempty"`
	Description   string   `json:"description,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	Availability  string   `json:"availability,omitempty"`
	Confidence    float64  `json:"confidence"`
	Source        Source   `json:"source"`
}

// ProductInfo is the reconciled result of one extraction pass: the merged
// candidate fields after normalization and, post-analysis, the adjusted
// confidence. Each pipeline stage builds a new value rather than mutating.
type ProductInfo struct {
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description,omitempty"`
	Brand           string   `json:"brand,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	OriginalPrice   *float64 `json:"original_price,omitempty"`
	DiscountPercent *int     `json:"discount_percent,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	Confidence      float64  `json:"confidence"`
	Source          Source   `json:"source"`
}

// PromotionType classifies a detected promotion.
type PromotionType string

const (
	PromotionStruckPrice PromotionType = "struck-price"
	PromotionPriceDrop   PromotionType = "price-drop"
	PromotionNone        PromotionType = "none"
)

// PromotionVerdict is the analyzer's decision for one scrape.
type PromotionVerdict struct {
	IsPromotion bool          `json:"is_promotion"`
	Type        PromotionType `json:"type"`
	Reason      string        `json:"reason,omitempty"`
}

// ScrapeResult is the per-URL outcome surfaced to callers. One record is
// produced per monitored URL whether the scrape succeeded or not.
type ScrapeResult struct {
	URL             string        `json:"url"`
	Success         bool          `json:"success"`
	ProductName     string        `json:"product_name,omitempty"`
	Price           *float64      `json:"price,omitempty"`
	OriginalPrice   *float64      `json:"original_price,omitempty"`
	DiscountPercent *int          `json:"discount_percent,omitempty"`
	PreviousPrice   *float64      `json:"previous_price,omitempty"`
	IsPromotion     bool          `json:"is_promotion"`
	PromotionType   PromotionType `json:"promotion_type,omitempty"`
	Confidence      float64       `json:"confidence,omitempty"`
	Error           string        `json:"error,omitempty"`
}
