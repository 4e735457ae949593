package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Product is a tracked product, possibly monitored on several store pages.
type Product struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ProductSummary is a Product joined with its latest observed price, used by
// the listing endpoint.
type ProductSummary struct {
	Product
	URLCount     int             `json:"url_count"`
	CurrentPrice sql.NullFloat64 `json:"-"`
	LastUpdate   *time.Time      `json:"last_update"`
	IsPromotion  bool            `json:"is_promotion"`
}

// MarshalJSON renders the nullable price as a plain number or null.
func (p *ProductSummary) MarshalJSON() ([]byte, error) {
	type Alias ProductSummary
	return json.Marshal(&struct {
		*Alias
		CurrentPrice *float64 `json:"current_price"`
	}{
		Alias:        (*Alias)(p),
		CurrentPrice: nullToPtr(p.CurrentPrice),
	})
}

// ProductURL is one monitored page for a product.
type ProductURL struct {
	ID        int       `json:"id" db:"id"`
	ProductID int       `json:"product_id" db:"product_id"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PriceHistoryEntry is one append-only price observation for a monitored URL.
type PriceHistoryEntry struct {
	ID              int             `json:"id" db:"id"`
	ProductID       int             `json:"product_id" db:"product_id"`
	URLID           int             `json:"url_id" db:"url_id"`
	Price           float64         `json:"price" db:"price"`
	OriginalPrice   sql.NullFloat64 `json:"-" db:"original_price"`
	DiscountPercent sql.NullInt64   `json:"-" db:"discount_percent"`
	Currency        string          `json:"currency" db:"currency"`
	IsPromo         bool            `json:"is_promo" db:"is_promo"`
	PromotionType   string          `json:"promotion_type" db:"promotion_type"`
	ProductName     string          `json:"product_name" db:"product_name"`
	ScrapedAt       time.Time       `json:"scraped_at" db:"scraped_at"`
}

// MarshalJSON renders nullable columns as numbers or null.
func (e *PriceHistoryEntry) MarshalJSON() ([]byte, error) {
	type Alias PriceHistoryEntry
	var discount *int64
	if e.DiscountPercent.Valid {
		d := e.DiscountPercent.Int64
		discount = &d
	}
	return json.Marshal(&struct {
		*Alias
		OriginalPrice   *float64 `json:"original_price"`
		DiscountPercent *int64   `json:"discount_percent"`
	}{
		Alias:           (*Alias)(e),
		OriginalPrice:   nullToPtr(e.OriginalPrice),
		DiscountPercent: discount,
	})
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if v.Valid {
		f := v.Float64
		return &f
	}
	return nil
}

// AddProductRequest is the payload for creating a product.
type AddProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AddURLRequest is the payload for attaching a monitored URL to a product.
type AddURLRequest struct {
	URL string `json:"url"`
}

// PreviewRequest is the payload for a one-off extraction preview.
type PreviewRequest struct {
	URL string `json:"url"`
}
