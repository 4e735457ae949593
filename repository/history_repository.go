package repository

import (
	"database/sql"
	"fmt"

	"promotrack/models"
)

// HistoryRepository persists the append-only price-history log.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// AddEntry appends one price observation.
func (r *HistoryRepository) AddEntry(entry *models.PriceHistoryEntry) error {
	query := `
		INSERT INTO price_history
			(product_id, url_id, price, original_price, discount_percent,
			 currency, is_promo, promotion_type, product_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(query,
		entry.ProductID, entry.URLID, entry.Price, entry.OriginalPrice,
		entry.DiscountPercent, entry.Currency, entry.IsPromo,
		entry.PromotionType, entry.ProductName,
	)
	if err != nil {
		return fmt.Errorf("failed to add price history: %w", err)
	}
	return nil
}

// LastEntry returns the most recent observation for a monitored URL, or nil
// when none exists yet.
func (r *HistoryRepository) LastEntry(urlID int) (*models.PriceHistoryEntry, error) {
	query := `
		SELECT id, product_id, url_id, price, original_price, discount_percent,
		       currency, is_promo, promotion_type, product_name, scraped_at
		FROM price_history
		WHERE url_id = $1
		ORDER BY scraped_at DESC
		LIMIT 1
	`

	var entry models.PriceHistoryEntry
	err := r.db.QueryRow(query, urlID).Scan(
		&entry.ID, &entry.ProductID, &entry.URLID, &entry.Price,
		&entry.OriginalPrice, &entry.DiscountPercent, &entry.Currency,
		&entry.IsPromo, &entry.PromotionType, &entry.ProductName, &entry.ScrapedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last price entry: %w", err)
	}
	return &entry, nil
}

// GetHistory returns the most recent observations for a product.
func (r *HistoryRepository) GetHistory(productID, limit int) ([]models.PriceHistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, product_id, url_id, price, original_price, discount_percent,
		       currency, is_promo, promotion_type, product_name, scraped_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY scraped_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	defer rows.Close()

	var history []models.PriceHistoryEntry
	for rows.Next() {
		var entry models.PriceHistoryEntry
		err := rows.Scan(
			&entry.ID, &entry.ProductID, &entry.URLID, &entry.Price,
			&entry.OriginalPrice, &entry.DiscountPercent, &entry.Currency,
			&entry.IsPromo, &entry.PromotionType, &entry.ProductName, &entry.ScrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		history = append(history, entry)
	}
	return history, rows.Err()
}
