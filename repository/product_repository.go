package repository

import (
	"database/sql"
	"fmt"

	"promotrack/models"
)

// ProductRepository persists products and their monitored URLs.
type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// CreateProduct inserts a product and returns it with its assigned id.
func (r *ProductRepository) CreateProduct(name, description string) (*models.Product, error) {
	query := `
		INSERT INTO products (name, description)
		VALUES ($1, $2)
		RETURNING id, name, description, created_at
	`

	var product models.Product
	err := r.db.QueryRow(query, name, description).Scan(
		&product.ID, &product.Name, &product.Description, &product.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// GetProduct returns one product by id.
func (r *ProductRepository) GetProduct(id int) (*models.Product, error) {
	query := `SELECT id, name, description, created_at FROM products WHERE id = $1`

	var product models.Product
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ListProducts returns all products joined with their URL count and most
// recent observed price.
func (r *ProductRepository) ListProducts() ([]models.ProductSummary, error) {
	query := `
		SELECT
			p.id, p.name, p.description, p.created_at,
			COUNT(DISTINCT pu.id) AS url_count,
			latest.price, latest.scraped_at, COALESCE(latest.is_promo, FALSE)
		FROM products p
		LEFT JOIN product_urls pu ON pu.product_id = p.id
		LEFT JOIN LATERAL (
			SELECT price, scraped_at, is_promo
			FROM price_history
			WHERE product_id = p.id
			ORDER BY scraped_at DESC
			LIMIT 1
		) latest ON TRUE
		GROUP BY p.id, latest.price, latest.scraped_at, latest.is_promo
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []models.ProductSummary
	for rows.Next() {
		var p models.ProductSummary
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.CreatedAt,
			&p.URLCount, &p.CurrentPrice, &p.LastUpdate, &p.IsPromotion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ListProductIDs returns the ids of every product, for the scheduled sweep.
func (r *ProductRepository) ListProductIDs() ([]int, error) {
	rows, err := r.db.Query(`SELECT id FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list product ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteProduct removes a product and, through cascading, its URLs and
// history.
func (r *ProductRepository) DeleteProduct(id int) error {
	if _, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// AddProductURL attaches a monitored URL to a product.
func (r *ProductRepository) AddProductURL(productID int, url string) (*models.ProductURL, error) {
	query := `
		INSERT INTO product_urls (product_id, url)
		VALUES ($1, $2)
		RETURNING id, product_id, url, created_at
	`

	var productURL models.ProductURL
	err := r.db.QueryRow(query, productID, url).Scan(
		&productURL.ID, &productURL.ProductID, &productURL.URL, &productURL.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add product URL: %w", err)
	}
	return &productURL, nil
}

// GetProductURLs returns every monitored URL for a product.
func (r *ProductRepository) GetProductURLs(productID int) ([]models.ProductURL, error) {
	query := `
		SELECT id, product_id, url, created_at
		FROM product_urls
		WHERE product_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product URLs: %w", err)
	}
	defer rows.Close()

	var urls []models.ProductURL
	for rows.Next() {
		var u models.ProductURL
		if err := rows.Scan(&u.ID, &u.ProductID, &u.URL, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product URL: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
