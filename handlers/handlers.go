// Package handlers exposes the HTTP API: product CRUD, monitored URLs,
// price history and on-demand scrapes.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"promotrack/models"
	"promotrack/repository"
	"promotrack/scraper"

	"github.com/gorilla/mux"
)

type Handlers struct {
	products *repository.ProductRepository
	history  *repository.HistoryRepository
	scraper  *scraper.PriceScraper
}

func NewHandlers(products *repository.ProductRepository, history *repository.HistoryRepository, priceScraper *scraper.PriceScraper) *Handlers {
	return &Handlers{
		products: products,
		history:  history,
		scraper:  priceScraper,
	}
}

// HealthCheck returns a simple health check response
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "promotrack",
	})
}

// ListProducts returns every tracked product with its latest price.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}
	if products == nil {
		products = []models.ProductSummary{}
	}
	writeJSON(w, http.StatusOK, products)
}

// AddProduct creates a new tracked product.
func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req models.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	product, err := h.products.CreateProduct(req.Name, req.Description)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create product")
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// GetProduct returns one product with its monitored URLs and recent history.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.products.GetProduct(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	urls, err := h.products.GetProductURLs(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load product URLs")
		return
	}

	history, err := h.history.GetHistory(id, historyLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product": product,
		"urls":    urls,
		"history": history,
	})
}

// DeleteProduct removes a product along with its URLs and history.
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// AddProductURL attaches a new monitored URL to a product.
func (h *Handlers) AddProductURL(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req models.AddURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validURL(req.URL) {
		writeError(w, http.StatusBadRequest, "A valid http(s) URL is required")
		return
	}

	if _, err := h.products.GetProduct(id); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	productURL, err := h.products.AddProductURL(id, req.URL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add URL")
		return
	}
	writeJSON(w, http.StatusCreated, productURL)
}

// GetProductURLs lists the monitored URLs of a product.
func (h *Handlers) GetProductURLs(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	urls, err := h.products.GetProductURLs(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load product URLs")
		return
	}
	if urls == nil {
		urls = []models.ProductURL{}
	}
	writeJSON(w, http.StatusOK, urls)
}

// GetPriceHistory returns the recent price observations of a product.
func (h *Handlers) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	history, err := h.history.GetHistory(id, historyLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load price history")
		return
	}
	if history == nil {
		history = []models.PriceHistoryEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

// ScrapeProduct runs the pipeline for every URL of a product right now and
// returns the per-URL results.
func (h *Handlers) ScrapeProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if _, err := h.products.GetProduct(id); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	results, err := h.scraper.ScrapeProduct(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Scrape failed")
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// PreviewScrape extracts price information from an arbitrary URL without
// persisting anything, so a URL can be validated before tracking it.
func (h *Handlers) PreviewScrape(w http.ResponseWriter, r *http.Request) {
	var req models.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validURL(req.URL) {
		writeError(w, http.StatusBadRequest, "A valid http(s) URL is required")
		return
	}

	writeJSON(w, http.StatusOK, h.scraper.ScrapeURLInfo(r.Context(), req.URL))
}

func (h *Handlers) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return id, true
}

func historyLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}

func validURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
