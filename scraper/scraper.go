// Package scraper orchestrates the per-URL monitoring pipeline: fetch the
// page, extract and analyze the price, record history and raise alerts.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"promotrack/analyzer"
	"promotrack/extractor"
	"promotrack/models"
	"promotrack/notifier"
	"promotrack/retry"

	"github.com/PuerkitoBio/goquery"
)

const (
	fetchTimeout = 15 * time.Second
	maxRedirects = 5

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ProductStore is the slice of the product repository the scraper needs.
type ProductStore interface {
	GetProduct(id int) (*models.Product, error)
	GetProductURLs(productID int) ([]models.ProductURL, error)
}

// HistoryStore records and recalls price observations.
type HistoryStore interface {
	AddEntry(entry *models.PriceHistoryEntry) error
	LastEntry(urlID int) (*models.PriceHistoryEntry, error)
}

// PriceScraper runs the extraction pipeline for every URL of a product. The
// collaborators are injected so tests can point the scraper at local servers
// and in-memory stores.
type PriceScraper struct {
	products  ProductStore
	history   HistoryStore
	notifier  notifier.Notifier
	extractor *extractor.Manager
	analyzer  *analyzer.PriceAnalyzer
	retry     *retry.Manager
	client    *http.Client
}

func NewPriceScraper(products ProductStore, history HistoryStore, alerts notifier.Notifier, retryManager *retry.Manager) *PriceScraper {
	return &PriceScraper{
		products:  products,
		history:   history,
		notifier:  alerts,
		extractor: extractor.NewManager(),
		analyzer:  analyzer.New(),
		retry:     retryManager,
		client: &http.Client{
			Timeout: fetchTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// ScrapeProduct scrapes every monitored URL of a product concurrently. Each
// URL settles into its own result; one failing page never hides the others.
func (s *PriceScraper) ScrapeProduct(ctx context.Context, productID int) ([]models.ScrapeResult, error) {
	product, err := s.products.GetProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product %d: %w", productID, err)
	}

	urls, err := s.products.GetProductURLs(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load URLs for product %d: %w", productID, err)
	}

	results := make([]models.ScrapeResult, len(urls))
	var wg sync.WaitGroup
	for i, productURL := range urls {
		wg.Add(1)
		go func(slot int, pu models.ProductURL) {
			defer wg.Done()
			results[slot] = s.scrapeURL(ctx, product, pu)
		}(i, productURL)
	}
	wg.Wait()

	return results, nil
}

// ScrapeURLInfo runs the pipeline against an arbitrary URL without touching
// the database. It backs the preview endpoint.
func (s *PriceScraper) ScrapeURLInfo(ctx context.Context, pageURL string) models.ScrapeResult {
	info, err := s.extract(ctx, pageURL)
	if err != nil {
		return models.ScrapeResult{URL: pageURL, Success: false, Error: err.Error()}
	}

	verdict := s.analyzer.DetectPromotion(info, nil)
	return models.ScrapeResult{
		URL:             pageURL,
		Success:         true,
		ProductName:     info.Name,
		Price:           info.Price,
		OriginalPrice:   info.OriginalPrice,
		DiscountPercent: info.DiscountPercent,
		IsPromotion:     verdict.IsPromotion,
		PromotionType:   verdict.Type,
		Confidence:      info.Confidence,
	}
}

func (s *PriceScraper) scrapeURL(ctx context.Context, product *models.Product, pu models.ProductURL) models.ScrapeResult {
	info, err := s.extract(ctx, pu.URL)
	if err != nil {
		log.Printf("scrape failed for %s: %v", pu.URL, err)
		return models.ScrapeResult{URL: pu.URL, Success: false, Error: err.Error()}
	}

	last, err := s.history.LastEntry(pu.ID)
	if err != nil {
		log.Printf("failed to read last price for url %d: %v", pu.ID, err)
		return models.ScrapeResult{URL: pu.URL, Success: false, Error: err.Error()}
	}

	var lastPrice *float64
	if last != nil {
		lastPrice = &last.Price
	}
	verdict := s.analyzer.DetectPromotion(info, lastPrice)

	name := info.Name
	if name == "" {
		name = product.Name
	}

	currency := info.Currency
	if currency == "" {
		currency = "EUR"
	}

	entry := &models.PriceHistoryEntry{
		ProductID:     product.ID,
		URLID:         pu.ID,
		Price:         *info.Price,
		Currency:      currency,
		IsPromo:       verdict.IsPromotion,
		PromotionType: string(verdict.Type),
		ProductName:   name,
	}
	if info.OriginalPrice != nil {
		entry.OriginalPrice.Valid = true
		entry.OriginalPrice.Float64 = *info.OriginalPrice
	}
	if info.DiscountPercent != nil {
		entry.DiscountPercent.Valid = true
		entry.DiscountPercent.Int64 = int64(*info.DiscountPercent)
	}

	if err := s.history.AddEntry(entry); err != nil {
		log.Printf("failed to record price for %s: %v", pu.URL, err)
		return models.ScrapeResult{URL: pu.URL, Success: false, Error: err.Error()}
	}

	if verdict.IsPromotion && s.notifier != nil {
		if s.isRepeatAlert(last, info) {
			log.Printf("suppressing repeat alert for %s (unchanged price)", pu.URL)
		} else {
			alert := notifier.Alert{
				ProductName:     name,
				NewPrice:        *info.Price,
				OldPrice:        promotionOldPrice(info, lastPrice),
				ProductURL:      pu.URL,
				DiscountPercent: info.DiscountPercent,
				PromotionType:   verdict.Type,
			}
			// Alert delivery failures never fail the scrape.
			if err := s.notifier.SendPriceAlert(alert); err != nil {
				log.Printf("failed to send price alert for %s: %v", pu.URL, err)
			}
		}
	}

	return models.ScrapeResult{
		URL:             pu.URL,
		Success:         true,
		ProductName:     name,
		Price:           info.Price,
		OriginalPrice:   info.OriginalPrice,
		DiscountPercent: info.DiscountPercent,
		PreviousPrice:   lastPrice,
		IsPromotion:     verdict.IsPromotion,
		PromotionType:   verdict.Type,
		Confidence:      info.Confidence,
	}
}

// extract fetches the page with retries and runs extraction plus analysis.
// A page that parses but yields no price is an error: the caller needs a
// price to record.
func (s *PriceScraper) extract(ctx context.Context, pageURL string) (*models.ProductInfo, error) {
	var doc *goquery.Document
	err := s.retry.Execute(ctx, func() error {
		var fetchErr error
		doc, fetchErr = s.fetch(ctx, pageURL)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	info, err := s.extractor.Extract(doc, pageURL)
	if err != nil {
		if errors.Is(err, extractor.ErrNoProduct) && looksLikeBotWall(doc) {
			return nil, fmt.Errorf("bot protection page served for %s", pageURL)
		}
		return nil, err
	}

	info = s.analyzer.Analyze(info)
	if info.Price == nil {
		return nil, fmt.Errorf("no price found at %s", pageURL)
	}
	return info, nil
}

// fetch downloads the page with browser-like headers. Responses at or above
// 400 are failures so the retry layer can take another attempt.
func (s *PriceScraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %s: %w", pageURL, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", acceptLanguage(pageURL))
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s returned status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// Amazon serves locale-dependent markup; asking for French keeps the
// selectors in domainSelectors valid.
func acceptLanguage(pageURL string) string {
	if parsed, err := url.Parse(pageURL); err == nil {
		if strings.Contains(parsed.Hostname(), "amazon.") {
			return "fr-FR,fr;q=0.9"
		}
	}
	return "en-US,en;q=0.9"
}

// isRepeatAlert reports whether the previous observation already alerted on
// the exact same price and discount. Stable promotions alert once, not every
// sweep.
func (s *PriceScraper) isRepeatAlert(last *models.PriceHistoryEntry, info *models.ProductInfo) bool {
	if last == nil || info.Price == nil {
		return false
	}
	if !last.IsPromo || last.Price != *info.Price {
		return false
	}

	lastDiscount := -1
	if last.DiscountPercent.Valid {
		lastDiscount = int(last.DiscountPercent.Int64)
	}
	newDiscount := -1
	if info.DiscountPercent != nil {
		newDiscount = *info.DiscountPercent
	}
	return lastDiscount == newDiscount
}

// promotionOldPrice picks the comparison price for an alert: the page's own
// struck price when present, otherwise the last recorded price.
func promotionOldPrice(info *models.ProductInfo, lastPrice *float64) *float64 {
	if info.OriginalPrice != nil {
		return info.OriginalPrice
	}
	return lastPrice
}
