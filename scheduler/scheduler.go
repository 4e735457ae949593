// Package scheduler drives the periodic monitoring sweeps.
package scheduler

import (
	"context"
	"log"
	"sync"

	"promotrack/models"

	"github.com/robfig/cron/v3"
)

// ProductLister enumerates the products to sweep.
type ProductLister interface {
	ListProductIDs() ([]int, error)
}

// Scraper runs the monitoring pipeline for one product.
type Scraper interface {
	ScrapeProduct(ctx context.Context, productID int) ([]models.ScrapeResult, error)
}

// Monitor sweeps every tracked product on a fixed interval. Sweeps are not
// serialized against each other: when one overruns the interval, the next
// starts anyway and the history table absorbs the duplicate observations.
type Monitor struct {
	cron     *cron.Cron
	products ProductLister
	scraper  Scraper
	interval string
}

// NewMonitor creates a monitor sweeping on the given cron spec, e.g.
// "@every 5m".
func NewMonitor(products ProductLister, scraper Scraper, interval string) *Monitor {
	return &Monitor{
		cron:     cron.New(),
		products: products,
		scraper:  scraper,
		interval: interval,
	}
}

// Start schedules the sweep and runs one immediately so a fresh deployment
// has data before the first tick.
func (m *Monitor) Start() error {
	if _, err := m.cron.AddFunc(m.interval, m.Sweep); err != nil {
		return err
	}

	go m.Sweep()

	m.cron.Start()
	log.Printf("price monitor scheduled (%s)", m.interval)
	return nil
}

func (m *Monitor) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}

// Sweep scrapes every product concurrently and waits for all of them to
// settle. It is also the body of the manual "scrape everything" trigger.
func (m *Monitor) Sweep() {
	ids, err := m.products.ListProductIDs()
	if err != nil {
		log.Printf("sweep aborted, failed to list products: %v", err)
		return
	}
	if len(ids) == 0 {
		log.Println("sweep skipped, no products tracked")
		return
	}

	log.Printf("sweeping %d products", len(ids))

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(productID int) {
			defer wg.Done()
			results, err := m.scraper.ScrapeProduct(context.Background(), productID)
			if err != nil {
				log.Printf("sweep failed for product %d: %v", productID, err)
				return
			}
			ok := 0
			for _, r := range results {
				if r.Success {
					ok++
				}
			}
			log.Printf("product %d swept: %d/%d URLs succeeded", productID, ok, len(results))
		}(id)
	}
	wg.Wait()

	log.Println("sweep complete")
}
