package main

import (
	"log"
	"net/http"
	"strings"

	"promotrack/config"
	"promotrack/database"
	"promotrack/handlers"
	"promotrack/middleware"
	"promotrack/notifier"
	"promotrack/repository"
	"promotrack/retry"
	"promotrack/scheduler"
	"promotrack/scraper"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.CreateTables(db); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(db)
	historyRepo := repository.NewHistoryRepository(db)

	// Initialize notifiers
	alerts := buildNotifier(cfg)

	// Initialize scraper
	retryManager := retry.NewManager(cfg.MaxRetries, cfg.RetryBaseDelay, cfg.RetryBackoff)
	priceScraper := scraper.NewPriceScraper(productRepo, historyRepo, alerts, retryManager)

	// Initialize and start the periodic monitor
	monitor := scheduler.NewMonitor(productRepo, priceScraper, cfg.ScrapeInterval)
	if err := monitor.Start(); err != nil {
		log.Fatalf("Failed to start price monitor: %v", err)
	}
	defer monitor.Stop()

	// Initialize handlers
	h := handlers.NewHandlers(productRepo, historyRepo, priceScraper)

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerSecond))

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.ListProducts).Methods("GET")
	api.HandleFunc("/products", h.AddProduct).Methods("POST")
	api.HandleFunc("/products/{id}", h.GetProduct).Methods("GET")
	api.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")
	api.HandleFunc("/products/{id}/urls", h.AddProductURL).Methods("POST")
	api.HandleFunc("/products/{id}/urls", h.GetProductURLs).Methods("GET")
	api.HandleFunc("/products/{id}/history", h.GetPriceHistory).Methods("GET")
	api.HandleFunc("/scrape/preview", h.PreviewScrape).Methods("POST")
	api.HandleFunc("/scrape/{id}", h.ScrapeProduct).Methods("POST")

	// CORS configuration
	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, c.Handler(r)))
}

// buildNotifier assembles the alert channels that are configured; with none
// configured, promotions are still recorded but not announced.
func buildNotifier(cfg *config.Config) notifier.Notifier {
	var channels []notifier.Notifier

	if cfg.DiscordWebhookURL != "" {
		channels = append(channels, notifier.NewDiscordNotifier(cfg.DiscordWebhookURL))
		log.Println("Discord alerts enabled")
	}
	if cfg.SendGridAPIKey != "" && cfg.AlertEmailFrom != "" && cfg.AlertEmailTo != "" {
		channels = append(channels, notifier.NewEmailNotifier(cfg.SendGridAPIKey, cfg.AlertEmailFrom, cfg.AlertEmailTo))
		log.Println("Email alerts enabled")
	}

	switch len(channels) {
	case 0:
		log.Println("No alert channel configured, promotions will only be logged")
		return nil
	case 1:
		return channels[0]
	default:
		return notifier.Multi(channels)
	}
}
