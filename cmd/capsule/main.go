// Package main is the entry point for the Capsule API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"capsule/internal/ai"
	"capsule/internal/billing"
	"capsule/internal/browser"
	"capsule/internal/cache"
	"capsule/internal/config"
	"capsule/internal/database"
	"capsule/internal/generate"
	"capsule/internal/handlers"
	"capsule/internal/mailer"
	"capsule/internal/router"
	"capsule/internal/scrape"
	"capsule/internal/session"
	"capsule/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + session store).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey.
	sessionStore := session.NewStore(valkeyClient)

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	brandKitStore := store.NewBrandKitStore(db)
	chatStore := store.NewChatStore(db)
	emailStore := store.NewEmailStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	usageStore := store.NewUsageStore(db)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"gemini":     {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"groq":       {APIKey: cfg.GroqKey, Model: cfg.GroqModel, BaseURL: cfg.GroqBaseURL},
		"openrouter": {APIKey: cfg.OpenRouterKey, Model: cfg.OpenRouterModel, BaseURL: cfg.OpenRouterBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Headless browser pool for the scrape pipeline. Browsers spawn
	// lazily on the first scrape request.
	browserPool := browser.NewPool(browser.Config{
		Size:      cfg.BrowserPoolSize,
		UserAgent: cfg.BrowserUserAgent,
	})

	// Assemble the brand extraction pipeline.
	scraper := scrape.NewService(
		scrape.NewRenderer(browserPool, cfg.BrowserNavTimeout),
		scrape.NewRanker(),
		scrape.NewNormalizer(aiRegistry),
		cache.NewScrapeCache(valkeyClient),
	)

	// Email draft generation and transactional sending.
	generator := generate.NewGenerator(aiRegistry)
	mailClient := mailer.NewClient(cfg.ResendKey)

	// Billing: webhook processing and hosted checkout.
	billingService := billing.NewService(subscriptionStore, userStore)
	checkoutClient := billing.NewCheckoutClient(cfg.PaymentsAPIKey, "")

	limits := handlers.PlanLimits{
		FreeChatsPerMonth: cfg.FreeChatsPerMonth,
		ProChatsPerMonth:  cfg.ProChatsPerMonth,
		FreeSendsPerDay:   cfg.FreeSendsPerDay,
		ProSendsPerDay:    cfg.ProSendsPerDay,
	}

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(sessionStore, userStore)
	kitHandlers := handlers.NewBrandKits(brandKitStore, scraper)
	chatHandlers := handlers.NewChats(chatStore, brandKitStore, usageStore, generator, limits)
	emailHandlers := handlers.NewEmails(emailStore, usageStore, mailClient, cfg.EmailFrom, limits)
	billingHandlers := handlers.NewBilling(billingService, checkoutClient, cfg.PaymentsSigningSecret, cfg.PaymentsProVariantID)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, kitHandlers, chatHandlers, emailHandlers, billingHandlers)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate scrape and generation endpoints that
	// wait on a headless browser or an LLM response (typically 10-30s).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete, then close the
	// browser pool.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := browserPool.Shutdown(ctx); err != nil {
		slog.Warn("browser pool shutdown incomplete", "error", err)
	}

	slog.Info("server stopped gracefully")
}
