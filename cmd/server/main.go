package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Simplici0/labgrowth/internal/config"
	"github.com/Simplici0/labgrowth/internal/db"
	"github.com/Simplici0/labgrowth/internal/handoff"
	"github.com/Simplici0/labgrowth/internal/leads"
	"github.com/Simplici0/labgrowth/internal/logger"
	"github.com/Simplici0/labgrowth/internal/metrics"
	"github.com/Simplici0/labgrowth/internal/migrations"
	"github.com/Simplici0/labgrowth/internal/ratelimit"
	"github.com/Simplici0/labgrowth/internal/seed"
)

const serviceName = "labgrowth"

type server struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	auth     *authService
	leads    *leads.Store
	links    *handoff.Links
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer

	leadLimiter  *ratelimit.Limiter
	loginLimiter *ratelimit.Limiter
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "labgrowth: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logg := logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
		File:        cfg.LogFile,
	})
	defer logg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, warning := range cfg.Warnings() {
		logg.Warn(logg.WithField(ctx, "setting", warning), "config.warning")
	}
	if !cfg.IsDev() && cfg.SessionSecret == "" {
		return errors.New("SESSION_SECRET is required outside dev")
	}

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close()

	if cfg.AutoMigrate {
		applied, err := migrations.Up(ctx, database)
		if err != nil {
			return fmt.Errorf("run database migrations: %w", err)
		}
		logg.Info(logg.WithField(ctx, "applied", applied), "migrations.complete")
	}

	stats, err := seed.Run(ctx, database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		return fmt.Errorf("seed database: %w", err)
	}
	logg.Info(logg.WithFields(ctx, map[string]any{"inserts": stats.Inserts, "updates": stats.Updates}), "seed.complete")

	var limiterStore ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RedisURL != "" {
		redisStore, err := ratelimit.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect rate limit store: %w", err)
		}
		defer redisStore.Close()
		limiterStore = redisStore
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srv, err := newServer(cfg, logg, database, limiterStore, registry)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "addr", httpServer.Addr), "server.listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "server.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	return nil
}

func newServer(cfg config.Config, logg *logger.Logger, database *sql.DB, limiterStore ratelimit.Store, registry *prometheus.Registry) (*server, error) {
	auth, err := newAuthService(database, cfg.SessionSecret, cfg.IsProd())
	if err != nil {
		return nil, err
	}
	links, err := handoff.New(cfg.CheckoutURL, cfg.BookingURL)
	if err != nil {
		return nil, err
	}

	return &server{
		cfg:      cfg,
		log:      logg,
		db:       database,
		auth:     auth,
		leads:    leads.NewStore(database),
		links:    links,
		metrics:  metrics.New(registry),
		gatherer: registry,
		leadLimiter: ratelimit.New(ratelimit.Policy{
			Name:   "leads",
			Limit:  cfg.LeadRateLimit,
			Window: cfg.LeadRateWindow,
		}, limiterStore),
		loginLimiter: ratelimit.New(ratelimit.Policy{
			Name:   "login",
			Limit:  cfg.LoginRateLimit,
			Window: cfg.LoginRateWindow,
		}, limiterStore),
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	if s.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(requestID(s.log))
	r.Use(requestLogging(s.log))
	r.Use(recoverer(s.log))
	r.Use(instrument(s.metrics))

	r.Get("/health/live", s.handleHealthLive)
	r.Get("/health/ready", s.handleHealthReady)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.handleCatalog)
		r.Get("/subscription-terms", s.handleSubscriptionTerms)
		r.Get("/discounts/bundle/{count}", s.handleBundleDiscount)
		r.Get("/discounts/subscription/{months}", s.handleSubscriptionDiscount)
		r.Post("/quote", s.handleQuote)
		r.Get("/bundles", s.handleBundles)
		r.Get("/bundles/{key}", s.handleBundle)
		r.Get("/goals", s.handleGoals)
		r.Get("/recommendation", s.handleRecommendation)
		r.Post("/roi", s.handleROI)
		r.Get("/booking-link", s.handleBookingLink)
		r.Get("/checkout-link", s.handleCheckoutLink)

		r.Group(func(r chi.Router) {
			r.Use(rateLimit(s.leadLimiter, s.metrics, s.log))
			r.Post("/leads", s.handleCreateLead)
			r.Post("/selections", s.handleCreateSelection)
		})
	})

	r.With(rateLimit(s.loginLimiter, s.metrics, s.log)).Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/leads", s.handleAdminLeads)
		r.Get("/leads/export", s.handleAdminExport)
		r.Get("/leads/{id}", s.handleAdminLead)
		r.Get("/selections", s.handleAdminSelections)
		r.Get("/selections/{id}", s.handleAdminSelection)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(r.Context(), nil, w, notFound("route not found", nil))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{Error: errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "method not allowed",
		}})
	})

	return r
}
