package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrpay/internal/domain/payroll"
	"hrpay/internal/platform/config"
	"hrpay/internal/platform/db"
	"hrpay/internal/platform/metrics"
	"hrpay/internal/transport/http/api"
	payrollhandler "hrpay/internal/transport/http/handlers/payroll"
	"hrpay/internal/transport/http/middleware"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	var pool *pgxpool.Pool
	var store *payroll.Store
	var provider payroll.ConfigProvider

	if cfg.DatabaseURL != "" {
		var err error
		pool, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				slog.Error("migrations failed", "err", err)
				os.Exit(1)
			}
			if err := db.Seed(ctx, pool); err != nil {
				slog.Error("seed failed", "err", err)
				os.Exit(1)
			}
		}

		store = payroll.NewStore(pool)
		provider = payroll.NewPGProvider(store)
	}

	// A YAML tax configuration directory overrides the database as the
	// bracket/deduction source; useful for review environments and for
	// pinning an audit run to a known config snapshot.
	if cfg.TaxConfigDir != "" {
		yamlProvider, err := payroll.LoadYAMLDir(cfg.TaxConfigDir)
		if err != nil {
			slog.Error("tax configuration load failed", "dir", cfg.TaxConfigDir, "err", err)
			os.Exit(1)
		}
		provider = yamlProvider
	}

	collector := metrics.New()
	calculator := payroll.NewCalculator(provider, payroll.NewPrefixFormatter(cfg.CurrencySymbol))
	service := payroll.NewService(store, calculator, cfg.PayslipDir)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := pool.Ping(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.MaxBytesHandler(next, cfg.MaxBodyBytes)
		})
		payrollhandler.NewHandler(service, collector, store != nil).RegisterRoutes(r)
	})

	slog.Info("payroll server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
