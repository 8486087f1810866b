package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/backend-kafe/internal/config"
	"github.com/noah-isme/backend-kafe/internal/events"
	"github.com/noah-isme/backend-kafe/internal/health"
	"github.com/noah-isme/backend-kafe/internal/menu"
	"github.com/noah-isme/backend-kafe/internal/obs"
	"github.com/noah-isme/backend-kafe/internal/pos"
)

func main() {
	cfg := config.MustLoad()

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Logger()

	metricsNamespace := envOrDefault("OBS_METRICS_NAMESPACE", "kafe")
	metricsEnabled := envBool("OBS_ENABLE_PROMETHEUS", true)
	obs.MustRegisterDomainMetrics(metricsNamespace, nil)

	tracingEnabled := envBool("OBS_ENABLE_TRACING", false)
	if tracingEnabled {
		sampling := envFloat("OBS_TRACING_SAMPLING_RATIO", 1.0)
		shutdown, err := obs.InitTracer(context.Background(), obs.TracingConfig{
			ServiceName:   "kafe-api",
			Endpoint:      envOrDefault("OBS_OTLP_ENDPOINT", ""),
			SamplingRatio: sampling,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
			tracingEnabled = false
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	catalog, err := seedCatalog(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed catalog")
	}

	bus := &events.Bus{
		Store:     events.NewMemoryStore(envInt("EVENTS_MEMORY_MAX", 1024)),
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}

	svc := &pos.Service{
		Catalog:   catalog,
		Events:    bus,
		Log:       logger,
		TTL:       cfg.SessionTTL,
		BakeItem:  "muffin",
		BakeBatch: cfg.BakeBatchSize,
	}
	posHandler := &pos.Handler{Svc: svc}
	adminHandler := &pos.AdminHandler{Svc: svc}

	var httpMetrics *obs.HTTPMetrics
	if metricsEnabled {
		buckets := obs.ParseBucketsCSV(envOrDefault("OBS_METRICS_BUCKETS_MS", ""))
		httpMetrics = obs.NewHTTPMetrics(metricsNamespace, buckets, nil)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if tracingEnabled {
		r.Use(obs.TracingMiddleware)
	}
	if metricsEnabled && httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	healthHandler := health.Handler{
		Checker: catalogChecker{catalog: catalog},
		Timeout: envDurationMillis("HEALTH_READY_TIMEOUT_MS", 500),
	}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	r.Route("/api/v1", func(v chi.Router) {
		v.Get("/menu", posHandler.Menu)

		v.Route("/orders", func(o chi.Router) {
			o.Post("/", posHandler.Create)
			o.Post("/{id}/items", posHandler.AddItem)
			o.Post("/{id}/combos", posHandler.AddCombo)
			o.Get("/{id}/quote", posHandler.Quote)
			o.Post("/{id}/checkout", posHandler.Checkout)
		})

		v.Route("/admin", func(admin chi.Router) {
			admin.Post("/bake", adminHandler.Bake)
			admin.Patch("/items/{name}/price", adminHandler.UpdatePrice)
			admin.Get("/reports/sales", adminHandler.SalesReport)
		})
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: r,
	}

	logger.Info().Str("addr", srv.Addr).Str("currency", cfg.CurrencyCode).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
}

func seedCatalog(cfg *config.Config) (*menu.Catalog, error) {
	muffin := menu.NewLimitedItem("Muffin", cfg.MuffinPrice, cfg.MuffinInitialStock)
	shake := menu.NewItem("Shake", cfg.ShakePrice, 0)
	coffee := menu.NewItem("Coffee", cfg.CoffeePrice, 0)
	return menu.New(
		[]*menu.Item{muffin, shake, coffee},
		[]*menu.Combo{
			menu.NewCombo("Coffee + Muffin", coffee, muffin, cfg.ComboDiscount),
			menu.NewCombo("Shake + Muffin", shake, muffin, cfg.ComboDiscount),
		},
	)
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}

type catalogChecker struct {
	catalog *menu.Catalog
}

func (c catalogChecker) Check(ctx context.Context, timeout time.Duration) error {
	if c.catalog == nil {
		return errors.New("catalog not configured")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(c.catalog.Items()) == 0 {
		return errors.New("catalog is empty")
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "1", "t", "true", "yes", "on":
			return true
		case "0", "f", "false", "no", "off":
			return false
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDurationMillis(key string, fallback int) time.Duration {
	return time.Duration(envInt(key, fallback)) * time.Millisecond
}
