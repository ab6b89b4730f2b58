// Package main is the entrypoint for the Payform API server.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/payform/payform/internal/auth"
	"github.com/payform/payform/internal/cache"
	"github.com/payform/payform/internal/config"
	"github.com/payform/payform/internal/handler"
	"github.com/payform/payform/internal/metrics"
	"github.com/payform/payform/internal/middleware"
	"github.com/payform/payform/internal/notify"
	"github.com/payform/payform/internal/repository"
	"github.com/payform/payform/internal/server"
	"github.com/payform/payform/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Separate connection for the notification outbox
	outboxDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to open outbox database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer outboxDB.Close()
	outboxRepo := notify.NewRepository(outboxDB)

	// Metrics
	metricsRecorder := metrics.NewInMemory()

	// Notification publisher and delivery worker
	publisher := notify.NewPublisher(outboxRepo, logger, metricsRecorder)

	var worker *notify.Worker
	mailer, err := notify.NewSMTPMailer(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		// Without SMTP settings notifications stay queued until a
		// worker with a configured mailer drains them.
		logger.Warn("SMTP not configured, notification delivery disabled")
	} else {
		worker = notify.NewWorker(outboxRepo, mailer, logger, metricsRecorder)
	}

	// Token verification and identity resolution
	tokens := auth.NewTokenManager([]byte(cfg.AuthSecretKey), cfg.AuthTokenTTL)
	resolver := auth.NewResolver(tokens, repo)

	// Initialize services
	accountService := service.NewAccountService(repo, tokens, metricsRecorder)
	formService := service.NewPaymentFormService(repo, metricsRecorder)
	paymentService := service.NewPaymentService(repo, publisher, logger, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, outboxRepo, cacheClient)
	accountHandler := handler.NewAccountHandler(accountService, logger)
	formHandler := handler.NewPaymentFormHandler(formService, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	// Setup router
	r := setupRouter(h, healthHandler, accountHandler, formHandler, paymentHandler, resolver, cacheClient, cfg, logger)

	// Create server
	srv := server.New(
		r,
		server.Options{
			Port:            cfg.AppPort,
			ReadTimeout:     cfg.ReadTimeout,
			WriteTimeout:    cfg.WriteTimeout,
			IdleTimeout:     cfg.IdleTimeout,
			ShutdownTimeout: cfg.ShutdownTimeout,
		},
		logger,
	)

	// Start the delivery worker and stop it during shutdown
	if worker != nil {
		workerCtx, stopWorker := context.WithCancel(ctx)
		workerDone := make(chan struct{})
		go func() {
			defer close(workerDone)
			if err := worker.Run(workerCtx); err != nil {
				logger.Error("notification worker stopped", "error", err)
			}
		}()
		srv.OnShutdown("notification_worker", func(ctx context.Context) error {
			stopWorker()
			select {
			case <-workerDone:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	accountHandler *handler.AccountHandler,
	formHandler *handler.PaymentFormHandler,
	paymentHandler *handler.PaymentHandler,
	resolver *auth.Resolver,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment:      cfg.IsDevelopment(),
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Resolver: resolver,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:               logger,
		Cache:                cacheClient,
		APIEnabled:           cfg.RateLimitAPIEnabled,
		APIRequestsPerMinute: cfg.RateLimitAPIPerMinute,
		APIBurst:             cfg.RateLimitAPIBurst,
		PaymentEnabled:       cfg.RateLimitPaymentEnabled,
		PaymentRPS:           cfg.RateLimitPaymentRPS,
		PaymentBurst:         cfg.RateLimitPaymentBurst,
	}

	// Account endpoints (no auth required)
	r.Post("/signup", accountHandler.Signup)
	r.Post("/sign_in", accountHandler.SignIn)

	// Public payment endpoint with IP-based rate limiting
	r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/payments/{formID}", paymentHandler.Create)

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitAPI(rateLimitCfg))

		r.Route("/payment-forms", func(r chi.Router) {
			r.Get("/", formHandler.List)
			r.Post("/", formHandler.Create)
			r.Get("/{id}", formHandler.Get)
		})

		r.Get("/payment-history", paymentHandler.History)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
