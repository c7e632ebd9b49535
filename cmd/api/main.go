package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Neelesh56789/Smart-LMS/api/routes"
	"github.com/Neelesh56789/Smart-LMS/internal/auth"
	"github.com/Neelesh56789/Smart-LMS/internal/cart"
	"github.com/Neelesh56789/Smart-LMS/internal/checkout"
	"github.com/Neelesh56789/Smart-LMS/internal/courses"
	"github.com/Neelesh56789/Smart-LMS/internal/entitlements"
	"github.com/Neelesh56789/Smart-LMS/internal/orders"
	"github.com/Neelesh56789/Smart-LMS/internal/progress"
	"github.com/Neelesh56789/Smart-LMS/internal/users"
	stripewebhook "github.com/Neelesh56789/Smart-LMS/internal/webhooks/stripe"
	"github.com/Neelesh56789/Smart-LMS/pkg/config"
	"github.com/Neelesh56789/Smart-LMS/pkg/db"
	"github.com/Neelesh56789/Smart-LMS/pkg/logger"
	"github.com/Neelesh56789/Smart-LMS/pkg/metrics"
	"github.com/Neelesh56789/Smart-LMS/pkg/migrate"
	"github.com/Neelesh56789/Smart-LMS/pkg/redis"
	"github.com/Neelesh56789/Smart-LMS/pkg/stripe"
)

const (
	shutdownTimeout  = 15 * time.Second
	webhookGuardTTL  = 24 * time.Hour
	webhookGuardName = "stripe-webhook"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	courseRepo := courses.NewRepository(conn)
	entitlementRepo := entitlements.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	progressRepo := progress.NewRepository(conn)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	exitOnError(logg, "auth service", err)

	gate, err := entitlements.NewService(entitlementRepo)
	exitOnError(logg, "entitlements service", err)

	courseService, err := courses.NewService(courseRepo, gate)
	exitOnError(logg, "courses service", err)

	cartService, err := cart.NewService(cartRepo, courseRepo, gate)
	exitOnError(logg, "cart service", err)

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		CartRepo:   cartRepo,
		CourseRepo: courseRepo,
		Stripe:     checkout.NewStripeClient(stripeClient),
		Config:     cfg.Checkout,
	})
	exitOnError(logg, "checkout service", err)

	orderService, err := orders.NewService(orderRepo, gate, courseRepo)
	exitOnError(logg, "orders service", err)

	progressService, err := progress.NewService(progressRepo, courseRepo, gate)
	exitOnError(logg, "progress service", err)

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, webhookGuardTTL, webhookGuardName)
	exitOnError(logg, "webhook guard", err)

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Guard:             webhookGuard,
		OrderRepo:         orderRepo,
		EntitlementRepo:   entitlementRepo,
		CartRepo:          cartRepo,
		CourseRepo:        courseRepo,
		UserRepo:          userRepo,
		TransactionRunner: dbClient,
		Metrics:           webhookMetrics,
	})
	exitOnError(logg, "webhook service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Registry:        registry,
			AuthService:     authService,
			CourseService:   courseService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			OrderService:    orderService,
			ProgressService: progressService,
			StripeClient:    stripeClient,
			WebhookService:  webhookService,
			WebhookMetrics:  webhookMetrics,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stop:
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func exitOnError(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
