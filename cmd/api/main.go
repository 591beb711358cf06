package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/aymanbest/Local-market-backend-sub000/internal/checkout"
	"github.com/aymanbest/Local-market-backend-sub000/internal/config"
	"github.com/aymanbest/Local-market-backend-sub000/internal/coupon"
	"github.com/aymanbest/Local-market-backend-sub000/internal/identity"
	"github.com/aymanbest/Local-market-backend-sub000/internal/notify"
	"github.com/aymanbest/Local-market-backend-sub000/internal/orders"
	"github.com/aymanbest/Local-market-backend-sub000/internal/payment"
	"github.com/aymanbest/Local-market-backend-sub000/internal/stock"
	"github.com/aymanbest/Local-market-backend-sub000/internal/telemetry"
	"github.com/aymanbest/Local-market-backend-sub000/internal/token"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if cfg.PostgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", cfg.PostgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	tokens := token.NewStore(cfg.RedisAddr)
	defer func() { _ = tokens.Close() }()

	dispatcher := notify.NewDispatcher(cfg.KafkaBrokers, logger)
	defer dispatcher.Close()

	httpClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	directory := identity.NewClient(cfg.AuthServiceURL, httpClient)
	products := stock.NewProductRepository(db)
	repo := orders.NewRepository(db)
	coupons := coupon.NewValidator(coupon.NewRepository(db))

	resolver := checkout.NewResolver(directory, tokens)
	checkoutService := checkout.NewService(resolver, products, repo, coupons, dispatcher, logger)
	checkoutHandler := checkout.NewHandler(checkoutService, logger)

	statusService := orders.NewStatusService(repo, dispatcher, logger)
	ordersHandler := orders.NewHandler(repo, statusService, tokens, products, logger)

	gateway := payment.NewHTTPGateway(cfg.PaymentGatewayURL, httpClient)
	paymentService := payment.NewService(tokens, repo, gateway, cfg.GatewayTimeout, logger)
	paymentHandler := payment.NewHandler(paymentService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /checkout", telemetry.WithHTTPRoute(checkoutHandler.HandleCheckout))
	mux.HandleFunc("POST /pay", telemetry.WithHTTPRoute(paymentHandler.HandlePay))
	mux.HandleFunc("GET /bundle/{accessToken}", telemetry.WithHTTPRoute(ordersHandler.HandleGetBundle))
	mux.HandleFunc("PUT /orders/{id}/status", telemetry.WithHTTPRoute(ordersHandler.HandleUpdateStatus))
	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(ordersHandler.HandleListProducts))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(ordersHandler.HandleGetProduct))
	mux.Handle("GET /metrics", metricsHandler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: otelhttp.NewHandler(mux, cfg.ServiceName,
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("starting api", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
