package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aymanbest/Local-market-backend-sub000/internal/config"
	"github.com/aymanbest/Local-market-backend-sub000/internal/messaging"
	"github.com/aymanbest/Local-market-backend-sub000/internal/notify"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		logger.Error("KAFKA_BROKERS environment variable is required")
		os.Exit(1)
	}
	if cfg.EmailServiceURL == "" {
		logger.Error("EMAIL_SERVICE_URL environment variable is required")
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	relay := notify.NewRelay(cfg.EmailServiceURL, httpClient, logger)

	confirmations := messaging.NewConsumer(cfg.KafkaBrokers, notify.TopicConfirmations, "notifier")
	defer func() { _ = confirmations.Close() }()

	statusUpdates := messaging.NewConsumer(cfg.KafkaBrokers, notify.TopicStatusUpdates, "notifier")
	defer func() { _ = statusUpdates.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	logger.Info("starting notifier", "brokers", cfg.KafkaBrokers)

	var wg sync.WaitGroup
	consume := func(consumer *messaging.Consumer, handler func(context.Context, []byte) error) {
		defer wg.Done()
		if err := consumer.Consume(ctx, handler); err != nil {
			if ctx.Err() == context.Canceled {
				return
			}
			logger.Error("consumer error", "error", err)
			cancel()
		}
	}

	wg.Add(2)
	go consume(confirmations, relay.HandleConfirmation)
	go consume(statusUpdates, relay.HandleStatusUpdate)
	wg.Wait()
}
