package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr          string
	PostgresURL       string
	RedisAddr         string
	KafkaBrokers      []string
	AuthServiceURL    string
	PaymentGatewayURL string
	EmailServiceURL   string
	GatewayTimeout    time.Duration
	SweepInterval     time.Duration
	ServiceName       string
	ServiceVersion    string
}

// Load reads configuration from the environment. A .env file, if present,
// seeds missing variables for local development.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:          getenv("HTTP_ADDR", ":8080"),
		PostgresURL:       getenv("POSTGRES_URL", ""),
		RedisAddr:         getenv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:      splitCSV(getenv("KAFKA_BROKERS", "")),
		AuthServiceURL:    getenv("AUTH_SERVICE_URL", ""),
		PaymentGatewayURL: getenv("PAYMENT_GATEWAY_URL", ""),
		EmailServiceURL:   getenv("EMAIL_SERVICE_URL", ""),
		GatewayTimeout:    getenvDuration("PAYMENT_GATEWAY_TIMEOUT", 30*time.Second),
		SweepInterval:     getenvDuration("RESERVATION_SWEEP_INTERVAL", time.Minute),
		ServiceName:       getenv("SERVICE_NAME", "local-market-api"),
		ServiceVersion:    getenv("SERVICE_VERSION", "0.1.0"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
