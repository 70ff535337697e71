package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	GatewayBaseURL string
	ListenAddr     string
	RequestTimeout time.Duration
	LocalStatePath string

	DashboardPollInterval time.Duration
	RefundPollInterval    time.Duration
	WebhookPollInterval   time.Duration

	// NoLogout suppresses the forced logout on refresh failure. Used by E2E runs
	// so an expired fixture token does not tear the session down mid-test.
	NoLogout bool

	CORSOrigins []string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	return Config{
		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:8000/api/v1"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 30*time.Second),
		LocalStatePath: getEnv("LOCAL_STATE_PATH", "console-state.db"),

		DashboardPollInterval: getDuration("DASHBOARD_POLL_INTERVAL", 30*time.Second),
		RefundPollInterval:    getDuration("REFUND_POLL_INTERVAL", 30*time.Second),
		WebhookPollInterval:   getDuration("WEBHOOK_POLL_INTERVAL", 10*time.Second),

		NoLogout: getBool("CONSOLE_NO_LOGOUT", false),

		CORSOrigins: strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using default", key, v)
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
