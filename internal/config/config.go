package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries the server settings read from the environment. Credentials
// for the outbound integrations (SendGrid, Twilio) stay in the environment
// and are read by the services that use them.
type Config struct {
	Port           string
	DatabaseURL    string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
	JWTSecret      string
	StripeAPIKey   string
	TickInterval   time.Duration
}

// Load reads .env if present and resolves the configuration.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		Debug:        getBool("DEBUG", false),
		LogPath:      getEnv("LOG_PATH", "logs/"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		StripeAPIKey: os.Getenv("STRIPE_API_KEY"),
		TickInterval: getDuration("SESSION_TICK_INTERVAL", time.Minute),
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	origins := getEnv("ALLOWED_ORIGINS", "*")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
