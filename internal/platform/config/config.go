package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RatePair is one configured (base, quote) ISO code pair to refresh daily.
type RatePair struct {
	Base  string
	Quote string
}

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       slog.Level
	MigrationsPath string

	// Manual trigger protection
	CronSecret       string `mapstructure:"CRON_SECRET"`
	CronSecretHash   string `mapstructure:"CRON_SECRET_HASH"`
	TriggerRateLimit string `mapstructure:"TRIGGER_RATE_LIMIT"` // ulule format, e.g. "5-M"

	// Rate refresh
	RateProviderURL  string
	RateBaseCurrency string
	RatePairs        []RatePair
	RateFetchTimeout time.Duration
	RateFetchRetries int
	RateCacheTTL     time.Duration

	// Materialization
	JobOwnerConcurrency      int
	JobMaxOccurrencesPerItem int

	// Notification sink
	PosthogAPIKey   string `mapstructure:"POSTHOG_API_KEY"`
	PosthogEndpoint string `mapstructure:"POSTHOG_ENDPOINT"`
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("CRON_SECRET", "")
	viper.SetDefault("CRON_SECRET_HASH", "")
	viper.SetDefault("TRIGGER_RATE_LIMIT", "5-M")
	viper.SetDefault("RATE_PROVIDER_URL", "https://api.frankfurter.app")
	viper.SetDefault("RATE_BASE_CURRENCY", "USD")
	viper.SetDefault("RATE_PAIRS", "")
	viper.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	viper.SetDefault("RATE_FETCH_RETRIES", 2)
	viper.SetDefault("RATE_CACHE_TTL", "1h")
	viper.SetDefault("JOB_OWNER_CONCURRENCY", 1)
	viper.SetDefault("JOB_MAX_OCCURRENCES_PER_ITEM", 24)
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "")

	// Environment variables override defaults and .env values.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid value for LOG_LEVEL ('%s'). Defaulting to info.\n", viper.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.CronSecret = viper.GetString("CRON_SECRET")
	cfg.CronSecretHash = viper.GetString("CRON_SECRET_HASH")
	if cfg.CronSecret == "" && cfg.CronSecretHash == "" {
		log.Println("Warning: neither CRON_SECRET nor CRON_SECRET_HASH is set. The manual trigger endpoint will reject every request.")
	}
	cfg.TriggerRateLimit = viper.GetString("TRIGGER_RATE_LIMIT")

	cfg.RateProviderURL = strings.TrimRight(viper.GetString("RATE_PROVIDER_URL"), "/")
	cfg.RateBaseCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("RATE_BASE_CURRENCY")))
	pairs, err := ParseRatePairs(viper.GetString("RATE_PAIRS"))
	if err != nil {
		return nil, err
	}
	cfg.RatePairs = pairs

	cfg.RateFetchTimeout = durationOrDefault("RATE_FETCH_TIMEOUT", 10*time.Second)
	cfg.RateCacheTTL = durationOrDefault("RATE_CACHE_TTL", time.Hour)

	cfg.RateFetchRetries = viper.GetInt("RATE_FETCH_RETRIES")
	if cfg.RateFetchRetries < 0 {
		log.Printf("Warning: RATE_FETCH_RETRIES must not be negative (%d). Defaulting to 0.\n", cfg.RateFetchRetries)
		cfg.RateFetchRetries = 0
	}

	cfg.JobOwnerConcurrency = viper.GetInt("JOB_OWNER_CONCURRENCY")
	if cfg.JobOwnerConcurrency < 1 {
		log.Printf("Warning: JOB_OWNER_CONCURRENCY must be at least 1 (%d). Defaulting to 1.\n", cfg.JobOwnerConcurrency)
		cfg.JobOwnerConcurrency = 1
	}

	cfg.JobMaxOccurrencesPerItem = viper.GetInt("JOB_MAX_OCCURRENCES_PER_ITEM")
	if cfg.JobMaxOccurrencesPerItem < 1 {
		log.Printf("Warning: JOB_MAX_OCCURRENCES_PER_ITEM must be at least 1 (%d). Defaulting to 24.\n", cfg.JobMaxOccurrencesPerItem)
		cfg.JobMaxOccurrencesPerItem = 24
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

// ParseRatePairs parses "USD:EUR,USD:GEL" into pairs. An empty string yields no pairs.
func ParseRatePairs(raw string) ([]RatePair, error) {
	var pairs []RatePair
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		base, quote, ok := strings.Cut(entry, ":")
		base = strings.ToUpper(strings.TrimSpace(base))
		quote = strings.ToUpper(strings.TrimSpace(quote))
		if !ok || base == "" || quote == "" || base == quote {
			return nil, fmt.Errorf("invalid RATE_PAIRS entry %q, expected BASE:QUOTE", entry)
		}
		pairs = append(pairs, RatePair{Base: base, Quote: quote})
	}
	return pairs, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}
