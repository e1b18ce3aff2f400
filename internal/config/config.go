package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/match-roulette/internal/platform/kvstore"
	"github.com/riskibarqy/match-roulette/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level
	CatalogBaseURL     string
	CatalogTimeout     time.Duration
	CatalogWarmup      bool
	CatalogRefreshCron string
	SpinSeed           uint64
	FilterStoreBackend string
	FilterStoreDir     string
	DBURL              string
	UptraceEnabled     bool
	UptraceDSN         string
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}

	catalogTimeout, err := getEnvAsDuration("CATALOG_TIMEOUT", 15*time.Second)
	if err != nil {
		return Config{}, err
	}
	catalogWarmup, err := strconv.ParseBool(getEnv("CATALOG_WARMUP", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CATALOG_WARMUP: %w", err)
	}
	catalogBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("CATALOG_BASE_URL", "https://us-central1-soccerapi-4e947.cloudfunctions.net")), "/")
	if !strings.HasPrefix(catalogBaseURL, "http://") && !strings.HasPrefix(catalogBaseURL, "https://") {
		return Config{}, fmt.Errorf("CATALOG_BASE_URL must be an http(s) URL, got %q", catalogBaseURL)
	}

	refreshCron := strings.TrimSpace(getEnv("CATALOG_REFRESH_CRON", ""))
	if refreshCron != "" {
		if _, err := cron.ParseStandard(refreshCron); err != nil {
			return Config{}, fmt.Errorf("parse CATALOG_REFRESH_CRON: %w", err)
		}
	}

	spinSeed, err := strconv.ParseUint(getEnv("SPIN_SEED", "0"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPIN_SEED: %w", err)
	}

	backend, err := parseFilterStoreBackend(getEnv("FILTER_STORE_BACKEND", kvstore.BackendFile))
	if err != nil {
		return Config{}, err
	}
	filterStoreDir := strings.TrimSpace(getEnv("FILTER_STORE_DIR", "./data"))
	if backend == kvstore.BackendFile && filterStoreDir == "" {
		return Config{}, fmt.Errorf("FILTER_STORE_DIR is required when FILTER_STORE_BACKEND=file")
	}
	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if backend == kvstore.BackendPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when FILTER_STORE_BACKEND=postgres")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        getEnv("SERVICE_NAME", "match-roulette-api"),
		ServiceVersion:     getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		CatalogBaseURL:     catalogBaseURL,
		CatalogTimeout:     catalogTimeout,
		CatalogWarmup:      catalogWarmup,
		CatalogRefreshCron: refreshCron,
		SpinSeed:           spinSeed,
		FilterStoreBackend: backend,
		FilterStoreDir:     filterStoreDir,
		DBURL:              dbURL,
		UptraceEnabled:     uptraceEnabled,
		UptraceDSN:         uptraceDSN,
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

// LogFormat picks the console encoder for local development.
func (c Config) LogFormat() logging.Format {
	if c.AppEnv == EnvDev {
		return logging.FormatConsole
	}
	return logging.FormatJSON
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseFilterStoreBackend(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case kvstore.BackendMemory, kvstore.BackendFile, kvstore.BackendPostgres:
		return value, nil
	default:
		return "", fmt.Errorf("invalid FILTER_STORE_BACKEND %q: valid values are %s, %s, %s",
			v, kvstore.BackendMemory, kvstore.BackendFile, kvstore.BackendPostgres)
	}
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
