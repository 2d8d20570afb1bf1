package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/viper"
)

// Config holds all service settings, populated from environment variables
// and an optional classy-weather.yaml file.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Open-Meteo endpoints.
	GeocodingURL string
	ForecastURL  string
	// APITimeout bounds each upstream request. Zero disables the timeout.
	APITimeout       time.Duration
	GeocodeCacheSize int
	TimezoneLookup   bool

	StorePath string

	// Forecast event publishing, disabled when no brokers are set.
	KafkaBrokers []string
	KafkaTopic   string

	// Tracing, disabled when empty.
	ZipkinEndpoint string
}

// PublishingEnabled reports whether forecast events go to Kafka.
func (c *Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// TracingEnabled reports whether spans are exported to Zipkin.
func (c *Config) TracingEnabled() bool {
	return c.ZipkinEndpoint != ""
}

// Load reads configuration from environment variables and the optional config
// file, applying defaults where unset.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("classy-weather")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.classy-weather")

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("geocoding_url", "https://geocoding-api.open-meteo.com/v1/search")
	v.SetDefault("forecast_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("api_timeout", "10s")
	v.SetDefault("geocode_cache_size", 100)
	v.SetDefault("timezone_lookup", true)
	v.SetDefault("store_path", "classy-weather.db")
	v.SetDefault("kafka_brokers", "")
	v.SetDefault("kafka_topic", "forecast-updates")
	v.SetDefault("zipkin_endpoint", "")

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine, defaults and env cover everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := time.ParseDuration(v.GetString("api_timeout"))
	if err != nil || apiTimeout < 0 {
		return nil, errors.New("invalid API_TIMEOUT")
	}

	cacheSize, err := parseNonNegativeInt(v.GetString("geocode_cache_size"))
	if err != nil {
		return nil, errors.New("invalid GEOCODE_CACHE_SIZE")
	}

	cfg := &Config{
		HTTPAddr:         v.GetString("http_addr"),
		LogLevel:         v.GetString("log_level"),
		LogFormat:        v.GetString("log_format"),
		ShutdownTimeout:  shutdownTimeout,
		GeocodingURL:     v.GetString("geocoding_url"),
		ForecastURL:      v.GetString("forecast_url"),
		APITimeout:       apiTimeout,
		GeocodeCacheSize: cacheSize,
		TimezoneLookup:   v.GetBool("timezone_lookup"),
		StorePath:        v.GetString("store_path"),
		KafkaBrokers:     parseBrokers(v.GetString("kafka_brokers")),
		KafkaTopic:       v.GetString("kafka_topic"),
		ZipkinEndpoint:   v.GetString("zipkin_endpoint"),
	}

	if cfg.GeocodingURL == "" {
		return nil, errors.New("GEOCODING_URL is required")
	}
	if cfg.ForecastURL == "" {
		return nil, errors.New("FORECAST_URL is required")
	}
	if cfg.StorePath == "" {
		return nil, errors.New("STORE_PATH is required")
	}
	if cfg.PublishingEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_TOPIC is empty")
	}

	return cfg, nil
}

func parseBrokers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return sharedcfg.ParseBrokers(raw)
}

func parseNonNegativeInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}
