package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBroker = "localhost:9092"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "https://geocoding-api.open-meteo.com/v1/search", cfg.GeocodingURL)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.ForecastURL)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 100, cfg.GeocodeCacheSize)
	assert.True(t, cfg.TimezoneLookup)
	assert.Equal(t, "classy-weather.db", cfg.StorePath)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "forecast-updates", cfg.KafkaTopic)
	assert.False(t, cfg.PublishingEnabled())
	assert.False(t, cfg.TracingEnabled())
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GEOCODING_URL", "http://geo.local/v1/search")
	t.Setenv("FORECAST_URL", "http://wx.local/v1/forecast")
	t.Setenv("API_TIMEOUT", "2s")
	t.Setenv("GEOCODE_CACHE_SIZE", "500")
	t.Setenv("TIMEZONE_LOOKUP", "false")
	t.Setenv("STORE_PATH", "/tmp/weather.db")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_TOPIC", "custom-topic")
	t.Setenv("ZIPKIN_ENDPOINT", "http://zipkin:9411/api/v2/spans")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "http://geo.local/v1/search", cfg.GeocodingURL)
	assert.Equal(t, "http://wx.local/v1/forecast", cfg.ForecastURL)
	assert.Equal(t, 2*time.Second, cfg.APITimeout)
	assert.Equal(t, 500, cfg.GeocodeCacheSize)
	assert.False(t, cfg.TimezoneLookup)
	assert.Equal(t, "/tmp/weather.db", cfg.StorePath)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-topic", cfg.KafkaTopic)
	assert.True(t, cfg.PublishingEnabled())
	assert.True(t, cfg.TracingEnabled())
}

func TestLoad_ZeroAPITimeoutDisablesTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "0s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.APITimeout)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidAPITimeout(t *testing.T) {
	for _, v := range []string{"bad", "-1s"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("API_TIMEOUT", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "API_TIMEOUT")
		})
	}
}

func TestLoad_InvalidCacheSize(t *testing.T) {
	for _, v := range []string{"lots", "-5"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("GEOCODE_CACHE_SIZE", v)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "GEOCODE_CACHE_SIZE")
		})
	}
}

func TestLoad_SingleBroker(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", testBroker)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{testBroker}, cfg.KafkaBrokers)
}
