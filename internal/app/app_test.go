package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rodferprod/classy-weather/internal/config"
	"github.com/rodferprod/classy-weather/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[{"name":"Berlin","latitude":52.52437,"longitude":13.41053,"timezone":"Europe/Berlin","country_code":"DE"}]}`))
	})
	mux.HandleFunc("GET /v1/forecast", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-04-26"],"weathercode":[3],"temperature_2m_max":[9.2],"temperature_2m_min":[1.1]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	return &config.Config{
		GeocodingURL:     apiURL + "/v1/search",
		ForecastURL:      apiURL + "/v1/forecast",
		APITimeout:       5 * time.Second,
		GeocodeCacheSize: 10,
		StorePath:        filepath.Join(t.TempDir(), "prefs.db"),
		KafkaTopic:       "forecast-updates",
	}
}

func TestNew_ResolvesAndPersists(t *testing.T) {
	api := fakeAPI(t)
	cfg := testConfig(t, api.URL)
	ctx := context.Background()

	a, err := New(ctx, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	require.NoError(t, err)
	assert.Nil(t, a.writer, "publishing is off without brokers")

	a.Pipeline.SetLocation(ctx, "Berlin")
	a.Pipeline.Wait()

	state := a.Pipeline.State()
	assert.Equal(t, "Berlin 🇩🇪", state.DisplayLocation)
	assert.Equal(t, []int{3}, state.Forecast.WeatherCode)

	stored, err := a.Store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Berlin", stored)

	a.Close(context.Background())
}

func TestNew_WithPublishing(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.GeocodeCacheSize = 0
	cfg.KafkaBrokers = []string{"127.0.0.1:1"}

	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	require.NoError(t, err)
	assert.NotNil(t, a.writer)
	a.Close(context.Background())
}

func TestNew_BadStorePath(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.StorePath = filepath.Join(t.TempDir(), "missing-dir", "prefs.db")

	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), observability.NewMetricsForTesting())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open location store")
}
