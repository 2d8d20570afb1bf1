//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rodferprod/classy-weather/internal/adapter/kafka"
	"github.com/rodferprod/classy-weather/internal/adapter/openmeteo"
	"github.com/rodferprod/classy-weather/internal/adapter/sqlite"
	"github.com/rodferprod/classy-weather/internal/config"
	"github.com/rodferprod/classy-weather/internal/domain"
	"github.com/rodferprod/classy-weather/internal/observability"
	"github.com/rodferprod/classy-weather/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "test-forecast-updates"

// fakeOpenMeteo serves both APIs from one server, under the real paths.
func fakeOpenMeteo(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("name") != "Lisbon" {
			_, _ = w.Write([]byte(`{"generationtime_ms":0.3}`))
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"name":"Lisbon","latitude":38.71667,"longitude":-9.13333,"timezone":"Europe/Lisbon","country_code":"PT"}]}`))
	})
	mux.HandleFunc("GET /v1/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Europe/Lisbon", r.URL.Query().Get("timezone"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"daily":{"time":["2024-04-26","2024-04-27"],"weathercode":[0,61],"temperature_2m_max":[21.4,18.0],"temperature_2m_min":[12.1,11.9]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestForecastPublishedToKafka runs the full resolution path against a fake
// Open-Meteo, a real SQLite file and a real broker, then reads the event back.
func TestForecastPublishedToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testTopic)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	api := fakeOpenMeteo(t)

	store, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "prefs.db"), logger)
	require.NoError(t, err)
	defer store.Close()

	writer := kafka.NewWriter(&config.Config{KafkaBrokers: []string{broker}, KafkaTopic: testTopic}, logger)
	defer writer.Close()

	geo := openmeteo.NewCachedGeocoder(openmeteo.NewGeocodingClient(api.URL+"/v1/search", 5*time.Second, metrics, logger), 10, metrics)
	wx := openmeteo.NewForecastClient(api.URL+"/v1/forecast", 5*time.Second, metrics, logger)
	p := pipeline.New(geo, wx, store, logger, metrics, pipeline.WithPublisher(writer))

	p.SetLocation(ctx, "Nowhere")
	p.SetLocation(ctx, "Lisbon")
	p.Wait()

	state := p.State()
	assert.Equal(t, "Lisbon 🇵🇹", state.DisplayLocation)
	assert.Equal(t, 2, state.Forecast.Len())

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon", stored)

	consumer := newConsumer(broker, testTopic)
	defer consumer.Close()

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read forecast event")

	assert.Equal(t, "Lisbon", string(msg.Key))
	var event domain.ForecastEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "Lisbon", event.Query)
	assert.Equal(t, "Lisbon 🇵🇹", event.DisplayLocation)
	assert.Equal(t, "PT", event.Geo.CountryCode)
	assert.Equal(t, []int{0, 61}, event.Forecast.WeatherCode)
	assert.NotEmpty(t, event.ID)

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, event.ID, headers["event_id"])
}

// TestRestoreAfterRestart checks that a location saved by one pipeline is
// resolved by the next one opened on the same file.
func TestRestoreAfterRestart(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := fakeOpenMeteo(t)
	path := filepath.Join(t.TempDir(), "prefs.db")

	newPipeline := func(store domain.LocationStore) *pipeline.Pipeline {
		m := observability.NewMetricsForTesting()
		geo := openmeteo.NewGeocodingClient(api.URL+"/v1/search", 5*time.Second, m, logger)
		wx := openmeteo.NewForecastClient(api.URL+"/v1/forecast", 5*time.Second, m, logger)
		return pipeline.New(geo, wx, store, logger, m)
	}

	first, err := sqlite.Open(ctx, path, logger)
	require.NoError(t, err)
	p1 := newPipeline(first)
	p1.SetLocation(ctx, "Lisbon")
	p1.Wait()
	require.NoError(t, first.Close())

	second, err := sqlite.Open(ctx, path, logger)
	require.NoError(t, err)
	defer second.Close()

	p2 := newPipeline(second)
	require.NoError(t, p2.Restore(ctx))
	p2.Wait()

	state := p2.State()
	assert.Equal(t, "Lisbon", state.Location)
	assert.Equal(t, "Lisbon 🇵🇹", state.DisplayLocation)
	assert.Equal(t, 2, state.Forecast.Len())
}
