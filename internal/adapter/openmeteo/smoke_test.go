//go:build openmeteo

package openmeteo

import (
	"context"
	"testing"
	"time"

	"github.com/rodferprod/classy-weather/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Open-Meteo APIs.
// Run with: go test -tags=openmeteo ./internal/adapter/openmeteo/ -v -count=1

func TestSmoke_ResolveAndFetch(t *testing.T) {
	m := observability.NewMetricsForTesting()
	geo := NewGeocodingClient(DefaultGeocodingURL, 10*time.Second, m, discardLogger())
	wx := NewForecastClient(DefaultForecastURL, 10*time.Second, m, discardLogger())

	result, err := geo.Resolve(context.Background(), "Lisbon")
	require.NoError(t, err)
	assert.InDelta(t, 38.72, result.Latitude, 0.1, "lat should be near Lisbon")
	assert.InDelta(t, -9.13, result.Longitude, 0.1, "lon should be near Lisbon")
	assert.Equal(t, "PT", result.CountryCode)
	assert.Equal(t, "Europe/Lisbon", result.Timezone)

	f, err := wx.FetchDaily(context.Background(), result.Latitude, result.Longitude, result.Timezone)
	require.NoError(t, err)
	assert.Equal(t, 7, f.Len())
}
