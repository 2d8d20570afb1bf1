package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/rodferprod/classy-weather/internal/domain"
	"github.com/rodferprod/classy-weather/internal/observability"
)

// DefaultGeocodingURL is the public Open-Meteo geocoding search endpoint.
const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// GeocodingClient implements domain.Geocoder using the Open-Meteo geocoding API.
type GeocodingClient struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewGeocodingClient creates a geocoding client for baseURL.
func NewGeocodingClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *GeocodingClient {
	return &GeocodingClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Resolve returns the first match for text. The text is sent as-is; no
// trimming or normalization happens here.
func (c *GeocodingClient) Resolve(ctx context.Context, text string) (domain.GeoResult, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.GeoResult{}, fmt.Errorf("parse geocoding URL: %w", err)
	}
	q := u.Query()
	q.Set("name", text)
	u.RawQuery = q.Encode()

	var resp geocodingResponse
	if err := getJSON(ctx, c.httpClient, c.metrics, apiGeocode, u.String(), &resp); err != nil {
		return domain.GeoResult{}, err
	}

	if len(resp.Results) == 0 {
		c.metrics.APIRequests.WithLabelValues(apiGeocode, outcomeNotFound).Inc()
		c.logger.Debug("no geocoding results", "query", text)
		return domain.GeoResult{}, fmt.Errorf("%w: %q", domain.ErrNotFound, text)
	}

	c.metrics.APIRequests.WithLabelValues(apiGeocode, outcomeSuccess).Inc()
	return resp.Results[0], nil
}

// Open-Meteo omits "results" entirely when nothing matches.
type geocodingResponse struct {
	Results []domain.GeoResult `json:"results"`
}
