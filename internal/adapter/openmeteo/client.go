// Package openmeteo implements the geocoding and forecast ports against the
// Open-Meteo HTTP APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rodferprod/classy-weather/internal/domain"
	"github.com/rodferprod/classy-weather/internal/observability"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// API names used as metric labels.
	apiGeocode  = "geocode"
	apiForecast = "forecast"

	outcomeSuccess  = "success"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// newHTTPClient returns a traced client. A zero timeout means no timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

// getJSON issues a GET and decodes the JSON body into out. Every failure is
// wrapped with domain.ErrNetwork.
func getJSON(ctx context.Context, client *http.Client, metrics *observability.Metrics, api, fullURL string, out any) error {
	start := time.Now()
	defer func() {
		metrics.APIDuration.WithLabelValues(api).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		metrics.APIRequests.WithLabelValues(api, outcomeError).Inc()
		return fmt.Errorf("%w: create %s request: %w", domain.ErrNetwork, api, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(api, outcomeError).Inc()
		return fmt.Errorf("%w: %s request: %w", domain.ErrNetwork, api, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		metrics.APIRequests.WithLabelValues(api, outcomeError).Inc()
		return fmt.Errorf("%w: open-meteo %s API error: status %d: %s", domain.ErrNetwork, api, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.APIRequests.WithLabelValues(api, outcomeError).Inc()
		return fmt.Errorf("%w: decode %s response: %w", domain.ErrNetwork, api, err)
	}
	return nil
}
