package openmeteo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rodferprod/classy-weather/internal/domain"
	"github.com/rodferprod/classy-weather/internal/observability"
)

// API Docs: https://open-meteo.com/en/docs
// Sample request: https://api.open-meteo.com/v1/forecast?latitude=38.72&longitude=-9.13&timezone=Europe/Lisbon&daily=weathercode,temperature_2m_max,temperature_2m_min

// DefaultForecastURL is the public Open-Meteo forecast endpoint.
const DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

var dailyVars = []string{
	"weathercode",
	"temperature_2m_max",
	"temperature_2m_min",
}

// ForecastClient implements domain.ForecastProvider using the Open-Meteo
// forecast API.
type ForecastClient struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewForecastClient creates a forecast client for baseURL.
func NewForecastClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *ForecastClient {
	return &ForecastClient{
		httpClient: newHTTPClient(timeout),
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchDaily returns the daily forecast for the coordinates, with dates local
// to timezone. A response whose daily arrays are missing or misaligned is
// treated as a network error.
func (c *ForecastClient) FetchDaily(ctx context.Context, latitude, longitude float64, timezone string) (domain.DailyForecast, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.DailyForecast{}, fmt.Errorf("parse forecast URL: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("timezone", timezone)
	q.Set("daily", strings.Join(dailyVars, ","))
	u.RawQuery = q.Encode()

	var resp forecastResponse
	if err := getJSON(ctx, c.httpClient, c.metrics, apiForecast, u.String(), &resp); err != nil {
		return domain.DailyForecast{}, err
	}

	daily, err := resp.Daily.toForecast()
	if err == nil {
		err = daily.Validate()
	}
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(apiForecast, outcomeError).Inc()
		return domain.DailyForecast{}, fmt.Errorf("%w: %w", domain.ErrNetwork, err)
	}

	c.metrics.APIRequests.WithLabelValues(apiForecast, outcomeSuccess).Inc()
	c.logger.Debug("forecast fetched", "latitude", latitude, "longitude", longitude, "days", daily.Len())
	return daily, nil
}

type forecastResponse struct {
	Daily dailyPayload `json:"daily"`
}

// dailyPayload is the daily block as sent. Entries are nullable: Open-Meteo
// sends null for days it has no model data for.
type dailyPayload struct {
	Time           []*string  `json:"time"`
	WeatherCode    []*int     `json:"weathercode"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
}

func (d dailyPayload) toForecast() (domain.DailyForecast, error) {
	var (
		f   domain.DailyForecast
		err error
	)
	if f.Time, err = nonNull("time", d.Time); err != nil {
		return domain.DailyForecast{}, err
	}
	if f.WeatherCode, err = nonNull("weathercode", d.WeatherCode); err != nil {
		return domain.DailyForecast{}, err
	}
	if f.TemperatureMax, err = nonNull("temperature_2m_max", d.TemperatureMax); err != nil {
		return domain.DailyForecast{}, err
	}
	if f.TemperatureMin, err = nonNull("temperature_2m_min", d.TemperatureMin); err != nil {
		return domain.DailyForecast{}, err
	}
	return f, nil
}

// nonNull dereferences every entry. A nil slice stays nil so Validate can
// report the field as missing.
func nonNull[T any](field string, in []*T) ([]T, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		if v == nil {
			return nil, fmt.Errorf("daily %s[%d] is null", field, i)
		}
		out[i] = *v
	}
	return out, nil
}
