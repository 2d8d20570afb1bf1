package domain

import "github.com/google/uuid"

// NewForecastEvent builds the event published after a forecast is applied.
// The forecast is copied so later state changes don't leak into the event.
func NewForecastEvent(query, displayLocation string, geo GeoResult, forecast DailyForecast) ForecastEvent {
	return ForecastEvent{
		ID:              uuid.NewString(),
		Query:           query,
		DisplayLocation: displayLocation,
		Geo:             geo,
		Forecast:        forecast.Clone(),
		ResolvedAt:      clock.Now(),
	}
}
