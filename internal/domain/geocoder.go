package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when geocoding yields no matches.
	ErrNotFound = errors.New("location not found")

	// ErrNetwork covers transport failures, unexpected status codes and
	// malformed upstream responses.
	ErrNetwork = errors.New("network error")

	// ErrInvalidCountryCode is returned for country codes that are not exactly
	// two ASCII letters.
	ErrInvalidCountryCode = errors.New("invalid country code")
)

// Geocoder resolves free-text locations to coordinates.
type Geocoder interface {
	// Resolve returns the best match for text, ErrNotFound when there is none.
	Resolve(ctx context.Context, text string) (GeoResult, error)
}

// ForecastProvider fetches daily forecasts.
type ForecastProvider interface {
	FetchDaily(ctx context.Context, latitude, longitude float64, timezone string) (DailyForecast, error)
}

// LocationStore persists the last entered location text.
type LocationStore interface {
	// Load returns the stored text, or "" if nothing has been saved yet.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, text string) error
}

// TimezoneFinder derives an IANA timezone from coordinates. Used when the
// geocoding provider omits one.
type TimezoneFinder interface {
	GetTimezone(latitude, longitude float64) (string, error)
}

// Publisher emits forecast events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event ForecastEvent) error
}
