package domain

import (
	"fmt"
	"time"
)

// GeoResult is the first match returned by a geocoding provider.
type GeoResult struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Timezone    string  `json:"timezone"`
	Name        string  `json:"name"`
	CountryCode string  `json:"country_code"`
}

// DailyForecast is a multi-day forecast stored as parallel arrays, one entry
// per day. Index i of every slice describes the same day.
type DailyForecast struct {
	Time           []string  `json:"time"`
	WeatherCode    []int     `json:"weathercode"`
	TemperatureMax []float64 `json:"temperature_2m_max"`
	TemperatureMin []float64 `json:"temperature_2m_min"`
}

// DailyRecord is one day of a DailyForecast.
type DailyRecord struct {
	Date           string  `json:"date"`
	WeatherCode    int     `json:"weather_code"`
	TemperatureMax float64 `json:"temperature_max"`
	TemperatureMin float64 `json:"temperature_min"`
}

// Len returns the number of days in the forecast.
func (f DailyForecast) Len() int {
	return len(f.Time)
}

// IsEmpty reports whether the forecast has no days to display.
func (f DailyForecast) IsEmpty() bool {
	return len(f.Time) == 0 || len(f.WeatherCode) == 0
}

// Validate checks that all four arrays are present and aligned.
func (f DailyForecast) Validate() error {
	if f.Time == nil || f.WeatherCode == nil || f.TemperatureMax == nil || f.TemperatureMin == nil {
		return fmt.Errorf("daily forecast is missing fields")
	}
	n := len(f.Time)
	if len(f.WeatherCode) != n || len(f.TemperatureMax) != n || len(f.TemperatureMin) != n {
		return fmt.Errorf("daily forecast arrays differ in length: time=%d weathercode=%d max=%d min=%d",
			n, len(f.WeatherCode), len(f.TemperatureMax), len(f.TemperatureMin))
	}
	return nil
}

// Days zips the parallel arrays into per-day records. It stops at the
// shortest array, so an unvalidated forecast never panics.
func (f DailyForecast) Days() []DailyRecord {
	n := min(len(f.Time), len(f.WeatherCode), len(f.TemperatureMax), len(f.TemperatureMin))
	days := make([]DailyRecord, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, DailyRecord{
			Date:           f.Time[i],
			WeatherCode:    f.WeatherCode[i],
			TemperatureMax: f.TemperatureMax[i],
			TemperatureMin: f.TemperatureMin[i],
		})
	}
	return days
}

// Clone returns a deep copy so callers can't mutate shared slices.
func (f DailyForecast) Clone() DailyForecast {
	return DailyForecast{
		Time:           cloneSlice(f.Time),
		WeatherCode:    cloneSlice(f.WeatherCode),
		TemperatureMax: cloneSlice(f.TemperatureMax),
		TemperatureMin: cloneSlice(f.TemperatureMin),
	}
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// ResolutionState is the display state produced by the resolution pipeline.
type ResolutionState struct {
	Location        string        `json:"location"`
	IsLoading       bool          `json:"is_loading"`
	DisplayLocation string        `json:"display_location"`
	Forecast        DailyForecast `json:"forecast"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// ForecastEvent is published every time a new forecast is applied to the
// display state.
type ForecastEvent struct {
	ID              string        `json:"id"`
	Query           string        `json:"query"`
	DisplayLocation string        `json:"display_location"`
	Geo             GeoResult     `json:"geo"`
	Forecast        DailyForecast `json:"forecast"`
	ResolvedAt      time.Time     `json:"resolved_at"`
}
