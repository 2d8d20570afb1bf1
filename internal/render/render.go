// Package render turns pipeline state into the views shown to users: a JSON
// friendly WeatherView and a plain-text forecast list.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/rodferprod/classy-weather/internal/domain"
)

// LoadingText is shown while a resolution is in flight.
const LoadingText = "Loading..."

// WeatherView is the display model of a ResolutionState.
type WeatherView struct {
	Location        string           `json:"location"`
	DisplayLocation string           `json:"display_location"`
	IsLoading       bool             `json:"is_loading"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Days            []domain.DayView `json:"days"`
}

// View builds the display model. Days is empty, never nil, when there is no
// forecast.
func View(s domain.ResolutionState) WeatherView {
	return WeatherView{
		Location:        s.Location,
		DisplayLocation: s.DisplayLocation,
		IsLoading:       s.IsLoading,
		UpdatedAt:       s.UpdatedAt,
		Days:            domain.DayViews(s.Forecast),
	}
}

// Text writes the forecast list:
//
//	Loading...
//	Weather Lisbon 🇵🇹
//	☀️ Today 12° — 22°
//	🌦 Sat 11° — 18°
//
// The loading line appears only while loading, and the list only when the
// forecast has days.
func Text(w io.Writer, s domain.ResolutionState) error {
	if s.IsLoading {
		if _, err := fmt.Fprintln(w, LoadingText); err != nil {
			return err
		}
	}
	if s.Forecast.IsEmpty() {
		return nil
	}

	if _, err := fmt.Fprintf(w, "Weather %s\n", s.DisplayLocation); err != nil {
		return err
	}
	for _, d := range domain.DayViews(s.Forecast) {
		if _, err := fmt.Fprintf(w, "%s %s %d° — %d°\n", d.Icon, d.Label, d.Min, d.Max); err != nil {
			return err
		}
	}
	return nil
}
