package domain

import (
	"math"
	"time"
)

// TodayLabel is the label of the first forecast day.
const TodayLabel = "Today"

var dateLayouts = []string{"2006-01-02", "2006-01-02T15:04"}

// DayView is one rendered row of the forecast list.
type DayView struct {
	Date        string `json:"date"`
	Icon        Icon   `json:"icon"`
	Description string `json:"description"`
	Label       string `json:"label"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
}

// DayLabel labels the day at index in a forecast. Index 0 is always "Today"
// whatever its date. Other days get an abbreviated English weekday; dates
// that can't be parsed are returned unchanged.
func DayLabel(index int, date string) string {
	if index == 0 {
		return TodayLabel
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Format("Mon")
		}
	}
	return date
}

// DisplayMin floors a minimum temperature to whole degrees.
func DisplayMin(celsius float64) int {
	return int(math.Floor(celsius))
}

// DisplayMax ceils a maximum temperature to whole degrees.
func DisplayMax(celsius float64) int {
	return int(math.Ceil(celsius))
}

// DayViews renders every day of a forecast for display.
func DayViews(f DailyForecast) []DayView {
	days := f.Days()
	views := make([]DayView, 0, len(days))
	for i, d := range days {
		views = append(views, DayView{
			Date:        d.Date,
			Icon:        WeatherIcon(d.WeatherCode),
			Description: WeatherDescription(d.WeatherCode),
			Label:       DayLabel(i, d.Date),
			Min:         DisplayMin(d.TemperatureMin),
			Max:         DisplayMax(d.TemperatureMax),
		})
	}
	return views
}
