// Package domain models the location-to-forecast resolution data used by the
// weather widget.
//
// # Data Source
//
// Locations are resolved with the Open-Meteo geocoding API
// (https://geocoding-api.open-meteo.com/v1/search) and forecasts come from the
// Open-Meteo forecast API (https://api.open-meteo.com/v1/forecast). Both are
// keyless public endpoints.
//
// # Open-Meteo Conventions
//
// Geocoding:
//
//	The first element of "results" is used. A response without "results"
//	means the name did not match anything and is reported as [ErrNotFound].
//	"country_code" is an ISO 3166-1 alpha-2 code, usually upper case ("US").
//
// Daily forecast:
//
//	"daily" holds parallel arrays indexed by day:
//	  time                 ISO dates in the requested timezone ("2024-04-26")
//	  weathercode          WMO weather interpretation code
//	  temperature_2m_max   °C
//	  temperature_2m_min   °C
//	All four arrays must have the same length. See [DailyForecast.Validate].
//
// # Display Rules
//
// Flags:
//
//	A two-letter country code maps to a pair of Unicode regional indicator
//	symbols by adding 127397 to each upper-case letter: "US" → U+1F1FA U+1F1F8.
//	Anything that is not exactly two ASCII letters is rejected with
//	[ErrInvalidCountryCode].
//
// Weather icons:
//
//	WMO codes are grouped into icon buckets (clear, mainly clear, partly
//	cloudy, overcast, fog, drizzle, rain, snow, thunderstorm, thunderstorm
//	with hail). Unknown codes render as [IconNotFound].
//
// Temperatures:
//
//	The minimum is floored and the maximum is ceiled so the displayed range
//	never looks narrower than the forecast: min 3.7 → 3, max 3.2 → 4.
//
// Day labels:
//
//	The first day is always "Today". Later days use the abbreviated English
//	weekday ("Mon", "Tue", ...).
package domain
