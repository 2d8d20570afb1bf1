package domain

// Icon is the glyph shown next to a day in the forecast list.
type Icon string

// IconNotFound is returned for WMO codes that have no icon bucket.
const IconNotFound Icon = "NOT FOUND"

const (
	IconClear                Icon = "☀️"
	IconMainlyClear          Icon = "🌤"
	IconPartlyCloudy         Icon = "⛅️"
	IconOvercast             Icon = "☁️"
	IconFog                  Icon = "🌫"
	IconDrizzle              Icon = "🌦"
	IconRain                 Icon = "🌧"
	IconSnow                 Icon = "🌨"
	IconThunderstorm         Icon = "🌩"
	IconThunderstormWithHail Icon = "⛈"
)

// iconGroups is the grouped WMO code table. Light drizzle, light freezing
// rain and slight showers share the drizzle icon; heavier precipitation uses rain.
var iconGroups = []struct {
	codes []int
	icon  Icon
}{
	{[]int{0}, IconClear},
	{[]int{1}, IconMainlyClear},
	{[]int{2}, IconPartlyCloudy},
	{[]int{3}, IconOvercast},
	{[]int{45, 48}, IconFog},
	{[]int{51, 56, 61, 66, 80}, IconDrizzle},
	{[]int{53, 55, 63, 65, 57, 67, 81, 82}, IconRain},
	{[]int{71, 73, 75, 77, 85, 86}, IconSnow},
	{[]int{95}, IconThunderstorm},
	{[]int{96, 99}, IconThunderstormWithHail},
}

// weatherIcons maps every known code directly to its icon. Built once from iconGroups.
var weatherIcons = expandIconGroups()

func expandIconGroups() map[int]Icon {
	m := make(map[int]Icon)
	for _, g := range iconGroups {
		for _, code := range g.codes {
			m[code] = g.icon
		}
	}
	return m
}

// WeatherIcon returns the icon for a WMO weather code, or IconNotFound.
func WeatherIcon(code int) Icon {
	if icon, ok := weatherIcons[code]; ok {
		return icon
	}
	return IconNotFound
}

var weatherDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Drizzle: Light intensity",
	53: "Drizzle: Moderate intensity",
	55: "Drizzle: Dense intensity",
	56: "Freezing Drizzle: Light intensity",
	57: "Freezing Drizzle: Dense intensity",
	61: "Rainfall: Slight intensity",
	63: "Rainfall: Moderate intensity",
	65: "Rainfall: Heavy intensity",
	66: "Freezing Rainfall: Light intensity",
	67: "Freezing Rainfall: Heavy intensity",
	71: "Snow fall: Slight intensity",
	73: "Snow fall: Moderate intensity",
	75: "Snow fall: Heavy intensity",
	77: "Snow grains",
	80: "Rainfall showers: Slight",
	81: "Rainfall showers: Moderate",
	82: "Rainfall showers: Violent",
	85: "Snow showers: Slight",
	86: "Snow showers: Heavy",
	95: "Thunderstorm: Slight or moderate",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// WeatherDescription returns a human-readable description of a WMO code.
func WeatherDescription(code int) string {
	if desc, ok := weatherDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}
