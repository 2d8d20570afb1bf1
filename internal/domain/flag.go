package domain

import (
	"fmt"
	"strings"
)

// regionalIndicatorOffset is the distance between 'A' and U+1F1E6
// REGIONAL INDICATOR SYMBOL LETTER A.
const regionalIndicatorOffset = 127397

// CountryFlag converts a two-letter country code into its flag emoji.
func CountryFlag(countryCode string) (string, error) {
	code := strings.ToUpper(countryCode)
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, countryCode)
	}

	var b strings.Builder
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidCountryCode, countryCode)
		}
		b.WriteRune(r + regionalIndicatorOffset)
	}
	return b.String(), nil
}

// DisplayLocation formats a geocoding result as "<name> <flag>".
func DisplayLocation(geo GeoResult) (string, error) {
	flag, err := CountryFlag(geo.CountryCode)
	if err != nil {
		return "", err
	}
	return geo.Name + " " + flag, nil
}
