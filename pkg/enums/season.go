package enums

import "fmt"

// Season is the tire season attribute.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSummer Season = "summer"
)

var validSeasons = []Season{
	SeasonWinter,
	SeasonSummer,
}

// String implements fmt.Stringer.
func (s Season) String() string {
	return string(s)
}

// IsValid reports whether the value is a known Season.
func (s Season) IsValid() bool {
	for _, candidate := range validSeasons {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSeason converts raw input into a Season.
func ParseSeason(value string) (Season, error) {
	for _, candidate := range validSeasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid season %q", value)
}
