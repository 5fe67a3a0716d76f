package faa

import (
	"fmt"
	"strconv"
)

// Magnetic headings for the runway names that don't encode a heading directly. Compass-point
// names show up on grass strips and water runways; "ALL" and "WAY" come from the two halves of
// all-way landing areas.
var runwayHeadings = map[string]float64{ //nolint:gochecknoglobals
	"N":   0,
	"NNE": 22.5,
	"NE":  45,
	"ENE": 67.5,
	"E":   90,
	"ESE": 112.5,
	"SE":  135,
	"SSE": 157.5,
	"S":   180,
	"SSW": 202.5,
	"SW":  225,
	"WSW": 247.5,
	"W":   270,
	"WNW": 292.5,
	"NW":  315,
	"NNW": 337.5,
	"ALL": 0,
	"WAY": 180,
}

// Opposite ends of a runway, for both compass-point names and parallel runway suffixes. Water
// runways use W/E suffixes.
var reciprocalSuffixes = map[string]string{ //nolint:gochecknoglobals
	"L":   "R",
	"R":   "L",
	"W":   "E",
	"E":   "W",
	"N":   "S",
	"S":   "N",
	"NE":  "SW",
	"SE":  "NW",
	"SW":  "NE",
	"NW":  "SE",
	"NNE": "SSW",
	"ENE": "WSW",
	"ESE": "WNW",
	"SSE": "NNW",
	"SSW": "NNE",
	"WSW": "ENE",
	"WNW": "ESE",
	"NNW": "SSE",
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// headingOf returns the magnetic heading in degrees that a runway name implies. Numeric names
// are tens of degrees ("16" is 160); a trailing parallel-runway suffix is ignored.
func headingOf(name string) (float64, error) {
	if h, ok := runwayHeadings[name]; ok {
		return h, nil
	}
	digits := name
	if digits != "" && !isDigit(digits[len(digits)-1]) {
		digits = digits[:len(digits)-1]
	}
	if h, ok := runwayHeadings[digits]; ok {
		return h, nil
	}
	if n, err := strconv.Atoi(digits); err == nil {
		switch len(digits) {
		case 2:
			return float64(n) * 10, nil
		case 3:
			return float64(n), nil
		}
	}
	return 0, fmt.Errorf("Could not determine heading of runway `%s`", name)
}

// reciprocalOf returns the name of the opposite end of a runway whose designator only names one
// end, such as "16L" becoming "34R".
func reciprocalOf(name string) (string, error) {
	if rec, ok := reciprocalSuffixes[name]; ok {
		return rec, nil
	}
	base, suffix := name, ""
	if base != "" && !isDigit(base[len(base)-1]) {
		rec, ok := reciprocalSuffixes[string(base[len(base)-1])]
		if !ok {
			return "", fmt.Errorf("Cannot determine reciprocal suffix for runway `%s`", name)
		}
		suffix = rec
		base = base[:len(base)-1]
	}
	if rec, ok := reciprocalSuffixes[base]; ok {
		return rec + suffix, nil
	}
	if n, err := strconv.Atoi(base); err == nil {
		switch len(base) {
		case 2:
			return fmt.Sprintf("%02d%s", ((n*10+180)%360)/10, suffix), nil
		case 3:
			return fmt.Sprintf("%03d%s", (n+180)%360, suffix), nil
		}
	}
	return "", fmt.Errorf("Could not determine reciprocal runway for `%s`", name)
}
