package geomag

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dipoleOnlyCoefficients = `  2020.0  TEST
  1  0  -29404.5       0.0
  1  1   -1450.7    4652.9
999999999999999999999999999999999999999999999999
`

func TestDefaultModelIsParsedFromEmbeddedCoefficients(t *testing.T) {
	m := Default()
	require.NotNil(t, m)
	assert.Equal(t, "WMM-2020", m.Name())
	assert.Equal(t, 2020.0, m.Epoch())
	assert.Same(t, m, Default())
}

func TestParseErrors(t *testing.T) {
	badInputs := []string{
		"",
		"not a header",
		"2020.0 TEST\n",
		"2020.0 TEST\n0 0 100.0 0.0\n",
		"2020.0 TEST\n1 2 100.0 0.0\n",
		"2020.0 TEST\n1 0 what 0.0\n",
		"2020.0 TEST\n1 0 100.0\n",
	}
	for _, input := range badInputs {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestParseAllowsOmittedSecularVariation(t *testing.T) {
	m, err := Parse([]byte(dipoleOnlyCoefficients))
	require.NoError(t, err)
	assert.Equal(t, "TEST", m.Name())
}

func TestDipoleDeclinationAtPrimeMeridianEquator(t *testing.T) {
	m, err := Parse([]byte(dipoleOnlyCoefficients))
	require.NoError(t, err)

	// For a pure dipole evaluated at (0, 0), the expansion collapses to
	// atan2(-h11, -g10), which makes the expected value exact.
	expected := math.Atan2(4652.9, 29404.5) * -radiansToDegrees
	at := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	assert.InDelta(t, expected, m.Declination(0, 0, at), 0.01)
}

func TestDeclinationSpotChecksAtEpoch(t *testing.T) {
	// Published WMM2020 values at 2020.0, ground level. The embedded coefficient set is
	// truncated, so the tolerance is loose.
	cases := []struct {
		name     string
		lat, lng float64
		expected float64
	}{
		{"Seattle", 47.45, -122.31, 15.4},
		{"Los Angeles", 34.05, -118.24, 11.8},
		{"Denver", 39.74, -104.99, 8.1},
		{"New York", 40.71, -74.01, -12.9},
		{"Miami", 25.77, -80.19, -7.0},
		{"Anchorage", 61.22, -149.90, 15.3},
		{"London", 51.51, -0.13, 0.2},
	}
	at := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.expected, Default().Declination(c.lat, c.lng, at), 2.0)
		})
	}
}

func TestDeclinationAppliesSecularVariation(t *testing.T) {
	earlier := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	later := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	// Declination over the eastern US has been drifting west by a few hundredths of a degree
	// per year; the exact rate doesn't matter, only that time is being applied.
	dEarlier := Default().Declination(40.71, -74.01, earlier)
	dLater := Default().Declination(40.71, -74.01, later)
	assert.NotEqual(t, dEarlier, dLater)
	assert.InDelta(t, dEarlier, dLater, 1.5)
}

func TestDeclinationIsFiniteAtPoles(t *testing.T) {
	at := time.Date(2022, time.July, 1, 0, 0, 0, 0, time.UTC)
	for _, lat := range []float64{90, -90} {
		d := Default().Declination(lat, 45, at)
		assert.False(t, math.IsNaN(d))
		assert.False(t, math.IsInf(d, 0))
	}
}
