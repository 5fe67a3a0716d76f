package adquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBox(t *testing.T, lat1, lng1, lat2, lng2 float64) BoundingBox {
	t.Helper()
	box, err := NewBoundingBox(lat1, lng1, lat2, lng2)
	require.NoError(t, err)
	return box
}

func TestZeroBoundingBoxContainsEverything(t *testing.T) {
	var box BoundingBox
	assert.False(t, box.IsDefined())
	assert.True(t, box.Contains(39.8, -104.6))
	assert.True(t, box.Contains(-90, 180))
	assert.True(t, box.Contains(90, 0))
}

func TestBoundingBoxContains(t *testing.T) {
	t.Run("simple box", func(t *testing.T) {
		box := mustBox(t, 10, 30, 20, 40)
		assert.True(t, box.IsDefined())

		assert.True(t, box.Contains(15, 35))
		assert.True(t, box.Contains(10, 30)) // edges are inclusive
		assert.True(t, box.Contains(20, 40))

		assert.False(t, box.Contains(9.9, 35))
		assert.False(t, box.Contains(20.1, 35))
		assert.False(t, box.Contains(15, 29.9))
		assert.False(t, box.Contains(15, 40.1))
	})

	t.Run("corner order does not matter", func(t *testing.T) {
		box := mustBox(t, 20, 40, 10, 30)
		assert.True(t, box.Contains(15, 35))
		assert.False(t, box.Contains(25, 35))
	})

	t.Run("western hemisphere", func(t *testing.T) {
		box := mustBox(t, 35, -110, 45, -100)
		assert.True(t, box.Contains(39.8617, -104.6731))
		assert.False(t, box.Contains(39.8617, -95))
		assert.False(t, box.Contains(39.8617, 104.6731))
	})

	t.Run("box across the prime meridian", func(t *testing.T) {
		box := mustBox(t, 50, -10, 60, 20)
		assert.True(t, box.Contains(51.5, -0.1))
		assert.True(t, box.Contains(52.5, 13.4))
		assert.False(t, box.Contains(55, -20))
		assert.False(t, box.Contains(55, 30))
	})

	t.Run("box across the antimeridian", func(t *testing.T) {
		box := mustBox(t, -40, 170, -30, -170)
		assert.True(t, box.Contains(-35, 180))
		assert.True(t, box.Contains(-35, -180))
		assert.True(t, box.Contains(-35, 175))
		assert.True(t, box.Contains(-35, -175))
		assert.False(t, box.Contains(-35, 165))
		assert.False(t, box.Contains(-35, -165))
		assert.False(t, box.Contains(-45, 180)) // latitude still applies
	})

	t.Run("shorter arc wins regardless of corner order", func(t *testing.T) {
		// 350 eastward to 10 is 20 degrees; 10 eastward to 350 is 340. Both corner orders
		// describe the former.
		box1 := mustBox(t, 0, 10, 10, 350)
		box2 := mustBox(t, 0, 350, 10, 10)
		for _, box := range []BoundingBox{box1, box2} {
			assert.True(t, box.Contains(5, 0))
			assert.True(t, box.Contains(5, 355))
			assert.False(t, box.Contains(5, 180))
		}
	})

	t.Run("exact half spans eastward from the first longitude", func(t *testing.T) {
		east := mustBox(t, 0, 0, 10, 180)
		assert.True(t, east.Contains(5, 90))
		assert.False(t, east.Contains(5, 270))

		west := mustBox(t, 0, 180, 10, 0)
		assert.True(t, west.Contains(5, 270))
		assert.False(t, west.Contains(5, 90))
	})
}

func TestNewBoundingBoxValidation(t *testing.T) {
	latMessage := "Invalid latitude range; latitudes must be different and fall within [-90, 90]"
	lngMessage := "Invalid longitude range; longitudes must be different"

	for _, corners := range [][4]float64{
		{-91, 0, 10, 20},
		{10, 0, 91, 20},
		{10, 0, 10, 20},
	} {
		_, err := NewBoundingBox(corners[0], corners[1], corners[2], corners[3])
		assert.Equal(t, ParamError{Message: latMessage}, err)
	}

	for _, corners := range [][4]float64{
		{0, 20, 10, 20},
		{0, -10, 10, 350},
		{0, -180, 10, 180},
		{0, 0, 10, 720},
	} {
		_, err := NewBoundingBox(corners[0], corners[1], corners[2], corners[3])
		assert.Equal(t, ParamError{Message: lngMessage}, err)
	}
}
