package adquery

import "math"

// BoundingBox is a latitude/longitude box restricting a feature query.
//
// The box between two longitudes is the shorter of the two arcs around the globe, so a box may
// span the antimeridian: a box from longitude 170 to -170 covers 20 degrees across longitude
// 180, not 340 degrees the other way around.
//
// The zero value contains every coordinate; use NewBoundingBox to construct a real box.
type BoundingBox struct {
	latA, latB float64
	lngA, lngB float64
	wraps      bool
	defined    bool
}

// NewBoundingBox constructs a box from two corner coordinates.
//
// The latitudes must be distinct and fall within [-90, 90]. The longitudes may be any values;
// they are normalized to [0, 360) and must be distinct after normalization. The box spans the
// shorter arc between the two longitudes; when both arcs are exact halves, it spans eastward
// from the first longitude to the second.
func NewBoundingBox(lat1, lng1, lat2, lng2 float64) (BoundingBox, error) {
	latA, latB := lat1, lat2
	if latB < latA {
		latA, latB = latB, latA
	}
	if latA < -90 || latB > 90 || latA == latB {
		return BoundingBox{}, ParamError{Message: "Invalid latitude range; latitudes must be different and fall within [-90, 90]"}
	}

	a, b := mod360(lng1), mod360(lng2)
	span := mod360(b - a)
	if span == 0 {
		return BoundingBox{}, ParamError{Message: "Invalid longitude range; longitudes must be different"}
	}
	lngA, lngB := a, b
	if span > 180 {
		lngA, lngB = b, a
	}

	return BoundingBox{
		latA:    latA,
		latB:    latB,
		lngA:    lngA,
		lngB:    lngB,
		wraps:   lngB < lngA,
		defined: true,
	}, nil
}

// everywhere is the box used when no bounding_box parameter is given: every latitude that is
// physically possible, every longitude.
func everywhere() BoundingBox {
	return BoundingBox{latA: -90, latB: 90, lngA: 0, lngB: 360, defined: true}
}

// IsDefined returns true unless b is the zero value.
func (b BoundingBox) IsDefined() bool {
	return b.defined
}

// Contains tests whether a coordinate falls inside the box. The zero BoundingBox contains
// every coordinate.
func (b BoundingBox) Contains(lat, lng float64) bool {
	if !b.defined {
		return true
	}
	if lat < b.latA || lat > b.latB {
		return false
	}
	x := mod360(lng)
	if b.wraps {
		return x >= b.lngA || x <= b.lngB
	}
	return x >= b.lngA && x <= b.lngB
}

// mod360 reduces a longitude to [0, 360); unlike math.Mod, the result is never negative.
func mod360(x float64) float64 {
	m := math.Mod(x, 360)
	if m < 0 {
		m += 360
	}
	return m
}
