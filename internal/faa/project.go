package faa

import (
	"math"

	"github.com/aerodata/go-aerodata/adgeo"
)

// earthCircumferenceFt is the polar circumference of the earth in feet, which is all the
// precision the flat projection below deserves.
const earthCircumferenceFt = 131482560

const degreesToRadians = math.Pi / 180

// flatPoint is a position in an equirectangular projection centered on some origin, in feet east
// and north of it. Runway surfaces are small enough that distances and bearings computed this way
// are accurate to well under a foot.
type flatPoint struct {
	x, y float64
}

// flatten projects positions into a plane centered on their centroid, returning the centroid as
// the projection origin for unflatten.
func flatten(points []adgeo.Position) (adgeo.Position, []flatPoint) {
	var origin adgeo.Position
	for _, p := range points {
		origin.Lat += p.Lat
		origin.Lng += p.Lng
	}
	origin.Lat /= float64(len(points))
	origin.Lng /= float64(len(points))

	cosLat := math.Cos(origin.Lat * degreesToRadians)
	flat := make([]flatPoint, 0, len(points))
	for _, p := range points {
		flat = append(flat, flatPoint{
			x: (p.Lng - origin.Lng) * earthCircumferenceFt * cosLat / 360,
			y: (p.Lat - origin.Lat) * earthCircumferenceFt / 360,
		})
	}
	return origin, flat
}

// unflatten converts points in a plane centered on origin back to positions.
func unflatten(origin adgeo.Position, points []flatPoint) []adgeo.Position {
	cosLat := math.Cos(origin.Lat * degreesToRadians)
	positions := make([]adgeo.Position, 0, len(points))
	for _, p := range points {
		positions = append(positions, adgeo.Position{
			Lng: origin.Lng + p.x*360/(earthCircumferenceFt*cosLat),
			Lat: origin.Lat + p.y*360/earthCircumferenceFt,
		})
	}
	return positions
}

func distance(a, b flatPoint) float64 {
	return math.Hypot(b.x-a.x, b.y-a.y)
}

func midpoint(a, b flatPoint) flatPoint {
	return flatPoint{x: (a.x + b.x) / 2, y: (a.y + b.y) / 2}
}

// angularDistance is the size in degrees of the smaller angle between two headings.
func angularDistance(a1, a2 float64) float64 {
	d := math.Abs(a2 - a1)
	if d2 := math.Abs(a2 + 360 - a1); d2 < d {
		d = d2
	}
	if d3 := math.Abs(a2 - 360 - a1); d3 < d {
		d = d3
	}
	return d
}

// mod360 reduces a heading to [0, 360), unlike math.Mod which keeps the sign of its argument.
func mod360(a float64) float64 {
	m := math.Mod(a, 360)
	if m < 0 {
		m += 360
	}
	return m
}
