package adgeo

// GeometryType identifies a GeoJSON geometry type.
type GeometryType string

const (
	// PointGeometry is the GeoJSON "Point" type.
	PointGeometry GeometryType = "Point"
	// LineStringGeometry is the GeoJSON "LineString" type.
	LineStringGeometry GeometryType = "LineString"
	// PolygonGeometry is the GeoJSON "Polygon" type.
	PolygonGeometry GeometryType = "Polygon"
)

// Position is a single GeoJSON position. GeoJSON positions are [longitude, latitude] arrays;
// any additional components (such as altitude) are discarded on input.
type Position struct {
	// Lng is the longitude in degrees.
	Lng float64
	// Lat is the latitude in degrees.
	Lat float64
}

// Geometry is a GeoJSON geometry, restricted to the shapes aerodata works with.
//
// The Coordinates field is always a flat list of positions regardless of type: a Point has
// exactly one element, a LineString has its vertices in order, and a Polygon has the positions
// of its outer ring (the first and last being equal, per GeoJSON). Interior rings of polygons
// are dropped on input; none of the upstream datasets use them.
//
// The zero value represents a missing geometry and serializes as JSON null.
type Geometry struct {
	// Type is the geometry type, or "" if the geometry is absent.
	Type GeometryType
	// Coordinates is the flattened position list as described above.
	Coordinates []Position
}

// IsDefined returns true if the geometry is present (non-null).
func (g Geometry) IsDefined() bool {
	return g.Type != ""
}

// NewPoint constructs a Point geometry.
func NewPoint(p Position) Geometry {
	return Geometry{Type: PointGeometry, Coordinates: []Position{p}}
}

// NewLineString constructs a LineString geometry from the given vertices.
func NewLineString(positions ...Position) Geometry {
	return Geometry{Type: LineStringGeometry, Coordinates: positions}
}

// NewPolygon constructs a Polygon geometry whose outer ring is the given positions. The caller
// is responsible for closing the ring (first position equal to last).
func NewPolygon(ring ...Position) Geometry {
	return Geometry{Type: PolygonGeometry, Coordinates: ring}
}
