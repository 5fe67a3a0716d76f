package adgeo

import (
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// This file implements the streaming JSON codec for the GeoJSON model. Parsing is lenient about
// geometries: a geometry whose type is unsupported, or whose coordinates do not have the nesting
// the type calls for, parses as the zero Geometry instead of failing the whole document. The
// upstream datasets are large enough that one malformed feature must not poison the rest; the
// ingestion layer decides what to do with features that have no usable geometry.

var featureCollectionRequiredProperties = []string{"features"} //nolint:gochecknoglobals

// ReadFromJSONReader deserializes a geometry in place, consuming an object or null value.
func (g *Geometry) ReadFromJSONReader(r *jreader.Reader) {
	var geomType GeometryType
	var positions []Position
	depth := 0
	ok := true
	for obj := r.ObjectOrNull(); obj.Next(); {
		switch string(obj.Name()) {
		case "type":
			geomType = GeometryType(r.String())
		case "coordinates":
			a := r.Any()
			switch a.Kind {
			case jreader.ArrayValue:
				positions, depth, ok = readPositionsLevel(r, a.Array)
			case jreader.NullValue:
			default:
				drainValue(a)
				ok = false
			}
		}
	}
	if r.Error() != nil {
		return
	}
	*g = Geometry{}
	if !ok {
		return
	}
	switch geomType {
	case PointGeometry:
		if depth == 1 {
			*g = Geometry{Type: PointGeometry, Coordinates: positions}
		}
	case LineStringGeometry:
		if depth == 2 {
			*g = Geometry{Type: LineStringGeometry, Coordinates: positions}
		}
	case PolygonGeometry:
		if depth == 3 {
			*g = Geometry{Type: PolygonGeometry, Coordinates: positions}
		}
	}
}

// readPositionsLevel consumes the remainder of an already-opened coordinates array of unknown
// nesting. The returned depth is 1 if the array was a single position, 2 if it was a list of
// positions, or 3 if it was a list of rings, in which case only the first ring is returned.
// ok is false if the array mixed shapes, nested deeper than rings, or held a position with
// fewer than two components.
func readPositionsLevel(r *jreader.Reader, arr jreader.ArrayState) ([]Position, int, bool) {
	var positions []Position
	var current Position
	depth, components := 0, 0
	ok := true
	for arr.Next() {
		if !ok || depth == 3 {
			// either a ring beyond the outer one, or the rest of a shape we already rejected
			_ = r.SkipValue()
			continue
		}
		a := r.Any()
		if r.Error() != nil {
			return nil, 0, false
		}
		switch a.Kind {
		case jreader.NumberValue:
			if depth == 0 {
				depth = 1
			}
			if depth != 1 {
				ok = false
				continue
			}
			switch components {
			case 0:
				current.Lng = a.Number
			case 1:
				current.Lat = a.Number
			}
			// components past latitude (altitude and so on) are dropped
			components++
		case jreader.ArrayValue:
			child, childDepth, childOK := readPositionsLevel(r, a.Array)
			if r.Error() != nil {
				return nil, 0, false
			}
			if !childOK || childDepth >= 3 {
				ok = false
				continue
			}
			switch {
			case depth == 0:
				depth = childDepth + 1
				positions = child
			case depth == childDepth+1 && depth == 2:
				positions = append(positions, child...)
			default:
				ok = false
			}
		default:
			drainValue(a)
			ok = false
		}
	}
	if depth == 1 {
		if components < 2 {
			return nil, 0, false
		}
		positions = []Position{current}
	}
	return positions, depth, ok
}

// drainValue consumes whatever remains of a value returned by Reader.Any, so that the reader
// is correctly positioned for the next token.
func drainValue(a jreader.AnyValue) {
	switch a.Kind {
	case jreader.ArrayValue:
		for a.Array.Next() {
		}
	case jreader.ObjectValue:
		for a.Object.Next() {
		}
	}
}

// WriteToJSONWriter serializes the geometry, writing null for the zero Geometry.
func (g Geometry) WriteToJSONWriter(w *jwriter.Writer) {
	if !g.IsDefined() {
		w.Null()
		return
	}
	obj := w.Object()
	obj.Name("type").String(string(g.Type))
	switch g.Type {
	case PointGeometry:
		var p Position
		if len(g.Coordinates) > 0 {
			p = g.Coordinates[0]
		}
		writePosition(obj.Name("coordinates"), p)
	case LineStringGeometry:
		writePositionList(obj.Name("coordinates"), g.Coordinates)
	case PolygonGeometry:
		ringsArr := obj.Name("coordinates").Array()
		writePositionList(w, g.Coordinates)
		ringsArr.End()
	default:
		obj.Name("coordinates").Null()
	}
	obj.End()
}

func writePosition(w *jwriter.Writer, p Position) {
	arr := w.Array()
	w.Float64(p.Lng)
	w.Float64(p.Lat)
	arr.End()
}

func writePositionList(w *jwriter.Writer, positions []Position) {
	arr := w.Array()
	for _, p := range positions {
		writePosition(w, p)
	}
	arr.End()
}

// ReadFromJSONReader deserializes a feature in place, consuming an object value.
func (f *Feature) ReadFromJSONReader(r *jreader.Reader) {
	var ret Feature
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "geometry":
			ret.Geometry.ReadFromJSONReader(r)
		case "properties":
			ret.Properties.ReadFromJSONReader(r)
		}
	}
	if r.Error() == nil {
		*f = ret
	}
}

// WriteToJSONWriter serializes the feature.
func (f Feature) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("type").String("Feature")
	f.Geometry.WriteToJSONWriter(obj.Name("geometry"))
	f.Properties.WriteToJSONWriter(obj.Name("properties"))
	obj.End()
}

// ReadFromJSONReader deserializes a feature collection in place, consuming an object value.
// The "features" property is required; "type" and unrecognized properties are ignored.
func (c *FeatureCollection) ReadFromJSONReader(r *jreader.Reader) {
	var ret FeatureCollection
	for obj := r.Object().WithRequiredProperties(featureCollectionRequiredProperties); obj.Next(); {
		switch string(obj.Name()) {
		case "features":
			for arr := r.ArrayOrNull(); arr.Next(); {
				var f Feature
				f.ReadFromJSONReader(r)
				if r.Error() != nil {
					return
				}
				ret.Features = append(ret.Features, f)
			}
		case "metadata":
			for metaObj := r.ObjectOrNull(); metaObj.Next(); {
				if string(metaObj.Name()) == "next_page_token" {
					ret.NextPageToken = r.String()
				}
			}
		}
	}
	if r.Error() == nil {
		*c = ret
	}
}

// WriteToJSONWriter serializes the feature collection. The metadata object is emitted only
// when there is a continuation token to carry.
func (c FeatureCollection) WriteToJSONWriter(w *jwriter.Writer) {
	obj := w.Object()
	obj.Name("type").String("FeatureCollection")
	arr := obj.Name("features").Array()
	for _, f := range c.Features {
		f.WriteToJSONWriter(w)
	}
	arr.End()
	if c.NextPageToken != "" {
		metaObj := obj.Name("metadata").Object()
		metaObj.Name("next_page_token").String(c.NextPageToken)
		metaObj.End()
	}
	obj.End()
}

// MarshalJSON provides JSON serialization for Geometry with the standard json package.
func (g Geometry) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	g.WriteToJSONWriter(&w)
	return w.Bytes(), w.Error()
}

// UnmarshalJSON provides JSON deserialization for Geometry with the standard json package.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	g.ReadFromJSONReader(&r)
	return r.Error()
}

// MarshalJSON provides JSON serialization for Feature with the standard json package.
func (f Feature) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	f.WriteToJSONWriter(&w)
	return w.Bytes(), w.Error()
}

// UnmarshalJSON provides JSON deserialization for Feature with the standard json package.
func (f *Feature) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	f.ReadFromJSONReader(&r)
	return r.Error()
}

// MarshalJSON provides JSON serialization for FeatureCollection with the standard json package.
func (c FeatureCollection) MarshalJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	c.WriteToJSONWriter(&w)
	return w.Bytes(), w.Error()
}

// UnmarshalJSON provides JSON deserialization for FeatureCollection with the standard json
// package.
func (c *FeatureCollection) UnmarshalJSON(data []byte) error {
	r := jreader.NewReader(data)
	c.ReadFromJSONReader(&r)
	return r.Error()
}
