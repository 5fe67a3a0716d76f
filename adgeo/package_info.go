// Package adgeo contains the GeoJSON data model used throughout aerodata.
//
// The model is deliberately a subset of GeoJSON (RFC 7946): the geometry types that appear in the
// upstream FAA datasets and in the derived aerodrome data (Point, LineString, and Polygon outer
// rings), features with free-form properties, and feature collections with optional paging
// metadata. Serialization uses the streaming go-jsonstream API rather than reflection, since the
// upstream datasets are large.
package adgeo
