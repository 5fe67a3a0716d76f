package adgeo

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Names of the feature properties that aerodata attaches to derived aerodrome data. Upstream
// FAA features carry their own property names and are not constrained by these.
const (
	// PropertyElementType is the property naming the kind of aerodrome element; its value is
	// one of the ElementType constants.
	PropertyElementType = "aerodrome_element_type"
	// PropertyAerodromeID is the identifier of the aerodrome a feature belongs to.
	PropertyAerodromeID = "aerodrome_identifier"
	// PropertyRunwaySurfaceID is the unique identifier of a runway surface.
	PropertyRunwaySurfaceID = "runway_surface_identifier"
	// PropertyHelipadID is the unique identifier of a helipad.
	PropertyHelipadID = "helipad_identifier"
	// PropertyCountry is the ISO country code of an aerodrome.
	PropertyCountry = "country"
	// PropertyName is the human-readable name of an aerodrome.
	PropertyName = "name"
	// PropertyRunwayWidth is the width of a runway surface in feet.
	PropertyRunwayWidth = "runway_width"
	// PropertyRunways is the list of runway directions sharing a runway surface.
	PropertyRunways = "runways"
	// PropertyRunwayID is the designator of a single runway direction.
	PropertyRunwayID = "runway_identifier"
	// PropertyApproachEnd is the index into a runway geometry of the end a runway direction
	// approaches over.
	PropertyApproachEnd = "approach_end"
	// PropertyThresholdDisplacement is the displacement of a runway threshold from the runway
	// end, in feet.
	PropertyThresholdDisplacement = "threshold_displacement"
	// PropertyApproximate marks geometry that was estimated rather than surveyed.
	PropertyApproximate = "approximate"
)

// Values of the PropertyElementType property.
const (
	// ElementTypeAerodrome marks an aerodrome reference point feature.
	ElementTypeAerodrome = "Aerodrome"
	// ElementTypeRunway marks a runway centerline feature.
	ElementTypeRunway = "Runway"
	// ElementTypeHelipad marks a helipad reference point feature.
	ElementTypeHelipad = "Helipad"
)

// Feature is a GeoJSON feature: a geometry plus free-form properties.
//
// Properties are represented as an immutable ldvalue.Value rather than a map so that features
// can be shared between goroutines without copying. A feature with no properties has
// ldvalue.Null() there, which serializes as "properties": null.
type Feature struct {
	// Geometry is the feature's geometry, or the zero Geometry for a null geometry.
	Geometry Geometry
	// Properties is the feature's property object.
	Properties ldvalue.Value
}

// Property returns the named property, or ldvalue.Null() if it is absent.
func (f Feature) Property(name string) ldvalue.Value {
	return f.Properties.GetByKey(name)
}

// ElementType returns the feature's aerodrome element type property, or "" if it has none.
func (f Feature) ElementType() string {
	return f.Property(PropertyElementType).StringValue()
}

// Key returns the identifier that is unique for the feature within its element type: the
// aerodrome identifier for aerodromes, the runway surface identifier for runways, and the
// helipad identifier for helipads. It returns "" for features without an element type.
func (f Feature) Key() string {
	switch f.ElementType() {
	case ElementTypeAerodrome:
		return f.Property(PropertyAerodromeID).StringValue()
	case ElementTypeRunway:
		return f.Property(PropertyRunwaySurfaceID).StringValue()
	case ElementTypeHelipad:
		return f.Property(PropertyHelipadID).StringValue()
	}
	return ""
}

// AerodromeID returns the identifier of the aerodrome the feature belongs to. For aerodrome
// features this is the same as Key.
func (f Feature) AerodromeID() string {
	return f.Property(PropertyAerodromeID).StringValue()
}

// FeatureCollection is a GeoJSON feature collection.
//
// NextPageToken, when non-empty, is emitted in a "metadata" object alongside the features; it
// carries the continuation token for paged query responses. Upstream documents have no
// metadata and parse with NextPageToken empty.
type FeatureCollection struct {
	Features      []Feature
	NextPageToken string
}
