package adtestdata

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// FeatureBuilder is a builder for an aerodrome feature to be used with TestDataSource.
type FeatureBuilder struct {
	kind        st.DataKind
	key         string
	aerodromeID string
	name        string
	country     string
	geometry    adgeo.Geometry
	extra       map[string]ldvalue.Value
}

func newFeatureBuilder(kind st.DataKind, key, aerodromeID string) *FeatureBuilder {
	return &FeatureBuilder{kind: kind, key: key, aerodromeID: aerodromeID}
}

func copyFeatureBuilder(from *FeatureBuilder) *FeatureBuilder {
	f := *from
	f.extra = nil
	for name, value := range from.extra {
		if f.extra == nil {
			f.extra = make(map[string]ldvalue.Value, len(from.extra))
		}
		f.extra[name] = value
	}
	// Geometry coordinate slices are never modified in place, so sharing one is safe.
	return &f
}

// Name sets the human-readable name property of the feature.
func (b *FeatureBuilder) Name(name string) *FeatureBuilder {
	b.name = name
	return b
}

// Country sets the ISO country code property of the feature.
func (b *FeatureBuilder) Country(country string) *FeatureBuilder {
	b.country = country
	return b
}

// Location gives the feature a Point geometry at the given coordinates.
func (b *FeatureBuilder) Location(lat, lng float64) *FeatureBuilder {
	b.geometry = adgeo.NewPoint(adgeo.Position{Lng: lng, Lat: lat})
	return b
}

// Geometry sets the feature's geometry directly. Use this for runway centerlines or any other
// shape that is not a simple point.
func (b *FeatureBuilder) Geometry(geometry adgeo.Geometry) *FeatureBuilder {
	b.geometry = geometry
	return b
}

// Property sets a property of the feature that is not covered by the other builder methods.
func (b *FeatureBuilder) Property(name string, value ldvalue.Value) *FeatureBuilder {
	if b.extra == nil {
		b.extra = make(map[string]ldvalue.Value)
	}
	b.extra[name] = value
	return b
}

func (b *FeatureBuilder) createFeature() adgeo.Feature {
	props := ldvalue.ObjectBuild()
	switch b.kind {
	case datakinds.Aerodromes:
		props.SetString(adgeo.PropertyElementType, adgeo.ElementTypeAerodrome).
			SetString(adgeo.PropertyAerodromeID, b.key)
	case datakinds.Runways:
		props.SetString(adgeo.PropertyElementType, adgeo.ElementTypeRunway).
			SetString(adgeo.PropertyAerodromeID, b.aerodromeID).
			SetString(adgeo.PropertyRunwaySurfaceID, b.key)
	case datakinds.Helipads:
		props.SetString(adgeo.PropertyElementType, adgeo.ElementTypeHelipad).
			SetString(adgeo.PropertyAerodromeID, b.aerodromeID).
			SetString(adgeo.PropertyHelipadID, b.key)
	}
	if b.name != "" {
		props.SetString(adgeo.PropertyName, b.name)
	}
	if b.country != "" {
		props.SetString(adgeo.PropertyCountry, b.country)
	}
	for name, value := range b.extra {
		props.Set(name, value)
	}
	return adgeo.Feature{Geometry: b.geometry, Properties: props.Build()}
}
