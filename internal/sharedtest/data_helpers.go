package sharedtest

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// FeatureDescriptor is a shortcut for creating an ItemDescriptor from a feature.
func FeatureDescriptor(f *adgeo.Feature) st.ItemDescriptor {
	return st.ItemDescriptor{Version: 1, Item: f}
}

// MakeAerodrome creates a minimal aerodrome feature for tests.
func MakeAerodrome(key string) *adgeo.Feature {
	return &adgeo.Feature{
		Geometry: adgeo.NewPoint(adgeo.Position{Lng: -104.673, Lat: 39.861}),
		Properties: ldvalue.ObjectBuild().
			SetString(adgeo.PropertyElementType, adgeo.ElementTypeAerodrome).
			SetString(adgeo.PropertyAerodromeID, key).
			SetString(adgeo.PropertyCountry, "USA").
			Build(),
	}
}

// MakeRunway creates a minimal runway centerline feature for tests.
func MakeRunway(key string, aerodromeID string) *adgeo.Feature {
	return &adgeo.Feature{
		Geometry: adgeo.NewLineString(
			adgeo.Position{Lng: -104.660, Lat: 39.850},
			adgeo.Position{Lng: -104.660, Lat: 39.872},
		),
		Properties: ldvalue.ObjectBuild().
			SetString(adgeo.PropertyElementType, adgeo.ElementTypeRunway).
			SetString(adgeo.PropertyAerodromeID, aerodromeID).
			SetString(adgeo.PropertyRunwaySurfaceID, key).
			Build(),
	}
}

// MakeHelipad creates a minimal helipad feature for tests.
func MakeHelipad(key string, aerodromeID string) *adgeo.Feature {
	return &adgeo.Feature{
		Geometry: adgeo.NewPoint(adgeo.Position{Lng: -104.671, Lat: 39.858}),
		Properties: ldvalue.ObjectBuild().
			SetString(adgeo.PropertyElementType, adgeo.ElementTypeHelipad).
			SetString(adgeo.PropertyAerodromeID, aerodromeID).
			SetString(adgeo.PropertyHelipadID, key).
			Build(),
	}
}

// DataSetBuilder is a helper for creating collections of aerodrome data.
type DataSetBuilder struct {
	aerodromes []st.KeyedItemDescriptor
	runways    []st.KeyedItemDescriptor
	helipads   []st.KeyedItemDescriptor
}

// NewDataSetBuilder creates a DataSetBuilder.
func NewDataSetBuilder() *DataSetBuilder {
	return &DataSetBuilder{}
}

// Build returns the built data set.
func (d *DataSetBuilder) Build() []st.Collection {
	return []st.Collection{
		{Kind: datakinds.Aerodromes, Items: d.aerodromes},
		{Kind: datakinds.Runways, Items: d.runways},
		{Kind: datakinds.Helipads, Items: d.helipads},
	}
}

// Aerodromes adds aerodrome features to the data set.
func (d *DataSetBuilder) Aerodromes(features ...*adgeo.Feature) *DataSetBuilder {
	for _, f := range features {
		d.aerodromes = append(d.aerodromes, st.KeyedItemDescriptor{Key: f.Key(), Item: FeatureDescriptor(f)})
	}
	return d
}

// Runways adds runway features to the data set.
func (d *DataSetBuilder) Runways(features ...*adgeo.Feature) *DataSetBuilder {
	for _, f := range features {
		d.runways = append(d.runways, st.KeyedItemDescriptor{Key: f.Key(), Item: FeatureDescriptor(f)})
	}
	return d
}

// Helipads adds helipad features to the data set.
func (d *DataSetBuilder) Helipads(features ...*adgeo.Feature) *DataSetBuilder {
	for _, f := range features {
		d.helipads = append(d.helipads, st.KeyedItemDescriptor{Key: f.Key(), Item: FeatureDescriptor(f)})
	}
	return d
}

// DataSetToMap converts the data format for Init into a map of maps.
func DataSetToMap(
	allData []st.Collection,
) map[st.DataKind]map[string]st.ItemDescriptor {
	ret := make(map[st.DataKind]map[string]st.ItemDescriptor, len(allData))
	for _, coll := range allData {
		itemsMap := make(map[string]st.ItemDescriptor, len(coll.Items))
		for _, item := range coll.Items {
			itemsMap[item.Key] = item.Item
		}
		ret[coll.Kind] = itemsMap
	}
	return ret
}
