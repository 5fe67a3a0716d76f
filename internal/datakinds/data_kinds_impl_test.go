package datakinds

import (
	"testing"

	"github.com/aerodata/go-aerodata/adgeo"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTestAerodrome(key string) *adgeo.Feature {
	return &adgeo.Feature{
		Geometry: adgeo.NewPoint(adgeo.Position{Lng: -93.217, Lat: 44.883}),
		Properties: ldvalue.ObjectBuild().
			SetString(adgeo.PropertyElementType, adgeo.ElementTypeAerodrome).
			SetString(adgeo.PropertyAerodromeID, key).
			SetString(adgeo.PropertyCountry, "USA").
			Build(),
	}
}

func TestDataKindNames(t *testing.T) {
	assert.Equal(t, "aerodromes", Aerodromes.GetName())
	assert.Equal(t, "runways", Runways.GetName())
	assert.Equal(t, "helipads", Helipads.GetName())

	assert.Equal(t, []st.DataKind{Aerodromes, Runways, Helipads}, AllKinds())

	for _, kind := range []DataKindInternal{Aerodromes, Runways, Helipads} {
		found, ok := KindByName(kind.GetName())
		assert.True(t, ok)
		assert.Equal(t, kind, found)
	}
	_, ok := KindByName("volcanoes")
	assert.False(t, ok)
}

func TestDataKindSerialization(t *testing.T) {
	feature := makeTestAerodrome("KMSP")
	data := Aerodromes.Serialize(st.ItemDescriptor{Version: 2, Item: feature})
	require.NotNil(t, data)

	item, err := Aerodromes.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, 0, item.Version)
	require.IsType(t, &adgeo.Feature{}, item.Item)
	assert.Equal(t, *feature, *(item.Item.(*adgeo.Feature)))
}

func TestDataKindSerializationOfDeletedItem(t *testing.T) {
	data := Runways.Serialize(st.ItemDescriptor{Version: 5, Item: nil})
	assert.Equal(t, "null", string(data))

	item, err := Runways.Deserialize([]byte(" null "))
	require.NoError(t, err)
	assert.Nil(t, item.Item)
}

func TestDataKindDeserializationError(t *testing.T) {
	_, err := Helipads.Deserialize([]byte("{not json"))
	assert.Error(t, err)
}

func TestDataKindSerializeUnexpectedItemType(t *testing.T) {
	assert.Nil(t, Aerodromes.Serialize(st.ItemDescriptor{Version: 1, Item: "not a feature"}))
}
