// Package datakinds defines the data kinds corresponding to the three aerodrome element types,
// and the document format for a complete data set.
package datakinds

import (
	"bytes"

	"github.com/aerodata/go-aerodata/adgeo"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
)

// This file defines the DataKind implementations corresponding to our three top-level data model
// types, all of which are represented as adgeo.Feature. We access these objects directly
// throughout the client code; they are also exported indirectly through adcomponents for
// applications that implement a custom persistent data store.

// The serialized form of a deleted item (tombstone) is a JSON null. Tombstones only appear in
// persistent stores, where items are written one at a time; a full data document never contains
// them, because replacing the whole data set implicitly deletes whatever is absent from it.
var nullJSON = []byte("null") //nolint:gochecknoglobals

type featureStoreDataKind struct {
	name        string
	elementType string
}

// Aerodromes is the global DataKind instance for aerodrome reference point features.
var Aerodromes DataKindInternal = featureStoreDataKind{ //nolint:gochecknoglobals
	name:        "aerodromes",
	elementType: adgeo.ElementTypeAerodrome,
}

// Runways is the global DataKind instance for runway centerline features.
var Runways DataKindInternal = featureStoreDataKind{ //nolint:gochecknoglobals
	name:        "runways",
	elementType: adgeo.ElementTypeRunway,
}

// Helipads is the global DataKind instance for helipad reference point features.
var Helipads DataKindInternal = featureStoreDataKind{ //nolint:gochecknoglobals
	name:        "helipads",
	elementType: adgeo.ElementTypeHelipad,
}

// AllKinds returns all the supported data kinds, in the order in which collections should be
// written to a data store: aerodromes come first because runway and helipad features refer to
// them by aerodrome identifier.
func AllKinds() []st.DataKind {
	return []st.DataKind{Aerodromes, Runways, Helipads}
}

// KindByName returns the data kind whose namespace identifier is name, if there is one.
func KindByName(name string) (DataKindInternal, bool) {
	switch name {
	case Aerodromes.GetName():
		return Aerodromes, true
	case Runways.GetName():
		return Runways, true
	case Helipads.GetName():
		return Helipads, true
	}
	return nil, false
}

// KindByElementType returns the data kind whose features carry the given aerodrome element type,
// if there is one.
func KindByElementType(elementType string) (DataKindInternal, bool) {
	switch elementType {
	case adgeo.ElementTypeAerodrome:
		return Aerodromes, true
	case adgeo.ElementTypeRunway:
		return Runways, true
	case adgeo.ElementTypeHelipad:
		return Helipads, true
	}
	return nil, false
}

// GetName returns the unique namespace identifier for this kind of feature.
func (k featureStoreDataKind) GetName() string {
	return k.name
}

// ElementType returns the adgeo element type that features of this kind carry in their
// aerodrome_element_type property.
func (k featureStoreDataKind) ElementType() string {
	return k.elementType
}

// Serialize is used internally when communicating with a PersistentDataStore.
func (k featureStoreDataKind) Serialize(item st.ItemDescriptor) []byte {
	if item.Item == nil {
		return nullJSON
	}
	if feature, ok := item.Item.(*adgeo.Feature); ok {
		if data, err := feature.MarshalJSON(); err == nil {
			return data
		}
	}
	return nil
}

// Deserialize is used internally when communicating with a PersistentDataStore. The returned
// descriptor always has a zero Version, since features do not carry a version of their own; a
// caller that knows the authoritative version applies it afterward.
func (k featureStoreDataKind) Deserialize(data []byte) (st.ItemDescriptor, error) {
	if isJSONNull(data) {
		return st.ItemDescriptor{Version: 0, Item: nil}, nil
	}
	var feature adgeo.Feature
	if err := feature.UnmarshalJSON(data); err != nil {
		return st.ItemDescriptor{}, err
	}
	return st.ItemDescriptor{Version: 0, Item: &feature}, nil
}

// DeserializeFromJSONReader deserializes a feature that appears within a larger JSON document
// that is already being parsed.
func (k featureStoreDataKind) DeserializeFromJSONReader(reader *jreader.Reader) (st.ItemDescriptor, error) {
	var feature adgeo.Feature
	feature.ReadFromJSONReader(reader)
	if err := reader.Error(); err != nil {
		return st.ItemDescriptor{}, err
	}
	return st.ItemDescriptor{Version: 0, Item: &feature}, nil
}

// String returns a human-readable string identifier.
func (k featureStoreDataKind) String() string {
	return k.name
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), nullJSON)
}
