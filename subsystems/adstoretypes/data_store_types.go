// Package adstoretypes contains types that are used by the data store and related components.
package adstoretypes

// DataKind represents a separately namespaced collection of storable data items.
//
// The client passes instances of this type to the data store to specify whether it is referring to
// an aerodrome, a runway, etc. The data store implementation should not look for a specific data
// kind, but should treat all data kinds generically.
type DataKind interface {
	// GetName returns a short string that uniquely identifies this data kind, such as "aerodromes".
	// This is also the property name under which items of this kind appear in serialized data set
	// documents.
	GetName() string

	// Serialize returns the canonical JSON representation of the item, or nil if this is a deleted
	// item placeholder.
	Serialize(item ItemDescriptor) []byte

	// Deserialize translates a JSON representation back into an ItemDescriptor. Since item versions
	// are not part of the serialized form, the returned descriptor's Version is zero; callers that
	// have an authoritative version from elsewhere should apply it.
	Deserialize(data []byte) (ItemDescriptor, error)
}

// ItemDescriptor is a versioned item (or placeholder) storable in a DataStore.
//
// This is used for data stores that directly store objects as-is, as the default in-memory store
// does. Items are typed as interface{}; the store should not know or care what the actual object
// is.
//
// For any given key within a DataKind, there can be either an existing item with a version, or a
// "tombstone" placeholder representing a deleted item (also with a version). Deleted item
// placeholders are used so that if an item is first updated with version N and then deleted with
// version N+1, but the updates are received out of order, version N will not overwrite the
// deletion.
//
// Persistent data stores use SerializedItemDescriptor instead.
type ItemDescriptor struct {
	// Version is the version number of this data, provided by the data source.
	Version int
	// Item is the data item, or nil if this is a placeholder for a deleted item.
	Item interface{}
}

// NotFound is a convenience method to return a value indicating no such item exists.
func (s ItemDescriptor) NotFound() ItemDescriptor {
	return ItemDescriptor{Version: -1, Item: nil}
}

// SerializedItemDescriptor is a versioned item (or placeholder) storable in a PersistentDataStore.
//
// This is equivalent to ItemDescriptor, but is used for persistent data stores. The client converts
// each data item to and from its serialized byte form; the persistent data store deals only with
// the serialized form.
type SerializedItemDescriptor struct {
	// Version is the version number of this data, provided by the data source.
	Version int
	// Deleted is true if this is a placeholder (tombstone) for a deleted item.
	Deleted bool
	// SerializedItem is the data item's serialized representation, or nil for a deleted item.
	SerializedItem []byte
}

// NotFound is a convenience method to return a value indicating no such item exists.
func (s SerializedItemDescriptor) NotFound() SerializedItemDescriptor {
	return SerializedItemDescriptor{Version: -1, SerializedItem: nil}
}

// KeyedItemDescriptor is a key-value pair containing an ItemDescriptor.
type KeyedItemDescriptor struct {
	// Key is the unique key of this item within its DataKind.
	Key string
	// Item is the versioned item.
	Item ItemDescriptor
}

// KeyedSerializedItemDescriptor is a key-value pair containing a SerializedItemDescriptor.
type KeyedSerializedItemDescriptor struct {
	// Key is the unique key of this item within its DataKind.
	Key string
	// Item is the versioned serialized item.
	Item SerializedItemDescriptor
}

// Collection is a list of data store items for a DataKind.
type Collection struct {
	Kind  DataKind
	Items []KeyedItemDescriptor
}

// SerializedCollection is a list of serialized data store items for a DataKind.
type SerializedCollection struct {
	Kind  DataKind
	Items []KeyedSerializedItemDescriptor
}
