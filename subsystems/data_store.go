package subsystems

import (
	"io"

	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// DataStore is an interface for a data store that holds aerodrome data and related data received by
// the client.
//
// Ordinarily, the only implementations of this interface are the default in-memory implementation,
// which holds references to actual feature objects, and the persistent data store implementation
// that delegates to a PersistentDataStore.
type DataStore interface {
	io.Closer

	// Init overwrites the store's contents with a set of items for each collection.
	//
	// All previous data should be discarded, regardless of versioning.
	//
	// The update should be done atomically. If it cannot be done atomically, then the store
	// must first add or update each item in the same order that they are given in the input
	// data, and then delete any previously stored items that were not in the input data.
	Init(allData []adstoretypes.Collection) error

	// Get retrieves an item from the specified collection, if available.
	//
	// If the specified key does not exist in the collection, it returns ItemDescriptor{}.NotFound().
	//
	// If the item has been deleted and the store contains a placeholder, it returns an
	// ItemDescriptor with a non-zero Version and a nil Item.
	Get(kind adstoretypes.DataKind, key string) (adstoretypes.ItemDescriptor, error)

	// GetAll retrieves all items from the specified collection.
	//
	// If the store contains placeholders for deleted items, it returns them along with the regular
	// items.
	GetAll(kind adstoretypes.DataKind) ([]adstoretypes.KeyedItemDescriptor, error)

	// Upsert updates or inserts an item in the specified collection. For updates, the object will
	// only be updated if the existing version is less than the new version.
	//
	// The returned value is true if the update happened, or false if it was not applied because the
	// store contained an equal or higher version.
	Upsert(kind adstoretypes.DataKind, key string, item adstoretypes.ItemDescriptor) (bool, error)

	// IsInitialized returns true if the data store contains a complete data set, meaning that Init
	// has been called at least once.
	//
	// In a shared data store, it should be able to detect this even if Init was called in a
	// different process: that is, the test should be based on looking at what is in the data store.
	IsInitialized() bool

	// IsStatusMonitoringEnabled returns true if this data store implementation supports status
	// monitoring.
	//
	// This is normally only true for persistent data stores, meaning that the store guarantees that
	// the DataStoreUpdateSink will be notified on availability changes. The in-memory store returns
	// false, because it cannot fail.
	IsStatusMonitoringEnabled() bool
}

// PersistentDataStore is an interface for a persistent data store implementation such as the file
// data store.
//
// This interface is used for the underlying database/file integration. The client provides a
// wrapper (configured with adcomponents.PersistentDataStore) that provides caching behavior and
// data serialization, so that the PersistentDataStore implementation only needs to deal with the
// serialized item representations.
//
// Error handling is defined as follows: if any data store operation encounters an I/O error, or is
// otherwise unable to complete its task, it should return an error value to make the client aware
// of this. The client will log the exception and will assume that the data store is now in a
// non-operational state; it will then poll IsStoreAvailable to determine when the store has become
// operational again.
type PersistentDataStore interface {
	io.Closer

	// Init overwrites the store's contents with a set of serialized items for each collection.
	//
	// All previous data should be discarded, regardless of versioning.
	Init(allData []adstoretypes.SerializedCollection) error

	// Get retrieves a serialized item from the specified collection, if available.
	//
	// If the specified key does not exist in the collection, it returns
	// SerializedItemDescriptor{}.NotFound().
	Get(kind adstoretypes.DataKind, key string) (adstoretypes.SerializedItemDescriptor, error)

	// GetAll retrieves all serialized items from the specified collection.
	GetAll(kind adstoretypes.DataKind) ([]adstoretypes.KeyedSerializedItemDescriptor, error)

	// Upsert updates or inserts a serialized item in the specified collection. For updates, the
	// object will only be updated if the existing version is less than the new version.
	Upsert(kind adstoretypes.DataKind, key string,
		newItem adstoretypes.SerializedItemDescriptor) (bool, error)

	// IsInitialized returns true if the data store contains a complete data set, meaning that Init
	// has been called at least once.
	IsInitialized() bool

	// IsStoreAvailable tests whether the data store seems to be functioning normally.
	//
	// This should not be a detailed test of different kinds of operations, but just the smallest
	// possible operation to determine whether (for instance) we can reach the underlying storage.
	//
	// The client will call this method only if Init, Get, GetAll, or Upsert previously failed, to
	// determine when the data store has recovered.
	IsStoreAvailable() bool
}

// DataStoreUpdateSink is an interface that a data store implementation can use to report
// information back to the client.
//
// Application code does not need to use this type. It is for data store implementations.
//
// The client passes this in the ClientContext when it is creating a data store component.
type DataStoreUpdateSink interface {
	// UpdateStatus informs the client of a change in the data store's operational status.
	//
	// This is what makes the status monitoring mechanisms in DataStoreStatusProvider work.
	UpdateStatus(newStatus interfaces.DataStoreStatus)
}
