package subsystems

import (
	"io"

	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// DataSource describes the interface for an object that receives aerodrome data.
type DataSource interface {
	io.Closer

	// IsInitialized returns true if the data source has successfully initialized at some point.
	//
	// Once this is true, it should remain true even if a problem occurs later.
	IsInitialized() bool

	// Start tells the data source to begin initializing. It should not try to make any connections
	// or do any other significant activity until Start is called.
	//
	// The data source should close the closeWhenReady channel if and when it has either successfully
	// initialized for the first time, or determined that initialization cannot ever succeed.
	Start(closeWhenReady chan<- struct{})
}

// DataSourceUpdateSink is the interface that a data source implementation will use to push data
// into the client.
//
// Application code does not need to use this type. It is for data source implementations.
//
// The data source interacts with this object, rather than manipulating the data store directly, so
// that the client can perform any other necessary operations that must happen when data is updated,
// such as status broadcasts and data update events.
type DataSourceUpdateSink interface {
	// Init overwrites the current contents of the data store with a set of items for each collection.
	//
	// If the underlying data store returns an error during this operation, the client will take
	// appropriate action and the data source does not need to do anything except for receiving the
	// return value-- true if the update succeeded.
	Init(allData []adstoretypes.Collection) bool

	// Upsert updates or inserts an item in the specified collection. For updates, the object will
	// only be updated if the existing version is less than the new version.
	//
	// To mark an item as deleted, pass an ItemDescriptor with a nil Item and a version number. An
	// item can later be un-deleted by upserting it with a higher version.
	//
	// If the underlying data store returns an error during this operation, the client will take
	// appropriate action and the data source does not need to do anything except for receiving the
	// return value-- true if the update succeeded.
	Upsert(kind adstoretypes.DataKind, key string, item adstoretypes.ItemDescriptor) bool

	// UpdateStatus informs the client of a change in the data source's status.
	//
	// Data source implementations should use this method if they have any concept of being in a valid
	// state, a temporarily disconnected state, or a permanently stopped state.
	//
	// If newState is different from the previous state, and/or newError is non-empty, the client will
	// start returning the new status (adding a timestamp for the change) from
	// DataSourceStatusProvider.GetStatus(), and will trigger status change events to any registered
	// listeners.
	//
	// A special case is that if newState is DataSourceStateInterrupted, but the previous state was
	// DataSourceStateInitializing, the state will remain at Initializing because Interrupted is only
	// meaningful after a successful startup.
	//
	// Data source implementations normally should not need to set the state to Valid, because that
	// will happen automatically if they update the store successfully.
	UpdateStatus(newState interfaces.DataSourceState, newError interfaces.DataSourceErrorInfo)

	// GetDataStoreStatusProvider returns an object that provides status tracking for the data store,
	// if applicable.
	//
	// This may be useful if the data source needs to be aware of storage problems; for instance, the
	// streaming data source uses it to know when it should restart the stream after a store outage.
	GetDataStoreStatusProvider() interfaces.DataStoreStatusProvider
}
