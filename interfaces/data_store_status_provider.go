package interfaces

// DataStoreStatusProvider is an interface for querying the status of a persistent data store.
//
// An implementation of this interface is returned by Client.GetDataStoreStatusProvider().
// Application code should not implement this interface.
type DataStoreStatusProvider interface {
	// GetStatus returns the current status of the store. This is only meaningful for persistent
	// stores, or any other data store implementation that makes use of the status reporting
	// mechanism, in which case it returns the latest status that the store reported.
	//
	// For the default in-memory store, the status will always be reported as "available".
	GetStatus() DataStoreStatus

	// IsStatusMonitoringEnabled returns true if the current data store implementation supports status
	// monitoring.
	//
	// This is normally true for all persistent data stores, and false for the default in-memory store.
	// A true value means that any listeners added with AddStatusListener() can expect to be notified if
	// there is any error in storing data, and then notified again when the error condition is resolved.
	// A false value means that the status is not meaningful and listeners should not expect to be
	// notified.
	IsStatusMonitoringEnabled() bool

	// AddStatusListener subscribes for notifications of status changes. The returned channel will receive a
	// new DataStoreStatus value for any change in status.
	//
	// Applications may wish to know if there is an outage in a persistent data store, since that could mean
	// that queries will return stale data (if there is an in-memory cache) or fail (if not).
	//
	// If the data store implementation does not support status notifications (see
	// IsStatusMonitoringEnabled), then the channel will never receive any values.
	//
	// It is the caller's responsibility to consume values from the channel. Allowing values to accumulate in
	// the channel can cause an SDK goroutine to be blocked. If you no longer need the channel, call
	// RemoveStatusListener.
	AddStatusListener() <-chan DataStoreStatus

	// RemoveStatusListener unsubscribes from notifications of status changes. The specified channel must be
	// one that was previously returned by AddStatusListener(); otherwise, the method has no effect.
	RemoveStatusListener(listener <-chan DataStoreStatus)
}

// DataStoreStatus contains information about the status of a data store, provided by
// DataStoreStatusProvider.
type DataStoreStatus struct {
	// Available is true if the data store is currently operational.
	//
	// This property is true if the store is currently usable. For a persistent store, it would be false
	// if the last database operation failed and we have not yet seen evidence that the database is
	// working.
	Available bool

	// NeedsRefresh is true if the store may be out of date due to a previous outage, so the client
	// should attempt to refresh all data and rewrite it to the store.
	//
	// This property is only meaningful if Available is true.
	NeedsRefresh bool
}
