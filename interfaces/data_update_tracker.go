package interfaces

import "time"

// DataUpdateTracker is an interface for tracking changes in the aerodrome data set.
//
// An implementation of this interface is returned by Client.GetDataUpdateTracker(). Application code
// should not implement this interface.
//
// The aerodata server uses this mechanism to find out when it should publish a new "put" event on
// the streaming endpoint and to version its query cache, but it may be useful to any application
// that wants to know when the data it is querying has changed.
type DataUpdateTracker interface {
	// AddUpdateListener subscribes for notifications of data updates. The returned channel will
	// receive a DataUpdateEvent whenever the data source has successfully stored a new full data set
	// or an individual item update.
	//
	// It is the caller's responsibility to consume values from the channel. Allowing values to
	// accumulate in the channel can cause a client goroutine to be blocked. If you no longer need
	// the channel, call RemoveUpdateListener.
	AddUpdateListener() <-chan DataUpdateEvent

	// RemoveUpdateListener unsubscribes from notifications of data updates. The specified channel
	// must be one that was previously returned by AddUpdateListener(); otherwise, the method has no
	// effect.
	RemoveUpdateListener(listener <-chan DataUpdateEvent)

	// DataVersion returns the version number of the current data set, or zero if no data has been
	// stored yet. The version is incremented each time the data source stores a new full data set
	// or an individual item update, and is never reset while the client is running.
	DataVersion() int
}

// DataUpdateEvent is a notification that the stored aerodrome data set has changed.
//
// See DataUpdateTracker.
type DataUpdateEvent struct {
	// Version is the version number of the data set after the update.
	Version int

	// Time is the date/time that the update was stored.
	Time time.Time
}
