package internal

import (
	"github.com/aerodata/go-aerodata/interfaces"
)

// dataUpdateTrackerImpl is the internal implementation of DataUpdateTracker. It's not exported
// because the rest of the client code only interacts with the public interface.
//
// The underlying broadcaster receives a DataUpdateEvent from the data source update sink each
// time a data update has been successfully stored; the current version is read back from the
// sink through currentVersionFn rather than being duplicated here.
type dataUpdateTrackerImpl struct {
	broadcaster      *Broadcaster[interfaces.DataUpdateEvent]
	currentVersionFn func() int
}

// NewDataUpdateTrackerImpl creates the internal implementation of DataUpdateTracker.
func NewDataUpdateTrackerImpl(
	broadcaster *Broadcaster[interfaces.DataUpdateEvent],
	currentVersionFn func() int,
) interfaces.DataUpdateTracker {
	return &dataUpdateTrackerImpl{broadcaster: broadcaster, currentVersionFn: currentVersionFn}
}

// AddUpdateListener is a standard method of DataUpdateTracker.
func (d *dataUpdateTrackerImpl) AddUpdateListener() <-chan interfaces.DataUpdateEvent {
	return d.broadcaster.AddListener()
}

// RemoveUpdateListener is a standard method of DataUpdateTracker.
func (d *dataUpdateTrackerImpl) RemoveUpdateListener(listener <-chan interfaces.DataUpdateEvent) {
	d.broadcaster.RemoveListener(listener)
}

// DataVersion is a standard method of DataUpdateTracker.
func (d *dataUpdateTrackerImpl) DataVersion() int {
	return d.currentVersionFn()
}
