package datastore

import (
	"sync"
	"time"

	"github.com/aerodata/go-aerodata/interfaces"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// How often the recovery poller checks the store. This is a variable rather than a constant so
// that tests can refer to it when computing timeouts.
var statusPollInterval = 500 * time.Millisecond //nolint:gochecknoglobals

// dataStoreStatusManager tracks the availability of a persistent data store and polls for recovery
// after an outage. Status changes are pushed to the rest of the client through the statusUpdater
// function, which is normally DataStoreUpdateSink.UpdateStatus.
type dataStoreStatusManager struct {
	statusUpdater     func(interfaces.DataStoreStatus)
	lastAvailable     bool
	pollFn            func() bool
	refreshOnRecovery bool
	pollCloser        chan struct{}
	closeOnce         sync.Once
	lock              sync.Mutex
	loggers           ldlog.Loggers
}

// newDataStoreStatusManager creates a new dataStoreStatusManager. The pollFn should return true if
// the store is available, false if not.
func newDataStoreStatusManager(
	availableNow bool,
	pollFn func() bool,
	statusUpdater func(interfaces.DataStoreStatus),
	refreshOnRecovery bool,
	loggers ldlog.Loggers,
) *dataStoreStatusManager {
	return &dataStoreStatusManager{
		statusUpdater:     statusUpdater,
		lastAvailable:     availableNow,
		pollFn:            pollFn,
		refreshOnRecovery: refreshOnRecovery,
		loggers:           loggers,
	}
}

// updateAvailability signals that the store is now available or unavailable. If that is a change,
// a status update will be pushed (and, if the new status is unavailable, the manager will start
// polling for recovery).
func (m *dataStoreStatusManager) updateAvailability(available bool) {
	m.lock.Lock()
	if available == m.lastAvailable {
		m.lock.Unlock()
		return
	}
	m.lastAvailable = available
	newStatus := interfaces.DataStoreStatus{Available: available}
	if available {
		newStatus.NeedsRefresh = m.refreshOnRecovery
	}
	m.lock.Unlock()

	if available {
		m.loggers.Warn("Persistent store is available again")
	} else {
		m.loggers.Warn("Detected persistent store unavailability; updates will be cached until it recovers")
	}

	m.statusUpdater(newStatus)

	// If the store has just become unavailable, start a poller to detect when it comes back.
	if !available {
		m.lock.Lock()
		m.pollCloser = m.startStatusPoller()
		m.lock.Unlock()
	}
}

// isAvailable tests whether the last known status was available.
func (m *dataStoreStatusManager) isAvailable() bool {
	m.lock.Lock()
	defer m.lock.Unlock()
	return m.lastAvailable
}

// Close shuts down the recovery poller goroutine, if one is running.
func (m *dataStoreStatusManager) Close() {
	m.closeOnce.Do(func() {
		m.lock.Lock()
		defer m.lock.Unlock()
		if m.pollCloser != nil {
			close(m.pollCloser)
			m.pollCloser = nil
		}
	})
}

func (m *dataStoreStatusManager) startStatusPoller() chan struct{} {
	closer := make(chan struct{})
	go func() {
		ticker := time.NewTicker(statusPollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if m.pollFn() {
					m.updateAvailability(true)
					return
				}
			case <-closer:
				return
			}
		}
	}()
	return closer
}
