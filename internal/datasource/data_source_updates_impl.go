package datasource

import (
	"fmt"
	"sync"
	"time"

	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// DataSourceUpdateSinkImpl is the internal implementation of DataSourceUpdateSink. It is exported
// because the actual implementation type, rather than the interface, is required as a dependency
// of other client components.
type DataSourceUpdateSinkImpl struct {
	store                   subsystems.DataStore
	dataStoreStatusProvider interfaces.DataStoreStatusProvider
	updatesBroadcaster      *internal.Broadcaster[interfaces.DataUpdateEvent]
	statusBroadcaster       *internal.Broadcaster[interfaces.DataSourceStatus]
	outageTracker           *outageTracker
	loggers                 ldlog.Loggers
	currentStatus           interfaces.DataSourceStatus
	lastStoreUpdateFailed   bool
	dataVersion             int
	lock                    sync.Mutex
}

// NewDataSourceUpdateSinkImpl creates the internal implementation of DataSourceUpdateSink.
func NewDataSourceUpdateSinkImpl(
	store subsystems.DataStore,
	dataStoreStatusProvider interfaces.DataStoreStatusProvider,
	updatesBroadcaster *internal.Broadcaster[interfaces.DataUpdateEvent],
	statusBroadcaster *internal.Broadcaster[interfaces.DataSourceStatus],
	logDataSourceOutageAsErrorAfter time.Duration,
	loggers ldlog.Loggers,
) *DataSourceUpdateSinkImpl {
	return &DataSourceUpdateSinkImpl{
		store:                   store,
		dataStoreStatusProvider: dataStoreStatusProvider,
		updatesBroadcaster:      updatesBroadcaster,
		statusBroadcaster:       statusBroadcaster,
		outageTracker:           newOutageTracker(logDataSourceOutageAsErrorAfter, loggers),
		loggers:                 loggers,
		currentStatus: interfaces.DataSourceStatus{
			State:      interfaces.DataSourceStateInitializing,
			StateSince: time.Now(),
		},
	}
}

// Init is a standard method of DataSourceUpdateSink.
func (d *DataSourceUpdateSinkImpl) Init(allData []st.Collection) bool {
	err := d.store.Init(sortCollectionsForStoreInit(allData))
	ok := d.maybeUpdateError(err)
	if ok {
		d.bumpDataVersion()
	}
	return ok
}

// Upsert is a standard method of DataSourceUpdateSink.
func (d *DataSourceUpdateSinkImpl) Upsert(
	kind st.DataKind,
	key string,
	item st.ItemDescriptor,
) bool {
	updated, err := d.store.Upsert(kind, key, item)
	ok := d.maybeUpdateError(err)
	if ok && updated {
		d.bumpDataVersion()
	}
	return ok
}

func (d *DataSourceUpdateSinkImpl) maybeUpdateError(err error) bool {
	if err == nil {
		d.lock.Lock()
		defer d.lock.Unlock()
		d.lastStoreUpdateFailed = false
		return true
	}

	d.UpdateStatus(
		interfaces.DataSourceStateInterrupted,
		interfaces.DataSourceErrorInfo{
			Kind:    interfaces.DataSourceErrorKindStoreError,
			Message: err.Error(),
			Time:    time.Now(),
		},
	)

	shouldLog := false
	d.lock.Lock()
	shouldLog = !d.lastStoreUpdateFailed
	d.lastStoreUpdateFailed = true
	d.lock.Unlock()
	if shouldLog {
		d.loggers.Warnf("Unexpected data store error when trying to store an update received from the data source: %s", err)
	}

	return false
}

func (d *DataSourceUpdateSinkImpl) bumpDataVersion() {
	d.lock.Lock()
	d.dataVersion++
	event := interfaces.DataUpdateEvent{Version: d.dataVersion, Time: time.Now()}
	d.lock.Unlock()
	d.updatesBroadcaster.Broadcast(event)
}

// GetDataVersion returns the version number of the current data set: the number of successful
// data updates the sink has stored since the client started.
func (d *DataSourceUpdateSinkImpl) GetDataVersion() int {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.dataVersion
}

// UpdateStatus is a standard method of DataSourceUpdateSink.
func (d *DataSourceUpdateSinkImpl) UpdateStatus(
	newState interfaces.DataSourceState,
	newError interfaces.DataSourceErrorInfo,
) {
	if newState == "" {
		return
	}
	if statusToBroadcast, changed := d.maybeUpdateStatus(newState, newError); changed {
		d.statusBroadcaster.Broadcast(statusToBroadcast)
	}
	d.outageTracker.trackDataSourceState(newState, newError)
}

func (d *DataSourceUpdateSinkImpl) maybeUpdateStatus(
	newState interfaces.DataSourceState,
	newError interfaces.DataSourceErrorInfo,
) (interfaces.DataSourceStatus, bool) {
	d.lock.Lock()
	defer d.lock.Unlock()

	oldStatus := d.currentStatus

	if newState == interfaces.DataSourceStateInterrupted && oldStatus.State == interfaces.DataSourceStateInitializing {
		newState = interfaces.DataSourceStateInitializing // see comment on DataSourceUpdateSink.UpdateStatus
	}

	if newState == oldStatus.State && newError.Kind == "" {
		return interfaces.DataSourceStatus{}, false
	}

	stateSince := oldStatus.StateSince
	if newState != oldStatus.State {
		stateSince = time.Now()
	}
	lastError := oldStatus.LastError
	if newError.Kind != "" {
		lastError = newError
	}
	d.currentStatus = interfaces.DataSourceStatus{
		State:      newState,
		StateSince: stateSince,
		LastError:  lastError,
	}
	return d.currentStatus, true
}

// GetDataStoreStatusProvider is a standard method of DataSourceUpdateSink.
func (d *DataSourceUpdateSinkImpl) GetDataStoreStatusProvider() interfaces.DataStoreStatusProvider {
	return d.dataStoreStatusProvider
}

// GetLastStatus is used internally by client components.
func (d *DataSourceUpdateSinkImpl) GetLastStatus() interfaces.DataSourceStatus {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.currentStatus
}

func (d *DataSourceUpdateSinkImpl) waitFor(desiredState interfaces.DataSourceState, timeout time.Duration) bool {
	d.lock.Lock()
	if d.currentStatus.State == desiredState {
		d.lock.Unlock()
		return true
	}
	if d.currentStatus.State == interfaces.DataSourceStateOff {
		d.lock.Unlock()
		return false
	}

	statusCh := d.statusBroadcaster.AddListener()
	defer d.statusBroadcaster.RemoveListener(statusCh)
	d.lock.Unlock()

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = time.After(timeout)
	}

	for {
		select {
		case newStatus := <-statusCh:
			if newStatus.State == desiredState {
				return true
			}
			if newStatus.State == interfaces.DataSourceStateOff {
				return false
			}
		case <-deadline:
			return false
		}
	}
}

// sortCollectionsForStoreInit arranges the data set so that referenced kinds are stored before
// the kinds whose features refer to them: aerodromes first, then runways, then helipads. Any
// nonstandard kinds keep their relative order at the end.
func sortCollectionsForStoreInit(allData []st.Collection) []st.Collection {
	ret := make([]st.Collection, 0, len(allData))
	used := make([]bool, len(allData))
	for _, kind := range datakinds.AllKinds() {
		for i, coll := range allData {
			if !used[i] && coll.Kind == kind {
				ret = append(ret, coll)
				used[i] = true
			}
		}
	}
	for i, coll := range allData {
		if !used[i] {
			ret = append(ret, coll)
		}
	}
	return ret
}

// outageTracker keeps track of how long the data source has gone without a successful update,
// and after the configured interval, logs a summary of the errors seen during the outage at
// Error level. This makes a prolonged outage visible even when the individual errors are only
// logged at Warn level.
type outageTracker struct {
	outageLoggingTimeout time.Duration
	loggers              ldlog.Loggers
	inOutage             bool
	errorCounts          map[interfaces.DataSourceErrorInfo]int
	timeoutCloser        chan struct{}
	lock                 sync.Mutex
}

func newOutageTracker(outageLoggingTimeout time.Duration, loggers ldlog.Loggers) *outageTracker {
	return &outageTracker{
		outageLoggingTimeout: outageLoggingTimeout,
		loggers:              loggers,
	}
}

func (o *outageTracker) trackDataSourceState(
	newState interfaces.DataSourceState,
	newError interfaces.DataSourceErrorInfo,
) {
	if o.outageLoggingTimeout == 0 {
		return
	}

	o.lock.Lock()
	defer o.lock.Unlock()

	if newState == interfaces.DataSourceStateInterrupted || newError.Kind != "" ||
		(newState == interfaces.DataSourceStateInitializing && o.inOutage) {
		// We are in a potentially recoverable outage state. If that wasn't the case already,
		// schedule the timeout for logging the outage at Error level.
		if o.inOutage {
			o.recordError(newError)
		} else {
			o.inOutage = true
			o.errorCounts = make(map[interfaces.DataSourceErrorInfo]int)
			o.recordError(newError)
			o.timeoutCloser = make(chan struct{})
			go o.awaitTimeout(o.timeoutCloser)
		}
	} else {
		if o.timeoutCloser != nil {
			close(o.timeoutCloser)
			o.timeoutCloser = nil
		}
		o.inOutage = false
	}
}

func (o *outageTracker) recordError(newError interfaces.DataSourceErrorInfo) {
	// Accumulate how many times each kind of error has occurred during the outage. Only the
	// basic properties are used as the key, so the map cannot grow without bound.
	errorKey := interfaces.DataSourceErrorInfo{Kind: newError.Kind, StatusCode: newError.StatusCode}
	o.errorCounts[errorKey]++
}

func (o *outageTracker) awaitTimeout(closer chan struct{}) {
	select {
	case <-closer:
		return
	case <-time.After(o.outageLoggingTimeout):
		break
	}

	o.lock.Lock()
	if !o.inOutage {
		// COVERAGE: there is no way to make this happen in unit tests; it is a very unlikely race condition
		o.lock.Unlock()
		return
	}
	errorsDesc := o.describeErrors()
	o.timeoutCloser = nil
	o.lock.Unlock()

	o.loggers.Errorf(
		"Data source outage - updates have been unavailable for at least %s with the following errors: %s",
		o.outageLoggingTimeout,
		errorsDesc,
	)
}

func (o *outageTracker) describeErrors() string {
	ret := ""
	for err, count := range o.errorCounts {
		if ret != "" {
			ret += ", "
		}
		times := "times"
		if count == 1 {
			times = "time"
		}
		ret += fmt.Sprintf("%s (%d %s)", err, count, times)
	}
	return ret
}
