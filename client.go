package aerodata

import (
	"errors"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/aerodata/go-aerodata/adcomponents"
	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/adquery"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/internal/datasource"
	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/internal/query"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// Version is the client version.
const Version = internal.Version

// Initialization errors
var (
	ErrInitializationTimeout = errors.New("timeout encountered waiting for aerodata client initialization")
	ErrInitializationFailed  = errors.New("aerodata client initialization failed")
	ErrClientNotInitialized  = errors.New("aerodrome data requested before client initialization completed")
)

// Client is the aerodata client.
//
// The client maintains an up-to-date set of aerodrome, runway, and helipad features, received
// from a data source such as the FAA endpoints, and answers queries against that set.
// Applications should instantiate a single instance for the lifetime of their application and
// share it wherever aerodrome data is needed.
//
// Some advanced client features are grouped together into API facades that are accessed through
// a method, such as [Client.GetDataSourceStatusProvider].
type Client struct {
	loggers                     ldlog.Loggers
	dataSource                  subsystems.DataSource
	store                       subsystems.DataStore
	dataSourceStatusBroadcaster *internal.Broadcaster[interfaces.DataSourceStatus]
	dataSourceStatusProvider    interfaces.DataSourceStatusProvider
	dataStoreStatusBroadcaster  *internal.Broadcaster[interfaces.DataStoreStatus]
	dataStoreStatusProvider     interfaces.DataStoreStatusProvider
	dataUpdatesBroadcaster      *internal.Broadcaster[interfaces.DataUpdateEvent]
	dataUpdateTracker           interfaces.DataUpdateTracker
	offline                     bool
}

// MakeClient creates a new client instance with the default configuration: aerodrome data is
// polled from the standard FAA endpoints and held in memory.
//
// For advanced configuration options, use [MakeCustomClient]. Calling MakeClient is exactly
// equivalent to calling MakeCustomClient with the config parameter set to an empty value,
// Config{}.
//
// The client will begin fetching data in the background. If the waitFor parameter is greater
// than zero, MakeClient blocks until the first complete data set has been stored, or until
// that timeout expires, whichever comes first. Downloading and converting the FAA source
// files can take tens of seconds on a fast connection, so a short waitFor will normally
// return ErrInitializationTimeout; the fetch keeps running in the background and
// [Client.Initialized] reports when it has finished.
//
// If the timeout elapsed without initialization finishing, the error is
// ErrInitializationTimeout. If initialization failed permanently, the error is
// ErrInitializationFailed. In both cases the returned client is still usable and serves
// whatever data it has.
func MakeClient(waitFor time.Duration) (*Client, error) {
	return MakeCustomClient(Config{}, waitFor)
}

// MakeCustomClient creates a new client instance with a custom configuration.
//
// The config parameter allows customization of all client properties; some of the most
// important ones are the data source (such as [adcomponents.PollingDataSource] or
// [adcomponents.StreamingDataSource]) and the data store. See [Config] for details.
//
// The waitFor parameter has the same meaning as in [MakeClient].
func MakeCustomClient(config Config, waitFor time.Duration) (*Client, error) {
	closeWhenReady := make(chan struct{})

	clientContext, err := newClientContextFromConfig(config)
	if err != nil {
		return nil, err
	}

	loggers := clientContext.GetLogging().Loggers
	loggers.Infof("Starting aerodata client %s", Version)

	client := &Client{
		loggers: loggers,
		offline: config.Offline,
	}

	client.dataStoreStatusBroadcaster = internal.NewBroadcaster[interfaces.DataStoreStatus]()
	dataStoreUpdateSink := datastore.NewDataStoreUpdateSinkImpl(client.dataStoreStatusBroadcaster)
	storeFactory := config.DataStore
	if storeFactory == nil {
		storeFactory = adcomponents.InMemoryDataStore()
	}
	clientContextWithDataStoreUpdateSink := *clientContext
	clientContextWithDataStoreUpdateSink.BasicClientContext.DataStoreUpdateSink = dataStoreUpdateSink
	store, err := storeFactory.Build(&clientContextWithDataStoreUpdateSink)
	if err != nil {
		return nil, err
	}
	client.store = store

	client.dataStoreStatusProvider = datastore.NewDataStoreStatusProviderImpl(store, dataStoreUpdateSink)

	client.dataSourceStatusBroadcaster = internal.NewBroadcaster[interfaces.DataSourceStatus]()
	client.dataUpdatesBroadcaster = internal.NewBroadcaster[interfaces.DataUpdateEvent]()
	dataSourceUpdateSink := datasource.NewDataSourceUpdateSinkImpl(
		store,
		client.dataStoreStatusProvider,
		client.dataUpdatesBroadcaster,
		client.dataSourceStatusBroadcaster,
		clientContext.GetLogging().LogDataSourceOutageAsErrorAfter,
		loggers,
	)

	dataSource, err := createDataSource(config, clientContext, dataSourceUpdateSink)
	if err != nil {
		return nil, err
	}
	client.dataSource = dataSource
	client.dataSourceStatusProvider = datasource.NewDataSourceStatusProviderImpl(
		client.dataSourceStatusBroadcaster,
		dataSourceUpdateSink,
	)
	client.dataUpdateTracker = internal.NewDataUpdateTrackerImpl(
		client.dataUpdatesBroadcaster,
		dataSourceUpdateSink.GetDataVersion,
	)

	client.dataSource.Start(closeWhenReady)
	if waitFor > 0 && client.dataSource != datasource.NewNullDataSource() {
		loggers.Infof("Waiting up to %d milliseconds for aerodata client to start...",
			waitFor/time.Millisecond)

		timeout := time.After(waitFor)
		for {
			select {
			case <-closeWhenReady:
				if !client.dataSource.IsInitialized() {
					loggers.Warn("Aerodata client initialization failed")
					return client, ErrInitializationFailed
				}

				loggers.Info("Initialized aerodata client!")
				return client, nil
			case <-timeout:
				loggers.Warn("Timeout encountered waiting for aerodata client initialization")
				go func() { <-closeWhenReady }() // Don't block the DataSource when not waiting
				return client, ErrInitializationTimeout
			}
		}
	}
	go func() { <-closeWhenReady }() // Don't block the DataSource when not waiting
	return client, nil
}

func createDataSource(
	config Config,
	context *internal.ClientContextImpl,
	dataSourceUpdateSink subsystems.DataSourceUpdateSink,
) (subsystems.DataSource, error) {
	if config.Offline {
		context.GetLogging().Loggers.Info("Starting aerodata client in offline mode")
		dataSourceUpdateSink.UpdateStatus(interfaces.DataSourceStateValid, interfaces.DataSourceErrorInfo{})
		return datasource.NewNullDataSource(), nil
	}
	factory := config.DataSource
	if factory == nil {
		factory = adcomponents.PollingDataSource()
	}
	contextCopy := *context
	contextCopy.BasicClientContext.DataSourceUpdateSink = dataSourceUpdateSink
	return factory.Build(&contextCopy)
}

// Features returns the page of aerodrome features matching the given query parameters, as a
// GeoJSON FeatureCollection.
//
// When more features match than the query's page size, the collection carries a NextPageToken
// that can be passed in a later query's PageToken field to continue where the page ended.
//
// If the client has not finished initializing, but the data store already contains a complete
// data set (for instance because it is a persistent store written by a previous run), the
// result comes from the last known data. If no data is available at all, the error is
// ErrClientNotInitialized.
func (client *Client) Features(params adquery.Params) (adgeo.FeatureCollection, error) {
	if err := client.checkDataAvailability("Features"); err != nil {
		return adgeo.FeatureCollection{}, err
	}
	snapshot, err := query.Snapshot(client.store)
	if err != nil {
		return adgeo.FeatureCollection{}, err
	}
	return query.Select(snapshot, params)
}

// AllData returns the complete current data set, one collection per data kind, in the form the
// data store API uses.
//
// This is intended for components that replicate the data set, such as the streaming endpoint
// of the query server; for ordinary filtered reads, use [Client.Features]. Deleted item
// placeholders are included.
func (client *Client) AllData() ([]st.Collection, error) {
	if err := client.checkDataAvailability("AllData"); err != nil {
		return nil, err
	}
	var allData []st.Collection
	for _, kind := range datakinds.AllKinds() {
		items, err := client.store.GetAll(kind)
		if err != nil {
			return nil, err
		}
		allData = append(allData, st.Collection{Kind: kind, Items: items})
	}
	return allData, nil
}

func (client *Client) checkDataAvailability(method string) error {
	if client.Initialized() {
		return nil
	}
	if client.store.IsInitialized() {
		client.loggers.Warnf("Called %s before client initialization; using last known values from data store", method)
		return nil
	}
	client.loggers.Warnf("Called %s before client initialization. Data store not available; returning no data", method)
	return ErrClientNotInitialized
}

// Initialized returns whether the client has received an initial set of aerodrome data.
//
// If this value is true, it means the client has succeeded at some point in fetching a complete
// data set and storing it. It does not mean the client is currently connected to the upstream
// services.
func (client *Client) Initialized() bool {
	return client.dataSource.IsInitialized()
}

// IsOffline returns whether the client was configured to be offline.
func (client *Client) IsOffline() bool {
	return client.offline
}

// Close shuts down the client. After calling this, the client should no longer be used.
func (client *Client) Close() error {
	client.loggers.Info("Closing aerodata client")

	_ = client.dataSource.Close()
	_ = client.store.Close()
	client.dataSourceStatusBroadcaster.Close()
	client.dataStoreStatusBroadcaster.Close()
	client.dataUpdatesBroadcaster.Close()
	return nil
}

// GetDataSourceStatusProvider returns an interface for tracking the status of the data source.
//
// The data source is the mechanism that the client uses to get aerodrome data, such as the
// FAA polling requests (the default) or the update stream of another aerodata instance. The
// DataSourceStatusProvider has methods for checking whether the data source is (as far as the
// client knows) currently operational, and tracking changes in this status.
func (client *Client) GetDataSourceStatusProvider() interfaces.DataSourceStatusProvider {
	return client.dataSourceStatusProvider
}

// GetDataStoreStatusProvider returns an interface for tracking the status of a persistent data
// store.
//
// The DataStoreStatusProvider has methods for checking whether the data store is (as far as the
// client knows) currently operational and tracking changes in this status. These are only
// relevant for a persistent store such as the file data store; if the client is using the
// default in-memory store, the methods will always report a healthy state.
func (client *Client) GetDataStoreStatusProvider() interfaces.DataStoreStatusProvider {
	return client.dataStoreStatusProvider
}

// GetDataUpdateTracker returns an interface for tracking updates to the aerodrome data set.
//
// The DataUpdateTracker has methods for subscribing to a notification each time the data source
// stores an update, and for reading the version of the current data set. The streaming endpoint
// of the query server uses this to push a fresh data set to its subscribers after every update.
func (client *Client) GetDataUpdateTracker() interfaces.DataUpdateTracker {
	return client.dataUpdateTracker
}
