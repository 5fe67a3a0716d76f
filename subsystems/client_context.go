package subsystems

import (
	"net/http"

	"github.com/aerodata/go-aerodata/interfaces"
)

// ClientContext provides context information from the client when creating other components.
//
// This is passed as a parameter to the Build methods of implementations of ComponentConfigurer.
// The actual implementation type may contain other properties that are only relevant to the
// built-in components and are therefore not part of the public interface; this allows the client
// to add its own context information as needed without disturbing the public API. However, for
// test purposes you may use the simple struct type BasicClientContext.
type ClientContext interface {
	// GetHTTP returns the configured HTTPConfiguration.
	GetHTTP() HTTPConfiguration

	// GetLogging returns the configured LoggingConfiguration.
	GetLogging() LoggingConfiguration

	// GetOffline returns true if the client was configured to be completely offline.
	GetOffline() bool

	// GetDataEndpoints returns the configuration for upstream service URIs.
	GetDataEndpoints() interfaces.DataEndpoints

	// GetDataSourceUpdateSink returns the component that DataSource implementations use to deliver
	// data and status updates to the client.
	//
	// This component is only available when the client is creating a DataSource. Otherwise the
	// method returns nil.
	GetDataSourceUpdateSink() DataSourceUpdateSink

	// GetDataStoreUpdateSink returns the component that DataStore implementations use to deliver
	// data store status updates to the client.
	//
	// This component is only available when the client is creating a DataStore. Otherwise the
	// method returns nil.
	GetDataStoreUpdateSink() DataStoreUpdateSink
}

// BasicClientContext is the basic implementation of the ClientContext interface, not including any
// private fields that the client may use for implementation details.
type BasicClientContext struct {
	HTTP                 HTTPConfiguration
	Logging              LoggingConfiguration
	Offline              bool
	DataEndpoints        interfaces.DataEndpoints
	DataSourceUpdateSink DataSourceUpdateSink
	DataStoreUpdateSink  DataStoreUpdateSink
}

func (b BasicClientContext) GetHTTP() HTTPConfiguration { //nolint:revive
	ret := b.HTTP
	if ret.CreateHTTPClient == nil {
		ret.CreateHTTPClient = func() *http.Client {
			client := *http.DefaultClient
			return &client
		}
	}
	return ret
}

func (b BasicClientContext) GetLogging() LoggingConfiguration { return b.Logging } //nolint:revive

func (b BasicClientContext) GetOffline() bool { return b.Offline } //nolint:revive

func (b BasicClientContext) GetDataEndpoints() interfaces.DataEndpoints { //nolint:revive
	return b.DataEndpoints
}

func (b BasicClientContext) GetDataSourceUpdateSink() DataSourceUpdateSink { //nolint:revive
	return b.DataSourceUpdateSink
}

func (b BasicClientContext) GetDataStoreUpdateSink() DataStoreUpdateSink { //nolint:revive
	return b.DataStoreUpdateSink
}
