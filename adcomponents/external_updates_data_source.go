package adcomponents

import (
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/datasource"
	"github.com/aerodata/go-aerodata/subsystems"
)

type nullDataSourceFactory struct{}

// ExternalUpdatesOnly returns a configuration object that disables fetching aerodrome data.
//
// Storing this in Config.DataSource causes the client not to retrieve data from the FAA services
// or from another aerodata server, regardless of any other configuration. This is normally done
// when an external process populates a shared persistent data store, for instance another server
// instance writing to the same file store. If nothing is updating the data store, the client will
// not have any aerodrome data and queries will return empty results.
//
//	config := aerodata.Config{
//	    DataSource: adcomponents.ExternalUpdatesOnly(),
//	    DataStore: adcomponents.PersistentDataStore(
//	        adcomponents.FileDataStore("aerodata-features.geojson"),
//	    ),
//	}
func ExternalUpdatesOnly() subsystems.ComponentConfigurer[subsystems.DataSource] {
	return nullDataSourceFactory{}
}

// DataSource factory implementation
func (f nullDataSourceFactory) Build(
	context subsystems.ClientContext,
) (subsystems.DataSource, error) {
	context.GetLogging().Loggers.Info("The client will not fetch aerodrome data; only the configured data store will be used")
	if context.GetDataSourceUpdateSink() != nil {
		context.GetDataSourceUpdateSink().UpdateStatus(interfaces.DataSourceStateValid, interfaces.DataSourceErrorInfo{})
	}
	return datasource.NewNullDataSource(), nil
}
