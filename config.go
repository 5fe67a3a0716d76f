package aerodata

import (
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/subsystems"
)

// Config exposes advanced configuration options for [Client].
//
// All of these settings are optional, so an empty Config struct is always valid. See the description of each
// field for the default behavior if it is not set.
type Config struct {
	// Sets the data source implementation that the client will use to receive aerodrome data.
	//
	// If nil, the default is [adcomponents.PollingDataSource], which fetches the FAA source files on a
	// fixed schedule. Other options are [adcomponents.StreamingDataSource], which subscribes to the
	// update stream of another aerodata instance, [adcomponents.ExternalUpdatesOnly], which disables
	// data fetching entirely, and [adfiledata.DataSource], which reads data from local files.
	//
	//     // example: poll the FAA endpoints once a day
	//     config := aerodata.Config{
	//         DataSource: adcomponents.PollingDataSource().PollInterval(24 * time.Hour),
	//     }
	//
	//     // example: follow the update stream of a primary instance
	//     config := aerodata.Config{
	//         DataSource: adcomponents.StreamingDataSource().BaseURI("http://primary:8090"),
	//     }
	DataSource subsystems.ComponentConfigurer[subsystems.DataSource]

	// Sets the data store implementation that the client will use to hold the current aerodrome data set.
	//
	// If nil, the default is [adcomponents.InMemoryDataStore]. To keep a copy of the data on disk so that
	// it survives restarts, use [adcomponents.PersistentDataStore] with [adcomponents.FileDataStore]:
	//
	//     config := aerodata.Config{
	//         DataStore: adcomponents.PersistentDataStore(
	//             adcomponents.FileDataStore("/var/lib/aerodata/data.json"),
	//         ),
	//     }
	DataStore subsystems.ComponentConfigurer[subsystems.DataStore]

	// Provides configuration of the client's network connection behavior.
	//
	// If nil, the default is [adcomponents.HTTPConfiguration]. The builder returned by that function
	// allows custom CA certificates, proxies, and timeouts to be set:
	//
	//     config := aerodata.Config{
	//         HTTP: adcomponents.HTTPConfiguration().ConnectTimeout(3 * time.Second),
	//     }
	HTTP subsystems.ComponentConfigurer[subsystems.HTTPConfiguration]

	// Provides configuration of the client's logging behavior.
	//
	// If nil, the default is [adcomponents.Logging], which enables logging at Info level and above to
	// standard error. To disable all logging, set this to [adcomponents.NoLogging]:
	//
	//     config := aerodata.Config{
	//         Logging: adcomponents.Logging().MinLevel(ldlog.Warn),
	//     }
	Logging subsystems.ComponentConfigurer[subsystems.LoggingConfiguration]

	// Sets whether this client should be in offline mode. In offline mode, no external network
	// connections are made, so the client will have no aerodrome data unless the data store already
	// contains some (for instance, a file store written by a previous run). Any configured DataSource
	// is ignored.
	Offline bool

	// Sets custom base URIs for the upstream services the client connects to. This is mainly useful
	// for testing, or for pointing the client at a mirror of the FAA endpoints. URIs set here are
	// overridden by the more specific options on the data source builders, such as
	// [adcomponents.PollingDataSourceBuilder.AirportsURI].
	DataEndpoints interfaces.DataEndpoints
}
