// Package adcomponents provides the standard implementations and configuration builders for the
// pluggable components of the client, such as the polling and streaming data sources, the data
// stores, and the HTTP and logging configurations.
//
// Some of the types in this package are builders. Each builder's methods are for setting optional
// configuration properties of that component; the setter methods return the same builder so that
// they can be chained:
//
//	config := aerodata.Config{
//	    DataSource: adcomponents.PollingDataSource().PollInterval(time.Hour),
//	}
package adcomponents
