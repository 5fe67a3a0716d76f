// Package adfiledata provides a data source that reads the aerodrome feature set from local
// files, instead of downloading the upstream FAA datasets.
//
// This is mainly useful for air-gapped deployments and for tests: any data set that a server
// has derived can be captured once (for instance from the /aerodromes endpoint, or from the
// file data store's output) and then served from disk indefinitely. It is different from
// adtestdata.TestDataSource, which simulates aerodrome data programmatically rather than using
// a file.
//
// To use it, store the configuration builder in the DataSource field of your client
// configuration:
//
//	config := aerodata.Config{
//	    DataSource: adfiledata.DataSource().FilePaths("features.geojson"),
//	}
//
// By default the files are read once, at startup. To reload them automatically whenever they
// change on disk, add the reloader from the adfilewatch package:
//
//	config := aerodata.Config{
//	    DataSource: adfiledata.DataSource().
//	        FilePaths("features.geojson").
//	        Reloader(adfilewatch.WatchFiles),
//	}
//
// See DataSourceBuilder for the accepted file formats.
package adfiledata
