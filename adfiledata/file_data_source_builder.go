package adfiledata

import (
	"github.com/aerodata/go-aerodata/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// ReloaderFactory is the function type used with DataSourceBuilder.Reloader, to specify a
// mechanism for detecting when data files should be reloaded. Its standard implementation is
// WatchFiles in the adfilewatch package.
//
// The function receives the resolved file paths, the client's loggers, a reload callback, and a
// channel that is closed when the data source is being shut down. It must not block: after
// starting whatever background activity it needs, it returns, and from then on calls reload
// whenever the files should be re-read.
type ReloaderFactory func(paths []string, loggers ldlog.Loggers, reload func(),
	closeCh <-chan struct{}) error

// DuplicateKeysHandling is a parameter type used with DataSourceBuilder.DuplicateKeysHandling.
type DuplicateKeysHandling string

const (
	// DuplicateKeysFail is an option for DataSourceBuilder.DuplicateKeysHandling, meaning that
	// data loading should fail if a feature identifier is duplicated within a category. This is
	// the default behavior.
	DuplicateKeysFail DuplicateKeysHandling = "fail"

	// DuplicateKeysIgnoreAllButFirst is an option for DataSourceBuilder.DuplicateKeysHandling,
	// meaning that if a feature identifier is duplicated within a category the first occurrence
	// will be used.
	DuplicateKeysIgnoreAllButFirst DuplicateKeysHandling = "ignore"
)

// DataSourceBuilder is a builder for configuring the file-based data source.
//
// Obtain an instance of this type by calling DataSource(). After calling its methods, store it
// in the DataSource field of your client configuration.
//
// Each file named by FilePaths may be in either of two formats, and in JSON or YAML. If the
// first non-whitespace character is '{', the file is parsed as JSON; otherwise it is parsed as
// YAML and converted.
//
// The first format is a plain GeoJSON FeatureCollection whose features carry the aerodata
// element type properties, exactly as produced by the /aerodromes query endpoint and by the
// file data store:
//
//	{
//	  "type": "FeatureCollection",
//	  "features": [
//	    { "type": "Feature", "properties": { "aerodrome_element_type": "Aerodrome", ... }, ... }
//	  ]
//	}
//
// The second format is the complete data set document used on the streaming endpoint, which
// groups the features by category and can carry a data set version:
//
//	{
//	  "version": 3,
//	  "data": {
//	    "aerodromes": { "KMSP": { "type": "Feature", ... } },
//	    "runways": {},
//	    "helipads": {}
//	  }
//	}
//
// By default, it is an error for the same feature identifier to appear more than once within a
// category, whether in a single file or across files; DuplicateKeysHandling changes that. If
// any file cannot be read or parsed, no data is loaded from any of the files.
type DataSourceBuilder struct {
	filePaths             []string
	duplicateKeysHandling DuplicateKeysHandling
	reloaderFactory       ReloaderFactory
}

// DataSource returns a configurable factory for the file-based data source.
//
// Create a builder with DataSource(), set its properties with the methods of
// DataSourceBuilder, and store it in the DataSource field of your client configuration:
//
//	config := aerodata.Config{
//	    DataSource: adfiledata.DataSource().FilePaths("features.geojson"),
//	}
func DataSource() *DataSourceBuilder {
	return &DataSourceBuilder{duplicateKeysHandling: DuplicateKeysFail}
}

// FilePaths specifies the input data files. The paths may be any number of absolute or
// relative file paths.
func (b *DataSourceBuilder) FilePaths(paths ...string) *DataSourceBuilder {
	b.filePaths = append(b.filePaths, paths...)
	return b
}

// DuplicateKeysHandling specifies how to handle feature identifiers that are duplicated within
// a category.
//
// If this is not specified, or if you set it to an unrecognized value, the default is
// DuplicateKeysFail.
func (b *DataSourceBuilder) DuplicateKeysHandling(
	duplicateKeysHandling DuplicateKeysHandling,
) *DataSourceBuilder {
	b.duplicateKeysHandling = duplicateKeysHandling
	return b
}

// Reloader specifies a mechanism for reloading the data files when they change.
//
// It is normally used with the adfilewatch package, as follows:
//
//	config := aerodata.Config{
//	    DataSource: adfiledata.DataSource().
//	        FilePaths("features.geojson").
//	        Reloader(adfilewatch.WatchFiles),
//	}
func (b *DataSourceBuilder) Reloader(reloaderFactory ReloaderFactory) *DataSourceBuilder {
	b.reloaderFactory = reloaderFactory
	return b
}

// Build is called internally by the client to create the data source instance.
func (b *DataSourceBuilder) Build(context subsystems.ClientContext) (subsystems.DataSource, error) {
	return newFileDataSourceImpl(context, b.filePaths, b.duplicateKeysHandling, b.reloaderFactory)
}
