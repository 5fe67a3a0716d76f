package adcomponents

import (
	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/subsystems"
)

// FileDataStoreBuilder is a configurable factory for the file-backed persistent data store.
//
// See FileDataStore for usage.
type FileDataStoreBuilder struct {
	path string
}

// FileDataStore returns a configuration builder for a persistent data store that keeps the derived
// feature set in a single GeoJSON document on local disk.
//
// The store rewrites the whole document (with an atomic rename) after each successful refresh, and
// reads it back at startup, so a restarted server can answer queries immediately instead of waiting
// for the first download and derivation to complete.
//
// Pass the result to PersistentDataStore, which adds the caching layer:
//
//	config := aerodata.Config{
//	    DataStore: adcomponents.PersistentDataStore(
//	        adcomponents.FileDataStore("aerodata-features.geojson"),
//	    ).CacheForever(),
//	}
func FileDataStore(path string) *FileDataStoreBuilder {
	return &FileDataStoreBuilder{path: path}
}

// Path changes the file path for the store.
func (b *FileDataStoreBuilder) Path(path string) *FileDataStoreBuilder {
	b.path = path
	return b
}

// Build is called internally by the client.
func (b *FileDataStoreBuilder) Build(clientContext subsystems.ClientContext) (subsystems.PersistentDataStore, error) {
	return datastore.NewFileDataStoreImpl(b.path, clientContext.GetLogging().Loggers)
}
