package adcomponents

import (
	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/subsystems"
)

type inMemoryDataStoreFactory struct{}

// DataStore factory implementation
func (f inMemoryDataStoreFactory) Build(
	context subsystems.ClientContext,
) (subsystems.DataStore, error) {
	loggers := context.GetLogging().Loggers
	loggers.SetPrefix("InMemoryDataStore:")
	return datastore.NewInMemoryDataStore(loggers), nil
}

// InMemoryDataStore returns the default in-memory DataStore implementation factory.
//
// This is the default data store, so you do not normally need to set Config.DataStore to this
// value; it may still be useful to do so explicitly when building a custom configuration.
func InMemoryDataStore() subsystems.ComponentConfigurer[subsystems.DataStore] {
	return inMemoryDataStoreFactory{}
}
