package adcomponents

import (
	"time"

	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/subsystems"
)

// PersistentDataStoreDefaultCacheTime is the default amount of time that recently read or updated items
// will be cached in memory, if you use PersistentDataStore(). You can specify otherwise with the
// PersistentDataStoreBuilder.CacheTime() option.
const PersistentDataStoreDefaultCacheTime = 15 * time.Second

// PersistentDataStore returns a configuration builder for some implementation of a persistent data store.
//
// The return value of this function should be stored in the DataStore field of aerodata.Config.
//
// This method is used in conjunction with another configuration builder for the specific store
// implementation, such as FileDataStore. The client also provides some universal behaviors for all
// persistent data stores, such as caching; PersistentDataStoreBuilder provides methods to configure
// those behaviors. For instance, in this example, the file path is specific to the file store,
// whereas CacheForever is not:
//
//	config := aerodata.Config{
//	    DataStore: adcomponents.PersistentDataStore(
//	        adcomponents.FileDataStore("aerodata-features.geojson"),
//	    ).CacheForever(),
//	}
func PersistentDataStore(
	persistentDataStoreFactory subsystems.ComponentConfigurer[subsystems.PersistentDataStore],
) *PersistentDataStoreBuilder {
	return &PersistentDataStoreBuilder{
		persistentDataStoreFactory: persistentDataStoreFactory,
		cacheTTL:                   PersistentDataStoreDefaultCacheTime,
	}
}

// PersistentDataStoreBuilder is a configurable factory for a persistent data store.
//
// See PersistentDataStore for usage.
type PersistentDataStoreBuilder struct {
	persistentDataStoreFactory subsystems.ComponentConfigurer[subsystems.PersistentDataStore]
	cacheTTL                   time.Duration
}

// CacheTime specifies the cache TTL. Items will be evicted from the cache after this amount of time
// from the time when they were originally cached.
//
// If the value is zero, caching is disabled (equivalent to NoCaching).
//
// If the value is negative, data is cached forever (equivalent to CacheForever).
func (b *PersistentDataStoreBuilder) CacheTime(cacheTime time.Duration) *PersistentDataStoreBuilder {
	b.cacheTTL = cacheTime
	return b
}

// CacheSeconds is a shortcut for calling CacheTime with a duration in seconds.
func (b *PersistentDataStoreBuilder) CacheSeconds(cacheSeconds int) *PersistentDataStoreBuilder {
	return b.CacheTime(time.Duration(cacheSeconds) * time.Second)
}

// CacheForever specifies that the in-memory cache should never expire. In this mode, data will be
// written to both the underlying persistent store and the cache, but will only ever be read from the
// persistent store if the client is restarted.
//
// This is the normal mode for the file store: each server process holds the full feature set in
// memory and the file exists so that a restarted process can serve queries before its first poll
// completes. Use a finite TTL instead if another process updates the store and this one should
// notice within that time.
func (b *PersistentDataStoreBuilder) CacheForever() *PersistentDataStoreBuilder {
	return b.CacheTime(-1 * time.Millisecond)
}

// NoCaching specifies that the client should not use an in-memory cache for the persistent data
// store. This means that every query will read from the underlying store.
func (b *PersistentDataStoreBuilder) NoCaching() *PersistentDataStoreBuilder {
	return b.CacheTime(0)
}

// Build is called internally by the client.
func (b *PersistentDataStoreBuilder) Build(clientContext subsystems.ClientContext) (subsystems.DataStore, error) {
	core, err := b.persistentDataStoreFactory.Build(clientContext)
	if err != nil {
		return nil, err
	}
	return datastore.NewPersistentDataStoreWrapper(core, clientContext.GetDataStoreUpdateSink(), b.cacheTTL,
		clientContext.GetLogging().Loggers), nil
}
