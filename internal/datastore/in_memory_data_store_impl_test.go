package datastore

import (
	"fmt"
	"sort"
	"testing"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/internal/sharedtest"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDataStore(t *testing.T) {
	t.Run("Init", testInMemoryDataStoreInit)
	t.Run("Get", testInMemoryDataStoreGet)
	t.Run("GetAll", testInMemoryDataStoreGetAll)
	t.Run("Upsert", testInMemoryDataStoreUpsert)
	t.Run("Delete", testInMemoryDataStoreDelete)

	t.Run("IsStatusMonitoringEnabled", func(t *testing.T) {
		assert.False(t, makeInMemoryStore().IsStatusMonitoringEnabled())
	})

	t.Run("Close", func(t *testing.T) {
		assert.NoError(t, makeInMemoryStore().Close())
	})
}

func makeInMemoryStore() subsystems.DataStore {
	return NewInMemoryDataStore(sharedtest.NewTestLoggers())
}

func extractCollections(allData []st.Collection) [][]st.KeyedItemDescriptor {
	ret := [][]st.KeyedItemDescriptor{}
	for _, coll := range allData {
		ret = append(ret, coll.Items)
	}
	return ret
}

func getAllSorted(t *testing.T, store subsystems.DataStore) [][]st.KeyedItemDescriptor {
	ret := [][]st.KeyedItemDescriptor{}
	for _, kind := range datakinds.AllKinds() {
		items, err := store.GetAll(kind)
		require.NoError(t, err)
		sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
		ret = append(ret, items)
	}
	return ret
}

type dataItemCreator func(key string, version int, otherProperty bool) st.ItemDescriptor

// The store must treat all data kinds generically, so we run each test against each of them. The
// otherProperty parameter varies the item's geometry, to verify that updates replace the entire
// item and not just its version.
func forAllDataKinds(t *testing.T, test func(*testing.T, st.DataKind, dataItemCreator)) {
	test(t, datakinds.Aerodromes, func(key string, version int, otherProperty bool) st.ItemDescriptor {
		feature := sharedtest.MakeAerodrome(key)
		if otherProperty {
			feature.Geometry = adgeo.NewPoint(adgeo.Position{Lng: -93.217, Lat: 44.882})
		}
		return st.ItemDescriptor{Version: version, Item: feature}
	})
	test(t, datakinds.Runways, func(key string, version int, otherProperty bool) st.ItemDescriptor {
		feature := sharedtest.MakeRunway(key, "KDEN")
		if otherProperty {
			feature.Geometry = adgeo.NewLineString(
				adgeo.Position{Lng: -93.220, Lat: 44.880},
				adgeo.Position{Lng: -93.200, Lat: 44.890},
			)
		}
		return st.ItemDescriptor{Version: version, Item: feature}
	})
	test(t, datakinds.Helipads, func(key string, version int, otherProperty bool) st.ItemDescriptor {
		feature := sharedtest.MakeHelipad(key, "KDEN")
		if otherProperty {
			feature.Geometry = adgeo.NewPoint(adgeo.Position{Lng: -93.218, Lat: 44.881})
		}
		return st.ItemDescriptor{Version: version, Item: feature}
	})
}

func testInMemoryDataStoreInit(t *testing.T) {
	t.Run("makes store initialized", func(t *testing.T) {
		store := makeInMemoryStore()
		allData := sharedtest.NewDataSetBuilder().Aerodromes(sharedtest.MakeAerodrome("KDEN")).Build()

		require.NoError(t, store.Init(allData))

		assert.True(t, store.IsInitialized())
	})

	t.Run("completely replaces previous data", func(t *testing.T) {
		store := makeInMemoryStore()
		allData1 := sharedtest.NewDataSetBuilder().
			Aerodromes(sharedtest.MakeAerodrome("KDEN")).
			Runways(sharedtest.MakeRunway("KDEN-16R/34L", "KDEN")).
			Helipads(sharedtest.MakeHelipad("KDEN-H1", "KDEN")).
			Build()

		require.NoError(t, store.Init(allData1))

		assert.Equal(t, extractCollections(allData1), getAllSorted(t, store))

		allData2 := sharedtest.NewDataSetBuilder().
			Aerodromes(sharedtest.MakeAerodrome("KBOS")).
			Runways(sharedtest.MakeRunway("KBOS-04R/22L", "KBOS")).
			Helipads(sharedtest.MakeHelipad("KBOS-H1", "KBOS")).
			Build()

		require.NoError(t, store.Init(allData2))

		assert.Equal(t, extractCollections(allData2), getAllSorted(t, store))
	})
}

func testInMemoryDataStoreGet(t *testing.T) {
	const unknownKey = "unknown-key"

	forAllDataKinds(t, func(t *testing.T, kind st.DataKind, makeItem dataItemCreator) {
		t.Run("found", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))
			item := makeItem("key", 1, false)
			_, err := store.Upsert(kind, "key", item)
			assert.NoError(t, err)

			result, err := store.Get(kind, "key")
			assert.NoError(t, err)
			assert.Equal(t, item, result)
		})

		t.Run("not found", func(t *testing.T) {
			mockLog := ldlogtest.NewMockLog()
			mockLog.Loggers.SetMinLevel(ldlog.Info)
			store := NewInMemoryDataStore(mockLog.Loggers)
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			result, err := store.Get(kind, unknownKey)
			assert.NoError(t, err)
			assert.Equal(t, st.ItemDescriptor{}.NotFound(), result)

			assert.Len(t, mockLog.GetAllOutput(), 0)
		})

		t.Run("not found - debug logging", func(t *testing.T) {
			mockLog := ldlogtest.NewMockLog()
			mockLog.Loggers.SetMinLevel(ldlog.Debug)
			store := NewInMemoryDataStore(mockLog.Loggers)
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			result, err := store.Get(kind, unknownKey)
			assert.NoError(t, err)
			assert.Equal(t, st.ItemDescriptor{}.NotFound(), result)

			assert.Len(t, mockLog.GetAllOutput(), 1)
			assert.Equal(t,
				ldlogtest.MockLogItem{
					Level:   ldlog.Debug,
					Message: fmt.Sprintf(`Key %s not found in "%s"`, unknownKey, kind.GetName()),
				},
				mockLog.GetAllOutput()[0],
			)
		})
	})
}

func testInMemoryDataStoreGetAll(t *testing.T) {
	store := makeInMemoryStore()
	require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

	result, err := store.GetAll(datakinds.Aerodromes)
	require.NoError(t, err)
	assert.Len(t, result, 0)

	aerodrome1 := sharedtest.MakeAerodrome("KBOS")
	aerodrome2 := sharedtest.MakeAerodrome("KDEN")
	runway1 := sharedtest.MakeRunway("KBOS-04R/22L", "KBOS")
	_, err = store.Upsert(datakinds.Aerodromes, aerodrome1.Key(), sharedtest.FeatureDescriptor(aerodrome1))
	require.NoError(t, err)
	_, err = store.Upsert(datakinds.Aerodromes, aerodrome2.Key(), sharedtest.FeatureDescriptor(aerodrome2))
	require.NoError(t, err)
	_, err = store.Upsert(datakinds.Runways, runway1.Key(), sharedtest.FeatureDescriptor(runway1))
	require.NoError(t, err)

	expected := extractCollections(sharedtest.NewDataSetBuilder().
		Aerodromes(aerodrome1, aerodrome2).
		Runways(runway1).
		Build())
	assert.Equal(t, expected, getAllSorted(t, store))

	result, err = store.GetAll(unknownDataKind{})
	require.NoError(t, err)
	assert.Len(t, result, 0)
}

func testInMemoryDataStoreUpsert(t *testing.T) {
	forAllDataKinds(t, func(t *testing.T, kind st.DataKind, makeItem dataItemCreator) {
		t.Run("newer version", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			item1 := makeItem("key", 10, false)
			updated, err := store.Upsert(kind, "key", item1)
			require.NoError(t, err)
			assert.True(t, updated)

			item1a := makeItem("key", item1.Version+1, true)
			updated, err = store.Upsert(kind, "key", item1a)
			require.NoError(t, err)
			assert.True(t, updated)

			result, err := store.Get(kind, "key")
			require.NoError(t, err)
			assert.Equal(t, item1a, result)
		})

		t.Run("older version", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			item1 := makeItem("key", 10, false)
			updated, err := store.Upsert(kind, "key", item1)
			require.NoError(t, err)
			assert.True(t, updated)

			item1a := makeItem("key", item1.Version-1, true)
			updated, err = store.Upsert(kind, "key", item1a)
			require.NoError(t, err)
			assert.False(t, updated)

			result, err := store.Get(kind, "key")
			require.NoError(t, err)
			assert.Equal(t, item1, result)
		})

		t.Run("same version", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			item1 := makeItem("key", 10, false)
			updated, err := store.Upsert(kind, "key", item1)
			require.NoError(t, err)
			assert.True(t, updated)

			item1a := makeItem("key", item1.Version, true)
			updated, err = store.Upsert(kind, "key", item1a)
			require.NoError(t, err)
			assert.False(t, updated)

			result, err := store.Get(kind, "key")
			require.NoError(t, err)
			assert.Equal(t, item1, result)
		})
	})
}

func testInMemoryDataStoreDelete(t *testing.T) {
	forAllDataKinds(t, func(t *testing.T, kind st.DataKind, makeItem dataItemCreator) {
		t.Run("newer version", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			item1 := makeItem("key", 10, false)
			updated, err := store.Upsert(kind, "key", item1)
			require.NoError(t, err)
			assert.True(t, updated)

			item1a := st.ItemDescriptor{Version: item1.Version + 1, Item: nil}
			updated, err = store.Upsert(kind, "key", item1a)
			require.NoError(t, err)
			assert.True(t, updated)

			result, err := store.Get(kind, "key")
			require.NoError(t, err)
			assert.Equal(t, item1a, result)
		})

		t.Run("older version", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			item1 := makeItem("key", 10, false)
			updated, err := store.Upsert(kind, "key", item1)
			require.NoError(t, err)
			assert.True(t, updated)

			item1a := st.ItemDescriptor{Version: item1.Version - 1, Item: nil}
			updated, err = store.Upsert(kind, "key", item1a)
			require.NoError(t, err)
			assert.False(t, updated)

			result, err := store.Get(kind, "key")
			require.NoError(t, err)
			assert.Equal(t, item1, result)
		})

		t.Run("same version", func(t *testing.T) {
			store := makeInMemoryStore()
			require.NoError(t, store.Init(sharedtest.NewDataSetBuilder().Build()))

			item1 := makeItem("key", 10, false)
			updated, err := store.Upsert(kind, "key", item1)
			require.NoError(t, err)
			assert.True(t, updated)

			item1a := st.ItemDescriptor{Version: item1.Version, Item: nil}
			updated, err = store.Upsert(kind, "key", item1a)
			require.NoError(t, err)
			assert.False(t, updated)

			result, err := store.Get(kind, "key")
			require.NoError(t, err)
			assert.Equal(t, item1, result)
		})
	})
}
