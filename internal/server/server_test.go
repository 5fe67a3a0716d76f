package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	aerodata "github.com/aerodata/go-aerodata"
	"github.com/aerodata/go-aerodata/adcomponents"
	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/internal/sharedtest"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
	"github.com/aerodata/go-aerodata/testhelpers/adtestdata"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStartWait = 5 * time.Second

type serverTestParams struct {
	td      *adtestdata.TestDataSource
	client  *aerodata.Client
	server  *Server
	ts      *httptest.Server
	mockLog *ldlogtest.MockLog
}

func makeServerTestData() *adtestdata.TestDataSource {
	td := adtestdata.DataSource()
	td.Update(td.Aerodrome("KMSP").Name("Minneapolis-St Paul International Airport").
		Location(44.8820, -93.2218))
	td.Update(td.Aerodrome("KSTP").Name("St Paul Downtown Airport").Location(44.9345, -93.0600))
	td.Update(td.Runway("KMSP-12R-30L", "KMSP").Geometry(adgeo.NewLineString(
		adgeo.Position{Lng: -93.2390, Lat: 44.8963},
		adgeo.Position{Lng: -93.2039, Lat: 44.8740},
	)))
	return td
}

func withTestServer(t *testing.T, serverConfig Config, action func(p serverTestParams)) {
	td := makeServerTestData()
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)
	defer mockLog.DumpIfTestFailed(t)

	client, err := aerodata.MakeCustomClient(aerodata.Config{
		DataSource: td,
		Logging:    adcomponents.Logging().Loggers(mockLog.Loggers),
	}, testStartWait)
	require.NoError(t, err)
	defer client.Close()

	serverConfig.Loggers = mockLog.Loggers
	s := NewServer(client, serverConfig)
	defer s.Close()

	ts := httptest.NewServer(s.Handler)
	defer ts.Close()

	action(serverTestParams{td: td, client: client, server: s, ts: ts, mockLog: mockLog})
}

func (p serverTestParams) get(t *testing.T, path string) (*http.Response, string) {
	resp, err := http.Get(p.ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServerStatusEndpoint(t *testing.T) {
	withTestServer(t, Config{}, func(p serverTestParams) {
		resp, body := p.get(t, "/status")

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Ok\n", body)
		assert.Equal(t, aerodata.Version, resp.Header.Get("X-Aerodata-Version"))
	})
}

func TestServerStatusDataEndpoint(t *testing.T) {
	t.Run("reports a healthy data source", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			resp, body := p.get(t, "/status/data")

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var rep StatusDataRep
			require.NoError(t, json.Unmarshal([]byte(body), &rep))
			assert.Equal(t, string(interfaces.DataSourceStateValid), rep.State)
			assert.False(t, rep.StateSince.IsZero())
			assert.Nil(t, rep.LastError)
			assert.Equal(t, 1, rep.DataVersion)
			assert.True(t, rep.Initialized)
		})
	})

	t.Run("reports the last data source error", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			errorTime := time.Now()
			p.td.UpdateStatus(interfaces.DataSourceStateInterrupted, interfaces.DataSourceErrorInfo{
				Kind:       interfaces.DataSourceErrorKindErrorResponse,
				StatusCode: 502,
				Time:       errorTime,
			})

			_, body := p.get(t, "/status/data")

			var rep StatusDataRep
			require.NoError(t, json.Unmarshal([]byte(body), &rep))
			assert.Equal(t, string(interfaces.DataSourceStateInterrupted), rep.State)
			require.NotNil(t, rep.LastError)
			assert.Equal(t, string(interfaces.DataSourceErrorKindErrorResponse), rep.LastError.Kind)
			assert.Equal(t, 502, rep.LastError.StatusCode)
		})
	})

	t.Run("reflects data version bumps", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			p.td.Update(p.td.Aerodrome("KFCM"))

			_, body := p.get(t, "/status/data")

			var rep StatusDataRep
			require.NoError(t, json.Unmarshal([]byte(body), &rep))
			assert.Equal(t, 2, rep.DataVersion)
		})
	})
}

func TestServerAerodromesEndpoint(t *testing.T) {
	t.Run("returns all features", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			resp, body := p.get(t, "/aerodromes")

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var collection adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &collection))
			require.Len(t, collection.Features, 3)
			assert.Equal(t, "KMSP", collection.Features[0].Key())
			assert.Equal(t, "KSTP", collection.Features[1].Key())
			assert.Equal(t, "KMSP-12R-30L", collection.Features[2].Key())
			assert.Equal(t, "", collection.NextPageToken)
		})
	})

	t.Run("applies query parameters", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			_, body := p.get(t, "/aerodromes?exclude_runways=true&page_size=1")

			var page1 adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &page1))
			require.Len(t, page1.Features, 1)
			assert.Equal(t, "KMSP", page1.Features[0].Key())
			require.Equal(t, "1", page1.NextPageToken)

			_, body = p.get(t, "/aerodromes?exclude_runways=true&page_size=1&page_token="+page1.NextPageToken)

			var page2 adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &page2))
			require.Len(t, page2.Features, 1)
			assert.Equal(t, "KSTP", page2.Features[0].Key())
		})
	})

	t.Run("returns 400 for malformed query parameters", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			resp, body := p.get(t, "/aerodromes?bounding_box=1,2,3")

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Error parsing query parameters: Expecting exactly 4 coordinates for bounding_box, found 3",
				body)
		})
	})

	t.Run("returns 400 for an invalid page token", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			resp, body := p.get(t, "/aerodromes?page_token=notanumber")

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "Error selecting features: Invalid page_token", body)
		})
	})

	t.Run("returns 503 before initialization", func(t *testing.T) {
		mockLog := ldlogtest.NewMockLog()
		defer mockLog.DumpIfTestFailed(t)
		client, err := aerodata.MakeCustomClient(aerodata.Config{
			DataSource: sharedtest.DataSourceThatNeverInitializes(),
			Logging:    adcomponents.Logging().Loggers(mockLog.Loggers),
		}, 0)
		require.NoError(t, err)
		defer client.Close()

		s := NewServer(client, Config{Loggers: mockLog.Loggers})
		defer s.Close()
		ts := httptest.NewServer(s.Handler)
		defer ts.Close()

		resp, err := http.Get(ts.URL + "/aerodromes")
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t,
			"Error fetching features from source: aerodrome data requested before client initialization completed",
			string(body))
	})

	t.Run("sees data stored after a query", func(t *testing.T) {
		withTestServer(t, Config{}, func(p serverTestParams) {
			_, body := p.get(t, "/aerodromes?exclude_runways=true")

			var before adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &before))
			require.Len(t, before.Features, 2)

			p.td.Update(p.td.Aerodrome("KFCM").Name("Flying Cloud Airport"))

			_, body = p.get(t, "/aerodromes?exclude_runways=true")

			var after adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &after))
			require.Len(t, after.Features, 3)
			assert.Equal(t, "KFCM", after.Features[0].Key())
		})
	})
}

// countingDataStore wraps a real data store and counts GetAll calls, to make query cache hits
// and misses observable.
type countingDataStore struct {
	subsystems.DataStore
	lock    sync.Mutex
	getAlls int
}

func (s *countingDataStore) GetAll(kind st.DataKind) ([]st.KeyedItemDescriptor, error) {
	s.lock.Lock()
	s.getAlls++
	s.lock.Unlock()
	return s.DataStore.GetAll(kind)
}

func (s *countingDataStore) getAllCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.getAlls
}

func withCountingStoreServer(
	t *testing.T,
	serverConfig Config,
	action func(p serverTestParams, store *countingDataStore),
) {
	td := makeServerTestData()
	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)
	store := &countingDataStore{DataStore: datastore.NewInMemoryDataStore(mockLog.Loggers)}

	client, err := aerodata.MakeCustomClient(aerodata.Config{
		DataSource: td,
		DataStore:  sharedtest.SingleComponentConfigurer[subsystems.DataStore]{Instance: store},
		Logging:    adcomponents.Logging().Loggers(mockLog.Loggers),
	}, testStartWait)
	require.NoError(t, err)
	defer client.Close()

	serverConfig.Loggers = mockLog.Loggers
	s := NewServer(client, serverConfig)
	defer s.Close()
	ts := httptest.NewServer(s.Handler)
	defer ts.Close()

	action(serverTestParams{td: td, client: client, server: s, ts: ts, mockLog: mockLog}, store)
}

func TestServerQueryCache(t *testing.T) {
	t.Run("serves a repeated query from the cache", func(t *testing.T) {
		withCountingStoreServer(t, Config{}, func(p serverTestParams, store *countingDataStore) {
			_, body1 := p.get(t, "/aerodromes")
			reads := store.getAllCount()
			assert.NotZero(t, reads)

			_, body2 := p.get(t, "/aerodromes")
			assert.Equal(t, reads, store.getAllCount())
			assert.Equal(t, body1, body2)
		})
	})

	t.Run("caches distinct queries separately", func(t *testing.T) {
		withCountingStoreServer(t, Config{}, func(p serverTestParams, store *countingDataStore) {
			p.get(t, "/aerodromes")
			reads := store.getAllCount()

			p.get(t, "/aerodromes?exclude_runways=true")
			assert.Greater(t, store.getAllCount(), reads)
		})
	})

	t.Run("a data update makes the cached response obsolete", func(t *testing.T) {
		withCountingStoreServer(t, Config{}, func(p serverTestParams, store *countingDataStore) {
			_, body := p.get(t, "/aerodromes?exclude_runways=true")
			var before adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &before))
			require.Len(t, before.Features, 2)

			p.td.Update(p.td.Aerodrome("KANE").Name("Anoka County-Blaine Airport"))

			_, body = p.get(t, "/aerodromes?exclude_runways=true")
			var after adgeo.FeatureCollection
			require.NoError(t, json.Unmarshal([]byte(body), &after))
			assert.Len(t, after.Features, 3)
		})
	})

	t.Run("cache can be disabled", func(t *testing.T) {
		withCountingStoreServer(t, Config{QueryCacheSize: -1},
			func(p serverTestParams, store *countingDataStore) {
				p.get(t, "/aerodromes")
				reads := store.getAllCount()

				p.get(t, "/aerodromes")
				assert.Greater(t, store.getAllCount(), reads)
			})
	})
}
