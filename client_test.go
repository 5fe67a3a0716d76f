package aerodata

import (
	"errors"
	"testing"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/aerodata/go-aerodata/adcomponents"
	"github.com/aerodata/go-aerodata/adquery"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/internal/sharedtest"
	"github.com/aerodata/go-aerodata/subsystems"
	"github.com/aerodata/go-aerodata/testhelpers/adtestdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testStartWait = 5 * time.Second

// makeTestClientWithData creates a client whose data source is a TestDataSource preloaded with
// two aerodromes and one runway.
func makeTestClientWithData(t *testing.T) (*Client, *adtestdata.TestDataSource) {
	td := adtestdata.DataSource()
	td.Update(td.Aerodrome("KMSP").Name("Minneapolis-St Paul Intl").Location(44.882, -93.221))
	td.Update(td.Aerodrome("KSTP").Name("St Paul Downtown").Location(44.934, -93.060))
	td.Update(td.Runway("KMSP-12R/30L", "KMSP"))
	config := Config{
		DataSource: td,
		Logging:    adcomponents.Logging().Loggers(sharedtest.NewTestLoggers()),
	}
	client, err := MakeCustomClient(config, testStartWait)
	require.NoError(t, err)
	return client, td
}

func TestClientInitializesWithTestData(t *testing.T) {
	client, _ := makeTestClientWithData(t)
	defer client.Close()

	assert.True(t, client.Initialized())
	assert.False(t, client.IsOffline())
	assert.Equal(t, interfaces.DataSourceStateValid,
		client.GetDataSourceStatusProvider().GetStatus().State)
}

func TestClientFeaturesReturnsCurrentData(t *testing.T) {
	client, _ := makeTestClientWithData(t)
	defer client.Close()

	fc, err := client.Features(adquery.Params{})
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)
	// aerodromes come first, sorted by key, then runways
	assert.Equal(t, "KMSP", fc.Features[0].Key())
	assert.Equal(t, "KSTP", fc.Features[1].Key())
	assert.Equal(t, "KMSP-12R/30L", fc.Features[2].Key())
	assert.Equal(t, "", fc.NextPageToken)
}

func TestClientFeaturesPaging(t *testing.T) {
	client, _ := makeTestClientWithData(t)
	defer client.Close()

	page1, err := client.Features(adquery.Params{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, page1.Features, 2)
	require.Equal(t, "2", page1.NextPageToken)

	page2, err := client.Features(adquery.Params{PageSize: 2, PageToken: page1.NextPageToken})
	require.NoError(t, err)
	require.Len(t, page2.Features, 1)
	assert.Equal(t, "KMSP-12R/30L", page2.Features[0].Key())
	assert.Equal(t, "", page2.NextPageToken)
}

func TestClientFeaturesFiltering(t *testing.T) {
	client, _ := makeTestClientWithData(t)
	defer client.Close()

	fc, err := client.Features(adquery.Params{ExcludeRunways: true})
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	fc, err = client.Features(adquery.Params{AerodromeIdentifiers: map[string]bool{"KSTP": true}})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "KSTP", fc.Features[0].Key())
}

func TestClientFeaturesSeesUpdates(t *testing.T) {
	client, td := makeTestClientWithData(t)
	defer client.Close()

	td.Update(td.Aerodrome("KFCM").Location(44.827, -93.457))

	fc, err := client.Features(adquery.Params{AerodromeIdentifiers: map[string]bool{"KFCM": true}})
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "KFCM", fc.Features[0].Key())
}

func TestClientAllData(t *testing.T) {
	client, _ := makeTestClientWithData(t)
	defer client.Close()

	allData, err := client.AllData()
	require.NoError(t, err)
	require.Len(t, allData, 3)
	dataMap := sharedtest.DataSetToMap(allData)
	assert.Len(t, dataMap[datakinds.Aerodromes], 2)
	assert.Len(t, dataMap[datakinds.Runways], 1)
	assert.Len(t, dataMap[datakinds.Helipads], 0)
}

func TestClientFeaturesBeforeInitialization(t *testing.T) {
	t.Run("returns error if store has no data", func(t *testing.T) {
		config := Config{
			DataSource: sharedtest.DataSourceThatNeverInitializes(),
			Logging:    adcomponents.Logging().Loggers(sharedtest.NewTestLoggers()),
		}
		client, err := MakeCustomClient(config, 0)
		require.NoError(t, err)
		defer client.Close()

		_, err = client.Features(adquery.Params{})
		assert.Equal(t, ErrClientNotInitialized, err)

		_, err = client.AllData()
		assert.Equal(t, ErrClientNotInitialized, err)
	})

	t.Run("uses last known data if store is initialized", func(t *testing.T) {
		store := datastore.NewInMemoryDataStore(ldlog.NewDisabledLoggers())
		_ = store.Init(sharedtest.NewDataSetBuilder().
			Aerodromes(sharedtest.MakeAerodrome("KMSP")).Build())

		mockLog := ldlogtest.NewMockLog()
		config := Config{
			DataSource: sharedtest.DataSourceThatNeverInitializes(),
			DataStore:  sharedtest.SingleComponentConfigurer[subsystems.DataStore]{Instance: store},
			Logging:    adcomponents.Logging().Loggers(mockLog.Loggers),
		}
		client, err := MakeCustomClient(config, 0)
		require.NoError(t, err)
		defer client.Close()

		fc, err := client.Features(adquery.Params{})
		require.NoError(t, err)
		require.Len(t, fc.Features, 1)
		assert.Equal(t, "KMSP", fc.Features[0].Key())
		mockLog.AssertMessageMatch(t, true, ldlog.Warn, "using last known values")
	})
}

func TestMakeCustomClientTimesOutWhenDataSourceDoesNotStart(t *testing.T) {
	config := Config{
		DataSource: sharedtest.SingleComponentConfigurer[subsystems.DataSource]{
			Instance: dataSourceThatNeverStarts{},
		},
		Logging: adcomponents.Logging().Loggers(sharedtest.NewTestLoggers()),
	}
	client, err := MakeCustomClient(config, 100*time.Millisecond)
	require.NotNil(t, client)
	defer client.Close()

	assert.Equal(t, ErrInitializationTimeout, err)
	assert.False(t, client.Initialized())
}

func TestMakeCustomClientReturnsFailureWhenDataSourceGivesUp(t *testing.T) {
	config := Config{
		DataSource: sharedtest.DataSourceThatNeverInitializes(),
		Logging:    adcomponents.Logging().Loggers(sharedtest.NewTestLoggers()),
	}
	client, err := MakeCustomClient(config, time.Second)
	require.NotNil(t, client)
	defer client.Close()

	assert.Equal(t, ErrInitializationFailed, err)
	assert.False(t, client.Initialized())
}

func TestMakeCustomClientFailsWhenComponentCreationFails(t *testing.T) {
	fakeError := errors.New("sorry")

	t.Run("data store", func(t *testing.T) {
		config := Config{
			DataStore: sharedtest.ComponentConfigurerThatReturnsError[subsystems.DataStore]{Err: fakeError},
			Logging:   adcomponents.NoLogging(),
		}
		client, err := MakeCustomClient(config, 0)
		assert.Nil(t, client)
		assert.Equal(t, fakeError, err)
	})

	t.Run("data source", func(t *testing.T) {
		config := Config{
			DataSource: sharedtest.ComponentConfigurerThatReturnsError[subsystems.DataSource]{Err: fakeError},
			Logging:    adcomponents.NoLogging(),
		}
		client, err := MakeCustomClient(config, 0)
		assert.Nil(t, client)
		assert.Equal(t, fakeError, err)
	})

	t.Run("logging", func(t *testing.T) {
		config := Config{
			Logging: sharedtest.ComponentConfigurerThatReturnsError[subsystems.LoggingConfiguration]{Err: fakeError},
		}
		client, err := MakeCustomClient(config, 0)
		assert.Nil(t, client)
		assert.Equal(t, fakeError, err)
	})

	t.Run("HTTP", func(t *testing.T) {
		config := Config{
			HTTP:    adcomponents.HTTPConfiguration().CACert([]byte("not a valid certificate")),
			Logging: adcomponents.NoLogging(),
		}
		client, err := MakeCustomClient(config, 0)
		assert.Nil(t, client)
		assert.Error(t, err)
	})
}

func TestNewClientContextFromConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		context, err := newClientContextFromConfig(Config{})
		require.NoError(t, err)

		assert.False(t, context.GetOffline())
		assert.Equal(t, adcomponents.DefaultLogDataSourceOutageAsErrorAfter,
			context.GetLogging().LogDataSourceOutageAsErrorAfter)
		assert.Contains(t, context.GetHTTP().DefaultHeaders.Get("User-Agent"), "AerodataGoClient/")
	})

	t.Run("carries offline and endpoints", func(t *testing.T) {
		endpoints := interfaces.DataEndpoints{Airports: "http://a", Runways: "http://r"}
		context, err := newClientContextFromConfig(Config{Offline: true, DataEndpoints: endpoints})
		require.NoError(t, err)

		assert.True(t, context.GetOffline())
		assert.Equal(t, endpoints, context.GetDataEndpoints())
	})
}

type dataSourceThatNeverStarts struct{}

func (d dataSourceThatNeverStarts) IsInitialized() bool      { return false }
func (d dataSourceThatNeverStarts) Close() error             { return nil }
func (d dataSourceThatNeverStarts) Start(chan<- struct{})    {}
