package aerodata

import (
	"testing"
	"time"

	"github.com/aerodata/go-aerodata/adcomponents"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/sharedtest"
	"github.com/aerodata/go-aerodata/subsystems"
	"github.com/aerodata/go-aerodata/testhelpers/adtestdata"

	th "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/stretchr/testify/assert"
)

// This file contains tests for all of the event broadcaster/listener functionality in the client,
// plus related methods for looking at the same kinds of status values that can be broadcast to
// listeners. It uses mock implementations of the data source and data store, so that it is only
// the status monitoring mechanisms that are being tested, not the status behavior of specific real
// components.
//
// Parts of this functionality are also covered by lower-level component tests like
// DataSourceUpdateSinkImplTest. However, the tests here verify that the client is wiring the
// components together correctly so that they work from an application's point of view.

type clientListenersTestParams struct {
	client              *Client
	testData            *adtestdata.TestDataSource
	dataStoreUpdateSink subsystems.DataStoreUpdateSink
}

func clientListenersTest(action func(clientListenersTestParams)) {
	testData := adtestdata.DataSource()
	factoryWithUpdater := &sharedtest.DataStoreFactoryThatExposesUpdater{
		UnderlyingFactory: adcomponents.PersistentDataStore(
			sharedtest.SingleComponentConfigurer[subsystems.PersistentDataStore]{
				Instance: sharedtest.NewMockPersistentDataStore(),
			},
		),
	}
	config := Config{
		DataSource: testData,
		DataStore:  factoryWithUpdater,
		Logging:    adcomponents.Logging().Loggers(sharedtest.NewTestLoggers()),
	}
	client, _ := MakeCustomClient(config, 5*time.Second)
	defer client.Close()
	action(clientListenersTestParams{client, testData, factoryWithUpdater.DataStoreUpdateSink})
}

func TestDataUpdateTracker(t *testing.T) {
	timeout := time.Millisecond * 100

	t.Run("sends update events", func(t *testing.T) {
		clientListenersTest(func(p clientListenersTestParams) {
			ch1 := p.client.GetDataUpdateTracker().AddUpdateListener()
			ch2 := p.client.GetDataUpdateTracker().AddUpdateListener()

			th.AssertNoMoreValues(t, ch1, timeout)
			th.AssertNoMoreValues(t, ch2, timeout)

			p.testData.Update(p.testData.Aerodrome("KMSP"))

			event1 := th.RequireValue(t, ch1, time.Second)
			event2 := th.RequireValue(t, ch2, time.Second)
			assert.Equal(t, event1.Version, event2.Version)

			p.client.GetDataUpdateTracker().RemoveUpdateListener(ch1)
			th.AssertChannelClosed(t, ch1, time.Millisecond)

			p.testData.Update(p.testData.Aerodrome("KSTP"))

			_ = th.RequireValue(t, ch2, time.Second)
		})
	})

	t.Run("reports data version", func(t *testing.T) {
		clientListenersTest(func(p clientListenersTestParams) {
			// the initial data set from the test data source counts as the first update
			initialVersion := p.client.GetDataUpdateTracker().DataVersion()
			assert.Equal(t, 1, initialVersion)

			ch := p.client.GetDataUpdateTracker().AddUpdateListener()
			p.testData.Update(p.testData.Aerodrome("KMSP"))

			event := th.RequireValue(t, ch, time.Second)
			assert.Equal(t, initialVersion+1, event.Version)
			assert.Equal(t, initialVersion+1, p.client.GetDataUpdateTracker().DataVersion())
		})
	})
}

func TestDataSourceStatusProvider(t *testing.T) {
	t.Run("returns latest status", func(t *testing.T) {
		timeBeforeStarting := time.Now()
		clientListenersTest(func(p clientListenersTestParams) {
			initialStatus := p.client.GetDataSourceStatusProvider().GetStatus()
			assert.Equal(t, interfaces.DataSourceStateValid, initialStatus.State)
			assert.False(t, initialStatus.StateSince.Before(timeBeforeStarting))
			assert.Equal(t, interfaces.DataSourceErrorInfo{}, initialStatus.LastError)

			errorInfo := interfaces.DataSourceErrorInfo{
				Kind:       interfaces.DataSourceErrorKindErrorResponse,
				StatusCode: 502,
				Time:       time.Now(),
			}
			p.testData.UpdateStatus(interfaces.DataSourceStateOff, errorInfo)

			newStatus := p.client.GetDataSourceStatusProvider().GetStatus()
			assert.Equal(t, interfaces.DataSourceStateOff, newStatus.State)
			assert.False(t, newStatus.StateSince.Before(errorInfo.Time))
			assert.Equal(t, errorInfo, newStatus.LastError)
		})
	})

	t.Run("sends status updates", func(t *testing.T) {
		clientListenersTest(func(p clientListenersTestParams) {
			statusCh := p.client.GetDataSourceStatusProvider().AddStatusListener()

			errorInfo := interfaces.DataSourceErrorInfo{
				Kind:       interfaces.DataSourceErrorKindErrorResponse,
				StatusCode: 502,
				Time:       time.Now(),
			}
			p.testData.UpdateStatus(interfaces.DataSourceStateOff, errorInfo)

			newStatus := <-statusCh
			assert.Equal(t, interfaces.DataSourceStateOff, newStatus.State)
			assert.False(t, newStatus.StateSince.Before(errorInfo.Time))
			assert.Equal(t, errorInfo, newStatus.LastError)
		})
	})
}

func TestDataStoreStatusProvider(t *testing.T) {
	t.Run("returns latest status", func(t *testing.T) {
		clientListenersTest(func(p clientListenersTestParams) {
			originalStatus := interfaces.DataStoreStatus{Available: true}
			newStatus := interfaces.DataStoreStatus{Available: false}

			assert.Equal(t, originalStatus, p.client.GetDataStoreStatusProvider().GetStatus())

			p.dataStoreUpdateSink.UpdateStatus(newStatus)

			assert.Equal(t, newStatus, p.client.GetDataStoreStatusProvider().GetStatus())
		})
	})

	t.Run("sends status updates", func(t *testing.T) {
		clientListenersTest(func(p clientListenersTestParams) {
			newStatus := interfaces.DataStoreStatus{Available: false}
			statusCh := p.client.GetDataStoreStatusProvider().AddStatusListener()

			p.dataStoreUpdateSink.UpdateStatus(newStatus)

			s := th.RequireValue(t, statusCh, time.Second*2, "timed out waiting for new status")
			assert.Equal(t, newStatus, s)
		})
	})
}
