package adfilewatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aerodata/go-aerodata/adfiledata"
	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/internal/datastore"
	"github.com/aerodata/go-aerodata/internal/sharedtest"
	"github.com/aerodata/go-aerodata/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aerodromeFileYaml = `
---
type: FeatureCollection
features:
  - type: Feature
    geometry:
      type: Point
      coordinates: [-93.2218, 44.8820]
    properties:
      aerodrome_element_type: Aerodrome
      aerodrome_identifier: KMSP
      country: US
`

const updatedAerodromeFileYaml = `
---
type: FeatureCollection
features:
  - type: Feature
    geometry:
      type: Point
      coordinates: [-93.2218, 44.8820]
    properties:
      aerodrome_element_type: Aerodrome
      aerodrome_identifier: KMSP
      country: CA
`

func makeTempFile(t *testing.T, initialText string) string {
	f, err := os.CreateTemp("", "file-source-test")
	require.NoError(t, err)
	f.WriteString(initialText)
	require.NoError(t, f.Close())
	return f.Name()
}

func replaceFileContents(t *testing.T, filename string, text string) {
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0600)
	require.NoError(t, err)
	f.WriteString(text)
	require.NoError(t, f.Sync())
	f.Close()
}

func requireTrueWithinDuration(t *testing.T, maxTime time.Duration, test func() bool) {
	deadline := time.Now().Add(maxTime)
	for {
		if time.Now().After(deadline) {
			require.FailNowf(t, "Did not see expected change", "waited %v", maxTime)
		}
		if test() {
			return
		}
		time.Sleep(time.Millisecond * 100)
	}
}

func makeWatchedDataSource(t *testing.T, filename string) (subsystems.DataSource, *sharedtest.MockDataSourceUpdates) {
	mockLog := ldlogtest.NewMockLog()
	t.Cleanup(func() { mockLog.DumpIfTestFailed(t) })
	context := sharedtest.NewTestContext(nil, &subsystems.LoggingConfiguration{Loggers: mockLog.Loggers})
	updates := sharedtest.NewMockDataSourceUpdates(datastore.NewInMemoryDataStore(mockLog.Loggers))
	context.DataSourceUpdateSink = updates
	dataSource, err := adfiledata.DataSource().
		FilePaths(filename).
		Reloader(WatchFiles).
		Build(context)
	require.NoError(t, err)
	return dataSource, updates
}

func hasAerodrome(t *testing.T, store subsystems.DataStore, key string, test func(*adgeo.Feature) bool) bool {
	item, err := store.Get(datakinds.Aerodromes, key)
	if assert.NoError(t, err) && item.Item != nil {
		return test(item.Item.(*adgeo.Feature))
	}
	return false
}

func TestNewWatchedFileDataSource(t *testing.T) {
	filename := makeTempFile(t, `
---
features: bad
`)
	defer os.Remove(filename)

	dataSource, updates := makeWatchedDataSource(t, filename)
	defer dataSource.Close()

	closeWhenReady := make(chan struct{})
	dataSource.Start(closeWhenReady)

	// Create the valid data file after we start
	time.Sleep(time.Second)
	replaceFileContents(t, filename, aerodromeFileYaml)

	<-closeWhenReady

	// Don't use requireTrueWithinDuration here because the expectation is that as soon as the
	// dataSource reports being ready (which it will only do once we've given it a valid file),
	// the aerodrome should be available immediately.
	assert.True(t, hasAerodrome(t, updates.DataStore, "KMSP", func(f *adgeo.Feature) bool {
		return f.Property(adgeo.PropertyCountry).StringValue() == "US"
	}))
	assert.True(t, dataSource.IsInitialized())

	// Update the file
	replaceFileContents(t, filename, updatedAerodromeFileYaml)

	requireTrueWithinDuration(t, time.Second, func() bool {
		return hasAerodrome(t, updates.DataStore, "KMSP", func(f *adgeo.Feature) bool {
			return f.Property(adgeo.PropertyCountry).StringValue() == "CA"
		})
	})
}

// File need not exist when the dataSource is started
func TestNewWatchedFileMissing(t *testing.T) {
	filename := makeTempFile(t, "")
	require.NoError(t, os.Remove(filename))
	defer os.Remove(filename)

	dataSource, updates := makeWatchedDataSource(t, filename)
	defer dataSource.Close()

	closeWhenReady := make(chan struct{})
	dataSource.Start(closeWhenReady)

	time.Sleep(time.Second)
	replaceFileContents(t, filename, aerodromeFileYaml)

	<-closeWhenReady

	requireTrueWithinDuration(t, time.Second, func() bool {
		return hasAerodrome(t, updates.DataStore, "KMSP", func(f *adgeo.Feature) bool {
			return f.Property(adgeo.PropertyCountry).StringValue() == "US"
		})
	})
	assert.True(t, dataSource.IsInitialized())
}

// Directory needn't exist when the dataSource is started
func TestNewWatchedDirectoryMissing(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "file-source-test")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dirPath := filepath.Join(tempDir, "test")
	filePath := filepath.Join(dirPath, "features.yml")

	dataSource, updates := makeWatchedDataSource(t, filePath)
	defer dataSource.Close()

	closeWhenReady := make(chan struct{})
	dataSource.Start(closeWhenReady)

	time.Sleep(time.Second)
	require.NoError(t, os.Mkdir(dirPath, 0700))

	time.Sleep(time.Second)
	replaceFileContents(t, filePath, aerodromeFileYaml)

	<-closeWhenReady

	requireTrueWithinDuration(t, time.Second*2, func() bool {
		return hasAerodrome(t, updates.DataStore, "KMSP", func(f *adgeo.Feature) bool {
			return f.Property(adgeo.PropertyCountry).StringValue() == "US"
		})
	})
	assert.True(t, dataSource.IsInitialized())
}
