package adcomponents

import (
	"time"

	"github.com/aerodata/go-aerodata/internal/datasource"
	"github.com/aerodata/go-aerodata/internal/endpoints"
	"github.com/aerodata/go-aerodata/internal/geomag"
	"github.com/aerodata/go-aerodata/subsystems"
)

// DefaultPollInterval is the default value for PollingDataSourceBuilder.PollInterval. The FAA
// publishes dataset updates on a 28-day cycle, so polling more often than this mostly produces
// cache hits.
const DefaultPollInterval = 6 * time.Hour

// MinimumPollInterval is the minimum value for PollingDataSourceBuilder.PollInterval. Values less
// than this will be set to the minimum.
const MinimumPollInterval = time.Minute

// DefaultCacheDir is the default value for PollingDataSourceBuilder.CacheDir.
const DefaultCacheDir = ".cache"

// DefaultRawMaxAge is the default value for PollingDataSourceBuilder.RawMaxAge.
const DefaultRawMaxAge = 6000 * time.Hour

// PollingDataSourceBuilder provides methods for configuring the polling data source.
//
// See PollingDataSource for usage.
type PollingDataSourceBuilder struct {
	airportsURI  string
	runwaysURI   string
	pollInterval time.Duration
	cacheDir     string
	rawMaxAge    time.Duration
	geomagFile   string
}

// PollingDataSource returns a configurable factory for the polling data source.
//
// Polling is the default behavior: the client downloads the FAA airport and runway datasets at
// regular intervals, rebuilds the aerodrome feature set when the raw data has changed, and stores
// it through the configured data store. You only need to call this method if you want to customize
// the polling behavior. Create a builder with PollingDataSource(), set its properties with the
// methods of PollingDataSourceBuilder, and then store it in the DataSource field of your client
// configuration:
//
//	config := aerodata.Config{
//	    DataSource: adcomponents.PollingDataSource().PollInterval(time.Hour),
//	}
func PollingDataSource() *PollingDataSourceBuilder {
	return &PollingDataSourceBuilder{
		pollInterval: DefaultPollInterval,
		cacheDir:     DefaultCacheDir,
		rawMaxAge:    DefaultRawMaxAge,
	}
}

// AirportsURI sets a custom URI for the airports dataset, overriding both the default FAA URI and
// any value set in Config.DataEndpoints.
func (b *PollingDataSourceBuilder) AirportsURI(airportsURI string) *PollingDataSourceBuilder {
	b.airportsURI = airportsURI
	return b
}

// RunwaysURI sets a custom URI for the runways dataset, overriding both the default FAA URI and
// any value set in Config.DataEndpoints.
func (b *PollingDataSourceBuilder) RunwaysURI(runwaysURI string) *PollingDataSourceBuilder {
	b.runwaysURI = runwaysURI
	return b
}

// PollInterval sets the interval at which the client will poll for dataset updates.
//
// The default value is DefaultPollInterval; the minimum is MinimumPollInterval. Values less than
// the minimum will be set to the minimum.
func (b *PollingDataSourceBuilder) PollInterval(pollInterval time.Duration) *PollingDataSourceBuilder {
	if pollInterval < MinimumPollInterval {
		b.pollInterval = MinimumPollInterval
	} else {
		b.pollInterval = pollInterval
	}
	return b
}

// Used in tests to skip parameter validation.
//nolint:unused // it is used in tests
func (b *PollingDataSourceBuilder) forcePollInterval(
	pollInterval time.Duration,
) *PollingDataSourceBuilder {
	b.pollInterval = pollInterval
	return b
}

// CacheDir sets the directory where downloaded datasets are kept between runs. The directory is
// created if it does not exist. The default is DefaultCacheDir.
func (b *PollingDataSourceBuilder) CacheDir(cacheDir string) *PollingDataSourceBuilder {
	b.cacheDir = cacheDir
	return b
}

// RawMaxAge sets how old a downloaded dataset copy may get before a poll re-downloads it. Until
// then, polls reuse the copy on disk without contacting the upstream service. Values less than or
// equal to zero are set to the default, DefaultRawMaxAge.
func (b *PollingDataSourceBuilder) RawMaxAge(rawMaxAge time.Duration) *PollingDataSourceBuilder {
	if rawMaxAge <= 0 {
		b.rawMaxAge = DefaultRawMaxAge
	} else {
		b.rawMaxAge = rawMaxAge
	}
	return b
}

// GeomagCoefficientsFile sets the path of a World Magnetic Model coefficient (.COF) file to use
// for magnetic declination when ordering runway ends. By default, the client uses an embedded
// copy of the WMM coefficients, so this is only needed when the embedded model's validity window
// has lapsed and a newer published file is available.
func (b *PollingDataSourceBuilder) GeomagCoefficientsFile(path string) *PollingDataSourceBuilder {
	b.geomagFile = path
	return b
}

// Build is called internally by the client to create the data source instance.
func (b *PollingDataSourceBuilder) Build(context subsystems.ClientContext) (subsystems.DataSource, error) {
	model := geomag.Default()
	if b.geomagFile != "" {
		m, err := geomag.Load(b.geomagFile)
		if err != nil {
			return nil, err
		}
		model = m
	}
	cfg := datasource.PollingConfig{
		AirportsURI: endpoints.SelectURI(
			context.GetDataEndpoints(), endpoints.AirportsDataService, b.airportsURI),
		RunwaysURI: endpoints.SelectURI(
			context.GetDataEndpoints(), endpoints.RunwaysDataService, b.runwaysURI),
		PollInterval: b.pollInterval,
		CacheDir:     b.cacheDir,
		RawMaxAge:    b.rawMaxAge,
		GeomagModel:  model,
	}
	return datasource.NewPollingProcessor(context, context.GetDataSourceUpdateSink(), cfg), nil
}
