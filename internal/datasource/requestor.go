package datasource

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/exp/maps"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/faa"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// Requester allows PollingProcessor to delegate fetching data to another component. This is
// useful for testing the PollingProcessor without needing to set up a test HTTP server.
type Requester interface {
	Request() (data []st.Collection, cached bool, err error)
	AirportsURI() string
	RunwaysURI() string
	CacheDir() string
}

type malformedJSONError struct {
	innerError error
}

func (e malformedJSONError) Error() string {
	return e.innerError.Error()
}

// Cache filenames under the cache directory for the raw FAA downloads.
const (
	airportsCacheFile = "Airports.geojson"
	runwaysCacheFile  = "Runways.geojson"
)

// faaRequester is the internal implementation of downloading the FAA datasets and deriving the
// served collections from them.
type faaRequester struct {
	airports  *datasetFetcher
	runways   *datasetFetcher
	deriver   *faa.Deriver
	cacheDir  string
	loggers   ldlog.Loggers
	delivered bool
}

func newFAARequester(
	context subsystems.ClientContext,
	httpClient *http.Client,
	cfg PollingConfig,
) *faaRequester {
	if httpClient == nil {
		httpClient = context.GetHTTP().CreateHTTPClient()
	}

	modifiedClient := *httpClient
	modifiedClient.Transport = &httpcache.Transport{
		Cache:               httpcache.NewMemoryCache(),
		MarkCachedResponses: true,
		Transport:           httpClient.Transport,
	}

	loggers := context.GetLogging().Loggers
	return &faaRequester{
		airports: &datasetFetcher{
			httpClient: &modifiedClient,
			name:       "airports",
			uri:        cfg.AirportsURI,
			cachePath:  filepath.Join(cfg.CacheDir, airportsCacheFile),
			maxAge:     cfg.RawMaxAge,
			headers:    context.GetHTTP().DefaultHeaders,
			loggers:    loggers,
		},
		runways: &datasetFetcher{
			httpClient: &modifiedClient,
			name:       "runways",
			uri:        cfg.RunwaysURI,
			cachePath:  filepath.Join(cfg.CacheDir, runwaysCacheFile),
			maxAge:     cfg.RawMaxAge,
			headers:    context.GetHTTP().DefaultHeaders,
			loggers:    loggers,
		},
		deriver:  faa.NewDeriver(loggers, cfg.GeomagModel),
		cacheDir: cfg.CacheDir,
		loggers:  loggers,
	}
}

func (r *faaRequester) AirportsURI() string {
	return r.airports.uri
}

func (r *faaRequester) RunwaysURI() string {
	return r.runways.uri
}

func (r *faaRequester) CacheDir() string {
	return r.cacheDir
}

func (r *faaRequester) Request() ([]st.Collection, bool, error) {
	if r.loggers.IsDebugEnabled() {
		r.loggers.Debug("Checking FAA datasets for aerodrome updates")
	}

	airportsBody, airportsChanged, err := r.airports.fetch()
	if err != nil {
		return nil, false, err
	}
	runwaysBody, runwaysChanged, err := r.runways.fetch()
	if err != nil {
		return nil, false, err
	}
	// Derivation over the full datasets is expensive enough to be worth skipping when neither
	// one changed, but the first request in a process always delivers data, since the disk
	// cache can be fresh while the store is still empty.
	if r.delivered && !airportsChanged && !runwaysChanged {
		return nil, true, nil
	}

	airports, err := parseFeatureCollection(airportsBody)
	if err != nil {
		return nil, false, err
	}
	runways, err := parseFeatureCollection(runwaysBody)
	if err != nil {
		return nil, false, err
	}

	data := r.deriver.Derive(airports, runways)
	r.delivered = true
	return data, false, nil
}

func parseFeatureCollection(body []byte) (adgeo.FeatureCollection, error) {
	var fc adgeo.FeatureCollection
	reader := jreader.NewReader(body)
	fc.ReadFromJSONReader(&reader)
	if err := reader.Error(); err != nil {
		return adgeo.FeatureCollection{}, malformedJSONError{err}
	}
	return fc, nil
}

// datasetFetcher downloads one FAA dataset, keeping a copy on disk so that restarts do not
// re-download a file that can run to hundreds of megabytes. A fresh disk copy short-circuits
// the network entirely; a stale one is revalidated through the HTTP cache, and also serves as
// a fallback when the FAA endpoint is unreachable.
type datasetFetcher struct {
	httpClient  *http.Client
	name        string
	uri         string
	cachePath   string
	maxAge      time.Duration
	headers     http.Header
	loggers     ldlog.Loggers
	lastModTime time.Time
}

// fetch returns the dataset body and whether it changed since the previous successful fetch in
// this process. The first successful fetch always reports changed.
func (f *datasetFetcher) fetch() ([]byte, bool, error) {
	if info, err := os.Stat(f.cachePath); err == nil && f.maxAge > 0 && time.Since(info.ModTime()) < f.maxAge {
		if body, err := os.ReadFile(f.cachePath); err == nil {
			changed := !info.ModTime().Equal(f.lastModTime)
			f.lastModTime = info.ModTime()
			return body, changed, nil
		}
		// An unreadable cached copy just means a download.
	}

	body, notModified, err := f.download()
	if err != nil {
		if body, readErr := os.ReadFile(f.cachePath); readErr == nil {
			f.loggers.Warnf("Unable to refresh the %s dataset (%s); using the last downloaded copy", f.name, err)
			changed := f.lastModTime.IsZero()
			if info, statErr := os.Stat(f.cachePath); statErr == nil {
				changed = !info.ModTime().Equal(f.lastModTime)
				f.lastModTime = info.ModTime()
			}
			return body, changed, nil
		}
		return nil, false, err
	}

	changed := f.lastModTime.IsZero() || !notModified
	f.lastModTime = time.Now()
	if err := f.writeCache(body); err != nil {
		f.loggers.Warnf("Unable to cache the %s dataset on disk: %s", f.name, err)
	} else if info, err := os.Stat(f.cachePath); err == nil {
		f.lastModTime = info.ModTime()
	}
	return body, changed, nil
}

func (f *datasetFetcher) download() ([]byte, bool, error) {
	req, reqErr := http.NewRequest("GET", f.uri, nil)
	if reqErr != nil {
		reqErr = fmt.Errorf(
			"unable to create a request for the %s dataset; this is not a network problem, most likely a bad URI: %w",
			f.name, reqErr,
		)
		return nil, false, reqErr
	}
	url := req.URL.String()
	if f.headers != nil {
		req.Header = maps.Clone(f.headers)
	}

	f.loggers.Infof("Downloading the %s dataset", f.name)

	res, resErr := f.httpClient.Do(req)
	if resErr != nil {
		return nil, false, resErr
	}

	defer func() {
		_, _ = io.ReadAll(res.Body)
		_ = res.Body.Close()
	}()

	if err := checkForHTTPError(res.StatusCode, url); err != nil {
		return nil, false, err
	}

	notModified := res.Header.Get(httpcache.XFromCache) != ""

	body, ioErr := io.ReadAll(res.Body)
	if ioErr != nil {
		return nil, false, ioErr // COVERAGE: there is no way to simulate this condition in unit tests
	}
	return body, notModified, nil
}

func (f *datasetFetcher) writeCache(body []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.cachePath), 0o755); err != nil {
		return err
	}
	tmp := f.cachePath + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.cachePath)
}
