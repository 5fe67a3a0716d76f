package adfiledata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gopkg.in/ghodss/yaml.v1"
)

type fileDataSource struct {
	dataSourceUpdates     subsystems.DataSourceUpdateSink
	absFilePaths          []string
	duplicateKeysHandling DuplicateKeysHandling
	reloaderFactory       ReloaderFactory
	loggers               ldlog.Loggers
	isInitialized         internal.AtomicBoolean
	readyCh               chan<- struct{}
	readyOnce             sync.Once
	closeOnce             sync.Once
	closeReloaderCh       chan struct{}
}

func newFileDataSourceImpl(
	context subsystems.ClientContext,
	filePaths []string,
	duplicateKeysHandling DuplicateKeysHandling,
	reloaderFactory ReloaderFactory,
) (subsystems.DataSource, error) {
	abs, err := absFilePaths(filePaths)
	if err != nil {
		// COVERAGE: there's no reliable cross-platform way to simulate an invalid path in unit tests
		return nil, err
	}

	fs := &fileDataSource{
		dataSourceUpdates:     context.GetDataSourceUpdateSink(),
		absFilePaths:          abs,
		duplicateKeysHandling: duplicateKeysHandling,
		reloaderFactory:       reloaderFactory,
		loggers:               context.GetLogging().Loggers,
	}
	fs.loggers.SetPrefix("FileDataSource:")
	return fs, nil
}

func (fs *fileDataSource) IsInitialized() bool {
	return fs.isInitialized.Get()
}

func (fs *fileDataSource) Start(closeWhenReady chan<- struct{}) {
	fs.readyCh = closeWhenReady
	fs.reload()

	// If there is no reloader, then we signal readiness immediately regardless of whether the
	// data load succeeded or failed.
	if fs.reloaderFactory == nil {
		fs.signalStartComplete(fs.isInitialized.Get())
		return
	}

	// If there is a reloader, and if we haven't yet successfully loaded data, then the
	// readiness signal will happen the first time we do get valid data (in reload).
	fs.closeReloaderCh = make(chan struct{})
	if err := fs.reloaderFactory(fs.absFilePaths, fs.loggers, fs.reload, fs.closeReloaderCh); err != nil {
		fs.loggers.Errorf("Unable to start reloader: %s", err)
	}
}

// reload rereads all of the configured source files and replaces the stored aerodrome data with
// their contents. If any file cannot be read or parsed, the stored data is not modified.
func (fs *fileDataSource) reload() {
	filesData := make([][]st.Collection, 0, len(fs.absFilePaths))
	for _, path := range fs.absFilePaths {
		data, err := readFile(path)
		if err != nil {
			fs.loggers.Errorf("Unable to load aerodrome data: %s [%s]", err, path)
			fs.dataSourceUpdates.UpdateStatus(interfaces.DataSourceStateInterrupted,
				interfaces.DataSourceErrorInfo{
					Kind:    interfaces.DataSourceErrorKindInvalidData,
					Message: err.Error(),
					Time:    time.Now(),
				})
			return
		}
		filesData = append(filesData, data)
	}
	allData, err := mergeFileData(fs.duplicateKeysHandling, filesData...)
	if err == nil {
		if fs.dataSourceUpdates.Init(allData) {
			fs.signalStartComplete(true)
			fs.dataSourceUpdates.UpdateStatus(interfaces.DataSourceStateValid, interfaces.DataSourceErrorInfo{})
		}
	} else {
		fs.dataSourceUpdates.UpdateStatus(interfaces.DataSourceStateInterrupted,
			interfaces.DataSourceErrorInfo{
				Kind:    interfaces.DataSourceErrorKindInvalidData,
				Message: err.Error(),
				Time:    time.Now(),
			})
		fs.loggers.Error(err)
	}
}

func (fs *fileDataSource) signalStartComplete(succeeded bool) {
	fs.readyOnce.Do(func() {
		fs.isInitialized.Set(succeeded)
		if fs.readyCh != nil {
			close(fs.readyCh)
		}
	})
}

// Close is called automatically when the client is closed.
func (fs *fileDataSource) Close() error {
	fs.closeOnce.Do(func() {
		if fs.closeReloaderCh != nil {
			close(fs.closeReloaderCh)
		}
	})
	return nil
}

func absFilePaths(paths []string) ([]string, error) {
	absPaths := make([]string, 0, len(paths))
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			// COVERAGE: there's no reliable cross-platform way to simulate an invalid path in unit tests
			return nil, fmt.Errorf("unable to determine absolute path for '%s'", p)
		}
		absPaths = append(absPaths, absPath)
	}
	return absPaths, nil
}

func readFile(path string) ([]st.Collection, error) {
	rawData, err := os.ReadFile(path) //nolint:gosec // G304: ok to read file into variable
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %s", err)
	}
	if !detectJSON(rawData) {
		if rawData, err = yaml.YAMLToJSON(rawData); err != nil {
			return nil, fmt.Errorf("error parsing file: %s", err)
		}
	}
	data, err := parseDocument(rawData)
	if err != nil {
		return nil, fmt.Errorf("error parsing file: %s", err)
	}
	return data, nil
}

func detectJSON(rawData []byte) bool {
	// A valid JSON file for our purposes must be an object, i.e. it must start with '{'
	return strings.HasPrefix(strings.TrimLeftFunc(string(rawData), unicode.IsSpace), "{")
}

// parseDocument accepts either of the two file formats, telling them apart by the top-level
// "type" property that GeoJSON requires and the data set document does not have.
func parseDocument(rawData []byte) ([]st.Collection, error) {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(rawData, &probe); err != nil {
		return nil, err
	}
	if probe.Type == "FeatureCollection" {
		return collectionsFromGeoJSON(rawData)
	}
	doc, err := datakinds.ParseAllDataDocument(rawData)
	if err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// collectionsFromGeoJSON sorts the features of a flat GeoJSON collection into the per-category
// collections that the data store takes, using each feature's element type property.
func collectionsFromGeoJSON(rawData []byte) ([]st.Collection, error) {
	var collection adgeo.FeatureCollection
	if err := collection.UnmarshalJSON(rawData); err != nil {
		return nil, err
	}
	itemsByKind := make(map[st.DataKind][]st.KeyedItemDescriptor)
	for i := range collection.Features {
		feature := collection.Features[i]
		kind, ok := datakinds.KindByElementType(feature.ElementType())
		if !ok {
			return nil, fmt.Errorf("feature %d has unrecognized element type '%s'",
				i, feature.ElementType())
		}
		key := feature.Key()
		if key == "" {
			return nil, fmt.Errorf("feature %d has no identifier", i)
		}
		itemsByKind[kind] = append(itemsByKind[kind], st.KeyedItemDescriptor{
			Key:  key,
			Item: st.ItemDescriptor{Version: 0, Item: &feature},
		})
	}
	ret := make([]st.Collection, 0, len(itemsByKind))
	for _, kind := range datakinds.AllKinds() {
		if items, ok := itemsByKind[kind]; ok {
			ret = append(ret, st.Collection{Kind: kind, Items: items})
		}
	}
	return ret, nil
}

func insertData(
	all map[st.DataKind]map[string]st.ItemDescriptor,
	kind st.DataKind,
	key string,
	data st.ItemDescriptor,
	duplicateKeysHandling DuplicateKeysHandling,
) error {
	if _, exists := all[kind][key]; exists {
		if duplicateKeysHandling == DuplicateKeysIgnoreAllButFirst {
			return nil
		}
		return fmt.Errorf("%s '%s' is specified by multiple files", kind, key)
	}
	all[kind][key] = data
	return nil
}

func mergeFileData(
	duplicateKeysHandling DuplicateKeysHandling,
	allFileData ...[]st.Collection,
) ([]st.Collection, error) {
	all := make(map[st.DataKind]map[string]st.ItemDescriptor)
	for _, kind := range datakinds.AllKinds() {
		all[kind] = make(map[string]st.ItemDescriptor)
	}
	for _, fileData := range allFileData {
		for _, coll := range fileData {
			if _, recognized := all[coll.Kind]; !recognized {
				continue
			}
			for _, item := range coll.Items {
				if err := insertData(all, coll.Kind, item.Key, item.Item, duplicateKeysHandling); err != nil {
					return nil, err
				}
			}
		}
	}
	ret := make([]st.Collection, 0, len(all))
	for _, kind := range datakinds.AllKinds() {
		items := all[kind]
		keys := make([]string, 0, len(items))
		for key := range items {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		coll := st.Collection{Kind: kind, Items: make([]st.KeyedItemDescriptor, 0, len(items))}
		for _, key := range keys {
			coll.Items = append(coll.Items, st.KeyedItemDescriptor{Key: key, Item: items[key]})
		}
		ret = append(ret, coll)
	}
	return ret, nil
}
