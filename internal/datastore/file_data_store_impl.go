package datastore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// fileDataStoreImpl is a PersistentDataStore that keeps the entire data set in a single JSON
// document on disk. Every mutation rewrites the document through a temporary file and rename, so
// a crash mid-write leaves the previous document intact.
//
// The store assumes it is the only writer of the file. It keeps the current document in memory
// and serves reads from there; the file only needs to be read again when a new instance starts.
type fileDataStoreImpl struct {
	path    string
	doc     fileStoreDocument
	lock    sync.RWMutex
	loggers ldlog.Loggers
}

type fileStoreDocument struct {
	Inited      bool                                  `json:"inited"`
	Collections map[string]map[string]fileStoreRecord `json:"collections"`
}

type fileStoreRecord struct {
	Version int    `json:"version"`
	Deleted bool   `json:"deleted,omitempty"`
	Item    []byte `json:"item,omitempty"`
}

// NewFileDataStoreImpl creates the file data store implementation. This is always called through
// adcomponents.FileDataStore. If the file already exists, its contents become the initial data
// set; if it does not exist, the store starts out empty and uninitialized.
func NewFileDataStoreImpl(path string, loggers ldlog.Loggers) (subsystems.PersistentDataStore, error) {
	store := &fileDataStoreImpl{
		path:    path,
		doc:     fileStoreDocument{Collections: make(map[string]map[string]fileStoreRecord)},
		loggers: loggers,
	}
	store.loggers.SetPrefix("FileDataStore:")

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("unable to read data file %s: %s", path, err)
		}
		return store, nil
	}
	if err := json.Unmarshal(data, &store.doc); err != nil {
		return nil, fmt.Errorf("data file %s is not valid: %s", path, err)
	}
	if store.doc.Collections == nil {
		store.doc.Collections = make(map[string]map[string]fileStoreRecord)
	}
	store.loggers.Infof("Loaded data from %s", path)
	return store, nil
}

func (store *fileDataStoreImpl) Init(allData []st.SerializedCollection) error {
	store.lock.Lock()
	defer store.lock.Unlock()

	collections := make(map[string]map[string]fileStoreRecord, len(allData))
	for _, coll := range allData {
		items := make(map[string]fileStoreRecord, len(coll.Items))
		for _, item := range coll.Items {
			items[item.Key] = recordFromDescriptor(item.Item)
		}
		collections[coll.Kind.GetName()] = items
	}
	store.doc.Collections = collections
	store.doc.Inited = true

	return store.persist()
}

func (store *fileDataStoreImpl) Get(kind st.DataKind, key string) (st.SerializedItemDescriptor, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	record, found := store.doc.Collections[kind.GetName()][key]
	if !found {
		store.loggers.Debugf(`Key %s not found in "%s"`, key, kind.GetName())
		return st.SerializedItemDescriptor{}.NotFound(), nil
	}
	return record.toDescriptor(), nil
}

func (store *fileDataStoreImpl) GetAll(kind st.DataKind) ([]st.KeyedSerializedItemDescriptor, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()

	items := store.doc.Collections[kind.GetName()]
	results := make([]st.KeyedSerializedItemDescriptor, 0, len(items))
	for key, record := range items {
		results = append(results, st.KeyedSerializedItemDescriptor{Key: key, Item: record.toDescriptor()})
	}
	return results, nil
}

func (store *fileDataStoreImpl) Upsert(
	kind st.DataKind,
	key string,
	newItem st.SerializedItemDescriptor,
) (bool, error) {
	store.lock.Lock()
	defer store.lock.Unlock()

	items := store.doc.Collections[kind.GetName()]
	if items == nil {
		items = make(map[string]fileStoreRecord)
		store.doc.Collections[kind.GetName()] = items
	}

	if oldRecord, found := items[key]; found && oldRecord.Version >= newItem.Version {
		updateOrDelete := "update"
		if newItem.Deleted {
			updateOrDelete = "delete"
		}
		store.loggers.Debugf(`Attempted to %s key %s version %d in "%s" with a version that is the same or older: %d`,
			updateOrDelete, key, oldRecord.Version, kind.GetName(), newItem.Version)
		return false, nil
	}

	items[key] = recordFromDescriptor(newItem)
	if err := store.persist(); err != nil {
		return false, err
	}
	return true, nil
}

func (store *fileDataStoreImpl) IsInitialized() bool {
	store.lock.RLock()
	defer store.lock.RUnlock()
	return store.doc.Inited
}

func (store *fileDataStoreImpl) IsStoreAvailable() bool {
	// The smallest operation that predicts whether persist() can work is checking that the
	// directory the file lives in still exists.
	_, err := os.Stat(filepath.Dir(store.path))
	return err == nil
}

func (store *fileDataStoreImpl) Close() error {
	return nil
}

// persist writes the current document to disk. The caller must hold the write lock.
func (store *fileDataStoreImpl) persist() error {
	data, err := json.Marshal(store.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal data file contents: %s", err)
	}

	dir := filepath.Dir(store.path)
	tempFile, err := os.CreateTemp(dir, filepath.Base(store.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %s", dir, err)
	}
	tempPath := tempFile.Name()
	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %s", tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %s", tempPath, err)
	}
	if err := os.Rename(tempPath, store.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %s", store.path, err)
	}
	return nil
}

func recordFromDescriptor(item st.SerializedItemDescriptor) fileStoreRecord {
	return fileStoreRecord{Version: item.Version, Deleted: item.Deleted, Item: item.SerializedItem}
}

func (r fileStoreRecord) toDescriptor() st.SerializedItemDescriptor {
	return st.SerializedItemDescriptor{Version: r.Version, Deleted: r.Deleted, SerializedItem: r.Item}
}
