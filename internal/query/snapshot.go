package query

import (
	"sort"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/subsystems"
)

// Snapshot reads every aerodrome feature out of the data store. The result is in a
// deterministic order regardless of how the store returns items: aerodromes first, then
// runways, then helipads, each group sorted by key. Deleted item placeholders are omitted.
func Snapshot(store subsystems.DataStore) ([]adgeo.Feature, error) {
	var all []adgeo.Feature
	for _, kind := range datakinds.AllKinds() {
		items, err := store.GetAll(kind)
		if err != nil {
			return nil, err
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].Key < items[j].Key
		})
		for _, item := range items {
			if feature, ok := item.Item.Item.(*adgeo.Feature); ok && feature != nil {
				all = append(all, *feature)
			}
		}
	}
	return all, nil
}
