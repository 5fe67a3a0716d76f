package adtestdata

import (
	"sync"

	"github.com/aerodata/go-aerodata/adgeo"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/datakinds"
	"github.com/aerodata/go-aerodata/subsystems"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// TestDataSource is a test fixture that provides dynamically updatable aerodrome data in a
// simplified form to a client in test scenarios.
//
// See package description for more details and usage examples.
type TestDataSource struct {
	currentItems    map[st.DataKind]map[string]st.ItemDescriptor
	currentBuilders map[st.DataKind]map[string]*FeatureBuilder
	instances       []*testDataSourceImpl
	lock            sync.Mutex
}

type testDataSourceImpl struct {
	owner   *TestDataSource
	updates subsystems.DataSourceUpdateSink
}

// DataSource creates an instance of TestDataSource.
func DataSource() *TestDataSource {
	return &TestDataSource{
		currentItems:    make(map[st.DataKind]map[string]st.ItemDescriptor),
		currentBuilders: make(map[st.DataKind]map[string]*FeatureBuilder),
	}
}

// Aerodrome creates or copies a FeatureBuilder for an aerodrome reference point feature with the
// given aerodrome identifier.
//
// If this aerodrome has already been defined in this TestDataSource instance, the builder starts
// with the same configuration that was last provided for it. Otherwise, it starts with a feature
// that has the country "USA" and no geometry; use the builder methods to change any of that.
//
// Once you have set the desired configuration, pass the builder to Update.
func (t *TestDataSource) Aerodrome(key string) *FeatureBuilder {
	return t.builderForKey(datakinds.Aerodromes, key, func() *FeatureBuilder {
		return newFeatureBuilder(datakinds.Aerodromes, key, key).Country("USA")
	})
}

// Runway creates or copies a FeatureBuilder for a runway centerline feature with the given
// runway surface identifier, belonging to the given aerodrome.
//
// The copy-or-create behavior is the same as for Aerodrome.
func (t *TestDataSource) Runway(key, aerodromeID string) *FeatureBuilder {
	return t.builderForKey(datakinds.Runways, key, func() *FeatureBuilder {
		return newFeatureBuilder(datakinds.Runways, key, aerodromeID)
	})
}

// Helipad creates or copies a FeatureBuilder for a helipad feature with the given helipad
// identifier, belonging to the given aerodrome.
//
// The copy-or-create behavior is the same as for Aerodrome.
func (t *TestDataSource) Helipad(key, aerodromeID string) *FeatureBuilder {
	return t.builderForKey(datakinds.Helipads, key, func() *FeatureBuilder {
		return newFeatureBuilder(datakinds.Helipads, key, aerodromeID)
	})
}

func (t *TestDataSource) builderForKey(
	kind st.DataKind,
	key string,
	makeDefault func() *FeatureBuilder,
) *FeatureBuilder {
	t.lock.Lock()
	defer t.lock.Unlock()
	existingBuilder := t.currentBuilders[kind][key]
	if existingBuilder == nil {
		return makeDefault()
	}
	return copyFeatureBuilder(existingBuilder)
}

// Update updates the test data with the specified feature configuration.
//
// This has the same effect as if the corresponding element had changed in the upstream FAA data.
// It immediately propagates the change to any client instance(s) that you have already configured
// to use this TestDataSource. If no client has been started yet, it simply adds the feature to
// the test data which will be provided to any client that you subsequently configure.
//
// Any subsequent changes to this FeatureBuilder instance do not affect the test data, unless you
// call Update again.
func (t *TestDataSource) Update(featureBuilder *FeatureBuilder) *TestDataSource {
	feature := featureBuilder.createFeature()
	t.updateInternal(featureBuilder.kind, featureBuilder.key, &feature, copyFeatureBuilder(featureBuilder))
	return t
}

// Delete removes a feature from the test data, and propagates a deletion to any client
// instance(s) already configured to use this TestDataSource.
func (t *TestDataSource) Delete(kind st.DataKind, key string) *TestDataSource {
	t.updateInternal(kind, key, nil, nil)
	return t
}

// UsePreconfiguredFeature copies a full feature into the test data.
//
// Use this method if you need feature properties that are not supported by the simplified
// FeatureBuilder API. The feature must carry a recognized aerodrome element type property, since
// that is what determines which collection it belongs to; a feature without one is ignored.
//
// You cannot make incremental changes with Aerodrome/Runway/Helipad and Update to a feature that
// has been added in this way; you can only replace it with an entirely new feature.
func (t *TestDataSource) UsePreconfiguredFeature(feature adgeo.Feature) *TestDataSource {
	kind, ok := kindForFeature(feature)
	if !ok {
		return t
	}
	t.updateInternal(kind, feature.Key(), &feature, nil)
	return t
}

// UpdateStatus simulates a change in the data source status.
//
// Use this if you want to test the behavior of application code that uses
// Client.GetDataSourceStatusProvider to track whether the data source is having problems (for
// example, a network failure interrupting the polling requests). It does not actually stop the
// TestDataSource from working, so even if you have simulated an outage, calling Update will still
// send updates.
func (t *TestDataSource) UpdateStatus(
	newState interfaces.DataSourceState,
	newError interfaces.DataSourceErrorInfo,
) *TestDataSource {
	t.lock.Lock()
	instances := make([]*testDataSourceImpl, len(t.instances))
	copy(instances, t.instances)
	t.lock.Unlock()

	for _, instance := range instances {
		instance.updates.UpdateStatus(newState, newError)
	}

	return t
}

func (t *TestDataSource) updateInternal(
	kind st.DataKind,
	key string,
	feature *adgeo.Feature,
	builder *FeatureBuilder,
) {
	t.lock.Lock()
	oldItem := t.currentItems[kind][key]
	newItem := st.ItemDescriptor{Version: oldItem.Version + 1, Item: nil}
	if feature != nil {
		newItem.Item = feature
	}
	if t.currentItems[kind] == nil {
		t.currentItems[kind] = make(map[string]st.ItemDescriptor)
		t.currentBuilders[kind] = make(map[string]*FeatureBuilder)
	}
	t.currentItems[kind][key] = newItem
	t.currentBuilders[kind][key] = builder
	instances := make([]*testDataSourceImpl, len(t.instances))
	copy(instances, t.instances)
	t.lock.Unlock()

	for _, instance := range instances {
		instance.updates.Upsert(kind, key, newItem)
	}
}

// Build is called internally by the client to associate this test data source with a client
// instance. You do not need to call this method.
func (t *TestDataSource) Build(context subsystems.ClientContext) (subsystems.DataSource, error) {
	instance := &testDataSourceImpl{owner: t, updates: context.GetDataSourceUpdateSink()}
	t.lock.Lock()
	t.instances = append(t.instances, instance)
	t.lock.Unlock()
	return instance, nil
}

func (t *TestDataSource) makeInitData() []st.Collection {
	t.lock.Lock()
	defer t.lock.Unlock()
	ret := make([]st.Collection, 0, len(datakinds.AllKinds()))
	for _, kind := range datakinds.AllKinds() {
		items := make([]st.KeyedItemDescriptor, 0, len(t.currentItems[kind]))
		for key, item := range t.currentItems[kind] {
			items = append(items, st.KeyedItemDescriptor{Key: key, Item: item})
		}
		ret = append(ret, st.Collection{Kind: kind, Items: items})
	}
	return ret
}

func (t *TestDataSource) closedInstance(instance *testDataSourceImpl) {
	t.lock.Lock()
	defer t.lock.Unlock()
	for i, in := range t.instances {
		if in == instance {
			copy(t.instances[i:], t.instances[i+1:])
			t.instances[len(t.instances)-1] = nil
			t.instances = t.instances[:len(t.instances)-1]
			break
		}
	}
}

func kindForFeature(feature adgeo.Feature) (st.DataKind, bool) {
	switch feature.ElementType() {
	case adgeo.ElementTypeAerodrome:
		return datakinds.Aerodromes, true
	case adgeo.ElementTypeRunway:
		return datakinds.Runways, true
	case adgeo.ElementTypeHelipad:
		return datakinds.Helipads, true
	}
	return nil, false
}

func (d *testDataSourceImpl) Close() error {
	d.owner.closedInstance(d)
	return nil
}

func (d *testDataSourceImpl) IsInitialized() bool {
	return true
}

func (d *testDataSourceImpl) Start(closeWhenReady chan<- struct{}) {
	_ = d.updates.Init(d.owner.makeInitData())
	d.updates.UpdateStatus(interfaces.DataSourceStateValid, interfaces.DataSourceErrorInfo{})
	close(closeWhenReady)
}
