//nolint:gochecknoglobals
package sharedtest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// MakeMockDataSet constructs a data set to be passed to a data store's Init method.
func MakeMockDataSet(items ...MockDataItem) []st.Collection {
	itemsColl := st.Collection{
		Kind:  MockData,
		Items: []st.KeyedItemDescriptor{},
	}
	otherItemsColl := st.Collection{
		Kind:  MockOtherData,
		Items: []st.KeyedItemDescriptor{},
	}
	for _, item := range items {
		d := st.KeyedItemDescriptor{
			Key:  item.Key,
			Item: item.ToItemDescriptor(),
		}
		if item.IsOtherKind {
			otherItemsColl.Items = append(otherItemsColl.Items, d)
		} else {
			itemsColl.Items = append(itemsColl.Items, d)
		}
	}
	return []st.Collection{itemsColl, otherItemsColl}
}

// MakeSerializedMockDataSet constructs a data set to be passed to a persistent data store's Init method.
func MakeSerializedMockDataSet(items ...MockDataItem) []st.SerializedCollection {
	itemsColl := st.SerializedCollection{
		Kind:  MockData,
		Items: []st.KeyedSerializedItemDescriptor{},
	}
	otherItemsColl := st.SerializedCollection{
		Kind:  MockOtherData,
		Items: []st.KeyedSerializedItemDescriptor{},
	}
	for _, item := range items {
		d := st.KeyedSerializedItemDescriptor{
			Key:  item.Key,
			Item: item.ToSerializedItemDescriptor(),
		}
		if item.IsOtherKind {
			otherItemsColl.Items = append(otherItemsColl.Items, d)
		} else {
			itemsColl.Items = append(itemsColl.Items, d)
		}
	}
	return []st.SerializedCollection{itemsColl, otherItemsColl}
}

// MockDataItem is a test replacement for a feature, with a trivial serialization that data store
// tests can inspect without involving real GeoJSON.
type MockDataItem struct {
	Key         string
	Version     int
	Deleted     bool
	Name        string
	IsOtherKind bool
}

// ToItemDescriptor converts the test item to an ItemDescriptor.
func (m MockDataItem) ToItemDescriptor() st.ItemDescriptor {
	return st.ItemDescriptor{Version: m.Version, Item: m}
}

// ToKeyedItemDescriptor converts the test item to a KeyedItemDescriptor.
func (m MockDataItem) ToKeyedItemDescriptor() st.KeyedItemDescriptor {
	return st.KeyedItemDescriptor{Key: m.Key, Item: m.ToItemDescriptor()}
}

// ToSerializedItemDescriptor converts the test item to a SerializedItemDescriptor.
func (m MockDataItem) ToSerializedItemDescriptor() st.SerializedItemDescriptor {
	return st.SerializedItemDescriptor{
		Version:        m.Version,
		Deleted:        m.Deleted,
		SerializedItem: MockData.Serialize(m.ToItemDescriptor()),
	}
}

// MockData is an instance of st.DataKind corresponding to MockDataItem.
var MockData = mockDataKind{isOther: false}

type mockDataKind struct {
	isOther bool
}

func (sk mockDataKind) GetName() string {
	if sk.isOther {
		return "mock2"
	}
	return "mock1"
}

func (sk mockDataKind) String() string {
	return sk.GetName()
}

func (sk mockDataKind) Serialize(item st.ItemDescriptor) []byte {
	if item.Item == nil {
		return []byte(fmt.Sprintf("DELETED:%d", item.Version))
	}
	if mdi, ok := item.Item.(MockDataItem); ok {
		return []byte(fmt.Sprintf("%s,%d,%t,%s,%t", mdi.Key, mdi.Version, mdi.Deleted, mdi.Name, mdi.IsOtherKind))
	}
	return nil
}

func (sk mockDataKind) Deserialize(data []byte) (st.ItemDescriptor, error) {
	if data == nil {
		return st.ItemDescriptor{}.NotFound(), errors.New("tried to deserialize nil data")
	}
	s := string(data)
	if strings.HasPrefix(s, "DELETED:") {
		v, _ := strconv.Atoi(strings.TrimPrefix(s, "DELETED:"))
		return st.ItemDescriptor{Version: v}, nil
	}
	fields := strings.Split(s, ",")
	if len(fields) == 5 {
		v, _ := strconv.Atoi(fields[1])
		itemIsOther := fields[4] == "true"
		if itemIsOther != sk.isOther {
			return st.ItemDescriptor{}.NotFound(), errors.New("got data item of wrong kind")
		}
		isDeleted := fields[2] == "true"
		if isDeleted {
			return st.ItemDescriptor{Version: v}, nil
		}
		m := MockDataItem{Key: fields[0], Version: v, Name: fields[3], IsOtherKind: itemIsOther}
		return st.ItemDescriptor{Version: v, Item: m}, nil
	}
	return st.ItemDescriptor{}.NotFound(), fmt.Errorf(`not a valid MockDataItem: "%s"`, data)
}

// MockOtherData is an instance of st.DataKind corresponding to another flavor of MockDataItem.
var MockOtherData = mockDataKind{isOther: true}
