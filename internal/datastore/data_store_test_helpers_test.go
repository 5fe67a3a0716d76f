package datastore

import (
	"errors"

	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

type unknownDataKind struct{}

func (k unknownDataKind) GetName() string {
	return "unknown"
}

func (k unknownDataKind) Serialize(item st.ItemDescriptor) []byte {
	return nil
}

func (k unknownDataKind) Deserialize(data []byte) (st.ItemDescriptor, error) {
	return st.ItemDescriptor{}, errors.New("not implemented")
}
