// Package adstoreimpl contains data store implementation objects that may be used by external
// code such as custom data store integrations.
//
// Application code normally does not need to refer to these types.
package adstoreimpl

import (
	"github.com/aerodata/go-aerodata/internal/datakinds"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"
)

// This file contains the public API for accessing things in internal/datakinds. We need to export
// these things in order to support development of custom data store integrations, but we don't
// want to expose the underlying global variables.

// AllKinds returns a list of the supported DataKinds, in the order in which collections should be
// written to a data store. Among other things, this list might be used by data stores to know
// what data (namespaces) to expect.
func AllKinds() []st.DataKind {
	return datakinds.AllKinds()
}

// Aerodromes returns the DataKind instance corresponding to aerodrome reference point features.
func Aerodromes() st.DataKind {
	return datakinds.Aerodromes
}

// Runways returns the DataKind instance corresponding to runway centerline features.
func Runways() st.DataKind {
	return datakinds.Runways
}

// Helipads returns the DataKind instance corresponding to helipad features.
func Helipads() st.DataKind {
	return datakinds.Helipads
}
