package datakinds

import (
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
)

// DataKindInternal is implemented along with DataKind to provide more efficient jsonstream-based
// deserialization for the components in this repository that can use it directly, such as the
// all-data document codec.
type DataKindInternal interface {
	st.DataKind
	DeserializeFromJSONReader(reader *jreader.Reader) (st.ItemDescriptor, error)
}
