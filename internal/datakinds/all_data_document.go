package datakinds

import (
	"github.com/aerodata/go-aerodata/adgeo"
	st "github.com/aerodata/go-aerodata/subsystems/adstoretypes"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// AllDataDocument is the JSON document format for a complete aerodrome data set. It is the
// payload of a "put" event on the streaming endpoint, the persistence format of the file data
// store, and the format accepted by the file data source. For example:
//
//	{
//	  "version": 3,
//	  "data": {
//	    "aerodromes": {
//	      "KMSP": { "type": "Feature", ... },
//	      "KSTP": { "type": "Feature", ... }
//	    },
//	    "runways": { ... },
//	    "helipads": { ... }
//	  }
//	}
//
// Even though the categories are map-like, the parsed form is a list of Collections, because
// that is what the data store API takes; nothing needs to manipulate the data as a map.
type AllDataDocument struct {
	// Version is the data set version the document carries, or zero if it had none.
	Version int
	// Data is one collection per recognized category, in document order.
	Data []st.Collection
}

var allDataDocumentRequiredProperties = []string{"data"} //nolint:gochecknoglobals

// ParseAllDataDocument parses a complete data set document. The document version, when present,
// is applied to every item descriptor in the result. Unrecognized categories are skipped.
func ParseAllDataDocument(data []byte) (AllDataDocument, error) {
	var ret AllDataDocument
	r := jreader.NewReader(data)
	for obj := r.Object().WithRequiredProperties(allDataDocumentRequiredProperties); obj.Next(); {
		switch string(obj.Name()) {
		case "version":
			ret.Version = r.Int()
		case "data":
			ret.Data = parseCollections(&r)
		}
	}
	if err := r.Error(); err != nil {
		return AllDataDocument{}, err
	}
	// The version property may appear after the data property, so it can only be applied once
	// the whole document has been read.
	if ret.Version != 0 {
		for _, coll := range ret.Data {
			for i := range coll.Items {
				coll.Items[i].Item.Version = ret.Version
			}
		}
	}
	return ret, nil
}

func parseCollections(r *jreader.Reader) []st.Collection {
	var ret []st.Collection
	for dataObj := r.Object(); dataObj.Next(); {
		kind, ok := KindByName(string(dataObj.Name()))
		if !ok {
			continue // unrecognized category, skip it
		}
		coll := st.Collection{Kind: kind}
		for keysToItemsObj := r.Object(); keysToItemsObj.Next(); {
			key := string(keysToItemsObj.Name())
			item, err := kind.DeserializeFromJSONReader(r)
			if err == nil {
				coll.Items = append(coll.Items, st.KeyedItemDescriptor{Key: key, Item: item})
			}
		}
		ret = append(ret, coll)
	}
	return ret
}

// WriteAllDataDocument serializes a complete data set document. Deleted items are omitted, since
// absence from a full data set is what deletion means.
func WriteAllDataDocument(doc AllDataDocument) ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("version").Int(doc.Version)
	dataObj := obj.Name("data").Object()
	for _, coll := range doc.Data {
		collObj := dataObj.Name(coll.Kind.GetName()).Object()
		for _, item := range coll.Items {
			if feature, ok := item.Item.Item.(*adgeo.Feature); ok && feature != nil {
				feature.WriteToJSONWriter(collObj.Name(item.Key))
			}
		}
		collObj.End()
	}
	dataObj.End()
	obj.End()
	return w.Bytes(), w.Error()
}
