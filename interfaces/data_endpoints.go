package interfaces

// DataEndpoints allow configuration of custom upstream service URIs.
//
// The polling data source normally downloads the airports and runways datasets from the FAA's
// public open data endpoints, and the streaming data source has no default URI since it always
// refers to another aerodata instance. If you want to set non-default values for any of these
// fields, set the DataEndpoints field in the client's Config struct.
//
// Airports and Runways are complete dataset URLs, not base URIs. Stream is the base URI of another
// aerodata server; the streaming data source appends its own request path to it.
type DataEndpoints struct {
	Airports string
	Runways  string
	Stream   string
}
