package endpoints

const (
	// DefaultAirportsDataURI is the default download URL of the FAA airports dataset.
	DefaultAirportsDataURI = "https://opendata.arcgis.com/api/v3/datasets/e747ab91a11045e8b3f8a3efd093d3b5_0/downloads/data?format=geojson&spatialRefId=4326&where=1%3D1"

	// DefaultRunwaysDataURI is the default download URL of the FAA runways dataset.
	DefaultRunwaysDataURI = "https://opendata.arcgis.com/api/v3/datasets/4d8fa46181aa470d809776c57a8ab1f6_0/downloads/data?format=geojson&spatialRefId=4326&where=1%3D1"

	// StreamingRequestPath is the URL path of the aerodrome stream on an upstream aerodata server.
	StreamingRequestPath = "/aerodromes/stream"

	// There is no default streaming URI; a stream always comes from another aerodata instance that
	// the caller must identify explicitly.
)
