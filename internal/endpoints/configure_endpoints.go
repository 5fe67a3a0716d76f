package endpoints

import (
	"strings"

	"github.com/aerodata/go-aerodata/interfaces"
)

// ServiceType is used internally to denote which upstream service a URI is for.
type ServiceType int

const (
	AirportsDataService ServiceType = iota //nolint:revive // internal constant
	RunwaysDataService  ServiceType = iota //nolint:revive // internal constant
	StreamingService    ServiceType = iota //nolint:revive // internal constant
)

func (s ServiceType) String() string {
	switch s {
	case AirportsDataService:
		return "AirportsData"
	case RunwaysDataService:
		return "RunwaysData"
	case StreamingService:
		return "Streaming"
	default:
		return "???"
	}
}

func getCustom(dataEndpoints interfaces.DataEndpoints, serviceType ServiceType) string {
	switch serviceType {
	case AirportsDataService:
		return dataEndpoints.Airports
	case RunwaysDataService:
		return dataEndpoints.Runways
	case StreamingService:
		return dataEndpoints.Stream
	default:
		return ""
	}
}

// IsCustom returns true if the service URI has been overridden with a non-default value.
func IsCustom(dataEndpoints interfaces.DataEndpoints, serviceType ServiceType, overrideValue string) bool {
	uri := overrideValue
	if uri == "" {
		uri = getCustom(dataEndpoints, serviceType)
	}
	return uri != "" && strings.TrimSuffix(uri, "/") != strings.TrimSuffix(DefaultURI(serviceType), "/")
}

// DefaultURI returns the default URI for the given kind of service. The streaming service has no
// default, so it returns "" for StreamingService; the streaming data source treats an empty URI as
// a configuration error.
func DefaultURI(serviceType ServiceType) string {
	switch serviceType {
	case AirportsDataService:
		return DefaultAirportsDataURI
	case RunwaysDataService:
		return DefaultRunwaysDataURI
	default:
		return ""
	}
}

// SelectURI is a helper for getting either a custom or a default URI for the given kind of service.
//
// The airports and runways URIs are complete dataset URLs. The streaming URI is a base URI; callers
// append StreamingRequestPath to it with AddPath. Unlike deployments where partially customized
// endpoints indicate a misconfiguration, the three services here are unrelated to each other, so
// setting only some of them is normal and does not produce a warning.
func SelectURI(
	dataEndpoints interfaces.DataEndpoints,
	serviceType ServiceType,
	overrideValue string,
) string {
	configuredURI := overrideValue
	if configuredURI == "" {
		configuredURI = getCustom(dataEndpoints, serviceType)
	}
	if configuredURI == "" {
		configuredURI = DefaultURI(serviceType)
	}
	return strings.TrimRight(configuredURI, "/")
}

// AddPath concatenates a subpath to a URL in a way that will not cause a double slash.
func AddPath(baseURI string, path string) string {
	return strings.TrimSuffix(baseURI, "/") + "/" + strings.TrimPrefix(path, "/")
}
