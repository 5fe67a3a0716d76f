package subsystems

import (
	"net/http"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// HTTPConfiguration encapsulates top-level HTTP configuration that applies to all client
// components.
//
// Use adcomponents.HTTPConfiguration() to construct this in the standard way, or create your own
// implementation of ComponentConfigurer[HTTPConfiguration] for full customization.
type HTTPConfiguration struct {
	// DefaultHeaders contains the basic headers that should be added to all HTTP requests from
	// client components to upstream services, based on the current configuration. This map is never
	// modified once created.
	DefaultHeaders http.Header

	// CreateHTTPClient is a function that returns a new HTTP client instance based on the
	// configuration.
	//
	// The client will ensure that this field is non-nil before passing it to any component.
	CreateHTTPClient func() *http.Client
}

// LoggingConfiguration encapsulates the client's general logging configuration.
//
// Use adcomponents.Logging() to construct this in the standard way, or create your own
// implementation of ComponentConfigurer[LoggingConfiguration] for full customization.
type LoggingConfiguration struct {
	// Loggers is a configured ldlog.Loggers instance for general client logging.
	Loggers ldlog.Loggers

	// LogDataSourceOutageAsErrorAfter is the time threshold, if any, after which the client will
	// log a data source outage at Error level instead of Warn level. See
	// adcomponents.LoggingConfigurationBuilder.LogDataSourceOutageAsErrorAfter().
	LogDataSourceOutageAsErrorAfter time.Duration
}
