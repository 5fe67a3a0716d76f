package adcomponents

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/aerodata/go-aerodata/subsystems"
)

// DefaultLogDataSourceOutageAsErrorAfter is the default value for
// LoggingConfigurationBuilder.LogDataSourceOutageAsErrorAfter: one minute.
const DefaultLogDataSourceOutageAsErrorAfter = time.Minute

// LoggingConfigurationBuilder contains methods for configuring the client's logging behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// adcomponents.Logging(), change its properties with the LoggingConfigurationBuilder methods, and
// store it in Config.Logging:
//
//	config := aerodata.Config{
//	    Logging: adcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	config subsystems.LoggingConfiguration
}

// Logging returns a configuration builder for the client's logging configuration.
//
// The default configuration has logging enabled with default settings. See
// LoggingConfigurationBuilder for the available options.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{config: subsystems.LoggingConfiguration{
		Loggers:                         ldlog.NewDefaultLoggers(),
		LogDataSourceOutageAsErrorAfter: DefaultLogDataSourceOutageAsErrorAfter,
	}}
}

// Loggers specifies an instance of ldlog.Loggers to use for client logging. The ldlog package
// contains methods for customizing the destination and level filtering of log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	b.config.Loggers = loggers
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and
// ldlog.Error is the highest. Log messages at a level lower than this will be suppressed. The
// default is ldlog.Info.
//
// This is equivalent to creating an ldlog.Loggers instance, calling SetMinLevel() on it, and then
// passing it to LoggingConfigurationBuilder.Loggers().
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	b.config.Loggers.SetMinLevel(level)
	return b
}

// LogDataSourceOutageAsErrorAfter sets the time threshold, if any, after which the client will log
// a data source outage at Error level instead of Warn level.
//
// A data source outage means that an error condition, such as a network failure or an error
// response from an upstream service, is preventing the client from refreshing the aerodrome data.
// Many outages are brief and the data source recovers on its own, so the client logs the
// individual errors at Warn level. If an outage lasts at least as long as this threshold, the
// client logs an additional Error-level message summarizing the errors seen so far.
//
// The default is DefaultLogDataSourceOutageAsErrorAfter (one minute). A value of zero disables
// the Error-level message.
func (b *LoggingConfigurationBuilder) LogDataSourceOutageAsErrorAfter(
	logDataSourceOutageAsErrorAfter time.Duration,
) *LoggingConfigurationBuilder {
	b.config.LogDataSourceOutageAsErrorAfter = logDataSourceOutageAsErrorAfter
	return b
}

// Build is called internally by the client.
func (b *LoggingConfigurationBuilder) Build(clientContext subsystems.ClientContext) (subsystems.LoggingConfiguration, error) {
	return b.config, nil
}

// NoLogging returns a configuration object that disables logging.
//
//	config := aerodata.Config{
//	    Logging: adcomponents.NoLogging(),
//	}
func NoLogging() subsystems.ComponentConfigurer[subsystems.LoggingConfiguration] {
	return noLoggingConfigurationFactory{}
}

type noLoggingConfigurationFactory struct{}

func (f noLoggingConfigurationFactory) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return subsystems.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}, nil
}
