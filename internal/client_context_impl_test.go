package internal

import (
	"net/http"
	"testing"

	"github.com/aerodata/go-aerodata/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/stretchr/testify/assert"
)

func TestClientContextImpl(t *testing.T) {
	httpConfig := subsystems.HTTPConfiguration{DefaultHeaders: make(http.Header)}
	loggingConfig := subsystems.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}

	context := &ClientContextImpl{subsystems.BasicClientContext{
		HTTP:    httpConfig,
		Logging: loggingConfig,
	}}
	assert.False(t, context.GetOffline())
	assert.Equal(t, httpConfig.DefaultHeaders, context.GetHTTP().DefaultHeaders)
	assert.NotNil(t, context.GetHTTP().CreateHTTPClient)
	assert.Equal(t, loggingConfig, context.GetLogging())
}
