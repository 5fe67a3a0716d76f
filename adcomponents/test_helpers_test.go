package adcomponents

import (
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/sharedtest"
	"github.com/aerodata/go-aerodata/subsystems"
)

func basicClientContext() subsystems.ClientContext {
	return sharedtest.NewSimpleTestContext()
}

// Returns a basic context with the specified data endpoint configuration.
func makeTestContextWithDataEndpoints(endpoints interfaces.DataEndpoints) subsystems.BasicClientContext {
	context := sharedtest.NewTestContext(nil, nil)
	context.DataEndpoints = endpoints
	return context
}
