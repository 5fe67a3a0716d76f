package sharedtest

import "github.com/aerodata/go-aerodata/subsystems"

// SingleComponentConfigurer is a test implementation of ComponentConfigurer that always returns the same
// pre-existing instance.
type SingleComponentConfigurer[T any] struct {
	Instance T
}

func (c SingleComponentConfigurer[T]) Build(context subsystems.ClientContext) (T, error) { //nolint:revive
	return c.Instance, nil
}

// ComponentConfigurerThatReturnsError is a test implementation of ComponentConfigurer that always returns
// an error.
type ComponentConfigurerThatReturnsError[T any] struct {
	Err error
}

func (c ComponentConfigurerThatReturnsError[T]) Build(context subsystems.ClientContext) (T, error) { //nolint:revive
	var empty T
	return empty, c.Err
}

// ComponentConfigurerThatCapturesClientContext is a test decorator for a ComponentConfigurer that allows
// tests to see the ClientContext that was passed to it.
type ComponentConfigurerThatCapturesClientContext[T any] struct {
	Configurer            subsystems.ComponentConfigurer[T]
	ReceivedClientContext subsystems.ClientContext
}

func (c *ComponentConfigurerThatCapturesClientContext[T]) Build( //nolint:revive
	clientContext subsystems.ClientContext,
) (T, error) {
	c.ReceivedClientContext = clientContext
	return c.Configurer.Build(clientContext)
}

// DataStoreFactoryThatExposesUpdater is a test decorator for a data store ComponentConfigurer
// that captures the DataStoreUpdateSink the client passes to the underlying factory, so tests
// can simulate store status changes.
type DataStoreFactoryThatExposesUpdater struct {
	UnderlyingFactory   subsystems.ComponentConfigurer[subsystems.DataStore]
	DataStoreUpdateSink subsystems.DataStoreUpdateSink
}

func (f *DataStoreFactoryThatExposesUpdater) Build( //nolint:revive
	context subsystems.ClientContext,
) (subsystems.DataStore, error) {
	f.DataStoreUpdateSink = context.GetDataStoreUpdateSink()
	return f.UnderlyingFactory.Build(context)
}
