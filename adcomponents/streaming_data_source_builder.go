package adcomponents

import (
	"time"

	"github.com/aerodata/go-aerodata/internal/datasource"
	"github.com/aerodata/go-aerodata/internal/endpoints"
	"github.com/aerodata/go-aerodata/subsystems"
)

// DefaultInitialReconnectDelay is the default value for StreamingDataSourceBuilder.InitialReconnectDelay.
const DefaultInitialReconnectDelay = time.Second

// StreamingDataSourceBuilder provides methods for configuring the streaming data source.
//
// See StreamingDataSource for usage.
type StreamingDataSourceBuilder struct {
	baseURI               string
	initialReconnectDelay time.Duration
}

// StreamingDataSource returns a configurable factory for using streaming mode to get aerodrome data.
//
// Streaming is not the default behavior; by default, the client polls the FAA services directly.
// In streaming mode, the client instead subscribes to the server-sent event feed of another
// aerodata server and mirrors its data set, receiving a new copy whenever the upstream server
// completes a refresh. This is how replica servers stay current without each one downloading the
// FAA datasets itself.
//
// To use streaming mode, create a builder with StreamingDataSource(), set the stream's base URI
// either here or in Config.DataEndpoints, and store the builder in the DataSource field of your
// client configuration:
//
//	config := aerodata.Config{
//	    DataSource: adcomponents.StreamingDataSource().BaseURI("http://primary:8090"),
//	}
func StreamingDataSource() *StreamingDataSourceBuilder {
	return &StreamingDataSourceBuilder{
		initialReconnectDelay: DefaultInitialReconnectDelay,
	}
}

// BaseURI sets the base URI of the aerodata server to stream from, overriding any value set in
// Config.DataEndpoints. There is no default; a streaming data source with no base URI fails at
// startup.
func (b *StreamingDataSourceBuilder) BaseURI(baseURI string) *StreamingDataSourceBuilder {
	b.baseURI = baseURI
	return b
}

// InitialReconnectDelay sets the initial reconnect delay for the streaming connection.
//
// The streaming service uses a backoff algorithm (with jitter) every time the connection needs to be
// reestablished. The delay for the first reconnection will start near this value, and then increase
// exponentially for any subsequent connection failures.
//
// The default value is DefaultInitialReconnectDelay.
func (b *StreamingDataSourceBuilder) InitialReconnectDelay(
	initialReconnectDelay time.Duration,
) *StreamingDataSourceBuilder {
	if initialReconnectDelay <= 0 {
		b.initialReconnectDelay = DefaultInitialReconnectDelay
	} else {
		b.initialReconnectDelay = initialReconnectDelay
	}
	return b
}

// Build is called internally by the client to create the data source instance.
func (b *StreamingDataSourceBuilder) Build(context subsystems.ClientContext) (subsystems.DataSource, error) {
	cfg := datasource.StreamConfig{
		URI: endpoints.SelectURI(
			context.GetDataEndpoints(), endpoints.StreamingService, b.baseURI),
		InitialReconnectDelay: b.initialReconnectDelay,
	}
	return datasource.NewStreamProcessor(context, context.GetDataSourceUpdateSink(), cfg), nil
}
