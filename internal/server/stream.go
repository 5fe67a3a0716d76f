package server

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/launchdarkly/eventsource"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	aerodata "github.com/aerodata/go-aerodata"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/datakinds"
)

const streamChannelID = "aerodromes"

// putEvent is the SSE event carrying a complete data set document. The event ID is the data
// version, so it doubles as the Last-Event-ID on reconnects; since every connection replays the
// full current data set anyway, the ID is informational only.
type putEvent struct {
	version int
	data    []byte
}

func (e *putEvent) Id() string    { return strconv.Itoa(e.version) } //nolint:revive // standard eventsource.Event method
func (e *putEvent) Event() string { return "put" }
func (e *putEvent) Data() string  { return string(e.data) }

// streamHandler serves the /aerodromes/stream endpoint. Each new connection replays a "put"
// event containing the full current data set, and a background goroutine publishes a new "put"
// whenever the client stores an update. Comment heartbeats keep idle connections distinguishable
// from dead ones.
type streamHandler struct {
	client    *aerodata.Client
	loggers   ldlog.Loggers
	esserver  *eventsource.Server
	updatesCh <-chan interfaces.DataUpdateEvent
	halt      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newStreamHandler(
	client *aerodata.Client,
	loggers ldlog.Loggers,
	heartbeatInterval time.Duration,
) *streamHandler {
	sh := &streamHandler{
		client:    client,
		loggers:   loggers,
		updatesCh: client.GetDataUpdateTracker().AddUpdateListener(),
		halt:      make(chan struct{}),
		done:      make(chan struct{}),
	}

	esserver := eventsource.NewServer()
	esserver.ReplayAll = true
	esserver.Register(streamChannelID, sh)
	sh.esserver = esserver

	go sh.run(heartbeatInterval)

	return sh
}

//nolint:revive // no doc comment for standard method
func (sh *streamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sh.esserver.Handler(streamChannelID).ServeHTTP(w, r)
}

// Replay implements eventsource.Repository: it supplies the initial event for a new stream
// connection. The eventsource server calls this from its run loop, so the data set snapshot is
// taken on a separate goroutine and the channel is closed when done.
func (sh *streamHandler) Replay(channel, id string) chan eventsource.Event {
	out := make(chan eventsource.Event, 1)
	go func() {
		defer close(out)
		if event := sh.makePutEvent(); event != nil {
			out <- event
		}
	}()
	return out
}

// makePutEvent builds a "put" event from the current data set, or returns nil if no data set is
// available yet. A subscriber that connected before initialization receives its first "put"
// when the data source stores one.
func (sh *streamHandler) makePutEvent() eventsource.Event {
	version := sh.client.GetDataUpdateTracker().DataVersion()
	allData, err := sh.client.AllData()
	if err != nil {
		sh.loggers.Warnf("Stream connection opened before aerodrome data is available (%s)", err)
		return nil
	}
	data, err := datakinds.WriteAllDataDocument(datakinds.AllDataDocument{Version: version, Data: allData})
	if err != nil {
		sh.loggers.Errorf("Unable to serialize aerodrome data for streaming: %s", err)
		return nil
	}
	return &putEvent{version: version, data: data}
}

func (sh *streamHandler) run(heartbeatInterval time.Duration) {
	defer close(sh.done)
	heartbeats := time.NewTicker(heartbeatInterval)
	defer heartbeats.Stop()
	for {
		select {
		case update, ok := <-sh.updatesCh:
			if !ok {
				return
			}
			if event := sh.makePutEvent(); event != nil {
				sh.loggers.Debugf("Aerodrome data updated to version %d; publishing to stream subscribers",
					update.Version)
				sh.esserver.Publish([]string{streamChannelID}, event)
			}
		case <-heartbeats.C:
			sh.esserver.PublishComment([]string{streamChannelID}, "")
		case <-sh.halt:
			return
		}
	}
}

// Close stops the publisher goroutine and disconnects all subscribers.
func (sh *streamHandler) Close() {
	sh.closeOnce.Do(func() {
		sh.client.GetDataUpdateTracker().RemoveUpdateListener(sh.updatesCh)
		close(sh.halt)
		<-sh.done
		sh.esserver.Close()
	})
}
