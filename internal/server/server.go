package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	aerodata "github.com/aerodata/go-aerodata"
	"github.com/aerodata/go-aerodata/adquery"
)

const (
	// DefaultAddress is the listen address that cmd/aerodata-server binds when none is configured.
	DefaultAddress = ":8090"

	// DefaultHeartbeatInterval is the default interval between comment heartbeats on the streaming
	// endpoint. Replicating clients use a read timeout somewhat longer than this to detect a dead
	// connection.
	DefaultHeartbeatInterval = 3 * time.Minute

	// DefaultQueryCacheSize is the default maximum number of query responses held in the
	// in-memory cache.
	DefaultQueryCacheSize = 500

	// DefaultQueryCacheTTL is the default time after which a cached query response is discarded
	// even if the data version has not changed.
	DefaultQueryCacheTTL = 5 * time.Minute
)

// Config holds the optional settings of a Server. The zero value is a valid configuration.
type Config struct {
	// Loggers receives the server's request logging and streaming diagnostics.
	Loggers ldlog.Loggers

	// HeartbeatInterval is the interval between comment heartbeats on the streaming endpoint,
	// defaulting to DefaultHeartbeatInterval.
	HeartbeatInterval time.Duration

	// QueryCacheSize is the maximum number of query responses held in the in-memory cache,
	// defaulting to DefaultQueryCacheSize. A negative value disables the cache.
	QueryCacheSize int

	// QueryCacheTTL is the time after which a cached query response is discarded, defaulting to
	// DefaultQueryCacheTTL.
	QueryCacheTTL time.Duration
}

// Server is the aerodata query server. It answers aerodrome feature queries from the client's
// data store, reports the client's status, and publishes the data set as a server-sent event
// stream for replica instances.
//
// Server provides an http.Handler; it does not listen on a socket itself. The caller remains
// responsible for the client's lifecycle, but must call Close to stop the server's background
// stream publishing when it is done.
type Server struct {
	// Handler serves all of the server's routes. It is ready as soon as NewServer returns.
	Handler http.Handler

	client     *aerodata.Client
	loggers    ldlog.Loggers
	stream     *streamHandler
	queryCache *queryCache
}

// StatusDataRep is the JSON representation returned by the /status/data endpoint.
type StatusDataRep struct {
	State       string          `json:"state"`
	StateSince  time.Time       `json:"stateSince"`
	LastError   *StatusErrorRep `json:"lastError,omitempty"`
	DataVersion int             `json:"dataVersion"`
	Initialized bool            `json:"initialized"`
}

// StatusErrorRep is the JSON representation of a data source error in StatusDataRep.
type StatusErrorRep struct {
	Kind       string    `json:"kind"`
	StatusCode int       `json:"statusCode,omitempty"`
	Message    string    `json:"message,omitempty"`
	Time       time.Time `json:"time"`
}

// NewServer creates a Server that answers queries from the given client.
//
// The client may still be initializing; queries return an error status until a data set is
// available. NewServer starts a background goroutine that watches the client for data updates
// and republishes the data set to stream subscribers, so the Server must be closed when no
// longer in use. Closing the Server does not close the client.
func NewServer(client *aerodata.Client, config Config) *Server {
	s := &Server{
		client:  client,
		loggers: config.Loggers,
	}

	heartbeatInterval := config.HeartbeatInterval
	if heartbeatInterval <= 0 {
		heartbeatInterval = DefaultHeartbeatInterval
	}
	s.stream = newStreamHandler(client, s.loggers, heartbeatInterval)

	if config.QueryCacheSize >= 0 {
		cacheSize := config.QueryCacheSize
		if cacheSize == 0 {
			cacheSize = DefaultQueryCacheSize
		}
		cacheTTL := config.QueryCacheTTL
		if cacheTTL <= 0 {
			cacheTTL = DefaultQueryCacheTTL
		}
		s.queryCache = newQueryCache(cacheSize, cacheTTL)
	}

	router := mux.NewRouter()
	router.Use(s.requestsMiddleware)
	router.HandleFunc("/aerodromes", s.getAerodromes).Methods("GET")
	router.Handle("/aerodromes/stream", s.stream).Methods("GET")
	router.HandleFunc("/status", s.getStatus).Methods("GET")
	router.HandleFunc("/status/data", s.getStatusData).Methods("GET")
	s.Handler = router

	return s
}

// Close stops the stream publisher and releases the query cache. Active stream connections are
// disconnected. Close does not close the underlying client.
func (s *Server) Close() error {
	s.stream.Close()
	if s.queryCache != nil {
		s.queryCache.Close()
	}
	return nil
}

func (s *Server) getAerodromes(w http.ResponseWriter, r *http.Request) {
	params, err := adquery.ParseParams(r.URL.Query())
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Error parsing query parameters", err)
		return
	}

	data, err := s.featuresJSON(r.URL.Query(), params)
	if err != nil {
		var paramErr adquery.ParamError
		switch {
		case errors.Is(err, aerodata.ErrClientNotInitialized):
			writeErrorResponse(w, http.StatusServiceUnavailable, "Error fetching features from source", err)
		case errors.As(err, &paramErr):
			writeErrorResponse(w, http.StatusBadRequest, "Error selecting features", err)
		default:
			writeErrorResponse(w, http.StatusInternalServerError, "Error processing source data", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

// featuresJSON returns the serialized feature collection for a query, preferring the cached
// response when one exists for the same canonical query at the current data version. Version
// bumps change the cache key, so stale entries are never served; they simply age out.
func (s *Server) featuresJSON(query url.Values, params adquery.Params) ([]byte, error) {
	compute := func() ([]byte, error) {
		features, err := s.client.Features(params)
		if err != nil {
			return nil, err
		}
		return features.MarshalJSON()
	}
	if s.queryCache == nil {
		return compute()
	}
	cacheKey := strconv.Itoa(s.client.GetDataUpdateTracker().DataVersion()) + "?" + query.Encode()
	return s.queryCache.Get(cacheKey, compute)
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Ok\n"))
}

func (s *Server) getStatusData(w http.ResponseWriter, r *http.Request) {
	status := s.client.GetDataSourceStatusProvider().GetStatus()
	rep := StatusDataRep{
		State:       string(status.State),
		StateSince:  status.StateSince,
		DataVersion: s.client.GetDataUpdateTracker().DataVersion(),
		Initialized: s.client.Initialized(),
	}
	if status.LastError.Kind != "" {
		rep.LastError = &StatusErrorRep{
			Kind:       string(status.LastError.Kind),
			StatusCode: status.LastError.StatusCode,
			Message:    status.LastError.Message,
			Time:       status.LastError.Time,
		}
	}
	writeJSONResponse(w, rep)
}

func writeJSONResponse(w http.ResponseWriter, rep interface{}) {
	data, _ := json.Marshal(rep)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func writeErrorResponse(w http.ResponseWriter, status int, context string, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "%s: %s", context, err)
}
