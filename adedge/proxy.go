package adedge

import (
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/aerodata/go-aerodata/adhttp"
)

// newBackendProxy creates the reverse proxy that forwards requests from the TLS listener to the
// backend server. An unreachable backend produces a 502 response rather than a dropped
// connection, and the underlying error goes to the log instead of to the caller.
func newBackendProxy(target *url.URL, config Config) (http.Handler, error) {
	var transportOptions []adhttp.TransportOption
	if config.BackendCAFile != "" {
		transportOptions = append(transportOptions, adhttp.CACertFileOption(config.BackendCAFile))
	}
	if config.BackendConnectTimeout > 0 {
		transportOptions = append(transportOptions, adhttp.ConnectTimeoutOption(config.BackendConnectTimeout))
	}
	transport, _, err := adhttp.NewHTTPTransport(transportOptions...)
	if err != nil {
		return nil, err
	}

	loggers := config.Loggers
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = transport
	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		// The Host header passes through unchanged; these tell the backend how the request
		// arrived at the edge.
		r.Header.Set("X-Forwarded-Host", r.Host)
		r.Header.Set("X-Forwarded-Proto", "https")
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		loggers.Errorf("Backend request for %s failed: %s", r.URL.Path, err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("Bad gateway"))
	}
	return proxy, nil
}

// accessLogHandler wraps a handler so that every request is logged at Info level with its
// outcome, in the manner of a conventional web server access log. For proxied streaming
// responses the line is written when the subscriber disconnects.
func accessLogHandler(handler http.Handler, loggers ldlog.Loggers) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()
		wrapped := &accessLogResponseWriter{ResponseWriter: w, status: http.StatusOK}
		handler.ServeHTTP(wrapped, r)
		loggers.Infof("%s %s %s -> %d (%s)", clientIP(r), r.Method, r.URL.RequestURI(), wrapped.status,
			time.Since(startTime))
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// accessLogResponseWriter records the response status for the access log. It forwards Flush so
// that the proxy can deliver streaming responses incrementally.
type accessLogResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *accessLogResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

//nolint:revive // no doc comment for standard method
func (w *accessLogResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
