package server

import (
	"net/http"
	"time"

	aerodata "github.com/aerodata/go-aerodata"
)

// requestsMiddleware wraps every route with request logging, the version response header, and
// panic recovery. For the streaming route the completion log line is written when the
// connection ends, which may be much later than the request started.
func (s *Server) requestsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.loggers.Debugf("%s %s", r.Method, r.URL.RequestURI())
		startTime := time.Now()
		wrapped := &statusCapturingResponseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.loggers.Errorf("Recovered from panic handling %s %s: %+v", r.Method, r.URL.Path, p)
				if !wrapped.wroteHeader {
					wrapped.WriteHeader(http.StatusInternalServerError)
				}
			}
			s.loggers.Debugf("%s %s -> %d (%s)", r.Method, r.URL.RequestURI(), wrapped.status,
				time.Since(startTime))
		}()

		wrapped.Header().Set("X-Aerodata-Version", aerodata.Version)
		next.ServeHTTP(wrapped, r)
	})
}

// statusCapturingResponseWriter records the response status for the request log. It forwards
// Flush and CloseNotify because the eventsource server requires them from the underlying
// ResponseWriter.
type statusCapturingResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusCapturingResponseWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusCapturingResponseWriter) Write(data []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(data)
}

//nolint:revive // no doc comment for standard method
func (w *statusCapturingResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// CloseNotifier is deprecated but the eventsource server still relies on it.
func (w *statusCapturingResponseWriter) CloseNotify() <-chan bool { //nolint:megacheck
	if cn, ok := w.ResponseWriter.(http.CloseNotifier); ok { //nolint:megacheck
		return cn.CloseNotify()
	}
	return make(chan bool)
}
