package adedge

import (
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
)

func TestBackendProxySetsForwardingHeaders(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Echo-Host", r.Host)
		w.Header().Set("Echo-Forwarded-Host", r.Header.Get("X-Forwarded-Host"))
		w.Header().Set("Echo-Forwarded-Proto", r.Header.Get("X-Forwarded-Proto"))
		w.Header().Set("Echo-Forwarded-For", r.Header.Get("X-Forwarded-For"))
		w.Header().Set("Echo-Uri", r.URL.RequestURI())
		_, _ = w.Write([]byte("ok"))
	}))
	defer backend.Close()

	target, err := url.Parse(backend.URL)
	require.NoError(t, err)
	proxy, err := newBackendProxy(target, Config{})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "https://aerodata.example.com/aerodromes?country=US", nil)
	w := httptest.NewRecorder()
	proxy.ServeHTTP(w, r)

	header := w.Result().Header
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "aerodata.example.com", header.Get("Echo-Host"))
	assert.Equal(t, "aerodata.example.com", header.Get("Echo-Forwarded-Host"))
	assert.Equal(t, "https", header.Get("Echo-Forwarded-Proto"))
	assert.Equal(t, "192.0.2.1", header.Get("Echo-Forwarded-For"))
	assert.Equal(t, "/aerodromes?country=US", header.Get("Echo-Uri"))
}

func TestBackendProxyReturnsBadGatewayWhenBackendIsUnreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	deadAddr := listener.Addr().String()
	require.NoError(t, listener.Close())

	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)
	target, err := url.Parse("http://" + deadAddr)
	require.NoError(t, err)
	proxy, err := newBackendProxy(target, Config{Loggers: mockLog.Loggers, BackendConnectTimeout: time.Second})
	require.NoError(t, err)

	r := httptest.NewRequest("GET", "https://aerodata.example.com/aerodromes", nil)
	w := httptest.NewRecorder()
	proxy.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Bad gateway", w.Body.String())
	mockLog.AssertMessageMatch(t, true, ldlog.Error, "Backend request for /aerodromes failed")
}

func TestBackendProxyRejectsUnreadableCAFile(t *testing.T) {
	target, err := url.Parse("https://127.0.0.1:9")
	require.NoError(t, err)

	_, err = newBackendProxy(target, Config{BackendCAFile: filepath.Join(t.TempDir(), "missing.pem")})
	assert.Error(t, err)
}

func TestAccessLogHandlerRecordsOutcome(t *testing.T) {
	mockLog := ldlogtest.NewMockLog()
	defer mockLog.DumpIfTestFailed(t)

	handler := accessLogHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}), mockLog.Loggers)
	r := httptest.NewRequest("GET", "https://aerodata.example.com/aerodromes?country=US", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	mockLog.AssertMessageMatch(t, true, ldlog.Info, `192\.0\.2\.1 GET /aerodromes\?country=US -> 200`)

	handler = accessLogHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}), mockLog.Loggers)
	r = httptest.NewRequest("GET", "https://aerodata.example.com/nosuch", nil)
	handler.ServeHTTP(httptest.NewRecorder(), r)
	mockLog.AssertMessageMatch(t, true, ldlog.Info, `192\.0\.2\.1 GET /nosuch -> 404`)
}
