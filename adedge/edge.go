package adedge

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/net/netutil"
)

const (
	// DefaultHTTPAddress is the listen address of the plain HTTP listener when none is
	// configured.
	DefaultHTTPAddress = ":80"

	// DefaultHTTPSAddress is the listen address of the TLS listener when none is configured.
	DefaultHTTPSAddress = ":443"

	// DefaultBackendURL is the backend base URL when none is configured. It matches the default
	// listen address of cmd/aerodata-server on the same host.
	DefaultBackendURL = "http://127.0.0.1:8090"

	// DefaultCertCacheDir is the directory where certificates and ACME account data are cached
	// when none is configured.
	DefaultCertCacheDir = "./certs"

	// DefaultMaxConnections is the default limit on concurrently accepted connections for each
	// listener.
	DefaultMaxConnections = 1024

	// DefaultReadTimeout is the default maximum duration for reading an incoming request.
	DefaultReadTimeout = 10 * time.Second
)

// Config holds the settings of an Edge. Domain is required unless SelfSigned is set; every other
// field is optional.
type Config struct {
	// Loggers receives the edge's access log and diagnostics.
	Loggers ldlog.Loggers

	// Domain is the public host name served by the edge. The certificate is requested for
	// exactly this name, and TLS handshakes for other names are rejected.
	Domain string

	// ContactEmail is an optional contact address registered with the certificate authority,
	// used for expiration notices and problems with issued certificates.
	ContactEmail string

	// CertCacheDir is the directory where issued certificates and ACME account data are kept
	// across restarts, defaulting to DefaultCertCacheDir.
	CertCacheDir string

	// SelfSigned makes the edge serve an ephemeral self-signed certificate instead of
	// contacting a certificate authority. For development only.
	SelfSigned bool

	// BackendURL is the base URL that requests are proxied to, defaulting to DefaultBackendURL.
	BackendURL string

	// BackendCAFile is the path of an optional PEM file with additional root CAs to trust when
	// BackendURL uses HTTPS.
	BackendCAFile string

	// BackendConnectTimeout is the maximum time to wait for a connection to the backend. Zero
	// means adhttp.DefaultConnectTimeout.
	BackendConnectTimeout time.Duration

	// HTTPAddress is the listen address of the plain HTTP listener, defaulting to
	// DefaultHTTPAddress.
	HTTPAddress string

	// HTTPSAddress is the listen address of the TLS listener, defaulting to
	// DefaultHTTPSAddress.
	HTTPSAddress string

	// MaxConnections is the limit on concurrently accepted connections for each listener,
	// defaulting to DefaultMaxConnections. A negative value removes the limit.
	MaxConnections int

	// ReadTimeout is the maximum duration for reading an incoming request, defaulting to
	// DefaultReadTimeout. A negative value removes the timeout.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing a response. Zero, the default, means no
	// limit; proxied streaming responses stay open until the subscriber disconnects.
	WriteTimeout time.Duration
}

// Edge is the public serving edge. Its two handlers are exported so they can be exercised
// without sockets; Start and Shutdown run them on real listeners.
type Edge struct {
	// Handler is the handler served on the TLS listener: the access-logged reverse proxy to the
	// backend.
	Handler http.Handler

	// RedirectHandler is the handler served on the plain HTTP listener. It answers ACME HTTP-01
	// challenges and permanently redirects everything else to the HTTPS equivalent of the
	// request URL.
	RedirectHandler http.Handler

	loggers      ldlog.Loggers
	tlsConfig    *tls.Config
	httpAddress  string
	httpsAddress string
	maxConns     int
	readTimeout  time.Duration
	writeTimeout time.Duration

	lock          sync.Mutex
	httpServer    *http.Server
	httpsServer   *http.Server
	httpListener  net.Listener
	httpsListener net.Listener
	serveErrCh    chan error
}

// NewEdge validates the configuration and creates an Edge. It does not open any sockets; call
// Start to begin serving.
func NewEdge(config Config) (*Edge, error) {
	if config.Domain == "" && !config.SelfSigned {
		return nil, errors.New("a domain is required unless self-signed mode is enabled")
	}

	backendURL := config.BackendURL
	if backendURL == "" {
		backendURL = DefaultBackendURL
	}
	target, err := url.Parse(backendURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL %q: %w", backendURL, err)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend URL %q: scheme must be http or https", backendURL)
	}

	e := &Edge{
		loggers:      config.Loggers,
		httpAddress:  config.HTTPAddress,
		httpsAddress: config.HTTPSAddress,
		maxConns:     config.MaxConnections,
		readTimeout:  config.ReadTimeout,
		writeTimeout: config.WriteTimeout,
	}
	if e.httpAddress == "" {
		e.httpAddress = DefaultHTTPAddress
	}
	if e.httpsAddress == "" {
		e.httpsAddress = DefaultHTTPSAddress
	}
	if e.maxConns == 0 {
		e.maxConns = DefaultMaxConnections
	}
	if e.readTimeout == 0 {
		e.readTimeout = DefaultReadTimeout
	} else if e.readTimeout < 0 {
		e.readTimeout = 0
	}
	if e.writeTimeout < 0 {
		e.writeTimeout = 0
	}

	proxy, err := newBackendProxy(target, config)
	if err != nil {
		return nil, err
	}
	e.Handler = accessLogHandler(proxy, config.Loggers)

	if config.SelfSigned {
		tlsConfig, err := newSelfSignedTLSConfig(config.Domain)
		if err != nil {
			return nil, fmt.Errorf("unable to generate self-signed certificate: %w", err)
		}
		e.tlsConfig = tlsConfig
		e.RedirectHandler = http.HandlerFunc(redirectToHTTPS)
	} else {
		manager := newCertManager(config)
		e.tlsConfig = manager.TLSConfig()
		e.tlsConfig.MinVersion = tls.VersionTLS12
		e.RedirectHandler = manager.HTTPHandler(http.HandlerFunc(redirectToHTTPS))
	}

	return e, nil
}

// Start binds both listeners and begins serving in the background. If either listener later
// stops for a reason other than Shutdown, the error is delivered on the Errors channel.
func (e *Edge) Start() error {
	httpListener, err := e.listen(e.httpAddress)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", e.httpAddress, err)
	}
	httpsListener, err := e.listen(e.httpsAddress)
	if err != nil {
		_ = httpListener.Close()
		return fmt.Errorf("unable to listen on %s: %w", e.httpsAddress, err)
	}

	e.lock.Lock()
	e.httpListener = httpListener
	e.httpsListener = httpsListener
	e.httpServer = e.newServer(e.RedirectHandler)
	e.httpsServer = e.newServer(e.Handler)
	e.httpsServer.TLSConfig = e.tlsConfig
	e.serveErrCh = make(chan error, 2)
	e.lock.Unlock()

	e.loggers.Infof("Listening for HTTP on %s and HTTPS on %s", httpListener.Addr(), httpsListener.Addr())
	go e.serve(e.httpServer, httpListener, false)
	go e.serve(e.httpsServer, httpsListener, true)
	return nil
}

// Shutdown gracefully stops both listeners, waiting for in-flight requests to finish until ctx
// expires. It is safe to call even if Start was never called or failed.
func (e *Edge) Shutdown(ctx context.Context) error {
	e.lock.Lock()
	httpServer, httpsServer := e.httpServer, e.httpsServer
	e.lock.Unlock()

	var result error
	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			result = err
		}
	}
	if httpsServer != nil {
		if err := httpsServer.Shutdown(ctx); err != nil && result == nil {
			result = err
		}
	}
	return result
}

// Errors returns a channel that receives an error if either listener stops unexpectedly. It
// returns nil until Start has been called.
func (e *Edge) Errors() <-chan error {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.serveErrCh
}

// HTTPAddress returns the actual address of the plain HTTP listener. It is only meaningful
// after Start, and differs from the configured address when that address used port zero.
func (e *Edge) HTTPAddress() string {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.httpListener == nil {
		return ""
	}
	return e.httpListener.Addr().String()
}

// HTTPSAddress returns the actual address of the TLS listener. It is only meaningful after
// Start, and differs from the configured address when that address used port zero.
func (e *Edge) HTTPSAddress() string {
	e.lock.Lock()
	defer e.lock.Unlock()
	if e.httpsListener == nil {
		return ""
	}
	return e.httpsListener.Addr().String()
}

func (e *Edge) listen(address string) (net.Listener, error) {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	if e.maxConns > 0 {
		listener = netutil.LimitListener(listener, e.maxConns)
	}
	return listener, nil
}

func (e *Edge) newServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:      handler,
		ReadTimeout:  e.readTimeout,
		WriteTimeout: e.writeTimeout,
	}
}

// serve runs until the listener is closed. ServeTLS rather than a tls.Listener plus Serve, so
// that the standard library's automatic HTTP/2 setup matches the protocols the certificate
// manager advertises in ALPN.
func (e *Edge) serve(server *http.Server, listener net.Listener, useTLS bool) {
	var err error
	if useTLS {
		err = server.ServeTLS(listener, "", "")
	} else {
		err = server.Serve(listener)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.loggers.Errorf("Listener on %s failed: %s", listener.Addr(), err)
		e.serveErrCh <- err
	}
}

// redirectToHTTPS sends a permanent redirect to the HTTPS equivalent of the request URL. ACME
// challenge requests never reach it; the certificate manager's handler intercepts those first.
func redirectToHTTPS(w http.ResponseWriter, r *http.Request) {
	host := r.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
		if strings.Contains(host, ":") { // put the brackets back on an IPv6 address
			host = "[" + host + "]"
		}
	}
	http.Redirect(w, r, "https://"+host+r.URL.RequestURI(), http.StatusMovedPermanently)
}
