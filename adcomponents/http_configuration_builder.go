package adcomponents

import (
	"net/http"
	"net/url"
	"time"

	"github.com/aerodata/go-aerodata/adhttp"
	"github.com/aerodata/go-aerodata/internal"
	"github.com/aerodata/go-aerodata/subsystems"
)

// DefaultConnectTimeout is the HTTP connection timeout that is used if
// HTTPConfigurationBuilder.ConnectTimeout is not set.
const DefaultConnectTimeout = 10 * time.Second

// HTTPConfigurationBuilder contains methods for configuring the client's networking behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// adcomponents.HTTPConfiguration(), change its properties with the HTTPConfigurationBuilder
// methods, and store it in Config.HTTP:
//
//	config := aerodata.Config{
//	    HTTP: adcomponents.HTTPConfiguration().ConnectTimeout(3 * time.Second),
//	}
type HTTPConfigurationBuilder struct {
	connectTimeout    time.Duration
	httpClientFactory func() *http.Client
	transportOptions  []adhttp.TransportOption
	customHeaders     map[string]string
	userAgent         string
}

// HTTPConfiguration returns a configuration builder for the client's HTTP configuration.
//
// The default configuration uses the system proxy settings (HTTP_PROXY, HTTPS_PROXY, NO_PROXY)
// and a connection timeout of DefaultConnectTimeout.
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{connectTimeout: DefaultConnectTimeout}
}

// CACert specifies a CA certificate to be added to the trusted root CA list for HTTPS requests,
// in PEM format. This would be needed if an upstream endpoint (for instance, the stream of
// another aerodata server behind its own serving edge) uses a certificate that is not signed by
// one of the system's trusted roots.
func (b *HTTPConfigurationBuilder) CACert(certData []byte) *HTTPConfigurationBuilder {
	b.transportOptions = append(b.transportOptions, adhttp.CACertOption(certData))
	return b
}

// CACertFile is equivalent to CACert, but reads the certificate data from a file in PEM format.
func (b *HTTPConfigurationBuilder) CACertFile(filePath string) *HTTPConfigurationBuilder {
	b.transportOptions = append(b.transportOptions, adhttp.CACertFileOption(filePath))
	return b
}

// ConnectTimeout sets the connection timeout. This is the maximum amount of time to wait for each
// HTTP connection to be established; it does not limit how long a response body may take to
// arrive. The default is DefaultConnectTimeout; values less than or equal to zero are set to the
// default.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if connectTimeout <= 0 {
		b.connectTimeout = DefaultConnectTimeout
	} else {
		b.connectTimeout = connectTimeout
	}
	return b
}

// HTTPClientFactory specifies a function for creating each HTTP client instance that the client
// components use.
//
// If you use this option, the other methods of HTTPConfigurationBuilder that affect transport
// behavior (CACert, ConnectTimeout, ProxyURL) are ignored, since you are constructing the client
// yourself. The adntlm package uses this mechanism to route requests through an
// NTLM-authenticated proxy.
func (b *HTTPConfigurationBuilder) HTTPClientFactory(httpClientFactory func() *http.Client) *HTTPConfigurationBuilder {
	b.httpClientFactory = httpClientFactory
	return b
}

// ProxyURL specifies a proxy URL to be used for all requests. This overrides any setting of the
// HTTP_PROXY, HTTPS_PROXY, or NO_PROXY environment variables.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL url.URL) *HTTPConfigurationBuilder {
	b.transportOptions = append(b.transportOptions, adhttp.ProxyOption(proxyURL))
	return b
}

// UserAgent specifies an additional User-Agent header value, appended after the standard
// "AerodataGoClient/<version>" value.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	b.userAgent = userAgent
	return b
}

// Header specifies a custom HTTP header that should be added to all requests. This may be useful
// if requests are routed through a gateway that requires a specific header, such as an
// authorization token for a protected aerodata stream.
func (b *HTTPConfigurationBuilder) Header(name string, value string) *HTTPConfigurationBuilder {
	if b.customHeaders == nil {
		b.customHeaders = make(map[string]string)
	}
	b.customHeaders[name] = value
	return b
}

// Build is called internally by the client.
func (b *HTTPConfigurationBuilder) Build(clientContext subsystems.ClientContext) (subsystems.HTTPConfiguration, error) {
	headers := make(http.Header)
	userAgent := "AerodataGoClient/" + internal.Version
	if b.userAgent != "" {
		userAgent = userAgent + " " + b.userAgent
	}
	headers.Set("User-Agent", userAgent)
	for name, value := range b.customHeaders {
		headers.Set(name, value)
	}

	clientFactory := b.httpClientFactory
	if clientFactory == nil {
		connectTimeout := b.connectTimeout
		allOpts := append([]adhttp.TransportOption{adhttp.ConnectTimeoutOption(connectTimeout)},
			b.transportOptions...)
		// Build the transport once now so that a configuration error, such as an unreadable CA
		// certificate file, is reported here rather than on every request.
		if _, _, err := adhttp.NewHTTPTransport(allOpts...); err != nil {
			return subsystems.HTTPConfiguration{}, err
		}
		clientFactory = func() *http.Client {
			// The overall client timeout covers the whole request; components making long-lived
			// requests, like the stream, reset it to zero and rely on the dialer's timeout.
			client := http.Client{Timeout: connectTimeout}
			if transport, _, err := adhttp.NewHTTPTransport(allOpts...); err == nil {
				client.Transport = transport
			}
			return &client
		}
	}

	return subsystems.HTTPConfiguration{
		DefaultHeaders:   headers,
		CreateHTTPClient: clientFactory,
	}, nil
}
