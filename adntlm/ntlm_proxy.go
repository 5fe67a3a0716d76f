// Package adntlm allows you to configure the client to connect to the FAA data services through a
// proxy server that uses NTLM authentication. The standard Go HTTP client proxy mechanism does not
// support this. The implementation uses this package: github.com/launchdarkly/go-ntlm-proxy-auth
//
// See NewNTLMProxyHTTPClientFactory for more details.
package adntlm

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	ntlm "github.com/launchdarkly/go-ntlm-proxy-auth"

	"github.com/aerodata/go-aerodata/adhttp"
)

// NewNTLMProxyHTTPClientFactory returns a factory function for creating an HTTP client that will
// connect through an NTLM-authenticated proxy server.
//
// To use this with the client, pass the returned function to the HTTPClientFactory method of
// adcomponents.HTTPConfigurationBuilder:
//
//	clientFactory, err := adntlm.NewNTLMProxyHTTPClientFactory("http://my-proxy.com", "username",
//	    "password", "domain")
//	if err != nil {
//	    // there's some configuration problem such as an invalid proxy URL
//	}
//	config := aerodata.Config{
//	    HTTP: adcomponents.HTTPConfiguration().HTTPClientFactory(clientFactory),
//	}
//	client, err := aerodata.MakeCustomClient(config, 5*time.Second)
//
// You can also specify TLS configuration options from the adhttp package, if you are connecting to
// the proxy securely:
//
//	clientFactory, err := adntlm.NewNTLMProxyHTTPClientFactory("http://my-proxy.com", "username",
//	    "password", "domain", adhttp.CACertFileOption("extra-ca-cert.pem"))
func NewNTLMProxyHTTPClientFactory(proxyURL, username, password, ntlmDomain string,
	options ...adhttp.TransportOption) (func() *http.Client, error) {
	if proxyURL == "" || username == "" || password == "" {
		return nil, errors.New("ProxyURL, username, and password are required")
	}
	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %s: %s", proxyURL, err)
	}
	// Try creating a transport with these options just to make sure it's valid before we get any farther
	if _, _, err := adhttp.NewHTTPTransport(options...); err != nil {
		return nil, err
	}
	return func() *http.Client {
		client := *http.DefaultClient
		// Can assume no error here since we already validated the options above
		transport, dialer, _ := adhttp.NewHTTPTransport(options...)
		transport.DialContext = ntlm.NewNTLMProxyDialContext(dialer, *parsedProxyURL,
			username, password, ntlmDomain, transport.TLSClientConfig)
		client.Transport = transport
		return &client
	}, nil
}
