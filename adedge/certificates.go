package adedge

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

// newCertManager creates the ACME manager that obtains and renews the edge's certificate. The
// manager stores certificates and account data in the cache directory so restarts reuse them,
// and renews in the background while the edge is serving; HTTP-01 challenges are answered by
// the handler it wraps around RedirectHandler.
func newCertManager(config Config) *autocert.Manager {
	cacheDir := config.CertCacheDir
	if cacheDir == "" {
		cacheDir = DefaultCertCacheDir
	}
	return &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(cacheDir),
		HostPolicy: autocert.HostWhitelist(config.Domain),
		Email:      config.ContactEmail,
	}
}

// newSelfSignedTLSConfig generates an ephemeral certificate for the given host and returns a
// TLS configuration serving it. Nothing is written to disk; a new certificate is generated on
// every start. If host is empty the certificate covers localhost and the loopback addresses.
func newSelfSignedTLSConfig(host string) (*tls.Config, error) {
	hosts := []string{"localhost", "127.0.0.1", "::1"}
	if host != "" {
		hosts = []string{host}
	}
	certificate, err := newSelfSignedCertificate(hosts)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

func newSelfSignedCertificate(hosts []string) (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}
	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return tls.Certificate{}, err
	}
	now := time.Now()
	template := x509.Certificate{
		SerialNumber:          serialNumber,
		Subject:               pkix.Name{Organization: []string{"aerodata development"}},
		NotBefore:             now.Add(-time.Hour), // tolerate clock skew between edge and client
		NotAfter:              now.Add(365 * 24 * time.Hour),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}
	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{Certificate: [][]byte{derBytes}, PrivateKey: key}, nil
}
