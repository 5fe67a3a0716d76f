// Command aerodata-edge runs the public serving edge: a TLS-terminating reverse proxy in front
// of an aerodata-server instance.
//
// It listens on :80 and :443. Plain HTTP requests are answered with ACME challenges or a
// permanent redirect to HTTPS; TLS requests are proxied to the backend server. Certificates come
// from Let's Encrypt and are renewed in the background, or from an ephemeral self-signed
// certificate in development. Every flag can also be set through the AERODATA_* environment
// variable named in its description; flags take precedence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/aerodata/go-aerodata/adedge"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		domain = flag.String("domain", getenv("AERODATA_DOMAIN", ""),
			"public host name to obtain a certificate for (AERODATA_DOMAIN)")
		contactEmail = flag.String("email", getenv("AERODATA_CONTACT_EMAIL", ""),
			"contact address registered with the certificate authority (AERODATA_CONTACT_EMAIL)")
		certDir = flag.String("cert-dir", getenv("AERODATA_CERT_DIR", adedge.DefaultCertCacheDir),
			"directory for cached certificates and ACME account data (AERODATA_CERT_DIR)")
		selfSigned = flag.Bool("self-signed", boolEnv("AERODATA_SELF_SIGNED"),
			"serve a self-signed certificate instead of using a certificate authority (AERODATA_SELF_SIGNED)")
		backendURL = flag.String("backend", getenv("AERODATA_BACKEND_URL", adedge.DefaultBackendURL),
			"base URL of the aerodata-server instance to proxy to (AERODATA_BACKEND_URL)")
		backendCAFile = flag.String("backend-ca-file", getenv("AERODATA_BACKEND_CA_FILE", ""),
			"PEM file with additional root CAs to trust for an HTTPS backend (AERODATA_BACKEND_CA_FILE)")
		httpAddr = flag.String("http-addr", getenv("AERODATA_HTTP_ADDR", adedge.DefaultHTTPAddress),
			"listen address of the plain HTTP listener (AERODATA_HTTP_ADDR)")
		httpsAddr = flag.String("https-addr", getenv("AERODATA_HTTPS_ADDR", adedge.DefaultHTTPSAddress),
			"listen address of the TLS listener (AERODATA_HTTPS_ADDR)")
		maxConnections = flag.Int("max-connections", intEnv("AERODATA_MAX_CONNECTIONS", adedge.DefaultMaxConnections),
			"limit on concurrently accepted connections per listener (AERODATA_MAX_CONNECTIONS)")
		logLevel = flag.String("log-level", getenv("AERODATA_LOG_LEVEL", "info"),
			"log level: debug, info, warn, or error (AERODATA_LOG_LEVEL)")
	)
	flag.Parse()

	loggers := ldlog.NewDefaultLoggers()
	loggers.SetMinLevel(logLevelFromName(*logLevel))

	edge, err := adedge.NewEdge(adedge.Config{
		Loggers:        loggers,
		Domain:         *domain,
		ContactEmail:   *contactEmail,
		CertCacheDir:   *certDir,
		SelfSigned:     *selfSigned,
		BackendURL:     *backendURL,
		BackendCAFile:  *backendCAFile,
		HTTPAddress:    *httpAddr,
		HTTPSAddress:   *httpsAddr,
		MaxConnections: *maxConnections,
	})
	if err != nil {
		loggers.Errorf("Invalid configuration: %s", err)
		os.Exit(2)
	}

	if err := edge.Start(); err != nil {
		loggers.Errorf("Unable to start: %s", err)
		os.Exit(1)
	}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-edge.Errors():
		loggers.Errorf("Edge failed: %s", err)
		os.Exit(1)
	case sig := <-signalCh:
		loggers.Infof("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := edge.Shutdown(ctx); err != nil {
		loggers.Warnf("Shutdown did not complete cleanly: %s", err)
	}
}

// getenv returns the value of the environment variable, or the default if it is not set.
func getenv(envVar, defaultVal string) string {
	ret := os.Getenv(envVar)
	if len(ret) == 0 {
		return defaultVal
	}
	return ret
}

func boolEnv(envVar string) bool {
	value := os.Getenv(envVar)
	if value == "" {
		return false
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid value %q for %s: %s\n", value, envVar, err)
		os.Exit(2)
	}
	return b
}

func intEnv(envVar string, defaultVal int) int {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid value %q for %s: %s\n", value, envVar, err)
		os.Exit(2)
	}
	return n
}

func logLevelFromName(name string) ldlog.LogLevel {
	switch strings.ToLower(name) {
	case "debug":
		return ldlog.Debug
	case "info":
		return ldlog.Info
	case "warn":
		return ldlog.Warn
	case "error":
		return ldlog.Error
	}
	return ldlog.Info
}
