// Command aerodata-server runs the aerodata query server: an HTTP service that keeps an
// up-to-date aerodrome data set and answers feature queries against it.
//
// By default it polls the FAA endpoints and holds the data in memory. Command line flags select
// other data sources: local data files (with optional reloading when they change), the update
// stream of another aerodata-server instance, or offline mode. Every flag can also be set
// through the AERODATA_* environment variable named in its description; flags take precedence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	aerodata "github.com/aerodata/go-aerodata"
	"github.com/aerodata/go-aerodata/adcomponents"
	"github.com/aerodata/go-aerodata/adfiledata"
	"github.com/aerodata/go-aerodata/adfilewatch"
	"github.com/aerodata/go-aerodata/interfaces"
	"github.com/aerodata/go-aerodata/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var (
		addr = flag.String("addr", getenv("AERODATA_ADDR", server.DefaultAddress),
			"listen address (AERODATA_ADDR)")
		logLevel = flag.String("log-level", getenv("AERODATA_LOG_LEVEL", "info"),
			"log level: debug, info, warn, or error (AERODATA_LOG_LEVEL)")
		pollInterval = flag.Duration("poll-interval", durationEnv("AERODATA_POLL_INTERVAL", adcomponents.DefaultPollInterval),
			"interval between polls of the FAA endpoints (AERODATA_POLL_INTERVAL)")
		cacheDir = flag.String("cache-dir", getenv("AERODATA_CACHE_DIR", adcomponents.DefaultCacheDir),
			"directory for cached copies of the FAA source files (AERODATA_CACHE_DIR)")
		airportsURI = flag.String("airports-uri", getenv("AERODATA_AIRPORTS_URI", ""),
			"override the FAA airports dataset URI (AERODATA_AIRPORTS_URI)")
		runwaysURI = flag.String("runways-uri", getenv("AERODATA_RUNWAYS_URI", ""),
			"override the FAA runways dataset URI (AERODATA_RUNWAYS_URI)")
		dataFiles = flag.String("data-files", getenv("AERODATA_DATA_FILES", ""),
			"comma-separated data files to load instead of polling (AERODATA_DATA_FILES)")
		watch = flag.Bool("watch", boolEnv("AERODATA_WATCH"),
			"reload the data files when they change (AERODATA_WATCH)")
		streamURI = flag.String("stream-uri", getenv("AERODATA_STREAM_URI", ""),
			"follow the update stream of a primary instance instead of polling (AERODATA_STREAM_URI)")
		storeFile = flag.String("store-file", getenv("AERODATA_STORE_FILE", ""),
			"persist the data set to this file so it survives restarts (AERODATA_STORE_FILE)")
		offline = flag.Bool("offline", boolEnv("AERODATA_OFFLINE"),
			"make no external connections; serve whatever the store already has (AERODATA_OFFLINE)")
		initTimeout = flag.Duration("init-timeout", durationEnv("AERODATA_INIT_TIMEOUT", 0),
			"how long to wait for the first data set before serving; 0 serves immediately (AERODATA_INIT_TIMEOUT)")
		heartbeatInterval = flag.Duration("heartbeat-interval", durationEnv("AERODATA_HEARTBEAT_INTERVAL", server.DefaultHeartbeatInterval),
			"interval between heartbeats on the streaming endpoint (AERODATA_HEARTBEAT_INTERVAL)")
	)
	flag.Parse()

	loggers := ldlog.NewDefaultLoggers()
	loggers.SetMinLevel(logLevelFromName(*logLevel))

	config := aerodata.Config{
		Logging: adcomponents.Logging().Loggers(loggers),
		Offline: *offline,
		DataEndpoints: interfaces.DataEndpoints{
			Airports: *airportsURI,
			Runways:  *runwaysURI,
		},
	}

	switch {
	case *dataFiles != "":
		fileSource := adfiledata.DataSource().FilePaths(strings.Split(*dataFiles, ",")...)
		if *watch {
			fileSource.Reloader(adfilewatch.WatchFiles)
		}
		config.DataSource = fileSource
	case *streamURI != "":
		config.DataSource = adcomponents.StreamingDataSource().BaseURI(*streamURI)
	default:
		config.DataSource = adcomponents.PollingDataSource().
			PollInterval(*pollInterval).
			CacheDir(*cacheDir)
	}

	if *storeFile != "" {
		config.DataStore = adcomponents.PersistentDataStore(adcomponents.FileDataStore(*storeFile))
	}

	client, err := aerodata.MakeCustomClient(config, *initTimeout)
	if client == nil {
		loggers.Errorf("Unable to create the aerodata client: %s", err)
		os.Exit(1)
	}
	if err != nil {
		// Initialization is still running in the background; queries answer 503 until it finishes.
		loggers.Warnf("Serving before initialization completed: %s", err)
	}
	defer client.Close()

	queryServer := server.NewServer(client, server.Config{
		Loggers:           loggers,
		HeartbeatInterval: *heartbeatInterval,
	})
	defer queryServer.Close()

	httpServer := &http.Server{
		Addr:        *addr,
		Handler:     queryServer.Handler,
		ReadTimeout: 10 * time.Second,
	}
	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
	}()
	loggers.Infof("Listening on %s", *addr)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErrCh:
		loggers.Errorf("Server failed: %s", err)
		os.Exit(1)
	case sig := <-signalCh:
		loggers.Infof("Received %s, shutting down", sig)
	}

	// Give in-flight requests a chance to finish; stream connections are cut off by the
	// server's Close instead.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		loggers.Warnf("Forcing shutdown: %s", err)
		_ = httpServer.Close()
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

func durationEnv(envVar string, defaultVal time.Duration) time.Duration {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid value %q for %s: %s\n", value, envVar, err)
		os.Exit(2)
	}
	return d
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
