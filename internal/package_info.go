// Package internal contains aerodata implementation details that are shared between packages,
// but are not exposed to application code. The datasource, datastore, faa, geomag, query, and
// server subpackages contain implementation components specific to their areas of functionality.
package internal
