// Package datasource is an internal package containing the implementations of the standard data
// sources (polling the upstream FAA datasets, streaming from another aerodata server), and the
// supporting types for tracking data source status. These components are configured through the
// adcomponents package.
package datasource
