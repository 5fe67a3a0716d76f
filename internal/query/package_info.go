// Package query implements the aerodrome feature query engine: reading a consistent
// snapshot of the data store and selecting features from it according to query parameters.
package query
