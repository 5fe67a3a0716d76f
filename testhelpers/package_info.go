// Package testhelpers contains types and functions that may be useful in testing application
// code that uses the aerodata client, or custom component implementations.
//
// It contains one subpackage: adtestdata, which provides a test fixture for supplying aerodrome
// data programmatically instead of fetching it.
//
// The APIs in this package and its subpackages are supported as part of the client.
package testhelpers

// Implementation note: anything that is *only* for this repository's own tests should be in
// internal/sharedtest instead.
