// Package aerodata is the main package for the aerodata client.
//
// This package contains the types and methods for the client ([Client]) and its overall
// configuration ([Config]).
//
// Subpackages in the same repository provide additional functionality for specific features of the
// client. Most applications that need to change any configuration settings will use the package
// [github.com/aerodata/go-aerodata/adcomponents].
//
// Aerodrome and runway data is represented with the types in the adgeo package
// ([github.com/aerodata/go-aerodata/adgeo]); query parameters for filtering that data are
// built with the adquery package ([github.com/aerodata/go-aerodata/adquery]).
package aerodata
