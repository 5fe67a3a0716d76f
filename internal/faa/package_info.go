// Package faa turns the FAA's raw airport and runway datasets into the aerodrome, runway, and
// helipad features served by this project.
//
// The FAA publishes runways as surface outline polygons keyed to airports by opaque global
// identifiers. Derivation reduces each surface to a centerline with named thresholds, classifies
// helipads and other non-runway surfaces, and repairs or estimates geometry for the records whose
// coordinates are junk. Anomalous records are logged and dropped rather than failing the whole
// dataset.
package faa
