// Package geomag implements the World Magnetic Model spherical harmonic expansion, to the
// extent needed for computing magnetic declination at ground level.
//
// Runway identifiers encode magnetic headings, so converting between a surveyed true heading
// and the identifier painted on the pavement requires the local declination. A truncated
// coefficient set is embedded in the package; Load can substitute a complete WMM.COF file.
package geomag
