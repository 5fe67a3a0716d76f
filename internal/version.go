package internal

// Version is the current version string of the aerodata module. This is defined here rather
// than in the root package so that internal packages can reference it without a circular
// import; the root package re-exports it as aerodata.Version.
const Version = "1.0.0" // {{ x-release-please-version }}
