// Package adhttp provides helpers for configuring the low-level HTTP behavior of aerodata
// components: custom CA certificates, proxies, and connection timeouts.
//
// Most applications configure HTTP behavior through adcomponents.HTTPConfiguration(), whose
// builder methods call into this package. The aerodata-edge reverse proxy also uses these
// options directly when it needs to trust a backend's private CA.
package adhttp
