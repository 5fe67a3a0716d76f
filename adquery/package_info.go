// Package adquery defines the parameters of an aerodrome feature query.
//
// Params is the parsed form of the query string accepted by the service's /aerodromes endpoint;
// it can also be constructed directly for programmatic use with Client.Features. Parsing
// validates each parameter and reports failures with messages suitable for an API response.
package adquery
