// Package server implements the aerodata query server: the HTTP API that serves aerodrome
// feature queries, health and status endpoints, and the server-sent event stream that other
// aerodata instances can replicate from. The cmd/aerodata-server binary wires this handler
// into an http.Server.
package server
