// Package adedge provides the public serving edge of an aerodata deployment: a TLS-terminating
// reverse proxy that sits in front of the query server.
//
// The edge runs two listeners. The plain HTTP listener answers ACME HTTP-01 challenges and
// permanently redirects every other request to HTTPS. The TLS listener terminates TLS and
// proxies requests to the backend server, normally a cmd/aerodata-server instance on the same
// host. Certificates are obtained from Let's Encrypt and renewed in the background while the
// edge is serving, so a renewal never requires a restart.
//
//	edge, err := adedge.NewEdge(adedge.Config{
//	    Domain:       "aerodata.example.com",
//	    ContactEmail: "ops@example.com",
//	    CertCacheDir: "/var/lib/aerodata/certs",
//	})
//	if err != nil { ... }
//	if err := edge.Start(); err != nil { ... }
//	defer edge.Shutdown(context.Background())
//
// For development, setting Config.SelfSigned replaces the certificate authority with an
// ephemeral self-signed certificate so the edge can run without a public domain.
package adedge
