// Package api wires the HTTP routes to their handlers.
//
// Handlers live in the handlers subpackage. They decode requests, call into
// the service layer and render the results; every error crosses the boundary
// through a single mapping to status codes and DRF-style JSON bodies.
package api
