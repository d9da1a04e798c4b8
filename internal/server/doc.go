// Package server wires the HTTP surface: the request-mutation API, the
// SSE subscription endpoint, and the observability endpoints.
package server
