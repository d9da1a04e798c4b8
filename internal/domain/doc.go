// Package domain holds the core business types and the interfaces that
// decouple the HTTP layer from persistence and from the real-time
// notification core.
package domain
