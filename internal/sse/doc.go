// Package sse implements the real-time notification core: a registry of
// long-lived server-sent-event subscriber connections, a broadcast
// dispatcher that fans mutation events out to all of them, a heartbeat
// scheduler that keeps connections alive through proxies, and a reaper
// that evicts connections whose liveness lapsed.
//
// The registry is the single shared mutable resource. All components
// snapshot it under the lock and write to sinks outside the lock, so a
// slow subscriber never blocks admission of new ones. Delivery is
// at-most-once and best-effort: a failed write removes that connection
// and never affects delivery to the others.
package sse
