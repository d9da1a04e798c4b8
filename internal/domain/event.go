package domain

// EventType tags a pushed event on the subscriber channel.
type EventType string

const (
	// EventConnected is sent once to a subscriber right after admission.
	EventConnected EventType = "connected"
	// EventHeartbeat is the periodic keepalive frame.
	EventHeartbeat EventType = "heartbeat"

	EventRequestCreated EventType = "request-created"
	EventRequestUpdated EventType = "request-updated"
	EventRequestDeleted EventType = "request-deleted"
)

// EventSink is the narrow boundary between the mutation API and the
// real-time core: one fire-and-forget call per committed mutation.
type EventSink interface {
	Emit(eventType EventType, payload any)
}

// RequestEventPayload is the broadcast payload for created and updated
// requests: the affected record plus a human-readable summary.
type RequestEventPayload struct {
	Request *ServiceRequest `json:"request"`
	Message string          `json:"message"`
}

// RequestDeletedPayload is the broadcast payload for deletions. Only the
// identifier survives the delete, so that is all subscribers get.
type RequestDeletedPayload struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

// HeartbeatPayload carries just the emission timestamp.
type HeartbeatPayload struct {
	Timestamp string `json:"timestamp"`
}

// ConnectedPayload confirms channel establishment to a new subscriber.
type ConnectedPayload struct {
	Message string `json:"message"`
}
