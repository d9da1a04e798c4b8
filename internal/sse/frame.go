package sse

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/Ravishyamsingh/Drone-Service/internal/domain"
)

// envelope is the wire JSON carried in every data: line.
type envelope struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// encodeEventFrame serializes one event into text/event-stream framing:
//
//	event: <type>\n
//	data: {"type":...,"data":...,"timestamp":...}\n\n
func encodeEventFrame(eventType domain.EventType, payload any, at time.Time) ([]byte, error) {
	body, err := marshalEnvelope(eventType, payload, at)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + len(eventType) + 16)
	buf.WriteString("event: ")
	buf.WriteString(string(eventType))
	buf.WriteByte('\n')
	buf.WriteString("data: ")
	buf.Write(body)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

// encodeDataFrame serializes an event with plain data: framing and no
// event: line. Used for the one-off connected acknowledgement.
func encodeDataFrame(eventType domain.EventType, payload any, at time.Time) ([]byte, error) {
	body, err := marshalEnvelope(eventType, payload, at)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(body) + 10)
	buf.WriteString("data: ")
	buf.Write(body)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}

func marshalEnvelope(eventType domain.EventType, payload any, at time.Time) ([]byte, error) {
	return json.Marshal(envelope{
		Type:      string(eventType),
		Data:      payload,
		Timestamp: at.UTC().Format(time.RFC3339),
	})
}
