package sse

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	// EventConnected is the first event every client receives.
	EventConnected = "connected"
	// EventTransition carries a pipeline run state change.
	EventTransition = "transition"
)

// Event is one server-sent event.
type Event struct {
	Type string
	Data []byte
}

// NewEvent encodes v as the JSON data of an event.
func NewEvent(eventType string, v any) (Event, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Event{}, fmt.Errorf("sse: encode %s event: %w", eventType, err)
	}
	return Event{Type: eventType, Data: data}, nil
}

// WriteTo writes the event in wire format.
func (e Event) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Type, e.Data)
	return int64(n), err
}

// Publisher is the write side of a Hub.
type Publisher interface {
	Publish(topic string, ev Event)
}
