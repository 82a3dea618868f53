package publishers

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/etdofresh/dokploy-probe/pkg/dokploy"
)

// Event represents the payload published downstream for every dispatched request.
type Event struct {
	Method       string    `json:"method"`
	Endpoint     string    `json:"endpoint"`
	URL          string    `json:"url"`
	StatusCode   int       `json:"status_code,omitempty"`
	Outcome      string    `json:"outcome"`
	Error        string    `json:"error,omitempty"`
	ElapsedMs    int64     `json:"elapsed_ms"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

// NewEvent constructs an Event from a finished dispatch.
func NewEvent(d dokploy.Dispatch) Event {
	return Event{
		Method:       d.Method,
		Endpoint:     d.Endpoint,
		URL:          d.URL,
		StatusCode:   d.StatusCode,
		Outcome:      string(d.Outcome),
		Error:        d.Err,
		ElapsedMs:    d.Elapsed.Milliseconds(),
		DispatchedAt: time.Now().UTC(),
	}
}

// message returns the JSON body and the non-empty routing attributes
// (endpoint, outcome) sinks attach to a message.
func (e Event) message() ([]byte, map[string]string, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal event: %w", err)
	}
	attrs := make(map[string]string, 2)
	if e.Endpoint != "" {
		attrs["endpoint"] = e.Endpoint
	}
	if e.Outcome != "" {
		attrs["outcome"] = e.Outcome
	}
	return body, attrs, nil
}
