package coordinator

import (
	"encoding/json"
	"fmt"
)

// Priority of a request frame.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// RequestContext is the metadata shipped with every outbound request. It is
// how upstream signals (the rolling sentiment average, device state) ride
// along without a separate round-trip.
type RequestContext struct {
	SentimentAvg float64 `json:"sentimentAvg"`
	BatteryLevel float64 `json:"batteryLevel"`
	NetworkType  string  `json:"networkType"`
	Timestamp    int64   `json:"timestamp"`
	Timezone     string  `json:"timezone"`
}

// Request is the outbound frame on the duplex channel.
type Request struct {
	CorrelationID string          `json:"correlationId"`
	OperationType string          `json:"operationType"`
	Args          json.RawMessage `json:"args"`
	Priority      Priority        `json:"priority"`
	Context       RequestContext  `json:"context"`
}

// Response is the inbound frame correlated to a request.
type Response struct {
	CorrelationID string          `json:"correlationId"`
	Result        json.RawMessage `json:"result"`
	Error         string          `json:"error,omitempty"`
}

// Push is an inbound frame with no correlating request; Type selects the
// handler it is routed to.
type Push struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// inboundFrame distinguishes responses from pushes: a frame carrying a
// correlation id is a response, one carrying a type is a push.
type inboundFrame struct {
	CorrelationID string          `json:"correlationId"`
	Result        json.RawMessage `json:"result"`
	Error         string          `json:"error,omitempty"`
	Type          string          `json:"type"`
	Payload       json.RawMessage `json:"payload"`
}

// encodeArgs marshals request args and derives the cache key. The key uses a
// canonicalized rendering (object keys sorted), so two callers passing
// equivalent args share a cache entry regardless of field order.
func encodeArgs(opType string, args any) (key string, encoded json.RawMessage, err error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return "", nil, fmt.Errorf("marshal args: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", nil, fmt.Errorf("canonicalize args: %w", err)
	}
	canonical, err := json.Marshal(generic) // map keys marshal sorted
	if err != nil {
		return "", nil, fmt.Errorf("canonicalize args: %w", err)
	}

	return opType + ":" + string(canonical), raw, nil
}
