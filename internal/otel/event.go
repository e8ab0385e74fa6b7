// Package otel records structured client and proxy events.
//
// Events are typed structs serialized as JSONL lines. The Logger writes them
// asynchronously through a buffered channel; an optional RingBuffer keeps the
// most recent ones in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity for filtering.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind identifies the category of an event.
// Dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Debounce events
	KindDebounceSettle EventKind = "debounce.settle"
	KindDebounceStale  EventKind = "debounce.stale"

	// Suggestion events
	KindSuggestStart    EventKind = "suggest.start"
	KindSuggestComplete EventKind = "suggest.complete"
	KindSuggestError    EventKind = "suggest.error"
	KindSuggestStale    EventKind = "suggest.stale"
	KindSuggestClear    EventKind = "suggest.clear"
	KindSuggestSelect   EventKind = "suggest.select"

	// Resolution events
	KindResolveStart    EventKind = "resolve.start"
	KindResolveComplete EventKind = "resolve.complete"
	KindResolveError    EventKind = "resolve.error"
	KindResolveStale    EventKind = "resolve.stale"
	KindResolveSkip     EventKind = "resolve.skip"

	// Proxy events
	KindProxyRequest  EventKind = "proxy.request"
	KindUpstreamError EventKind = "proxy.upstream_error"

	// UI events
	KindKeyPress EventKind = "ui.key"

	// System events
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"

	// Trace events
	KindMsgReceived EventKind = "trace.msg_received"
)

// Event is the universal record. Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"`       // component: "ui", "gateway", "proxy", "main"
	SessionID string         `json:"session_id,omitempty"` // same for an entire run
	Epoch     uint64         `json:"epoch,omitempty"`      // resolution epoch or suggestion sequence
	Key       string         `json:"key,omitempty"`        // debounce key
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Query     string         `json:"query,omitempty"`
	Status    int            `json:"status,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	a := struct {
		Alias
	}{Alias: Alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
