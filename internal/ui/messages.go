// Package ui provides the Bubble Tea TUI for skycast.
package ui

import (
	"time"

	"github.com/abelbrown/skycast/internal/weather"
)

// SuggestionsLoaded is sent when a city search returns. Seq identifies the
// query; replies for anything but the latest sequence are dropped.
type SuggestionsLoaded struct {
	Seq   uint64
	Query string
	Items []weather.Suggestion
	Took  time.Duration
	Err   error
}

// ForecastLoaded is sent when a resolution returns. Only the reply for the
// latest epoch may touch the displayed weather.
type ForecastLoaded struct {
	Epoch    uint64
	City     string
	Snapshot *weather.Snapshot
	Took     time.Duration
	Err      error
}

// settleMsg is a debounce key going quiet. Gen is checked against the
// scheduler before acting, so a settle that was superseded in flight does
// nothing.
type settleMsg struct {
	Key string
	Gen uint64
}

// settlesClosed ends the settle listener.
type settlesClosed struct{}
