package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/abelbrown/skycast/internal/config"
)

// eventLogPath is where the client writes its trace.
func eventLogPath() string {
	return filepath.Join(config.DataDir(), "events.jsonl")
}

func openEventLog() (*os.File, error) {
	path := eventLogPath()
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("no event log at %s; run skycast first", path)
	}
	return f, err
}

// durPrecision picks decimals so small durations stay readable.
func durPrecision(ms float64) int {
	switch {
	case ms >= 100:
		return 0
	case ms >= 1:
		return 1
	default:
		return 2
	}
}

// percentile returns the p-th percentile (0..100) of vals by nearest rank.
// vals is sorted in place.
func percentile(vals []float64, p float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sort.Float64s(vals)
	rank := int(p/100*float64(len(vals))+0.5) - 1
	rank = min(max(rank, 0), len(vals)-1)
	return vals[rank]
}
