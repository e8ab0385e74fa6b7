package otel

import (
	"os"
	"strconv"
	"strings"
)

// TraceEnv turns on per-message tracing in the client and request events
// on stdout in the proxy.
const TraceEnv = "SKYCAST_TRACE"

var traceEnabled = parseTrace(os.Getenv(TraceEnv))

// parseTrace accepts anything strconv.ParseBool does. Any other non-empty
// value also counts as on, so SKYCAST_TRACE=yes works.
func parseTrace(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return true
}

// TraceEnabled reports whether tracing was requested at startup.
func TraceEnabled() bool {
	return traceEnabled
}
