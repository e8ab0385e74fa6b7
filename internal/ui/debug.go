package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/skycast/internal/debounce"
	"github.com/abelbrown/skycast/internal/otel"
)

// panelChrome is the lines DebugPanel spends on its border and padding.
const panelChrome = 4

const recentEvents = 20

// lookupState is the orchestration state shown at the top of the overlay.
type lookupState struct {
	Epoch          uint64
	SuggestSeq     uint64
	Loading        bool
	PendingSuggest bool
	PendingResolve bool
}

func (a App) debugState() lookupState {
	return lookupState{
		Epoch:          a.epoch,
		SuggestSeq:     a.suggestSeq,
		Loading:        a.loading,
		PendingSuggest: a.sched.Pending(debounce.KeySuggest),
		PendingResolve: a.sched.Pending(debounce.KeyResolve),
	}
}

// statRow is one counter line: a label and the event kinds it tallies, in
// the same order as names.
type statRow struct {
	label string
	kinds []otel.EventKind
	names []string
}

var statRows = []statRow{
	{"Settles", []otel.EventKind{otel.KindDebounceSettle, otel.KindDebounceStale},
		[]string{"applied", "stale"}},
	{"Suggestions", []otel.EventKind{otel.KindSuggestStart, otel.KindSuggestComplete, otel.KindSuggestError, otel.KindSuggestStale},
		[]string{"started", "complete", "errors", "stale"}},
	{"Resolves", []otel.EventKind{otel.KindResolveStart, otel.KindResolveComplete, otel.KindResolveError, otel.KindResolveStale, otel.KindResolveSkip},
		[]string{"started", "complete", "errors", "stale", "skipped"}},
}

func (r statRow) render(counts map[otel.EventKind]int) string {
	parts := make([]string, len(r.kinds))
	for i, k := range r.kinds {
		parts[i] = fmt.Sprintf("%d %s", counts[k], r.names[i])
	}
	return fmt.Sprintf("  %-12s %s", r.label+":", strings.Join(parts, ", "))
}

func onOff(b bool) string {
	if b {
		return "pending"
	}
	return "idle"
}

// debugOverlay renders the debug panel. Empty without a ring buffer.
func debugOverlay(ring *otel.RingBuffer, st lookupState, width, height int) string {
	if ring == nil {
		return ""
	}

	lines := []string{
		DebugHeaderStyle.Render("Lookup State"),
		fmt.Sprintf("  epoch #%d   suggestion seq #%d   loading=%t", st.Epoch, st.SuggestSeq, st.Loading),
		fmt.Sprintf("  timers: suggest %s, resolve %s", onOff(st.PendingSuggest), onOff(st.PendingResolve)),
		"",
		DebugHeaderStyle.Render("Lookup Stats"),
	}
	counts := ring.Stats()
	for _, row := range statRows {
		lines = append(lines, row.render(counts))
	}
	lines = append(lines,
		fmt.Sprintf("  %-12s %d / %d events", "Buffer:", ring.Len(), ring.Cap()),
		"",
		DebugHeaderStyle.Render("Recent Events"),
	)
	now := time.Now()
	for _, e := range ring.Last(recentEvents) {
		lines = append(lines, eventLine(e, now))
	}

	if limit := max(height-panelChrome, 1); len(lines) > limit {
		lines = lines[:limit]
	}
	panelWidth := min(max(width-4, 20), 90)
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func eventLine(e otel.Event, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %6s  %-20s", formatAge(now.Sub(e.Time)), e.Kind)
	if e.Key != "" {
		b.WriteString("  key:" + e.Key)
	}
	if e.Epoch != 0 {
		fmt.Fprintf(&b, "  #%d", e.Epoch)
	}
	if e.Query != "" {
		b.WriteString("  " + truncateRunes(e.Query, 24))
	}
	if e.Dur > 0 {
		b.WriteString("  " + e.Dur.Round(time.Millisecond).String())
	}
	if e.Msg != "" {
		b.WriteString("  " + truncateRunes(e.Msg, 40))
	}
	if e.Err != "" {
		b.WriteString("  ERR:" + truncateRunes(e.Err, 30))
	}
	return b.String()
}

// formatAge renders how long ago an event happened. Clock skew reads as 0ms.
func formatAge(d time.Duration) string {
	switch {
	case d < 0:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// truncateRunes shortens s to at most n runes, marking the cut with "…".
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// msgName names a message type for trace events.
func msgName(msg any) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", msg), "ui.")
}

func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("ctrl+d") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
