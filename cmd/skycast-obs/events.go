package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"
)

// eventRecord is the decoded form of one trace line. Unknown fields are
// ignored so older binaries can read newer traces.
type eventRecord struct {
	Time      time.Time      `json:"t"`
	Level     string         `json:"level"`
	Kind      string         `json:"kind"`
	Comp      string         `json:"comp"`
	SessionID string         `json:"session_id"`
	Epoch     uint64         `json:"epoch"`
	Key       string         `json:"key"`
	DurMs     float64        `json:"dur_ms"`
	Count     int            `json:"count"`
	Query     string         `json:"query"`
	Status    int            `json:"status"`
	Err       string         `json:"err"`
	Msg       string         `json:"msg"`
	Extra     map[string]any `json:"extra"`
}

var levelRanks = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// eventFilter holds the events flags. Empty fields match everything.
type eventFilter struct {
	kind    string // kind prefix, e.g. "resolve"
	level   string // minimum level
	comp    string
	session string // session ID prefix
	query   string // case-insensitive exact query
}

func (f eventFilter) match(ev eventRecord) bool {
	switch {
	case f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind):
		return false
	case f.level != "" && levelRanks[ev.Level] < levelRanks[f.level]:
		return false
	case f.comp != "" && ev.Comp != f.comp:
		return false
	case f.session != "" && !strings.HasPrefix(ev.SessionID, f.session):
		return false
	case f.query != "" && !strings.EqualFold(ev.Query, f.query):
		return false
	}
	return true
}

// formatEvent renders one line: time, level, component, kind, then
// whichever optional fields are set.
func formatEvent(ev eventRecord) string {
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s [%-5s] %-20s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)

	add := func(format string, args ...any) {
		b.WriteByte(' ')
		fmt.Fprintf(&b, format, args...)
	}
	if ev.Key != "" {
		add("key=%s", ev.Key)
	}
	if ev.Epoch != 0 {
		add("#%d", ev.Epoch)
	}
	if ev.Query != "" {
		add("q=%q", ev.Query)
	}
	if ev.Msg != "" {
		add("- %s", ev.Msg)
	}
	if ev.DurMs > 0 {
		add("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs)
	}
	if ev.Count > 0 {
		add("n=%d", ev.Count)
	}
	if ev.Status != 0 {
		add("status=%d", ev.Status)
	}
	if ev.Err != "" {
		add("err=%s", ev.Err)
	}
	return b.String()
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// decodeLine parses one trace line; blank and malformed lines report false.
func decodeLine(raw []byte) (parsedLine, bool) {
	raw = []byte(strings.TrimRight(string(raw), "\r\n"))
	if len(raw) == 0 {
		return parsedLine{}, false
	}
	var ev eventRecord
	if err := json.Unmarshal(raw, &ev); err != nil {
		return parsedLine{}, false
	}
	return parsedLine{ev: ev, raw: raw}, true
}

// readTailLines returns the last n lines of r accepted by match, oldest first.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	if n <= 0 {
		return nil
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	ring := make([]parsedLine, n)
	seen := 0
	for scanner.Scan() {
		line, ok := decodeLine(scanner.Bytes())
		if !ok || !match(line.ev) {
			continue
		}
		ring[seen%n] = line
		seen++
	}
	if seen <= n {
		return ring[:seen]
	}
	start := seen % n
	return append(ring[start:], ring[:start]...)
}

// follow polls r for appended lines until ctx is done.
func follow(ctx context.Context, r io.Reader, poll time.Duration, match func(eventRecord) bool, show func(parsedLine)) error {
	reader := bufio.NewReader(r)
	var partial []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		partial = append(partial, chunk...)
		switch {
		case err == nil:
			if line, ok := decodeLine(partial); ok && match(line.ev) {
				show(line)
			}
			partial = partial[:0]
		case err == io.EOF:
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(poll):
			}
		default:
			return err
		}
	}
}

func runEvents(args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "number of recent matching events to print")
	followMode := fs.Bool("f", false, "keep printing new events as they are written")
	var filter eventFilter
	fs.StringVar(&filter.kind, "kind", "", "kind prefix, e.g. resolve or debounce")
	fs.StringVar(&filter.level, "level", "", "minimum level: debug, info, warn, error")
	fs.StringVar(&filter.comp, "comp", "", "component: ui, gateway, proxy, main")
	fs.StringVar(&filter.session, "session", "", "session ID prefix")
	fs.StringVar(&filter.query, "q", "", "query text, case-insensitive")
	rawJSON := fs.Bool("json", false, "print raw JSONL instead of formatted lines")
	fs.Parse(args)

	f, err := openEventLog()
	if err != nil {
		return err
	}
	defer f.Close()

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	show := func(l parsedLine) {
		if *rawJSON {
			out.Write(l.raw)
			out.WriteByte('\n')
		} else {
			fmt.Fprintln(out, formatEvent(l.ev))
		}
	}

	for _, l := range readTailLines(f, *tail, filter.match) {
		show(l)
	}
	if !*followMode {
		return nil
	}
	out.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return follow(ctx, f, 200*time.Millisecond, filter.match, func(l parsedLine) {
		show(l)
		out.Flush()
	})
}
