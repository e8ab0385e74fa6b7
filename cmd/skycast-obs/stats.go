package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// lookupStats summarizes one event log.
type lookupStats struct {
	Events   int
	Sessions map[string]int
	Kinds    map[string]int

	// Latencies in milliseconds, by completing kind.
	Latency map[string][]float64

	// Query counts for resolutions that returned, by lower-cased city.
	Cities map[string]int
}

func newLookupStats() *lookupStats {
	return &lookupStats{
		Sessions: make(map[string]int),
		Kinds:    make(map[string]int),
		Latency:  make(map[string][]float64),
		Cities:   make(map[string]int),
	}
}

func (s *lookupStats) add(ev eventRecord) {
	s.Events++
	if ev.SessionID != "" {
		s.Sessions[ev.SessionID]++
	}
	s.Kinds[ev.Kind]++
	if ev.DurMs > 0 {
		s.Latency[ev.Kind] = append(s.Latency[ev.Kind], ev.DurMs)
	}
	if ev.Kind == "resolve.complete" && ev.Query != "" {
		s.Cities[strings.ToLower(ev.Query)]++
	}
}

// collectStats reads JSONL from r, skipping lines that do not decode.
func collectStats(r io.Reader, session string) *lookupStats {
	s := newLookupStats()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)
	for scanner.Scan() {
		var ev eventRecord
		if json.Unmarshal(scanner.Bytes(), &ev) != nil {
			continue
		}
		if session != "" && !strings.HasPrefix(ev.SessionID, session) {
			continue
		}
		s.add(ev)
	}
	return s
}

// ratio formats part/whole as a percentage, or "-" when whole is zero.
func ratio(part, whole int) string {
	if whole == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

func (s *lookupStats) write(w io.Writer) {
	k := s.Kinds
	fmt.Fprintf(w, "Events:                %d\n", s.Events)
	fmt.Fprintf(w, "Sessions:              %d\n", len(s.Sessions))

	fmt.Fprintln(w, "\nDebounce:")
	fmt.Fprintf(w, "  settled:             %d\n", k["debounce.settle"])
	fmt.Fprintf(w, "  superseded in flight %d\n", k["debounce.stale"])

	fmt.Fprintln(w, "\nSuggestions:")
	fmt.Fprintf(w, "  started:             %d\n", k["suggest.start"])
	fmt.Fprintf(w, "  complete:            %d\n", k["suggest.complete"])
	fmt.Fprintf(w, "  errors:              %d (%s)\n", k["suggest.error"], ratio(k["suggest.error"], k["suggest.start"]))
	fmt.Fprintf(w, "  stale replies:       %d (%s)\n", k["suggest.stale"], ratio(k["suggest.stale"], k["suggest.start"]))
	fmt.Fprintf(w, "  selections:          %d\n", k["suggest.select"])

	fmt.Fprintln(w, "\nResolutions:")
	fmt.Fprintf(w, "  started:             %d\n", k["resolve.start"])
	fmt.Fprintf(w, "  complete:            %d\n", k["resolve.complete"])
	fmt.Fprintf(w, "  not found:           %d (%s)\n", k["resolve.error"], ratio(k["resolve.error"], k["resolve.start"]))
	fmt.Fprintf(w, "  superseded:          %d (%s)\n", k["resolve.stale"], ratio(k["resolve.stale"], k["resolve.start"]))
	fmt.Fprintf(w, "  skipped (same city): %d\n", k["resolve.skip"])

	kinds := make([]string, 0, len(s.Latency))
	for kind := range s.Latency {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	if len(kinds) > 0 {
		fmt.Fprintln(w, "\nLatency (ms):")
		fmt.Fprintf(w, "  %-20s %6s %8s %8s %8s\n", "kind", "n", "p50", "p95", "max")
		for _, kind := range kinds {
			vals := s.Latency[kind]
			fmt.Fprintf(w, "  %-20s %6d %8.1f %8.1f %8.1f\n", kind, len(vals),
				percentile(vals, 50), percentile(vals, 95), percentile(vals, 100))
		}
	}

	if len(s.Cities) > 0 {
		type cityCount struct {
			name string
			n    int
		}
		cities := make([]cityCount, 0, len(s.Cities))
		for name, n := range s.Cities {
			cities = append(cities, cityCount{name, n})
		}
		sort.Slice(cities, func(i, j int) bool {
			if cities[i].n != cities[j].n {
				return cities[i].n > cities[j].n
			}
			return cities[i].name < cities[j].name
		})
		if len(cities) > 10 {
			cities = cities[:10]
		}
		fmt.Fprintln(w, "\nTop cities:")
		for _, c := range cities {
			fmt.Fprintf(w, "  %-30s %d\n", c.name, c.n)
		}
	}
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	session := fs.String("session", "", "only count events from this session ID prefix")
	fs.Parse(args)

	f, err := openEventLog()
	if err != nil {
		return err
	}
	defer f.Close()

	collectStats(f, *session).write(os.Stdout)
	return nil
}
