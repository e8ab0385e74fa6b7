// Command skycast-obs reads the event trace written by skycast and checks
// that the proxy answers.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

type command struct {
	summary string
	run     func(args []string) error
}

var commands = map[string]command{
	"events": {"print or follow the JSONL event trace", runEvents},
	"stats":  {"settle, suggestion and resolution counts with latency", runStats},
	"probe":  {"hit /health, then one search and one forecast via the proxy", runProbe},
}

// errProbeFailed marks a probe that ran but found the proxy unhealthy.
var errProbeFailed = errors.New("probe failed")

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: skycast-obs <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "SKYCAST_CONFIG selects the config file (default ~/.skycast/config.yaml).")
	fmt.Fprintln(w, "SKYCAST_API_URL overrides the proxy base URL.")
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		return
	}
	name := os.Args[1]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(os.Stdout)
		return
	}
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "skycast-obs: unknown command %q\n\n", name)
		printUsage(os.Stderr)
		os.Exit(2)
	}
	if err := cmd.run(os.Args[2:]); err != nil {
		if !errors.Is(err, errProbeFailed) {
			fmt.Fprintf(os.Stderr, "skycast-obs %s: %v\n", name, err)
		}
		os.Exit(1)
	}
}
