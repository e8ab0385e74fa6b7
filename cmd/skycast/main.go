package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/skycast/internal/config"
	"github.com/abelbrown/skycast/internal/debounce"
	"github.com/abelbrown/skycast/internal/gateway"
	"github.com/abelbrown/skycast/internal/logging"
	"github.com/abelbrown/skycast/internal/otel"
	"github.com/abelbrown/skycast/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "skycast:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logging.Init(cfg.Logging.Dir, "skycast", cfg.Logging.Level); err != nil {
		return err
	}
	defer logging.Close()

	// Event trace: ~/.skycast/events.jsonl, mirrored into the debug overlay.
	ring := otel.NewRingBuffer(otel.DefaultRingSize)
	var events *otel.Logger
	eventsPath := filepath.Join(config.DataDir(), "events.jsonl")
	if f, err := os.OpenFile(eventsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
		logging.Warn("event log disabled", "path", eventsPath, "err", err)
		events = otel.NewNullLogger()
	} else {
		defer f.Close()
		events = otel.NewLogger(f)
	}
	events.SetRingBuffer(ring)
	defer events.Close()

	events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindStartup, Comp: "main",
		Msg: cfg.Client.APIURL})
	logging.Info("client starting", "api", cfg.Client.APIURL, "session", events.SessionID(),
		"suggest_delay", cfg.Debounce.Suggest, "resolve_delay", cfg.Debounce.Resolve)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := debounce.New()
	defer sched.Stop()

	app := ui.NewAppWithConfig(ui.AppConfig{
		Gateway:      gateway.New(cfg.Client.APIURL, cfg.Client.RequestTimeout),
		Scheduler:    sched,
		SuggestDelay: cfg.Debounce.Suggest,
		ResolveDelay: cfg.Debounce.Resolve,
		Context:      ctx,
		Obs:          ui.ObsConfig{Logger: events, Ring: ring},
	})

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		events.Emit(otel.Event{Level: otel.LevelError, Kind: otel.KindError, Comp: "main", Err: err.Error()})
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
