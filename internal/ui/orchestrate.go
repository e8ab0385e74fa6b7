package ui

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/skycast/internal/debounce"
	"github.com/abelbrown/skycast/internal/logging"
	"github.com/abelbrown/skycast/internal/otel"
	"github.com/abelbrown/skycast/internal/weather"
)

// qualifies reports whether text is long enough to search or auto-resolve.
func qualifies(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) > minQueryRunes
}

// inputChanged restarts both debounce keys for a new text value. Short text
// clears the list at once and cancels the pending search.
func (a *App) inputChanged(text string) {
	a.highlight = -1
	if qualifies(text) {
		a.scheduleSettle(debounce.KeySuggest, a.suggestDelay)
	} else {
		a.sched.Cancel(debounce.KeySuggest)
		a.clearSuggestions()
	}
	a.scheduleSettle(debounce.KeyResolve, a.resolveDelay)
}

// scheduleSettle arms key. When it goes quiet a settleMsg tagged with the
// generation is queued for the Update loop.
func (a *App) scheduleSettle(key string, delay time.Duration) {
	settles := a.settles
	a.sched.ScheduleGen(key, delay, func(gen uint64) {
		select {
		case settles <- settleMsg{Key: key, Gen: gen}:
		default:
			logging.Warn("settle dropped", "key", key, "gen", gen)
		}
	})
}

func (a *App) handleSettle(msg settleMsg) tea.Cmd {
	if !a.sched.Current(msg.Key, msg.Gen) {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDebounceStale, Comp: "ui", Key: msg.Key, Epoch: msg.Gen})
		return nil
	}
	a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindDebounceSettle, Comp: "ui", Key: msg.Key, Epoch: msg.Gen})

	switch msg.Key {
	case debounce.KeySuggest:
		return a.refreshSuggestions(a.input.Value())
	case debounce.KeyResolve:
		return a.autoResolve()
	}
	return nil
}

// refreshSuggestions queries city candidates for text. Short text clears the
// list instead.
func (a *App) refreshSuggestions(text string) tea.Cmd {
	if !qualifies(text) {
		a.clearSuggestions()
		return nil
	}
	query := strings.TrimSpace(text)
	a.suggestSeq++
	seq := a.suggestSeq
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSuggestStart, Comp: "ui", Epoch: seq, Query: query})

	gw, ctx := a.gateway, a.ctx
	if gw == nil {
		return nil
	}
	start := time.Now()
	return func() tea.Msg {
		items, err := gw.FetchSuggestions(ctx, query)
		return SuggestionsLoaded{Seq: seq, Query: query, Items: items, Took: time.Since(start), Err: err}
	}
}

func (a *App) applySuggestions(msg SuggestionsLoaded) {
	if msg.Seq != a.suggestSeq {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSuggestStale, Comp: "ui", Epoch: msg.Seq, Query: msg.Query})
		return
	}
	if msg.Err != nil {
		a.emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindSuggestError, Comp: "ui", Epoch: msg.Seq, Query: msg.Query,
			Dur: msg.Took, Err: msg.Err.Error()})
		a.failLog.Do(func() {
			logging.Warn("suggestions failed", "query", msg.Query, "err", msg.Err)
		})
		a.suggestions = nil
		a.highlight = -1
		return
	}
	a.suggestions = msg.Items
	a.highlight = -1
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSuggestComplete, Comp: "ui", Epoch: msg.Seq, Query: msg.Query,
		Dur: msg.Took, Count: len(msg.Items)})
}

// clearSuggestions empties the list and invalidates any search in flight.
func (a *App) clearSuggestions() {
	a.suggestSeq++
	a.highlight = -1
	if a.suggestions != nil {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSuggestClear, Comp: "ui", Epoch: a.suggestSeq})
	}
	a.suggestions = nil
}

// selectSuggestion puts name in the field, empties the list before any
// network round trip, and resolves name.
func (a *App) selectSuggestion(name string) tea.Cmd {
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSuggestSelect, Comp: "ui", Query: name})
	a.input.SetValue(name)
	a.input.CursorEnd()
	a.clearSuggestions()
	return a.resolve(name)
}

// autoResolve runs when typing settles. It skips text that is too short or
// already names the displayed city.
func (a *App) autoResolve() tea.Cmd {
	text := a.input.Value()
	if !qualifies(text) {
		return nil
	}
	if a.snapshot.Matches(text) {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindResolveSkip, Comp: "ui", Query: strings.TrimSpace(text)})
		return nil
	}
	return a.resolve(text)
}

// resolve starts a forecast query for city under a fresh epoch. A resolve
// already in flight is superseded, not aborted: its reply is dropped on
// arrival.
func (a *App) resolve(city string) tea.Cmd {
	city = strings.TrimSpace(city)
	if city == "" {
		return nil
	}
	a.sched.Cancel(debounce.KeySuggest)
	a.sched.Cancel(debounce.KeyResolve)

	a.loading = true
	a.errMsg = ""
	a.clearSuggestions()
	a.epoch++
	epoch := a.epoch
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindResolveStart, Comp: "ui", Epoch: epoch, Query: city})

	gw, ctx := a.gateway, a.ctx
	if gw == nil {
		return nil
	}
	start := time.Now()
	return func() tea.Msg {
		snap, err := gw.FetchForecast(ctx, city)
		if err == nil && snap == nil {
			err = weather.ErrNotFound
		}
		took := time.Since(start)
		logging.Debug("forecast returned", "city", city, "epoch", epoch, "dur", took, "err", err)
		return ForecastLoaded{Epoch: epoch, City: city, Snapshot: snap, Took: took, Err: err}
	}
}

func (a *App) applyForecast(msg ForecastLoaded) {
	if msg.Epoch != a.epoch {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindResolveStale, Comp: "ui", Epoch: msg.Epoch, Query: msg.City, Dur: msg.Took})
		return
	}
	a.loading = false

	if msg.Err != nil {
		a.snapshot = nil
		a.selectedDay = 0
		a.errMsg = weather.NotFoundMessage
		if !errors.Is(msg.Err, weather.ErrNotFound) {
			logging.Warn("forecast failed with unclassified error", "city", msg.City, "err", msg.Err)
		}
		a.emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindResolveError, Comp: "ui", Epoch: msg.Epoch, Query: msg.City,
			Dur: msg.Took, Err: msg.Err.Error()})
		return
	}

	a.snapshot = msg.Snapshot
	a.selectedDay = 0
	a.errMsg = ""
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindResolveComplete, Comp: "ui", Epoch: msg.Epoch,
		Query: msg.City, Dur: msg.Took, Count: len(msg.Snapshot.Forecast.Days)})
}

// shiftDay moves the hourly view by delta days, clamped to the forecast.
func (a *App) shiftDay(delta int) {
	if a.snapshot == nil {
		return
	}
	n := len(a.snapshot.Forecast.Days)
	if n == 0 {
		a.selectedDay = 0
		return
	}
	a.selectedDay = min(max(a.selectedDay+delta, 0), n-1)
}
