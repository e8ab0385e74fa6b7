package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/skycast/internal/debounce"
	"github.com/abelbrown/skycast/internal/otel"
	"github.com/abelbrown/skycast/internal/weather"
)

// fakeGateway answers from fixed tables and records every call.
type fakeGateway struct {
	mu          sync.Mutex
	forecasts   map[string]*weather.Snapshot // keyed by lower-case city
	suggestions map[string][]weather.Suggestion
	suggestErr  error

	forecastCalls []string
	suggestCalls  []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		forecasts: map[string]*weather.Snapshot{
			"london": makeSnapshot("London", "United Kingdom", 3),
			"paris":  makeSnapshot("Paris", "France", 3),
		},
		suggestions: map[string][]weather.Suggestion{
			"lon": {
				{ID: 2801268, Name: "London", Region: "City of London, Greater London", Country: "United Kingdom"},
				{ID: 315398, Name: "London", Region: "Ontario", Country: "Canada"},
			},
			"london": {
				{ID: 2801268, Name: "London", Region: "City of London, Greater London", Country: "United Kingdom"},
			},
			"par": {
				{ID: 803267, Name: "Paris", Region: "Ile-de-France", Country: "France"},
			},
		},
	}
}

func (g *fakeGateway) FetchForecast(_ context.Context, city string) (*weather.Snapshot, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.forecastCalls = append(g.forecastCalls, city)
	if s, ok := g.forecasts[strings.ToLower(city)]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %q", weather.ErrNotFound, city)
}

func (g *fakeGateway) FetchSuggestions(_ context.Context, text string) ([]weather.Suggestion, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.suggestCalls = append(g.suggestCalls, text)
	if g.suggestErr != nil {
		return nil, g.suggestErr
	}
	return g.suggestions[strings.ToLower(text)], nil
}

func (g *fakeGateway) calls() (forecast, suggest []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.forecastCalls...), append([]string(nil), g.suggestCalls...)
}

func makeSnapshot(name, country string, days int) *weather.Snapshot {
	s := &weather.Snapshot{
		Location: weather.Location{Name: name, Country: country},
		Current: weather.Current{
			TempC:     11.6,
			Condition: weather.Condition{Text: "Partly cloudy"},
			Humidity:  71,
			WindKph:   13.3,
		},
	}
	for d := 0; d < days; d++ {
		day := weather.Day{
			Date: fmt.Sprintf("2026-10-%02d", 14+d),
			Day:  weather.DaySummary{AvgTempC: 10.4 + float64(d), Condition: weather.Condition{Text: "Rain"}},
		}
		for h := 0; h < 24; h++ {
			day.Hours = append(day.Hours, weather.Hour{
				Time:      fmt.Sprintf("%s %02d:00", day.Date, h),
				TempC:     8 + float64(h)/4,
				Condition: weather.Condition{Text: "Clear"},
			})
		}
		s.Forecast.Days = append(s.Forecast.Days, day)
	}
	return s
}

func newTestApp(t *testing.T) (App, *debounce.Manual, *fakeGateway) {
	t.Helper()
	clock := debounce.NewManual()
	gw := newFakeGateway()
	app := NewAppWithConfig(AppConfig{
		Gateway:   gw,
		Scheduler: debounce.NewWithTimer(clock.AfterFunc),
		Obs:       ObsConfig{Ring: otel.NewRingBuffer(256)},
	})
	app.ready = true
	app.width = 100
	app.height = 40
	t.Cleanup(app.cancel)
	return app, clock, gw
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

func typeText(a App, s string) App {
	for _, r := range s {
		a, _ = update(a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return a
}

func backspace(a App, n int) App {
	for i := 0; i < n; i++ {
		a, _ = update(a, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	return a
}

// runCmd executes cmd and any batch it expands to, collecting the messages.
// Only used on commands that finish immediately (gateway calls).
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// advance moves the clock and handles every settle it produced, in order.
// Replies from the queries those settles issued are returned undelivered.
func advance(a App, clock *debounce.Manual, d time.Duration) (App, []tea.Msg) {
	clock.Advance(d)
	var replies []tea.Msg
	for {
		select {
		case m := <-a.settles:
			replies = append(replies, runCmd(a.handleSettle(m))...)
		default:
			return a, replies
		}
	}
}

func deliver(a App, msgs ...tea.Msg) App {
	for _, m := range msgs {
		a, _ = update(a, m)
	}
	return a
}

func press(a App, k tea.KeyType) (App, tea.Cmd) {
	return update(a, tea.KeyMsg{Type: k})
}

func TestShortInputNeverSearches(t *testing.T) {
	for _, text := range []string{"", "L", "Lo", "  Lo  ", "é"} {
		t.Run(fmt.Sprintf("%q", text), func(t *testing.T) {
			app, clock, gw := newTestApp(t)
			app = typeText(app, text)
			app, replies := advance(app, clock, 5*time.Second)
			app = deliver(app, replies...)

			if _, suggest := gw.calls(); len(suggest) != 0 {
				t.Errorf("suggest calls = %v, want none", suggest)
			}
			if len(app.Suggestions()) != 0 {
				t.Errorf("suggestions = %v, want empty", app.Suggestions())
			}
		})
	}
}

func TestShortInputClearsListSynchronously(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)
	if len(app.Suggestions()) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(app.Suggestions()))
	}

	app = backspace(app, 1)
	if len(app.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want cleared without waiting", app.Suggestions())
	}
	if app.sched.Pending(debounce.KeySuggest) {
		t.Error("short input should cancel the pending search")
	}
}

func TestRapidEditsIssueOneQuery(t *testing.T) {
	app, clock, gw := newTestApp(t)

	var replies []tea.Msg
	for _, r := range "London" {
		app = typeText(app, string(r))
		var got []tea.Msg
		app, got = advance(app, clock, 100*time.Millisecond)
		replies = append(replies, got...)
	}
	if _, suggest := gw.calls(); len(suggest) != 0 {
		t.Fatalf("searched mid-typing: %v", suggest)
	}

	app, got := advance(app, clock, 200*time.Millisecond)
	replies = append(replies, got...)
	app = deliver(app, replies...)
	if _, suggest := gw.calls(); len(suggest) != 1 || suggest[0] != "London" {
		t.Errorf("suggest calls = %v, want [London]", suggest)
	}

	app, got = advance(app, clock, 900*time.Millisecond)
	deliver(app, got...)
	if forecast, _ := gw.calls(); len(forecast) != 1 || forecast[0] != "London" {
		t.Errorf("forecast calls = %v, want [London]", forecast)
	}
}

func TestSupersededSettleIsIgnored(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "Lon")

	// The settle for "Lon" is queued but not yet handled when "d" arrives.
	clock.Advance(300 * time.Millisecond)
	app = typeText(app, "d")

	app, replies := advance(app, clock, 0)
	if len(replies) != 0 {
		t.Errorf("stale settle issued a query: %v", replies)
	}
	if _, suggest := gw.calls(); len(suggest) != 0 {
		t.Errorf("suggest calls = %v, want none", suggest)
	}

	app, replies = advance(app, clock, 300*time.Millisecond)
	deliver(app, replies...)
	if _, suggest := gw.calls(); len(suggest) != 1 || suggest[0] != "Lond" {
		t.Errorf("suggest calls = %v, want [Lond]", suggest)
	}
}

func TestLatestResolutionWins(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = typeText(app, "Paris")
	app, cmd1 := press(app, tea.KeyEnter)
	app = backspace(app, 5)
	app = typeText(app, "London")
	app, cmd2 := press(app, tea.KeyEnter)

	r1 := runCmd(cmd1)
	r2 := runCmd(cmd2)

	// R2 lands first, R1 straggles in afterwards.
	app = deliver(app, r2...)
	app = deliver(app, r1...)

	if app.Snapshot() == nil || app.Snapshot().Location.Name != "London" {
		t.Fatalf("snapshot = %+v, want London", app.Snapshot())
	}
	if app.Loading() {
		t.Error("loading should be false after the latest reply")
	}
}

func TestStaleFailureDoesNotClobber(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = typeText(app, "Atlantis")
	app, cmd1 := press(app, tea.KeyEnter)
	app = backspace(app, 8)
	app = typeText(app, "Paris")
	app, cmd2 := press(app, tea.KeyEnter)

	app = deliver(app, runCmd(cmd2)...)
	app = deliver(app, runCmd(cmd1)...)

	if app.Err() != "" {
		t.Errorf("stale failure set error %q", app.Err())
	}
	if app.Snapshot() == nil || app.Snapshot().Location.Name != "Paris" {
		t.Errorf("snapshot = %+v, want Paris", app.Snapshot())
	}
}

func TestSupersededReplyKeepsLoading(t *testing.T) {
	app, _, _ := newTestApp(t)

	app = typeText(app, "Paris")
	app, cmd1 := press(app, tea.KeyEnter)
	app = backspace(app, 5)
	app = typeText(app, "London")
	app, _ = press(app, tea.KeyEnter)

	app = deliver(app, runCmd(cmd1)...)
	if !app.Loading() {
		t.Error("stale reply ended the newer resolution's loading state")
	}
	if app.Snapshot() != nil {
		t.Error("stale reply installed a snapshot")
	}
}

func TestSelectSuggestion(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)

	app, _ = press(app, tea.KeyDown)
	app, _ = press(app, tea.KeyDown)
	app, cmd := press(app, tea.KeyEnter)

	if len(app.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want cleared before the reply", app.Suggestions())
	}
	if app.Value() != "London" {
		t.Errorf("value = %q, want London", app.Value())
	}
	if !app.Loading() {
		t.Error("selection should start loading")
	}

	app = deliver(app, runCmd(cmd)...)
	app, replies = advance(app, clock, 5*time.Second)
	deliver(app, replies...)

	if forecast, _ := gw.calls(); len(forecast) != 1 || forecast[0] != "London" {
		t.Errorf("forecast calls = %v, want exactly [London]", forecast)
	}
}

func TestEnterBypassesDebounce(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "Paris")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	app, replies := advance(app, clock, 5*time.Second)
	deliver(app, replies...)

	forecast, suggest := gw.calls()
	if len(forecast) != 1 || forecast[0] != "Paris" {
		t.Errorf("forecast calls = %v, want [Paris]", forecast)
	}
	if len(suggest) != 0 {
		t.Errorf("suggest calls = %v, want none after Enter", suggest)
	}
}

func TestEnterOnBlankDoesNothing(t *testing.T) {
	app, _, gw := newTestApp(t)
	app = typeText(app, "   ")
	app, cmd := press(app, tea.KeyEnter)

	if cmd != nil {
		runCmd(cmd)
	}
	if app.Loading() {
		t.Error("blank Enter should not start loading")
	}
	if forecast, _ := gw.calls(); len(forecast) != 0 {
		t.Errorf("forecast calls = %v, want none", forecast)
	}
}

func TestSuccessResetsSelectedDay(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	app, _ = press(app, tea.KeyTab)
	app, _ = press(app, tea.KeyTab)
	if app.SelectedDay() != 2 {
		t.Fatalf("selected day = %d, want 2", app.SelectedDay())
	}

	app = backspace(app, 6)
	app = typeText(app, "Paris")
	app, cmd = press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)
	if app.SelectedDay() != 0 {
		t.Errorf("selected day = %d, want 0 after new snapshot", app.SelectedDay())
	}
}

func TestDayTabsClamp(t *testing.T) {
	app, _, _ := newTestApp(t)

	app, _ = press(app, tea.KeyTab)
	if app.SelectedDay() != 0 {
		t.Errorf("tab without weather moved day to %d", app.SelectedDay())
	}

	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	for i := 0; i < 5; i++ {
		app, _ = press(app, tea.KeyTab)
	}
	if app.SelectedDay() != 2 {
		t.Errorf("selected day = %d, want clamped to 2", app.SelectedDay())
	}
	for i := 0; i < 5; i++ {
		app, _ = press(app, tea.KeyShiftTab)
	}
	if app.SelectedDay() != 0 {
		t.Errorf("selected day = %d, want clamped to 0", app.SelectedDay())
	}
}

func TestFailureClearsSnapshotThenSuccessClearsError(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)
	if app.Snapshot() == nil {
		t.Fatal("expected London snapshot")
	}

	app = backspace(app, 6)
	app = typeText(app, "Nowhere")
	app, cmd = press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)
	if app.Snapshot() != nil {
		t.Error("failure should clear the displayed weather")
	}
	if app.Err() == "" {
		t.Fatal("failure should set an error")
	}

	app = backspace(app, 7)
	app = typeText(app, "Paris")
	app, cmd = press(app, tea.KeyEnter)
	if app.Err() != "" {
		t.Error("starting a resolve should clear the error")
	}
	app = deliver(app, runCmd(cmd)...)
	if app.Err() != "" {
		t.Errorf("error = %q after success", app.Err())
	}
	if app.Snapshot() == nil || app.Snapshot().Location.Name != "Paris" {
		t.Errorf("snapshot = %+v, want Paris", app.Snapshot())
	}
}

func TestScenarioTypeLondon(t *testing.T) {
	app, clock, gw := newTestApp(t)

	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)
	if len(app.Suggestions()) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(app.Suggestions()))
	}
	view := app.View()
	for _, want := range []string{"Ontario, Canada", "City of London, Greater London, United Kingdom"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	app = typeText(app, "don")
	app, replies = advance(app, clock, 1200*time.Millisecond)
	if len(app.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want empty once resolution starts", app.Suggestions())
	}
	app = deliver(app, replies...)

	if forecast, _ := gw.calls(); len(forecast) != 1 || forecast[0] != "London" {
		t.Errorf("forecast calls = %v, want exactly [London]", forecast)
	}
	if len(app.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want empty after resolve", app.Suggestions())
	}
	if app.Snapshot() == nil || app.Snapshot().Location.Name != "London" {
		t.Errorf("snapshot = %+v, want London", app.Snapshot())
	}
}

func TestScenarioAtlantis(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = typeText(app, "Atlantis")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	if app.Snapshot() != nil {
		t.Errorf("snapshot = %+v, want nil", app.Snapshot())
	}
	if app.Err() != weather.NotFoundMessage {
		t.Errorf("error = %q, want %q", app.Err(), weather.NotFoundMessage)
	}
	if app.Loading() {
		t.Error("loading should be false")
	}
	if !strings.Contains(app.View(), weather.NotFoundMessage) {
		t.Error("view should show the error")
	}
}

func TestAutoResolveSkipsDisplayedCity(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	app = backspace(app, 6)
	app = typeText(app, "lOnDoN ")
	app, replies := advance(app, clock, 1200*time.Millisecond)
	deliver(app, replies...)

	if forecast, _ := gw.calls(); len(forecast) != 1 {
		t.Errorf("forecast calls = %v, want only the first", forecast)
	}
}

func TestAutoResolveDoesNotSkipPrefix(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	app = backspace(app, 2)
	app, replies := advance(app, clock, 1200*time.Millisecond)
	deliver(app, replies...)

	forecast, _ := gw.calls()
	if len(forecast) != 2 || forecast[1] != "Lond" {
		t.Errorf("forecast calls = %v, want [London Lond]", forecast)
	}
}

func TestAutoResolveNeedsThreeRunes(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "NY")
	app, replies := advance(app, clock, 5*time.Second)
	deliver(app, replies...)

	if forecast, _ := gw.calls(); len(forecast) != 0 {
		t.Errorf("forecast calls = %v, want none", forecast)
	}
}

func TestSuggestionReplyAfterClearIsDropped(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	if len(replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replies))
	}

	app = backspace(app, 1)
	app = deliver(app, replies...)
	if len(app.Suggestions()) != 0 {
		t.Errorf("late reply repopulated a cleared list: %v", app.Suggestions())
	}
}

func TestOlderSuggestionReplyIsDropped(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app = typeText(app, "Par")
	app, first := advance(app, clock, 300*time.Millisecond)

	app = backspace(app, 3)
	app = typeText(app, "Lon")
	app, second := advance(app, clock, 300*time.Millisecond)

	app = deliver(app, second...)
	app = deliver(app, first...)

	got := app.Suggestions()
	if len(got) != 2 || got[0].Name != "London" {
		t.Errorf("suggestions = %+v, want the London results", got)
	}
}

func TestSuggestionFailureIsSilent(t *testing.T) {
	app, clock, gw := newTestApp(t)
	gw.suggestErr = fmt.Errorf("%w: boom", weather.ErrSuggestions)

	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)

	if len(app.Suggestions()) != 0 {
		t.Errorf("suggestions = %v, want empty", app.Suggestions())
	}
	if app.Err() != "" {
		t.Errorf("suggestion failure surfaced as %q", app.Err())
	}
	if strings.Contains(app.View(), "boom") {
		t.Error("suggestion failure leaked into view")
	}
}

func TestEmptySuggestionListIsValid(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "Zzq")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)

	if _, suggest := gw.calls(); len(suggest) != 1 {
		t.Fatalf("suggest calls = %v", suggest)
	}
	if len(app.Suggestions()) != 0 || app.Err() != "" {
		t.Errorf("suggestions = %v, err = %q", app.Suggestions(), app.Err())
	}
}

func TestEscDismissesSuggestions(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)

	app, _ = press(app, tea.KeyEsc)
	if len(app.Suggestions()) != 0 {
		t.Errorf("suggestions = %v after esc", app.Suggestions())
	}
	if app.Value() != "Lon" {
		t.Errorf("esc changed the text to %q", app.Value())
	}
}

func TestHighlightBounds(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app = typeText(app, "Lon")
	app, replies := advance(app, clock, 300*time.Millisecond)
	app = deliver(app, replies...)

	for i := 0; i < 5; i++ {
		app, _ = press(app, tea.KeyDown)
	}
	if app.highlight != 1 {
		t.Errorf("highlight = %d, want 1", app.highlight)
	}
	for i := 0; i < 5; i++ {
		app, _ = press(app, tea.KeyUp)
	}
	if app.highlight != -1 {
		t.Errorf("highlight = %d, want -1", app.highlight)
	}
}

func TestQuitStopsTimers(t *testing.T) {
	app, clock, gw := newTestApp(t)
	app = typeText(app, "Lon")

	app, cmd := update(app, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}

	clock.Advance(5 * time.Second)
	select {
	case m := <-app.settles:
		t.Errorf("settle %+v fired after quit", m)
	default:
	}
	if clock.Active() != 0 {
		t.Errorf("%d timers still armed", clock.Active())
	}
	if forecast, suggest := gw.calls(); len(forecast)+len(suggest) != 0 {
		t.Errorf("calls after quit: %v %v", forecast, suggest)
	}
}

func TestSettleListener(t *testing.T) {
	app, clock, _ := newTestApp(t)
	app = typeText(app, "Lon")
	clock.Advance(300 * time.Millisecond)

	msg := app.listenForSettles()()
	s, ok := msg.(settleMsg)
	if !ok || s.Key != debounce.KeySuggest {
		t.Fatalf("listener returned %#v, want suggest settle", msg)
	}

	app, cmd := update(app, s)
	if cmd == nil {
		t.Error("settle should re-arm the listener")
	}

	app.cancel()
	if _, ok := app.listenForSettles()().(settlesClosed); !ok {
		t.Error("listener should end once the app context is done")
	}
}

func TestNilGatewayIsSafe(t *testing.T) {
	app := NewAppWithConfig(AppConfig{Scheduler: debounce.NewWithTimer(debounce.NewManual().AfterFunc)})
	t.Cleanup(app.cancel)
	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	if cmd != nil {
		t.Error("no gateway should mean no command")
	}
	if !app.Loading() {
		t.Error("resolve should still mark loading")
	}
}

func TestForecastNilSnapshotIsFailure(t *testing.T) {
	app, _, gw := newTestApp(t)
	gw.forecasts["void"] = nil
	app = typeText(app, "Void")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	if app.Err() != weather.NotFoundMessage {
		t.Errorf("error = %q", app.Err())
	}
}

func TestGatewayErrorsAllLookAlike(t *testing.T) {
	causes := []error{
		fmt.Errorf("%w: unreachable", weather.ErrNotFound),
		errors.New("something unclassified"),
	}
	for _, cause := range causes {
		app, _, _ := newTestApp(t)
		app.epoch = 7
		app.loading = true
		app = deliver(app, ForecastLoaded{Epoch: 7, City: "X", Err: cause})
		if app.Err() != weather.NotFoundMessage {
			t.Errorf("cause %v: error = %q", cause, app.Err())
		}
	}
}

func TestViewRoundsValues(t *testing.T) {
	app, _, _ := newTestApp(t)
	app = typeText(app, "London")
	app, cmd := press(app, tea.KeyEnter)
	app = deliver(app, runCmd(cmd)...)

	view := app.View()
	for _, want := range []string{"London, United Kingdom", "12°C", "Humidity: 71%", "Wind: 13 km/h", "Partly cloudy", "00:00", "02:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if strings.Contains(view, "01:00") {
		t.Error("hourly view should skip odd hours")
	}
}

func TestFormatRound(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{11.6, "12"},
		{11.4, "11"},
		{-0.4, "0"},
		{-2.5, "-3"},
		{0, "0"},
	}
	for _, tt := range tests {
		if got := formatRound(tt.in); got != tt.want {
			t.Errorf("formatRound(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDayLabel(t *testing.T) {
	if got := dayLabel("2026-10-14"); got != "Wed 14" {
		t.Errorf("dayLabel = %q, want Wed 14", got)
	}
	if got := dayLabel("someday"); got != "someday" {
		t.Errorf("dayLabel passthrough = %q", got)
	}
}
