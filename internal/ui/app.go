package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/abelbrown/skycast/internal/debounce"
	"github.com/abelbrown/skycast/internal/otel"
	"github.com/abelbrown/skycast/internal/weather"
)

// Gateway is the query surface App needs. Each call is one network round trip.
type Gateway interface {
	FetchForecast(ctx context.Context, city string) (*weather.Snapshot, error)
	FetchSuggestions(ctx context.Context, text string) ([]weather.Suggestion, error)
}

// ObsConfig wires observability. Both fields are optional.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer
}

// AppConfig holds everything App needs from the outside.
type AppConfig struct {
	Gateway   Gateway
	Scheduler *debounce.Scheduler // nil: a real-time scheduler is created

	SuggestDelay time.Duration // zero: debounce.DefaultSuggestDelay
	ResolveDelay time.Duration // zero: debounce.DefaultResolveDelay

	// Context bounds the settle listener and every network call.
	Context context.Context

	Obs ObsConfig
}

// minQueryRunes is the trimmed length a text must exceed before it is
// searched or auto-resolved.
const minQueryRunes = 2

// settleBuffer bounds queued settles. Each key holds at most one pending
// timer, so this is never reached in practice.
const settleBuffer = 16

// App is the root Bubble Tea model.
//
// The Update loop owns every field. Network replies and debounce settles come
// back as messages, so nothing here is touched from another goroutine.
type App struct {
	gateway      Gateway
	sched        *debounce.Scheduler
	suggestDelay time.Duration
	resolveDelay time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	settles      chan settleMsg
	obs          ObsConfig
	failLog      *rate.Sometimes

	// Input State
	input textinput.Model

	// Suggestion Controller
	suggestions []weather.Suggestion
	highlight   int // index into suggestions, -1 for none
	suggestSeq  uint64

	// Resolution Controller
	snapshot    *weather.Snapshot
	selectedDay int
	loading     bool
	errMsg      string
	epoch       uint64

	spinner      spinner.Model
	width        int
	height       int
	ready        bool
	debugVisible bool
}

// NewAppWithConfig creates an App from cfg.
func NewAppWithConfig(cfg AppConfig) App {
	ti := textinput.New()
	ti.Placeholder = "Enter city name"
	ti.Prompt = "› "
	ti.CharLimit = 100
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	sched := cfg.Scheduler
	if sched == nil {
		sched = debounce.New()
	}
	suggestDelay := cfg.SuggestDelay
	if suggestDelay <= 0 {
		suggestDelay = debounce.DefaultSuggestDelay
	}
	resolveDelay := cfg.ResolveDelay
	if resolveDelay <= 0 {
		resolveDelay = debounce.DefaultResolveDelay
	}
	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	return App{
		gateway:      cfg.Gateway,
		sched:        sched,
		suggestDelay: suggestDelay,
		resolveDelay: resolveDelay,
		ctx:          ctx,
		cancel:       cancel,
		settles:      make(chan settleMsg, settleBuffer),
		obs:          cfg.Obs,
		failLog:      &rate.Sometimes{First: 3, Interval: 30 * time.Second},
		input:        ti,
		highlight:    -1,
		spinner:      s,
	}
}

// Init starts the cursor blink, the spinner and the settle listener.
func (a App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.spinner.Tick, a.listenForSettles())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindMsgReceived, Comp: "ui", Msg: msgName(msg)})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(10, msg.Width-8)
		a.ready = true
		return a, nil

	case settleMsg:
		cmd := a.handleSettle(msg)
		return a, tea.Batch(cmd, a.listenForSettles())

	case settlesClosed:
		return a, nil

	case SuggestionsLoaded:
		a.applySuggestions(msg)
		return a, nil

	case ForecastLoaded:
		a.applyForecast(msg)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input. Keys the app does not claim go to
// the text field.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		a.shutdown()
		return a, tea.Quit

	case key.Matches(msg, keys.Debug):
		a.debugVisible = !a.debugVisible
		return a, nil
	}

	if a.debugVisible {
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Submit):
		if a.highlight >= 0 && a.highlight < len(a.suggestions) {
			return a, a.selectSuggestion(a.suggestions[a.highlight].Name)
		}
		return a, a.resolve(a.input.Value())

	case key.Matches(msg, keys.Down):
		if a.highlight < len(a.suggestions)-1 {
			a.highlight++
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.highlight >= 0 {
			a.highlight--
		}
		return a, nil

	case key.Matches(msg, keys.Dismiss):
		if len(a.suggestions) > 0 {
			a.clearSuggestions()
			a.sched.Cancel(debounce.KeySuggest)
		}
		return a, nil

	case key.Matches(msg, keys.NextDay):
		a.shiftDay(1)
		return a, nil

	case key.Matches(msg, keys.PrevDay):
		a.shiftDay(-1)
		return a, nil
	}

	before := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() != before {
		a.inputChanged(a.input.Value())
	}
	return a, cmd
}

// shutdown stops every timer and the settle listener. No settle fires after it.
func (a *App) shutdown() {
	a.sched.Stop()
	a.cancel()
	a.emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindShutdown, Comp: "ui"})
}

// listenForSettles waits for the next debounce settle.
func (a App) listenForSettles() tea.Cmd {
	settles, done := a.settles, a.ctx.Done()
	return func() tea.Msg {
		select {
		case m := <-settles:
			return m
		case <-done:
			return settlesClosed{}
		}
	}
}

// emit records an event. Without a Logger it goes straight to the ring so
// the debug overlay still works.
func (a App) emit(e otel.Event) {
	if a.obs.Logger != nil {
		a.obs.Logger.Emit(e)
		return
	}
	if a.obs.Ring != nil {
		if e.Time.IsZero() {
			e.Time = time.Now()
		}
		a.obs.Ring.Push(e)
	}
}

// Value returns the current text (for testing).
func (a App) Value() string {
	return a.input.Value()
}

// Suggestions returns the current suggestion list (for testing).
func (a App) Suggestions() []weather.Suggestion {
	return a.suggestions
}

// Snapshot returns the displayed weather, or nil (for testing).
func (a App) Snapshot() *weather.Snapshot {
	return a.snapshot
}

// Err returns the user-facing error text, or "" (for testing).
func (a App) Err() string {
	return a.errMsg
}

// Loading reports whether a resolution is in flight (for testing).
func (a App) Loading() bool {
	return a.loading
}

// SelectedDay returns the forecast day shown in the hourly view (for testing).
func (a App) SelectedDay() int {
	return a.selectedDay
}
