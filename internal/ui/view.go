package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/skycast/internal/weather"
)

// hourStride is how many hours apart the hourly rows are.
const hourStride = 2

// View renders the UI.
func (a App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}

	if a.debugVisible {
		return debugOverlay(a.obs.Ring, a.debugState(), width, a.height) + "\n" + debugStatusBar(width)
	}

	var b strings.Builder
	b.WriteString(Title.Render("skycast"))
	b.WriteString("\n")
	b.WriteString(InputBox.Width(min(width-2, 60)).Render(a.input.View()))
	b.WriteString("\n")

	if len(a.suggestions) > 0 {
		b.WriteString(renderSuggestions(a.suggestions, a.highlight))
		b.WriteString("\n")
	}

	switch {
	case a.loading:
		b.WriteString(DetailStyle.Render(a.spinner.View() + " Loading..."))
		b.WriteString("\n")
	case a.errMsg != "":
		b.WriteString(ErrorStyle.Render(a.errMsg))
		b.WriteString("\n")
	}

	if a.snapshot != nil {
		b.WriteString(renderSnapshot(a.snapshot, a.selectedDay))
		b.WriteString("\n")
	}

	b.WriteString(renderStatusBar(width, a.snapshot != nil))
	return b.String()
}

func renderSuggestions(list []weather.Suggestion, highlight int) string {
	rows := make([]string, 0, len(list))
	for i, s := range list {
		style := SuggestionItem
		if i == highlight {
			style = SuggestionSelected
		}
		row := s.Name
		if label := s.Label(); label != "" {
			row += " " + SuggestionDetail.Render(label)
		}
		rows = append(rows, style.Render(row))
	}
	return strings.Join(rows, "\n")
}

func renderSnapshot(s *weather.Snapshot, day int) string {
	var lines []string

	loc := s.Location.Name
	if s.Location.Country != "" {
		loc += ", " + s.Location.Country
	}
	lines = append(lines, LocationStyle.Render(loc))
	lines = append(lines, TempStyle.Render(formatTemp(s.Current.TempC))+
		DetailStyle.Render(s.Current.Condition.Text))
	lines = append(lines, DetailStyle.Render(fmt.Sprintf("Humidity: %d%%   Wind: %s km/h",
		s.Current.Humidity, formatRound(s.Current.WindKph))))

	days := s.Forecast.Days
	if len(days) == 0 {
		return strings.Join(lines, "\n")
	}
	if day < 0 || day >= len(days) {
		day = 0
	}

	tabs := make([]string, 0, len(days))
	for i, d := range days {
		label := dayLabel(d.Date) + " " + formatTemp(d.Day.AvgTempC)
		if i == day {
			tabs = append(tabs, DayTabActive.Render(label))
		} else {
			tabs = append(tabs, DayTab.Render(label))
		}
	}
	lines = append(lines, "", lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...))

	for i, h := range days[day].Hours {
		if i%hourStride != 0 {
			continue
		}
		lines = append(lines, HourRow.Render(fmt.Sprintf("%s  %5s  %s", h.Clock(), formatTemp(h.TempC), h.Condition.Text)))
	}
	return strings.Join(lines, "\n")
}

// formatRound rounds a provider value for display. Negative zero prints as 0.
func formatRound(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0
	}
	return fmt.Sprintf("%.0f", r)
}

func formatTemp(c float64) string {
	return formatRound(c) + "°C"
}

// dayLabel turns "2006-01-02" into "Mon 2". Unparseable dates pass through.
func dayLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 2")
}

func renderStatusBar(width int, haveWeather bool) string {
	hint := func(k, desc string) string {
		return StatusBarKey.Render(k) + StatusBarText.Render(":"+desc)
	}
	parts := []string{hint("enter", "search"), hint("↑↓", "suggestions"), hint("esc", "dismiss")}
	if haveWeather {
		parts = append(parts, hint("tab", "day"))
	}
	parts = append(parts, hint("ctrl+d", "debug"), hint("ctrl+c", "quit"))
	return StatusBar.Width(width).Render(strings.Join(parts, "  "))
}
