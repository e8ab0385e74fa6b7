package ui

import "github.com/charmbracelet/lipgloss"

// Palette: sky blue frames, sun orange for temperatures.
var (
	colorPrimary   = lipgloss.Color("33")  // sky
	colorSecondary = lipgloss.Color("245") // cloud
	colorMuted     = lipgloss.Color("239") // overcast
	colorHighlight = lipgloss.Color("117") // pale sky
	colorWarm      = lipgloss.Color("208") // sun
)

// Title style for the app header.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// InputBox frames the city field.
var InputBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// SuggestionItem style for an unselected dropdown row.
var SuggestionItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// SuggestionSelected style for the highlighted dropdown row.
var SuggestionSelected = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// SuggestionDetail style for the region and country after a name.
var SuggestionDetail = lipgloss.NewStyle().
	Foreground(colorSecondary)

// LocationStyle for the resolved city heading.
var LocationStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	MarginTop(1).
	Padding(0, 1)

// TempStyle for the current temperature.
var TempStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWarm).
	Padding(0, 1)

// DetailStyle for condition, humidity and wind.
var DetailStyle = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(0, 1)

// DayTab style for an unselected forecast day.
var DayTab = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Border(lipgloss.NormalBorder(), false, false, true, false).
	BorderForeground(colorMuted).
	Padding(0, 1)

// DayTabActive style for the selected forecast day.
var DayTabActive = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Border(lipgloss.NormalBorder(), false, false, true, false).
	BorderForeground(colorHighlight).
	Padding(0, 1)

// HourRow style for one hourly entry.
var HourRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 2)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(colorHighlight)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("203")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// DebugPanel frames the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for section headers inside the debug overlay.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
