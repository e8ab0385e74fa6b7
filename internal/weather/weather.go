// Package weather holds the data model shared by the client and the proxy.
//
// Field names follow the provider's forecast.json and search.json payloads so
// the proxy can relay them verbatim and the client can decode them directly.
package weather

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundMessage is the only failure text ever shown to the user.
const NotFoundMessage = "City not found. Please try again."

var (
	// ErrNotFound is returned by forecast lookups that fail for any reason.
	ErrNotFound = errors.New("weather: city not found")

	// ErrSuggestions is returned by city search lookups that fail for any reason.
	ErrSuggestions = errors.New("weather: suggestion lookup failed")

	// ErrUpstream marks a failure talking to the upstream provider.
	ErrUpstream = errors.New("weather: upstream unavailable")
)

// StatusError is a non-200 reply from an HTTP peer.
type StatusError struct {
	Status int
	Body   string
}

func (e StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// Unwrap lets errors.Is(err, ErrUpstream) match any StatusError.
func (e StatusError) Unwrap() error {
	return ErrUpstream
}

// Suggestion is one city candidate from a search.
type Suggestion struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

// Label renders "region, country" the way the dropdown shows it.
func (s Suggestion) Label() string {
	parts := make([]string, 0, 2)
	if s.Region != "" {
		parts = append(parts, s.Region)
	}
	if s.Country != "" {
		parts = append(parts, s.Country)
	}
	return strings.Join(parts, ", ")
}

// Condition is the provider's textual condition plus icon URL.
type Condition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

// Location identifies the resolved city.
type Location struct {
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country"`
}

// Current is the "now" block of a forecast.
type Current struct {
	TempC     float64   `json:"temp_c"`
	Condition Condition `json:"condition"`
	Humidity  int       `json:"humidity"`
	WindKph   float64   `json:"wind_kph"`
}

// Hour is one hourly forecast entry. Time is "YYYY-MM-DD HH:MM".
type Hour struct {
	Time      string    `json:"time"`
	TempC     float64   `json:"temp_c"`
	Condition Condition `json:"condition"`
}

// DaySummary is the per-day aggregate block.
type DaySummary struct {
	AvgTempC  float64   `json:"avgtemp_c"`
	Condition Condition `json:"condition"`
}

// Day is one forecast day with its hourly breakdown.
type Day struct {
	Date  string     `json:"date"`
	Day   DaySummary `json:"day"`
	Hours []Hour     `json:"hour"`
}

// Forecast wraps the day list.
type Forecast struct {
	Days []Day `json:"forecastday"`
}

// Snapshot is the canonical resolved result for a city. It is replaced
// wholesale on every successful resolution, never merged.
type Snapshot struct {
	Location Location `json:"location"`
	Current  Current  `json:"current"`
	Forecast Forecast `json:"forecast"`
}

// Matches reports whether text names this snapshot's city, ignoring case
// and surrounding whitespace. Partial or prefix matches do not count.
func (s *Snapshot) Matches(text string) bool {
	if s == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(text), s.Location.Name)
}

// Clock returns the "HH:MM" part of an hourly time stamp.
func (h Hour) Clock() string {
	if i := strings.LastIndexByte(h.Time, ' '); i >= 0 {
		return h.Time[i+1:]
	}
	return h.Time
}
