// Package gateway is the client's route to the proxy. Each call is one
// request and one reply: no retry, no caching, and a single failure kind per
// operation.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/skycast/internal/weather"
)

// DefaultBaseURL is where the proxy listens by default.
const DefaultBaseURL = "http://localhost:5000"

const maxBody = 4 << 20

// Client fetches forecasts and suggestions through the proxy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the proxy at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchForecast resolves city to a snapshot. Every failure, whatever its
// cause, matches weather.ErrNotFound.
func (c *Client) FetchForecast(ctx context.Context, city string) (*weather.Snapshot, error) {
	var snap weather.Snapshot
	if err := c.getJSON(ctx, "/api/weather/"+url.PathEscape(city), &snap); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", weather.ErrNotFound, city, err)
	}
	return &snap, nil
}

// FetchSuggestions returns the city candidates for text. An empty slice is a
// valid answer. Every failure matches weather.ErrSuggestions.
func (c *Client) FetchSuggestions(ctx context.Context, text string) ([]weather.Suggestion, error) {
	var list []weather.Suggestion
	if err := c.getJSON(ctx, "/api/weather/search/"+url.PathEscape(text), &list); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", weather.ErrSuggestions, text, err)
	}
	if list == nil {
		list = []weather.Suggestion{}
	}
	return list, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var m struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &m)
		return weather.StatusError{Status: resp.StatusCode, Body: m.Message}
	}
	return json.Unmarshal(body, out)
}
