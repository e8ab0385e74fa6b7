// Package provider talks to the upstream weather API on behalf of the proxy.
//
// Responses are returned as raw JSON so the proxy can relay them verbatim.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abelbrown/skycast/internal/weather"
)

// DefaultBaseURL is the weatherapi.com v1 endpoint.
const DefaultBaseURL = "https://api.weatherapi.com/v1"

// forecastDays is how many days the forecast covers.
const forecastDays = 3

// maxBody caps how much of an upstream reply is read.
const maxBody = 4 << 20

// Client fetches forecast and search JSON from the upstream provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. An empty baseURL selects DefaultBaseURL. A missing
// API key is not rejected here; the upstream answers with an error status.
func New(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forecast returns the 3-day forecast JSON for city, without air quality or alerts.
func (c *Client) Forecast(ctx context.Context, city string) ([]byte, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("days", fmt.Sprint(forecastDays))
	q.Set("aqi", "no")
	q.Set("alerts", "no")

	body, err := c.get(ctx, "/forecast.json", q)
	if err != nil {
		return nil, fmt.Errorf("forecast %q: %w", city, err)
	}
	return body, nil
}

// Search returns the city-search JSON array for query.
func (c *Client) Search(ctx context.Context, query string) ([]byte, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", query)

	body, err := c.get(ctx, "/search.json", q)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	u := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(weather.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, errors.Join(weather.ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, weather.StatusError{Status: resp.StatusCode, Body: upstreamMessage(body)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON body", weather.ErrUpstream)
	}
	return body, nil
}

// upstreamMessage pulls error.message out of a provider error body, falling
// back to the raw (trimmed) text.
func upstreamMessage(body []byte) string {
	var e struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
