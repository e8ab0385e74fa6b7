package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/abelbrown/skycast/internal/weather"
)

type fakeUpstream struct {
	mu       sync.Mutex
	forecast []byte
	search   []byte
	err      error
	cities   []string
	queries  []string
}

func (f *fakeUpstream) Forecast(_ context.Context, city string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cities = append(f.cities, city)
	if f.err != nil {
		return nil, f.err
	}
	return f.forecast, nil
}

func (f *fakeUpstream) Search(_ context.Context, query string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.search, nil
}

func newTestRouter(up Upstream) (http.Handler, *Metrics) {
	m := NewMetrics()
	s := NewServer(up, m, nil, nil)
	return NewRouter(s, RouterOptions{Metrics: m}), m
}

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	resp := rec.Result()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestForecastRelaysVerbatim(t *testing.T) {
	raw := `{"location":{"name":"London"},"current":{"temp_c":11.5},"extra_field":[1,2]}`
	up := &fakeUpstream{forecast: []byte(raw)}
	h, _ := newTestRouter(up)

	resp, body := get(t, h, "/api/weather/London")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body != raw {
		t.Errorf("body = %s, want verbatim %s", body, raw)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type = %q", ct)
	}
	if len(up.cities) != 1 || up.cities[0] != "London" {
		t.Errorf("cities = %v", up.cities)
	}
}

func TestForecastDecodesEscapedCity(t *testing.T) {
	up := &fakeUpstream{forecast: []byte(`{}`)}
	h, _ := newTestRouter(up)

	get(t, h, "/api/weather/New%20York")
	if len(up.cities) != 1 || up.cities[0] != "New York" {
		t.Errorf("cities = %v, want [New York]", up.cities)
	}
}

func TestForecastFailureBody(t *testing.T) {
	up := &fakeUpstream{err: &weather.StatusError{Status: 400, Body: "No matching location found."}}
	h, m := newTestRouter(up)

	resp, body := get(t, h, "/api/weather/Atlantis")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var msg messageBody
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Message != ForecastFailureMessage {
		t.Errorf("message = %q", msg.Message)
	}
	if strings.Contains(body, "No matching") {
		t.Error("upstream cause leaked to client")
	}
	if got := testutil.ToFloat64(m.upstream.WithLabelValues("forecast")); got != 1 {
		t.Errorf("upstream failures = %v, want 1", got)
	}
}

func TestSearchRelaysVerbatim(t *testing.T) {
	raw := `[{"id":1,"name":"Paris","region":"Ile-de-France","country":"France"}]`
	up := &fakeUpstream{search: []byte(raw)}
	h, _ := newTestRouter(up)

	resp, body := get(t, h, "/api/weather/search/Par")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body != raw {
		t.Errorf("body = %s", body)
	}
	if len(up.queries) != 1 || up.queries[0] != "Par" {
		t.Errorf("queries = %v", up.queries)
	}
	if len(up.cities) != 0 {
		t.Errorf("search routed to forecast: %v", up.cities)
	}
}

func TestSearchFailureBody(t *testing.T) {
	up := &fakeUpstream{err: errors.Join(weather.ErrUpstream, errors.New("dial tcp: refused"))}
	h, m := newTestRouter(up)

	resp, body := get(t, h, "/api/weather/search/Par")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, SearchFailureMessage) {
		t.Errorf("body = %s", body)
	}
	if got := testutil.ToFloat64(m.upstream.WithLabelValues("search")); got != 1 {
		t.Errorf("upstream failures = %v, want 1", got)
	}
}

func TestBlankCityFails(t *testing.T) {
	up := &fakeUpstream{forecast: []byte(`{}`)}
	h, _ := newTestRouter(up)

	resp, _ := get(t, h, "/api/weather/%20%20")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
	if len(up.cities) != 0 {
		t.Errorf("blank city reached upstream: %v", up.cities)
	}
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(&fakeUpstream{})
	resp, body := get(t, h, "/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestRequestMetricsUseRoutePattern(t *testing.T) {
	up := &fakeUpstream{forecast: []byte(`{}`)}
	h, m := newTestRouter(up)

	get(t, h, "/api/weather/London")
	get(t, h, "/api/weather/Paris")

	got := testutil.ToFloat64(m.requests.WithLabelValues("/api/weather/{city}", "GET", "200"))
	if got != 2 {
		t.Errorf("requests{/api/weather/{city}} = %v, want 2", got)
	}

	_, body := get(t, h, "/metrics")
	if !strings.Contains(body, "skycast_proxy_requests_total") {
		t.Error("metrics endpoint missing request counter")
	}
	if strings.Contains(body, "London") {
		t.Error("city leaked into metric labels")
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestRouter(&fakeUpstream{})
	req := httptest.NewRequest(http.MethodOptions, "/api/weather/London", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q, want *", got)
	}
}
