// Package proxy is the stateless pass-through between the client and the
// upstream weather provider. Each route forwards one request and relays the
// provider's JSON verbatim, or answers with a generic failure message.
package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/abelbrown/skycast/internal/otel"
)

// Failure bodies. The client never sees the underlying cause.
const (
	ForecastFailureMessage = "City not found or API error"
	SearchFailureMessage   = "Search error"
)

// Upstream is the provider surface the proxy needs.
type Upstream interface {
	Forecast(ctx context.Context, city string) ([]byte, error)
	Search(ctx context.Context, query string) ([]byte, error)
}

// Server serves the /api/weather routes.
type Server struct {
	upstream Upstream
	metrics  *Metrics
	events   *otel.Logger
	log      *log.Logger
}

// NewServer creates a Server. metrics, events and logger may be nil.
func NewServer(upstream Upstream, metrics *Metrics, events *otel.Logger, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{upstream: upstream, metrics: metrics, events: events, log: logger}
}

// RegisterRoutes mounts the weather routes on r.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Get("/weather/search/{query}", s.handleSearch)
	r.Get("/weather/{city}", s.handleForecast)
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// pathParam returns the decoded, trimmed route parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if v, err := url.PathUnescape(raw); err == nil {
		raw = v
	}
	return strings.TrimSpace(raw)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	city := pathParam(r, "city")
	start := time.Now()
	if city == "" {
		writeJSON(w, http.StatusInternalServerError, messageBody{ForecastFailureMessage})
		return
	}

	body, err := s.upstream.Forecast(r.Context(), city)
	if err != nil {
		s.upstreamFailed("forecast", city, err)
		writeJSON(w, http.StatusInternalServerError, messageBody{ForecastFailureMessage})
		return
	}
	s.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindProxyRequest, Comp: "proxy",
		Query: city, Msg: "forecast", Dur: time.Since(start)})
	writeRaw(w, body)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := pathParam(r, "query")
	start := time.Now()
	if query == "" {
		writeJSON(w, http.StatusInternalServerError, messageBody{SearchFailureMessage})
		return
	}

	body, err := s.upstream.Search(r.Context(), query)
	if err != nil {
		s.upstreamFailed("search", query, err)
		writeJSON(w, http.StatusInternalServerError, messageBody{SearchFailureMessage})
		return
	}
	s.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindProxyRequest, Comp: "proxy",
		Query: query, Msg: "search", Dur: time.Since(start)})
	writeRaw(w, body)
}

func (s *Server) upstreamFailed(op, query string, err error) {
	s.log.Warn("upstream failed", "op", op, "query", query, "err", err)
	s.metrics.upstreamFailure(op)
	s.events.Emit(otel.Event{Level: otel.LevelWarn, Kind: otel.KindUpstreamError, Comp: "proxy",
		Query: query, Msg: op, Err: err.Error()})
}
