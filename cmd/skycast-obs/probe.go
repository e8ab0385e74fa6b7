package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/abelbrown/skycast/internal/config"
	"github.com/abelbrown/skycast/internal/gateway"
	"github.com/abelbrown/skycast/internal/weather"
)

// probeResult is what one probe run found.
type probeResult struct {
	Healthy     bool
	HealthErr   error
	Suggestions int
	SuggestErr  error
	Snapshot    *weather.Snapshot
	ForecastErr error
	Took        time.Duration
}

// probe checks /health, then runs one search and one forecast through the
// same gateway the TUI uses.
func probe(ctx context.Context, baseURL, city string, timeout time.Duration) probeResult {
	start := time.Now()
	var res probeResult

	hc := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/health", nil)
	if err == nil {
		var resp *http.Response
		resp, err = hc.Do(req)
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				err = weather.StatusError{Status: resp.StatusCode}
			}
		}
	}
	res.Healthy = err == nil
	res.HealthErr = err

	gw := gateway.New(baseURL, timeout)
	if list, err := gw.FetchSuggestions(ctx, city); err != nil {
		res.SuggestErr = err
	} else {
		res.Suggestions = len(list)
	}
	res.Snapshot, res.ForecastErr = gw.FetchForecast(ctx, city)
	res.Took = time.Since(start)
	return res
}

func (r probeResult) write(w io.Writer, baseURL, city string) {
	fmt.Fprintf(w, "Proxy:        %s\n", baseURL)
	if r.Healthy {
		fmt.Fprintln(w, "Health:       ok")
	} else {
		fmt.Fprintf(w, "Health:       FAIL (%v)\n", r.HealthErr)
	}
	if r.SuggestErr != nil {
		fmt.Fprintf(w, "Search:       FAIL (%v)\n", r.SuggestErr)
	} else {
		fmt.Fprintf(w, "Search:       %d candidates for %q\n", r.Suggestions, city)
	}
	if r.ForecastErr != nil {
		fmt.Fprintf(w, "Forecast:     FAIL (%v)\n", r.ForecastErr)
	} else {
		s := r.Snapshot
		fmt.Fprintf(w, "Forecast:     %s, %s  %.1f°C  %s  (%d days)\n",
			s.Location.Name, s.Location.Country, s.Current.TempC, s.Current.Condition.Text, len(s.Forecast.Days))
	}
	fmt.Fprintf(w, "Took:         %s\n", r.Took.Round(time.Millisecond))
}

func runProbe(args []string) error {
	fs := flag.NewFlagSet("probe", flag.ExitOnError)
	apiURL := fs.String("api", "", "proxy base URL (default from config)")
	fs.Parse(args)

	city := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if city == "" {
		city = "London"
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	baseURL := cfg.Client.APIURL
	if *apiURL != "" {
		baseURL = *apiURL
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Client.RequestTimeout)
	defer cancel()

	res := probe(ctx, baseURL, city, cfg.Client.RequestTimeout)
	res.write(os.Stdout, baseURL, city)
	if !res.Healthy || res.ForecastErr != nil {
		return errProbeFailed
	}
	return nil
}
