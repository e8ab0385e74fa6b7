package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/skycast/internal/debounce"
)

// Config is the shared client and proxy configuration.
type Config struct {
	Proxy    ProxyConfig    `yaml:"proxy"`
	Client   ClientConfig   `yaml:"client"`
	Debounce DebounceConfig `yaml:"debounce"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProxyConfig holds the pass-through server settings.
type ProxyConfig struct {
	Port            string        `yaml:"port"`
	APIKey          string        `yaml:"api_key"`
	UpstreamBaseURL string        `yaml:"upstream_base_url"`
	UpstreamTimeout time.Duration `yaml:"upstream_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// ClientConfig holds the terminal client settings.
type ClientConfig struct {
	APIURL         string        `yaml:"api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// DebounceConfig controls the two input debounce delays.
type DebounceConfig struct {
	Suggest time.Duration `yaml:"suggest"`
	Resolve time.Duration `yaml:"resolve"`
}

// LoggingConfig controls where logs and event traces land.
type LoggingConfig struct {
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"` // debug | info | warn | error
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Proxy.Port == "" {
		c.Proxy.Port = "5000"
	}
	if c.Proxy.UpstreamBaseURL == "" {
		c.Proxy.UpstreamBaseURL = "https://api.weatherapi.com/v1"
	}
	if c.Proxy.UpstreamTimeout <= 0 {
		c.Proxy.UpstreamTimeout = 10 * time.Second
	}
	if len(c.Proxy.AllowedOrigins) == 0 {
		c.Proxy.AllowedOrigins = []string{"*"}
	}
	if c.Client.APIURL == "" {
		c.Client.APIURL = "http://localhost:5000"
	}
	if c.Client.RequestTimeout <= 0 {
		c.Client.RequestTimeout = 15 * time.Second
	}
	if c.Debounce.Suggest <= 0 {
		c.Debounce.Suggest = debounce.DefaultSuggestDelay
	}
	if c.Debounce.Resolve <= 0 {
		c.Debounce.Resolve = debounce.DefaultResolveDelay
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = filepath.Join(DataDir(), "logs")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// DataDir is ~/.skycast.
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".skycast")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	if p := os.Getenv("SKYCAST_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "config.yaml")
}

// Load reads the config file if present, fills defaults, then applies
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile is Load for an explicit path.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg.applyDefaults()
	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

// AutoPopulateFromEnv overrides settings from environment variables.
// Malformed durations are ignored.
func (c *Config) AutoPopulateFromEnv() {
	if key := strings.TrimSpace(os.Getenv("WEATHER_API_KEY")); key != "" {
		c.Proxy.APIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Proxy.Port = port
	}
	if u := os.Getenv("WEATHER_API_BASE_URL"); u != "" {
		c.Proxy.UpstreamBaseURL = u
	}
	if u := os.Getenv("SKYCAST_API_URL"); u != "" {
		c.Client.APIURL = u
	}
	if d, ok := envDuration("SKYCAST_SUGGEST_DELAY"); ok {
		c.Debounce.Suggest = d
	}
	if d, ok := envDuration("SKYCAST_RESOLVE_DELAY"); ok {
		c.Debounce.Resolve = d
	}
	if lvl := os.Getenv("SKYCAST_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

// Save writes the config as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, false
	}
	return d, true
}
