package config

import "time"

// Config holds runtime settings for the CloudBox CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the backend HTTP API.
//   - CacheDSN: path to the local identity cache database.
//   - RequestTimeout: per-request HTTP timeout; zero disables the timeout.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerEndpointAddr  string
	CacheDSN            string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8000/api"
	c.CacheDSN = "cloudbox.db"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
