package server

import (
	"net/http"
	"net/url"
	"time"

	"github.com/vango-dev/stocknav/internal/config"
)

// Config holds configuration for the navigation server.
type Config struct {
	// Addr is the address to listen on.
	// Default: ":8080".
	Addr string

	// StaticDir is served under the base path. When it contains an
	// index.html, that file is the app shell; otherwise a built-in shell is
	// rendered. Empty disables static files.
	StaticDir string

	// MaxMessageSize is the maximum size of an incoming live-session message.
	// Default: 64KB.
	MaxMessageSize int64

	// WriteTimeout bounds each live-session reply.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 10 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10 seconds.
	ShutdownTimeout time.Duration

	// DisableMetrics removes the /metrics endpoint.
	DisableMetrics bool

	// CheckOrigin validates the Origin header of live-session upgrades.
	// Default: SameOriginCheck.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		MaxMessageSize:    64 * 1000,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   10 * time.Second,
		CheckOrigin:       SameOriginCheck,
	}
}

// ConfigFrom builds a server Config from a finalized application config.
func ConfigFrom(cfg *config.Config) Config {
	c := DefaultConfig()
	if cfg.Server.Addr != "" {
		c.Addr = cfg.Server.Addr
	}
	c.StaticDir = cfg.Server.StaticDir
	if n := cfg.Server.MaxMessageSizeBytes(); n > 0 {
		c.MaxMessageSize = n
	}
	if d := cfg.ShutdownTimeoutDuration(); d > 0 {
		c.ShutdownTimeout = d
	}
	c.DisableMetrics = cfg.Server.DisableMetrics
	return c
}

func (c *Config) fillDefaults() {
	defaults := DefaultConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaults.MaxMessageSize
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaults.WriteTimeout
	}
	if c.ReadHeaderTimeout <= 0 {
		c.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if c.CheckOrigin == nil {
		c.CheckOrigin = defaults.CheckOrigin
	}
}

// SameOriginCheck accepts upgrades whose Origin host matches the request
// host. Requests without an Origin header (non-browser clients) pass.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}
