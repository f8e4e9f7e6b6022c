package config

import (
	"fmt"
	"net"
	"os"

	"github.com/docker/go-units"

	"github.com/vango-dev/stocknav/internal/errors"
)

const (
	// EnvServerAddr overrides the listen address.
	EnvServerAddr = "STOCKNAV_ADDR"

	// EnvServerStaticDir overrides the directory holding the built client.
	EnvServerStaticDir = "STOCKNAV_STATIC_DIR"

	// EnvServerMaxMessageSize overrides the live navigation message limit.
	EnvServerMaxMessageSize = "STOCKNAV_MAX_MESSAGE_SIZE"

	// EnvServerDisableMetrics turns off the /metrics endpoint when set to "true".
	EnvServerDisableMetrics = "STOCKNAV_DISABLE_METRICS"
)

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Addr is the host:port to listen on.
	// Default: ":8080"
	Addr string `toml:"addr"`

	// StaticDir holds the built client. Empty serves the built-in shell.
	StaticDir string `toml:"static_dir"`

	// MaxMessageSize bounds one live navigation message, in human form.
	// Default: "64KB"
	MaxMessageSize string `toml:"max_message_size"`

	// DisableMetrics removes the /metrics endpoint.
	DisableMetrics bool `toml:"disable_metrics"`

	maxMessageSizeVal int64
}

// MaxMessageSizeBytes returns the parsed message limit.
func (c *ServerConfig) MaxMessageSizeBytes() int64 {
	return c.maxMessageSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the server configuration.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.StaticDir != "" {
		c.StaticDir = overlay.StaticDir
	}
	if size, err := units.FromHumanSize(overlay.MaxMessageSize); err == nil {
		c.MaxMessageSize = overlay.MaxMessageSize
		c.maxMessageSizeVal = size
	}
	if overlay.DisableMetrics {
		c.DisableMetrics = true
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.MaxMessageSize == "" {
		c.MaxMessageSize = "64KB"
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Addr = v
	}
	if v := os.Getenv(EnvServerStaticDir); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv(EnvServerMaxMessageSize); v != "" {
		c.MaxMessageSize = v
	}
	if v := os.Getenv(EnvServerDisableMetrics); v == "true" || v == "1" {
		c.DisableMetrics = true
	}
}

func (c *ServerConfig) validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return errors.New("E105").Wrap(err).WithDetail(fmt.Sprintf("addr is %q; want host:port such as \":8080\".", c.Addr))
	}

	if c.StaticDir != "" {
		info, err := os.Stat(c.StaticDir)
		if err != nil {
			return errors.New("E110").Wrap(err)
		}
		if !info.IsDir() {
			return errors.New("E110").WithDetail(c.StaticDir + " is not a directory.")
		}
	}

	size, err := units.FromHumanSize(c.MaxMessageSize)
	if err != nil {
		return errors.New("E109").Wrap(err).WithDetail("max_message_size must be a size such as \"64KB\".")
	}
	if size <= 0 {
		return errors.New("E109").WithDetail("max_message_size must be positive.")
	}
	c.maxMessageSizeVal = size

	return nil
}
