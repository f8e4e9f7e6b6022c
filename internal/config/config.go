package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/vango-dev/stocknav/internal/errors"
)

const (
	// BaseConfigFile is the primary configuration file name.
	BaseConfigFile = "stocknav.toml"

	// OverlayConfigPattern is the file name pattern for environment-specific overlays.
	OverlayConfigPattern = "stocknav.%s.toml"

	// EnvStocknavEnv selects the configuration overlay.
	EnvStocknavEnv = "STOCKNAV_ENV"

	// EnvShutdownTimeout overrides the graceful shutdown timeout.
	EnvShutdownTimeout = "STOCKNAV_SHUTDOWN_TIMEOUT"
)

// Config represents the root configuration.
type Config struct {
	Server          ServerConfig  `toml:"server"`
	Router          RouterConfig  `toml:"router"`
	Logging         LoggingConfig `toml:"logging"`
	Publish         PublishConfig `toml:"publish"`
	ShutdownTimeout string        `toml:"shutdown_timeout"`

	path string
}

// ShutdownTimeoutDuration parses and returns the shutdown timeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Path returns the base file the configuration was loaded from, or "" when
// no file was found.
func (c *Config) Path() string {
	return c.path
}

// Load reads stocknav.toml from dir and merges the STOCKNAV_ENV overlay.
// A missing base file is not an error: the result is an empty
// configuration that Finalize fills with defaults.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, BaseConfigFile)
	cfg, err := LoadFile(path)
	if err != nil {
		if !stderrors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}

	if overlay := overlayPath(dir); overlay != "" {
		o, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(o)
	}
	return cfg, nil
}

// LoadFile reads a single configuration file without overlays.
func LoadFile(path string) (*Config, error) {
	cfg, err := load(path)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Router.Finalize(); err != nil {
		return fmt.Errorf("router: %w", err)
	}
	if err := c.Logging.Finalize(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Publish.Finalize(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Override merges command-line values over a finalized configuration and
// validates the result again. Flags win over environment and files.
func (c *Config) Override(flags *Config) error {
	c.Merge(flags)

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Router.validate(); err != nil {
		return fmt.Errorf("router: %w", err)
	}
	if err := c.Logging.validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	c.Server.Merge(&overlay.Server)
	c.Router.Merge(&overlay.Router)
	c.Logging.Merge(&overlay.Logging)
	c.Publish.Merge(&overlay.Publish)
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "10s"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return errors.New("E108").Wrap(err)
	}
	if d <= 0 {
		return errors.New("E108").WithDetail(fmt.Sprintf("shutdown_timeout is %s", c.ShutdownTimeout))
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		return nil, errors.New("E101").Wrap(err).WithDetail("Could not read " + path + ".")
	}

	var cfg Config
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, decodeError(path, err)
	}

	return &cfg, nil
}

// decodeError turns a go-toml error into a coded error pointing at the
// offending line.
func decodeError(path string, err error) error {
	coded := errors.New("E102").Wrap(err)

	var decErr *toml.DecodeError
	if stderrors.As(err, &decErr) {
		row, col := decErr.Position()
		return coded.WithLocation(path, row, col)
	}
	var strict *toml.StrictMissingError
	if stderrors.As(err, &strict) && len(strict.Errors) > 0 {
		first := strict.Errors[0]
		row, col := first.Position()
		return coded.
			WithLocation(path, row, col).
			WithSuggestion("Remove the unknown key " + strings.Join(first.Key(), "."))
	}
	return coded
}

func overlayPath(dir string) string {
	if env := os.Getenv(EnvStocknavEnv); env != "" {
		path := filepath.Join(dir, fmt.Sprintf(OverlayConfigPattern, env))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
