package config

import (
	"os"
	"strings"

	"github.com/vango-dev/stocknav/internal/errors"
	"github.com/vango-dev/stocknav/pkg/routepath"
	"github.com/vango-dev/stocknav/pkg/router"
)

const (
	// EnvRouterHistoryMode overrides the history mode.
	EnvRouterHistoryMode = "STOCKNAV_HISTORY_MODE"

	// EnvRouterBasePath overrides the base path the application is served under.
	EnvRouterBasePath = "STOCKNAV_BASE_PATH"

	// EnvRouterRoutesFile overrides the route declaration file.
	EnvRouterRoutesFile = "STOCKNAV_ROUTES_FILE"
)

// RouterConfig selects how locations are turned into routing paths.
type RouterConfig struct {
	// HistoryMode is "hash" or "path".
	// Default: "hash"
	HistoryMode string `toml:"history_mode"`

	// BasePath is the prefix the application is served under.
	// Default: "/"
	BasePath string `toml:"base_path"`

	// RoutesFile is an optional YAML route declaration replacing the
	// built-in table.
	RoutesFile string `toml:"routes_file"`
}

// Mode returns the parsed history mode. Call after Finalize.
func (c *RouterConfig) Mode() router.HistoryMode {
	m, _ := router.ParseHistoryMode(c.HistoryMode)
	return m
}

// Finalize applies defaults, loads environment overrides, and validates the router configuration.
func (c *RouterConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *RouterConfig) Merge(overlay *RouterConfig) {
	if overlay.HistoryMode != "" {
		c.HistoryMode = overlay.HistoryMode
	}
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.RoutesFile != "" {
		c.RoutesFile = overlay.RoutesFile
	}
}

func (c *RouterConfig) loadDefaults() {
	if c.HistoryMode == "" {
		c.HistoryMode = string(router.HistoryHash)
	}
	if c.BasePath == "" {
		c.BasePath = "/"
	}
}

func (c *RouterConfig) loadEnv() {
	if v := os.Getenv(EnvRouterHistoryMode); v != "" {
		c.HistoryMode = v
	}
	if v := os.Getenv(EnvRouterBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvRouterRoutesFile); v != "" {
		c.RoutesFile = v
	}
}

func (c *RouterConfig) validate() error {
	mode, err := router.ParseHistoryMode(c.HistoryMode)
	if err != nil {
		return errors.New("E103").Wrap(err)
	}
	c.HistoryMode = string(mode)

	if !strings.HasPrefix(c.BasePath, "/") || strings.ContainsAny(c.BasePath, "#?\\") {
		return errors.New("E104").WithDetail("base_path is " + c.BasePath + ".")
	}
	c.BasePath = routepath.NormalizeBase(c.BasePath)
	return nil
}
