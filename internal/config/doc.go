// Package config loads stocknav's configuration from TOML files with
// environment variable overrides and per-environment overlays.
//
// The base file is stocknav.toml in the working directory. When
// STOCKNAV_ENV is set, stocknav.<env>.toml is merged on top of it if present.
// Finalize then applies defaults, STOCKNAV_* overrides and validation, in
// that order.
//
// # Configuration File Structure
//
//	shutdown_timeout = "10s"
//
//	[server]
//	addr = ":8080"
//	static_dir = "web/dist"
//	max_message_size = "64KB"
//
//	[router]
//	history_mode = "path"
//	base_path = "/app"
//	routes_file = "routes.yaml"
//
//	[logging]
//	level = "info"
//	format = "json"
//
//	[publish]
//	bucket = "stocknav-site"
//	key = "routes.json"
//	region = "us-east-1"
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Finalize(); err != nil {
//	    return err
//	}
//	logger := cfg.Logging.NewLogger(os.Stderr)
package config
