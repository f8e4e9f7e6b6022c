package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Config Errors (E100-E199)
	// ============================================

	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
		Detail:   "stocknav looked for the configuration file but could not open it.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file is not valid TOML",
		Detail:   "The file could not be decoded. Unknown keys are rejected as well as syntax errors.",
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Invalid history mode",
		Detail:     "The history mode decides whether routes live in the URL fragment or the real path.",
		Suggestion: `Use "hash" or "path".`,
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Invalid base path",
		Detail:     "The base path is the prefix the application is served under.",
		Suggestion: `Use an absolute path such as "/" or "/app".`,
	},
	"E105": {
		Category: CategoryConfig,
		Message:  "Invalid listen address",
		Detail:   "The server address must be in host:port form.",
	},
	"E106": {
		Category:   CategoryConfig,
		Message:    "Invalid log level",
		Suggestion: `Use one of "debug", "info", "warn" or "error".`,
	},
	"E107": {
		Category:   CategoryConfig,
		Message:    "Invalid log format",
		Suggestion: `Use "text" or "json".`,
	},
	"E108": {
		Category:   CategoryConfig,
		Message:    "Invalid shutdown timeout",
		Detail:     "The shutdown timeout must be a positive Go duration.",
		Suggestion: `Use a value such as "10s".`,
	},
	"E109": {
		Category: CategoryConfig,
		Message:  "Invalid environment override",
		Detail:   "A STOCKNAV_* environment variable could not be parsed.",
	},
	"E110": {
		Category: CategoryConfig,
		Message:  "Static directory not found",
		Detail:   "The static directory configured for the server does not exist or is not a directory.",
	},

	// ============================================
	// Route Errors (E200-E299)
	// ============================================

	"E201": {
		Category:   CategoryRoute,
		Message:    "Duplicate route name",
		Detail:     "Route names are used for programmatic navigation and must be unique across the whole table, including nested routes.",
		Suggestion: "Rename one of the routes.",
	},
	"E202": {
		Category:   CategoryRoute,
		Message:    "Duplicate sibling path",
		Detail:     "Two routes under the same parent declare the same path. Parameter names are ignored when comparing, so /stock/:a and /stock/:b collide.",
		Suggestion: "Remove one of the routes or give them distinct literal segments.",
	},
	"E203": {
		Category:   CategoryRoute,
		Message:    "Malformed route parameter",
		Detail:     "A parameter segment must be ':' followed by a letter or underscore and then letters, digits or underscores.",
		Suggestion: "Write parameters as :stockcode.",
	},
	"E204": {
		Category: CategoryRoute,
		Message:  "Parameter name repeated along a route chain",
		Detail:   "A child cannot reuse a parameter name bound by one of its ancestors.",
	},
	"E205": {
		Category: CategoryRoute,
		Message:  "Invalid path segment",
		Detail:   "Literal segments may not be empty or contain '#', '?', wildcards or whitespace.",
	},
	"E206": {
		Category:   CategoryRoute,
		Message:    "Invalid route path",
		Detail:     "Top-level paths must start with '/' and child paths must be relative.",
		Suggestion: `Write child paths without a leading slash, e.g. "currentStock".`,
	},
	"E207": {
		Category: CategoryRoute,
		Message:  "Route has no component",
		Detail:   "Every route must reference the view it renders.",
	},
	"E208": {
		Category: CategoryRoute,
		Message:  "Route has no name",
	},
	"E210": {
		Category: CategoryRoute,
		Message:  "Route declaration file could not be read",
	},
	"E211": {
		Category: CategoryRoute,
		Message:  "Route declaration file is not valid YAML",
		Detail:   "The file could not be decoded. Unknown keys are rejected as well as syntax errors.",
	},
	"E212": {
		Category:   CategoryRoute,
		Message:    "Unknown component",
		Detail:     "A route declaration references a component that is not registered.",
		Suggestion: "Use one of the registered views: SearchForm, StockInfo, CurrentStock, HistoryStock, PredictStock.",
	},
	"E220": {
		Category:   CategoryRoute,
		Message:    "Unknown route name",
		Suggestion: "Run `stocknav routes` to list the declared names.",
	},
	"E221": {
		Category: CategoryRoute,
		Message:  "Missing route parameter",
		Detail:   "Building a path for a named route requires a value for each of its parameters.",
	},

	// ============================================
	// Navigation Errors (E300-E399)
	// ============================================

	"E301": {
		Category: CategoryNavigation,
		Message:  "Malformed location",
		Detail:   "The location contains a backslash, a NUL byte, an invalid percent escape, an encoded slash inside a segment, or climbs above the root.",
	},
	"E302": {
		Category: CategoryNavigation,
		Message:  "No route matches location",
	},
	"E303": {
		Category: CategoryNavigation,
		Message:  "Navigation cancelled",
	},
	"E304": {
		Category: CategoryNavigation,
		Message:  "Too many redirects",
		Detail:   "Navigation guards kept redirecting; check for a redirect loop.",
	},
	"E305": {
		Category: CategoryNavigation,
		Message:  "No history entry in that direction",
	},

	// ============================================
	// Server Errors (E400-E499)
	// ============================================

	"E401": {
		Category: CategoryServer,
		Message:  "Server failed to start",
	},
	"E402": {
		Category: CategoryServer,
		Message:  "Server did not shut down cleanly",
	},
	"E403": {
		Category: CategoryServer,
		Message:  "Invalid live navigation message",
		Detail:   `Messages must be JSON objects with a "type" of navigate, replace, back, forward or name.`,
	},

	// ============================================
	// Publish Errors (E500-E599)
	// ============================================

	"E501": {
		Category:   CategoryPublish,
		Message:    "No bucket configured",
		Suggestion: "Pass --bucket or set STOCKNAV_S3_BUCKET.",
	},
	"E502": {
		Category: CategoryPublish,
		Message:  "Manifest upload failed",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
