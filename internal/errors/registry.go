package errors

import (
	"maps"
	"slices"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E139)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "The file given with --config does not exist.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Config file unreadable",
		Detail:   "The config file exists but could not be read.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid JSON in config file",
		Detail:   "popover.json must be a single JSON object.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Invalid YAML in config file",
		Detail:   "popover.yaml must be a YAML mapping.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Unsupported config format",
		Detail:   "Config files must end in .json, .yaml or .yml.",
	},
	"E110": {
		Category: CategoryValidation,
		Message:  "Invalid placement",
		Detail:   "Placement must be top, right, bottom or left, optionally followed by -start or -end.",
	},
	"E111": {
		Category: CategoryValidation,
		Message:  "Invalid arrow size",
		Detail:   "The arrow size is a positive number of pixels.",
	},
	"E112": {
		Category: CategoryValidation,
		Message:  "Invalid spacing",
		Detail:   "Gutter and overflow padding cannot be negative.",
	},
	"E113": {
		Category: CategoryValidation,
		Message:  "Invalid log level",
		Detail:   "Log level must be debug, info, warn or error.",
	},
	"E114": {
		Category: CategoryValidation,
		Message:  "Invalid log format",
		Detail:   "Log format must be text or json.",
	},
	"E115": {
		Category: CategoryValidation,
		Message:  "Invalid server address",
		Detail:   "The listen address must have the form host:port.",
	},
	"E116": {
		Category: CategoryValidation,
		Message:  "Invalid frame timeout",
		Detail:   "The frame timeout is a positive duration such as \"100ms\".",
	},
	"E117": {
		Category: CategoryValidation,
		Message:  "No triggers configured",
		Detail:   "At least one trigger label is required.",
	},
	"E118": {
		Category: CategoryValidation,
		Message:  "Invalid metrics path",
		Detail:   "The metrics path must start with a slash.",
	},

	// ============================================
	// CLI Errors (E140-E159)
	// ============================================

	"E140": {
		Category: CategoryCLI,
		Message:  "Server failed",
		Detail:   "The live server stopped with an error.",
	},
	"E141": {
		Category: CategoryCLI,
		Message:  "Terminal UI failed",
		Detail:   "The terminal program stopped with an error.",
	},
	"E142": {
		Category: CategoryCLI,
		Message:  "Config file exists",
		Detail:   "init will not overwrite an existing configuration file.",
	},

	// ============================================
	// Protocol Errors (E160-E179)
	// ============================================

	"E160": {
		Category: CategoryProtocol,
		Message:  "Invalid client message",
		Detail:   "A message from the browser could not be decoded.",
	},
	"E161": {
		Category: CategoryProtocol,
		Message:  "Unknown message type",
		Detail:   "The browser sent a message type the server does not handle.",
	},
	"E162": {
		Category: CategoryProtocol,
		Message:  "Unknown element",
		Detail:   "The message refers to an element id the session does not know.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
