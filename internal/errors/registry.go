package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (E001-E099)
	// ============================================

	"E001": {
		Category: CategoryRuntime,
		Message:  "Streams must be passed as a slice",
		Detail:   "AddStreams and SetStreams accept a slice or array of candidates. Non-stream entries are filtered out.",
		DocURL:   "https://streambind.dev/docs/errors/E001",
	},
	"E002": {
		Category: CategoryRuntime,
		Message:  "Component is not mounted",
		Detail:   "The root has been unmounted or was never mounted. Unmount is terminal.",
		DocURL:   "https://streambind.dev/docs/errors/E002",
	},
	"E003": {
		Category: CategoryRuntime,
		Message:  "Component already mounted",
		Detail:   "A root mounts exactly one component once.",
		DocURL:   "https://streambind.dev/docs/errors/E003",
	},
	"E004": {
		Category: CategoryRuntime,
		Message:  "UI loop closed",
		Detail:   "Work was submitted to a loop after Close.",
		DocURL:   "https://streambind.dev/docs/errors/E004",
	},

	// ============================================
	// Config Errors (E120-E149)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "The configuration file could not be read or parsed.",
		DocURL:   "https://streambind.dev/docs/errors/E120",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range or unsupported.",
		DocURL:   "https://streambind.dev/docs/errors/E122",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No streambind.yaml or streambind.json was found.",
		DocURL:   "https://streambind.dev/docs/errors/E141",
	},

	// ============================================
	// Storage Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryStorage,
		Message:  "Snapshot store failure",
		Detail:   "A render snapshot could not be written or listed.",
		DocURL:   "https://streambind.dev/docs/errors/E150",
	},

	// ============================================
	// Protocol Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryProtocol,
		Message:  "WebSocket failure",
		Detail:   "The live frame connection failed.",
		DocURL:   "https://streambind.dev/docs/errors/E160",
	},
	"E161": {
		Category: CategoryProtocol,
		Message:  "Unknown client operation",
		Detail:   "Clients may send add, clear or reset.",
		DocURL:   "https://streambind.dev/docs/errors/E161",
	},
}

// GetAllCodes returns all registered error codes in sorted order.
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
