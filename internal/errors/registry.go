package errors

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
	// Virtualization Errors (CV100-CV199)
	// ============================================

	"CV101": {
		Category: CategoryVirtualize,
		Message:  "Unsupported template tag",
		Detail:   "A template tag must be an element name, a component function, or a reactive value.",
		DocURL:   "https://cv.dev/docs/errors/CV101",
	},
	"CV102": {
		Category: CategoryVirtualize,
		Message:  "Unsupported template child",
		Detail:   "Children must be virtual nodes, primitives, reactive values, functions, slices, or document nodes.",
		DocURL:   "https://cv.dev/docs/errors/CV102",
	},
	"CV103": {
		Category: CategoryVirtualize,
		Message:  "Component returned no node",
		Detail:   "A component function must return a virtual node.",
		DocURL:   "https://cv.dev/docs/errors/CV103",
	},

	// ============================================
	// Module Errors (CV200-CV299)
	// ============================================

	"CV200": {
		Category: CategoryModule,
		Message:  "Module load failed",
		Detail:   "The module specifier could not be resolved by any configured loader.",
		DocURL:   "https://cv.dev/docs/errors/CV200",
	},
	"CV201": {
		Category: CategoryModule,
		Message:  "Module export not found",
		Detail:   "The module was loaded but does not provide the requested export.",
		DocURL:   "https://cv.dev/docs/errors/CV201",
	},
	"CV202": {
		Category: CategoryModule,
		Message:  "No module loader configured",
		Detail:   "The element carries a module marker but the engine has no loader.",
		DocURL:   "https://cv.dev/docs/errors/CV202",
	},
	"CV203": {
		Category: CategoryModule,
		Message:  "Invalid markup module",
		Detail:   "A markup module must contain at least one <template> element.",
		DocURL:   "https://cv.dev/docs/errors/CV203",
	},

	// ============================================
	// Config Errors (CV300-CV399)
	// ============================================

	"CV300": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "cv.json was not found in the current directory or any parent.",
		DocURL:   "https://cv.dev/docs/errors/CV300",
	},
	"CV301": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "cv.json could not be parsed.",
		DocURL:   "https://cv.dev/docs/errors/CV301",
	},
	"CV302": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A configuration value is out of range.",
		DocURL:   "https://cv.dev/docs/errors/CV302",
	},

	// ============================================
	// Document Errors (CV400-CV499)
	// ============================================

	"CV401": {
		Category: CategoryDocument,
		Message:  "HTML parse failed",
		Detail:   "The markup could not be tokenized.",
		DocURL:   "https://cv.dev/docs/errors/CV401",
	},
	"CV402": {
		Category: CategoryDocument,
		Message:  "Element not found",
		Detail:   "No element exists at the requested child-index path.",
		DocURL:   "https://cv.dev/docs/errors/CV402",
	},

	// ============================================
	// CLI Errors (CV500-CV599)
	// ============================================

	"CV500": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "No scaffolding template has that name.",
		DocURL:   "https://cv.dev/docs/errors/CV500",
	},
	"CV501": {
		Category: CategoryCLI,
		Message:  "Project already exists",
		Detail:   "The target directory already contains cv.json.",
		DocURL:   "https://cv.dev/docs/errors/CV501",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
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
