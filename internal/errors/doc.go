// Package errors provides structured, coded diagnostics for cv.
//
// Every diagnostic has a code (e.g., "CV201") that maps to a category, a
// short message, a longer explanation and a documentation URL:
//
//	err := errors.New("CV201").
//	    WithDetailf("module %q has no export %q", spec, name).
//	    WithSuggestion(`Add export="default" to one <template> in the module`)
//
//	fmt.Println(err.Format())
//	// ERROR CV201: Module export not found
//	//
//	//   module "widgets/counter.html" has no export "Counter"
//	//
//	//   Hint: Add export="default" to one <template> in the module
//	//
//	//   Learn more: https://cv.dev/docs/errors/CV201
//
// # Categories
//
//   - virtualize: unsupported template input (tags, children)
//   - module: dynamic module resolution
//   - config: cv.json loading and validation
//   - document: host document and HTML parsing
//   - cli: command line usage
package errors
