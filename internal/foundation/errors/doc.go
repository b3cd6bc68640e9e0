// Package errors provides the classified error type used across sdvsite.
//
// Errors carry a category (config, links, build, ...), a severity and a small
// context map. The CLI adapter turns them into exit codes and log lines.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryLinks, "broken internal links").
//		Fatal().
//		WithContext("count", len(findings)).
//		Build()
package errors
