// Package errors provides structured error types for the wasm-memory module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending value, the view type and a cause chain,
// so host bindings can translate them into their own conventions without
// losing meaning.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseView, errors.KindValueOutOfRange).
//		Path("u8", "12").
//		WitType("u8").
//		Detail("value %d does not fit", 300).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.GrowFailed(pages, delta, "exceeds maximum")
//	err := errors.OutOfBounds(errors.PhaseView, path, 10, 5)
//
// The sentinels ErrGrowFailed, ErrOutOfBounds and ErrValueOutOfRange match any
// Error of that kind through errors.Is.
package errors
