// Package errors provides structured error types for the bridge.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the parameter or field path, the offending shape and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindUnrecognizedShape).
//		Path("arg[1]", "items").
//		Shape("composite{length}").
//		Detail("array shape without element tag").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownTag(errors.PhaseResolve, "scalar", 99)
//	err := errors.NilPointer(errors.PhaseMemory, path, "char*")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
