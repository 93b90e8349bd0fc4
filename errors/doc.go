// Package errors provides structured error types for wasm-exports.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a location path, a detail message and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Path("exports", "memory").
//		Detail("memory index %d out of bounds", idx).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Decode(cause)
//	err := errors.Write("export line", cause)
//
// ErrDecode, ErrValidate and ErrIO match any error of their phase with
// errors.Is. An invalid module is reported in one of two phases:
//
//	PhaseDecode    the bytes do not decode, or an export cannot be resolved
//	PhaseValidate  the module decodes but wazero refuses to compile it
//
// Callers that only need to know whether the input was a bad module check
// both ErrDecode and ErrValidate. ErrIO means reading the input or writing
// the output failed.
package errors
