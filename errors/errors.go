package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // binary to module
	PhaseValidate Phase = "validate" // engine compile check
	PhaseIO       Phase = "io"       // reading input, writing output
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData Kind = "invalid_data"
	KindUnsupported Kind = "unsupported"
	KindOutOfBounds Kind = "out_of_bounds"
	KindRead        Kind = "read"
	KindWrite       Kind = "write"
)

// Sentinels for errors.Is checks that only care about the phase.
// ErrDecode and ErrValidate together cover every "not a valid module" failure.
var (
	ErrDecode   = &Error{Phase: PhaseDecode}
	ErrValidate = &Error{Phase: PhaseValidate}
	ErrIO       = &Error{Phase: PhaseIO}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target with an empty Kind matches any error in the same phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Phase != t.Phase {
		return false
	}
	return t.Kind == "" || e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path, e.g. the export being resolved
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Decode wraps a decoder failure
func Decode(cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidData,
		Detail: "decode module",
		Cause:  cause,
	}
}

// Unsupported creates an unsupported feature error
func Unsupported(path []string, what string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnsupported,
		Path:   path,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds index error
func OutOfBounds(path []string, space string, index, length int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("%s index %d out of bounds (length %d)", space, index, length),
		Value:  index,
	}
}

// Compile wraps an engine compile failure
func Compile(cause error) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvalidData,
		Detail: "compile module",
		Cause:  cause,
	}
}

// Read wraps a failure reading input
func Read(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseIO,
		Kind:   KindRead,
		Detail: fmt.Sprintf("read %s", name),
		Cause:  cause,
	}
}

// Write wraps a failure writing output
func Write(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseIO,
		Kind:   KindWrite,
		Detail: fmt.Sprintf("write %s", what),
		Cause:  cause,
	}
}
