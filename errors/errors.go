package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseResolve  Phase = "resolve"  // tag to kind resolution
	PhaseDecode   Phase = "decode"   // raw word to value
	PhaseMemory   Phase = "memory"   // raw memory access
	PhaseRegister Phase = "register" // callback registration
	PhaseInvoke   Phase = "invoke"   // callback invocation
	PhaseParse    Phase = "parse"    // shape descriptions and signatures
	PhaseLoad     Phase = "load"     // fixtures and guest modules
)

// Kind categorizes the error
type Kind string

const (
	KindUnsupported       Kind = "unsupported"
	KindUnrecognizedShape Kind = "unrecognized_shape"
	KindUnknownTag        Kind = "unknown_tag"
	KindNilPointer        Kind = "nil_pointer"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidData       Kind = "invalid_data"
	KindOverflow          Kind = "overflow"
	KindNotFound          Kind = "not_found"
	KindRegistration      Kind = "registration"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Shape  string
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

	if e.Shape != "" {
		b.WriteString(": shape ")
		b.WriteString(e.Shape)
	}

	if e.Detail != "" {
		if e.Shape != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// WithPath returns a copy of e with prefix prepended to its path.
func (e *Error) WithPath(prefix ...string) *Error {
	cp := *e
	cp.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &cp
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

// Path sets the parameter/field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Shape sets the printed form of the offending shape
func (b *Builder) Shape(s string) *Builder {
	b.err.Shape = s
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

// UnknownTag reports a type tag outside the known set for what.
func UnknownTag(phase Phase, what string, tag int32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownTag,
		Detail: fmt.Sprintf("unknown %s tag %d", what, tag),
		Value:  tag,
	}
}

// UnrecognizedShape reports a shape that is neither a known scalar nor a
// well-formed composite.
func UnrecognizedShape(path []string, shape string, cause error) *Error {
	return &Error{
		Phase: PhaseDecode,
		Kind:  KindUnrecognizedShape,
		Path:  path,
		Shape: shape,
		Cause: cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds reports a memory access outside the addressable range.
func OutOfBounds(phase Phase, addr, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access of %d bytes at 0x%x out of bounds", length, addr),
		Value:  addr,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		Detail: "nil " + what,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, target string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %s", value, target),
		Value:  value,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Registration creates a callback registration error
func Registration(name string, cause error) *Error {
	return &Error{
		Phase:  PhaseRegister,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register callback %q", name),
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}

// Load creates a fixture or module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
