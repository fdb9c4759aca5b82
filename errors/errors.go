package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGrow     Phase = "grow"     // linear memory growth
	PhaseView     Phase = "view"     // typed view access
	PhaseRuntime  Phase = "runtime"  // runtime operations
	PhaseLoad     Phase = "load"     // module loading
	PhaseConfig   Phase = "config"   // option and config validation
	PhaseSnapshot Phase = "snapshot" // memory snapshot encode/restore
)

// Kind categorizes the error
type Kind string

const (
	KindGrowFailed      Kind = "grow_failed"
	KindOutOfBounds     Kind = "out_of_bounds"
	KindValueOutOfRange Kind = "value_out_of_range"
	KindTypeMismatch    Kind = "type_mismatch"
	KindInvalidInput    Kind = "invalid_input"
	KindInvalidData     Kind = "invalid_data"
	KindNotFound        Kind = "not_found"
	KindNotInitialized  Kind = "not_initialized"
	KindInstantiation   Kind = "instantiation"
)

// Sentinels for errors.Is. They match any Error of the same kind
// regardless of phase.
var (
	ErrGrowFailed      = &kindSentinel{kind: KindGrowFailed}
	ErrOutOfBounds     = &kindSentinel{kind: KindOutOfBounds}
	ErrValueOutOfRange = &kindSentinel{kind: KindValueOutOfRange}
)

type kindSentinel struct {
	kind Kind
}

func (s *kindSentinel) Error() string {
	return string(s.kind)
}

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

// Error renders "[phase] kind at path: types: detail (caused by: cause)",
// omitting empty parts.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Phase, e.Kind)
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if types := e.types(); types != "" {
		b.WriteString(": ")
		b.WriteString(types)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.Cause)
	}
	return b.String()
}

func (e *Error) types() string {
	switch {
	case e.GoType != "" && e.WitType != "":
		return "Go type " + e.GoType + " as WIT type " + e.WitType
	case e.GoType != "":
		return "Go type " + e.GoType
	case e.WitType != "":
		return "WIT type " + e.WitType
	}
	return ""
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case *Error:
		return e.Phase == t.Phase && e.Kind == t.Kind
	case *kindSentinel:
		return e.Kind == t.kind
	}
	return false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if there
// is none. Host bindings use it to map errors onto their own conventions.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
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

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
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

// GrowFailed reports a refused growth of a memory currently holding pages.
func GrowFailed(pages, delta uint32, reason string) *Error {
	return New(PhaseGrow, KindGrowFailed).
		Value(delta).
		Detail("cannot grow %d pages by %d: %s", pages, delta, reason).
		Build()
}

// OutOfBounds reports an element index outside [0, length).
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return New(phase, KindOutOfBounds).
		Path(path...).
		Value(index).
		Detail("index %d out of bounds (length %d)", index, length).
		Build()
}

// MemoryOutOfBounds reports a raw byte access past the end of memory.
func MemoryOutOfBounds(offset uint32, length uint64, size uint64) *Error {
	return New(PhaseView, KindOutOfBounds).
		Value(offset).
		Detail("memory access out of bounds: offset=%d, length=%d, size=%d", offset, length, size).
		Build()
}

// ValueOutOfRange reports a value that does not fit targetType. Nothing is
// written when this is returned.
func ValueOutOfRange(phase Phase, path []string, value any, targetType string) *Error {
	return New(phase, KindValueOutOfRange).
		Path(path...).
		WitType(targetType).
		Value(value).
		Detail("value %v out of range for %s", value, targetType).
		Build()
}

func TypeMismatch(phase Phase, path []string, goType, witType string) *Error {
	return New(phase, KindTypeMismatch).Path(path...).GoType(goType).WitType(witType).Build()
}

func InvalidData(phase Phase, path []string, detail string) *Error {
	return New(phase, KindInvalidData).Path(path...).Detail("%s", detail).Build()
}

// Wrap attaches phase, kind and detail to cause.
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return New(phase, kind).Cause(cause).Detail("%s", detail).Build()
}

func NotInitialized(phase Phase, component string) *Error {
	return New(phase, KindNotInitialized).Detail("%s not initialized", component).Build()
}

func NotFound(phase Phase, what, name string) *Error {
	return New(phase, KindNotFound).Detail("%s %q not found", what, name).Build()
}

func InvalidInput(phase Phase, detail string) *Error {
	return New(phase, KindInvalidInput).Detail("%s", detail).Build()
}

func Instantiation(cause error) *Error {
	return Wrap(PhaseRuntime, KindInstantiation, cause, "instantiate module")
}

// Load reports a module that could not be compiled.
func Load(detail string, cause error) *Error {
	return Wrap(PhaseLoad, KindInvalidData, cause, detail)
}
