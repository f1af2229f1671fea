package objects

import (
	"errors"
	"fmt"

	"github.com/reusee/e5"
)

type ErrorKind uint8

const (
	AttributeMissing ErrorKind = iota + 1
	TypeMismatch
	NoApplicableOverload
	HostInvocationFailure
	Uninstantiable
	ReadOnlyMember
)

func (k ErrorKind) String() string {
	switch k {
	case AttributeMissing:
		return "AttributeMissing"
	case TypeMismatch:
		return "TypeMismatch"
	case NoApplicableOverload:
		return "NoApplicableOverload"
	case HostInvocationFailure:
		return "HostInvocationFailure"
	case Uninstantiable:
		return "Uninstantiable"
	case ReadOnlyMember:
		return "ReadOnlyMember"
	}
	return fmt.Sprintf("ErrorKind(%d)", k)
}

// Error is the single error type surfaced to the interpreter.
type Error struct {
	Kind     ErrorKind
	Msg      string
	Overload *OverloadFailure
	Cause    error
}

var _ error = new(Error)

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches sentinels by kind, and overload sentinels by failure kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	if t.Overload != nil {
		return e.Overload != nil && e.Overload.Kind == t.Overload.Kind
	}
	return t.Msg == "" || t.Msg == e.Msg
}

var (
	ErrAttributeMissing      = &Error{Kind: AttributeMissing}
	ErrTypeMismatch          = &Error{Kind: TypeMismatch}
	ErrNoApplicableOverload  = &Error{Kind: NoApplicableOverload}
	ErrHostInvocationFailure = &Error{Kind: HostInvocationFailure}
	ErrUninstantiable        = &Error{Kind: Uninstantiable}
	ErrReadOnlyMember        = &Error{Kind: ReadOnlyMember}

	ErrNoKeywordSupport = &Error{
		Kind:     NoApplicableOverload,
		Overload: &OverloadFailure{Kind: NoKeywordSupport},
	}
	ErrArityOutOfRange = &Error{
		Kind:     NoApplicableOverload,
		Overload: &OverloadFailure{Kind: ArityOutOfRange},
	}
	ErrArgumentTypeMismatch = &Error{
		Kind:     NoApplicableOverload,
		Overload: &OverloadFailure{Kind: ArgumentTypeMismatch},
	}
)

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func attributeMissing(owner Value, name string) *Error {
	return newError(AttributeMissing, "'%s' object has no attribute '%s'", className(owner), name)
}

// ErrNoConversion reports that a value has no representation as the requested host type.
var ErrNoConversion = errors.New("no conversion")

var wrap = e5.Wrap.With(e5.WrapStacktrace)

// hostFailure translates a panic value or returned error from host code.
// Runtime errors raised by host code are passed through unchanged.
func hostFailure(name string, p any) error {
	var err error
	switch p := p.(type) {
	case error:
		err = p
	default:
		err = fmt.Errorf("%v", p)
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{
		Kind:  HostInvocationFailure,
		Msg:   name,
		Cause: wrap(err),
	}
}
