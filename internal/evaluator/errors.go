package evaluator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/funvibe/opal/internal/config"
	"github.com/funvibe/opal/internal/token"
)

// ErrorKind classifies internal evaluator faults. These are the faults a
// language-level catch can observe (wrapped into an object).
type ErrorKind int

const (
	MissingOperatorOverride ErrorKind = iota + 1
	OverloadConflict
	OverloadNotFound
	NameNotFound
	MemberNotFound
	IndexOutOfRange
	OperableError
)

func (k ErrorKind) String() string {
	switch k {
	case MissingOperatorOverride:
		return "MissingOperatorOverride"
	case OverloadConflict:
		return "OverloadConflict"
	case OverloadNotFound:
		return "OverloadNotFound"
	case NameNotFound:
		return "NameNotFound"
	case MemberNotFound:
		return "MemberNotFound"
	case IndexOutOfRange:
		return "IndexOutOfRange"
	case OperableError:
		return "OperableError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Host-level faults. They are never caught by language-level try/catch.
var (
	ErrStackExhausted = errors.New("maximum recursion depth exceeded")
	ErrMalformedAST   = errors.New("malformed syntax tree")
	ErrCancelled      = errors.New("execution cancelled")
)

// StackFrame for error stack traces
type StackFrame struct {
	Name      string
	Namespace string
	Line      int
	Column    int
}

// RuntimeError is an internal evaluator fault.
type RuntimeError struct {
	Kind       ErrorKind
	Message    string
	Pos        token.Position
	StackTrace []StackFrame
}

func (e *RuntimeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Full renders the fault with its stack trace, innermost call first.
func (e *RuntimeError) Full() string {
	return e.Error() + formatTrace(e.StackTrace)
}

// ThrowError carries a value raised by a 'throw' statement.
type ThrowError struct {
	Value      Object
	Pos        token.Position
	StackTrace []StackFrame
}

func (e *ThrowError) Error() string {
	msg := "uncaught throw: " + inspectQuoted(e.Value)
	if e.Pos.IsValid() {
		msg += " at " + e.Pos.String()
	}
	return msg
}

func (e *ThrowError) Full() string {
	return e.Error() + formatTrace(e.StackTrace)
}

func formatTrace(frames []StackFrame) string {
	if len(frames) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\nStack trace:")
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		fmt.Fprintf(&sb, "\n  at %s (%s:%d:%d)", f.Name, f.Namespace, f.Line, f.Column)
	}
	return sb.String()
}

func newError(kind ErrorKind, format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

func missingOperator(op Operator, left, right Object) *RuntimeError {
	if right == nil {
		return newError(MissingOperatorOverride, "operator %s is not defined for %s", op, left.Type())
	}
	return newError(MissingOperatorOverride, "operator %s is not defined for %s and %s", op, left.Type(), right.Type())
}

func malformed(format string, a ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedAST, fmt.Sprintf(format, a...))
}

// IsKind reports whether err is an internal fault of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var rt *RuntimeError
	return errors.As(err, &rt) && rt.Kind == kind
}

// faultValue converts a catchable error into the value bound by a catch
// clause. The second result is false for host faults.
func faultValue(err error) (Object, bool) {
	var thrown *ThrowError
	if errors.As(err, &thrown) {
		return thrown.Value, true
	}
	var rt *RuntimeError
	if errors.As(err, &rt) {
		obj := NewGenericObject()
		obj.SetMember(config.FaultMessageMember, NewString(rt.Message))
		obj.SetMember(config.FaultMessageFullMember, NewString(rt.Full()))
		obj.SetMember(config.FaultKindMember, NewString(rt.Kind.String()))
		return obj, true
	}
	return nil, false
}
