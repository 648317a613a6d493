package interpreter

import (
	"fmt"

	"ofml/interpreter-go/pkg/runtime"
)

// ErrorKind classifies script-visible failures.
type ErrorKind int

const (
	ErrRuntime ErrorKind = iota
	ErrType
	ErrName
)

func (k ErrorKind) String() string {
	switch k {
	case ErrRuntime:
		return "RuntimeError"
	case ErrType:
		return "TypeError"
	case ErrName:
		return "NameError"
	default:
		return fmt.Sprintf("error_kind_%d", int(k))
	}
}

// ScriptError is a failure raised by executing script code. Only ScriptError
// values are catchable by the language's try/catch; control-flow signals use
// distinct types so a handler can never intercept a return or break.
type ScriptError struct {
	Kind    ErrorKind
	Message string
}

func (e *ScriptError) Error() string {
	return e.Message
}

func runtimeErrorf(format string, args ...any) *ScriptError {
	return &ScriptError{Kind: ErrRuntime, Message: fmt.Sprintf(format, args...)}
}

func typeErrorf(format string, args ...any) *ScriptError {
	return &ScriptError{Kind: ErrType, Message: fmt.Sprintf(format, args...)}
}

func nameErrorf(format string, args ...any) *ScriptError {
	return &ScriptError{Kind: ErrName, Message: fmt.Sprintf(format, args...)}
}

// Control-flow signals. They travel the same error channel as failures but
// are separate types, caught at their natural boundary (loop, function, try)
// and never surfaced to script authors.

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string {
	return "return outside of a function"
}

type breakSignal struct{}

func (breakSignal) Error() string {
	return "break outside of a loop"
}

type continueSignal struct{}

func (continueSignal) Error() string {
	return "continue outside of a loop"
}
