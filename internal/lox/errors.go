package lox

import "fmt"

// LoxRuntimeError is raised by expression/statement evaluation and
// unwinds (via Go panic/recover) to the top of Interpret, where it is
// handed to Diagnostics.RuntimeError. It is not used for parse errors
// or for the `return` control-flow signal, which threads back through
// ordinary (Object, bool) return values instead — see executeBody in
// interpreter.go.
type LoxRuntimeError struct {
	Message string
	Line    int
}

func (e *LoxRuntimeError) Error() string {
	return e.Message
}

func runtimeError(line int, format string, args ...any) {
	panic(&LoxRuntimeError{Message: fmt.Sprintf(format, args...), Line: line})
}
