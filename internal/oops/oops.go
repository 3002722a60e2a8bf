// Package oops wraps errors with the call stack at the point they were
// wrapped and, for file operations, the path involved. The stack is logged
// through zerolog's Stack().
package oops

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-stack/stack"
	"github.com/rs/zerolog"
)

type Error struct {
	Message string
	// Path is the file being processed, empty for errors not tied to one.
	Path    string
	Wrapped error
	Stack   CallStack
}

// Error formats as "path: message: wrapped", leaving out empty parts.
func (e *Error) Error() string {
	parts := make([]string, 0, 3)
	if e.Path != "" {
		parts = append(parts, e.Path)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Wrapped != nil {
		parts = append(parts, e.Wrapped.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

type CallStack []StackFrame

func (s CallStack) MarshalZerologArray(a *zerolog.Array) {
	for _, frame := range s {
		a.Object(frame)
	}
}

type StackFrame struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Function string `json:"function"`
}

func (f StackFrame) MarshalZerologObject(e *zerolog.Event) {
	e.
		Str("file", f.File).
		Int("line", f.Line).
		Str("function", f.Function)
}

// ZerologStackMarshaler is installed as zerolog.ErrorStackMarshaler. It
// finds the outermost *Error anywhere in the chain.
var ZerologStackMarshaler = func(err error) interface{} {
	var asOops *Error
	if errors.As(err, &asOops) {
		return asOops.Stack
	}
	return nil
}

// callers records the stack of the goroutine, dropping runtime frames and
// the innermost skip frames.
func callers(skip int) CallStack {
	trace := stack.Trace().TrimRuntime()
	if skip+1 > len(trace) {
		return nil
	}
	// +1 for callers itself
	trace = trace[skip+1:]

	frames := make(CallStack, len(trace))
	for i, call := range trace {
		frame := call.Frame()
		frames[i] = StackFrame{
			// import path relative, e.g. github.com/wbrown/pngascii/cmd/pngascii/commands.go
			File:     fmt.Sprintf("%+s", call),
			Line:     frame.Line,
			Function: frame.Function,
		}
	}
	return frames
}

// New wraps err (which may be nil) with a formatted message and the
// caller's stack.
func New(wrapped error, format string, args ...interface{}) error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Wrapped: wrapped,
		Stack:   callers(1),
	}
}

// File is New for an error that happened while handling path.
func File(path string, wrapped error, format string, args ...interface{}) error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Path:    path,
		Wrapped: wrapped,
		Stack:   callers(1),
	}
}
