package template

import "fmt"

// ErrorKind tells whether a template failed to compile or to execute
type ErrorKind int

const (
	Syntax ErrorKind = iota
	Rendering
)

func (k ErrorKind) String() string {
	if k == Syntax {
		return "syntax"
	}
	return "rendering"
}

// Error wraps a failure reported by the template engine
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("template %s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
