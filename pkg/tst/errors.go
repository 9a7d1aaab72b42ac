package tst

import (
	"errors"
	"reflect"
)

var (
	ErrEmptyKey       = errors.New("empty key")
	ErrInvalidLimit   = errors.New("invalid limit")
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ArgumentError reports a malformed argument passed to a trie operation.
// Cause is one of the sentinel errors above.
type ArgumentError struct {
	Op    string
	Arg   string
	Cause error
}

func (e *ArgumentError) Error() string {
	return "tst: " + e.Op + " " + e.Arg + ": " + e.Cause.Error()
}

func (e *ArgumentError) Unwrap() error {
	return e.Cause
}

func (e *ArgumentError) Is(target error) bool {
	return reflect.TypeOf(e) == reflect.TypeOf(target)
}
