package market

import (
	"errors"
	"fmt"
)

// ErrorKind classifies fetch failures.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindNetwork covers connection failures, timeouts and upstream error statuses.
	KindNetwork
	// KindParse covers malformed or unexpected response bodies.
	KindParse
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindParse:
		return "parse"
	default:
		return "none"
	}
}

// FetchError is a classified failure of one call to a Source.
type FetchError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NetworkError wraps err as a KindNetwork failure.
func NetworkError(op string, err error) error {
	return &FetchError{Kind: KindNetwork, Op: op, Err: err}
}

// ParseError wraps err as a KindParse failure.
func ParseError(op string, err error) error {
	return &FetchError{Kind: KindParse, Op: op, Err: err}
}

// KindOf returns the classification of err. Unclassified non-nil errors are
// reported as network failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}
