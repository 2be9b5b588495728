package types

import (
	"errors"
	"fmt"
)

// ErrorKind the classification of the errors raised while answering a question
type ErrorKind int

const (
	// KindNone no error
	KindNone ErrorKind = iota
	// ClassificationAmbiguous the model reply matched no action, recovered by re-prompting
	ClassificationAmbiguous
	// SearchFormatError a search action with the wrong argument shape, recovered by re-prompting
	SearchFormatError
	// StoreUnreachable there is no active store connection
	StoreUnreachable
	// StoreExecutionError the store rejected or failed the query
	StoreExecutionError
	// TransportFailure the chat call itself failed, aborts the workflow
	TransportFailure
	// KindUnknown any other error
	KindUnknown
)

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case ClassificationAmbiguous:
		return "classification_ambiguous"
	case SearchFormatError:
		return "search_format_error"
	case StoreUnreachable:
		return "store_unreachable"
	case StoreExecutionError:
		return "store_execution_error"
	case TransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

var (
	// ErrNotConnected the graph store has no active connection
	ErrNotConnected = errors.New("graph store is not connected")

	// ErrAmbiguousReply the model reply matched none of the action markers
	ErrAmbiguousReply = errors.New("model reply matched no action")
)

// StoreError a query execution failure. It carries the message only, the driver error is not kept.
type StoreError struct {
	Message string
}

// Error implements the error interface
func (e *StoreError) Error() string {
	return e.Message
}

// FormatError a search action whose arguments do not have the expected shape
type FormatError struct {
	Action   ActionKind
	Payload  string
	Expected string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s arguments %q, expected %s", e.Action, e.Payload, e.Expected)
}

// TransportError a failed chat round-trip
type TransportError struct {
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("chat transport: %s", e.Err.Error())
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf classifies an error
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	if errors.Is(err, ErrNotConnected) {
		return StoreUnreachable
	}

	if errors.Is(err, ErrAmbiguousReply) {
		return ClassificationAmbiguous
	}

	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return StoreExecutionError
	}

	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		return SearchFormatError
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return TransportFailure
	}

	return KindUnknown
}

// Transport wraps an error as a transport failure, a transport error is returned as is
func Transport(err error) error {
	if err == nil {
		return nil
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return err
	}
	return &TransportError{Err: err}
}
