package nimiqrpc

import (
	"encoding/json"
	"fmt"
)

type (
	// RemoteError is a JSON-RPC 2.0 error object returned by the node.
	RemoteError struct {
		Code    int64           `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data,omitempty"`
	}

	// ConnectionError is returned when no response could be obtained from
	// the node (DNS, connect, TLS or timeout failure).
	ConnectionError struct {
		Err error
	}

	// InternalError is returned when a response was obtained but it could not
	// be interpreted: malformed JSON, a result of unexpected shape or a missing
	// result where one is required.
	InternalError struct {
		Err error
	}
)

// NewRemoteError creates a RemoteError with the given code and message.
func NewRemoteError(code int64, message string) *RemoteError {
	return &RemoteError{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s (Code: %d)", e.Message, e.Code)
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s", e.Err)
}

// Unwrap returns the underlying transport error.
func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Error implements the error interface.
func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *InternalError) Unwrap() error {
	return e.Err
}
