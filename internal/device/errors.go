package device

import (
	"errors"
	"fmt"
)

// ErrEmptyDeviceList is returned when the device reports zero lights.
var ErrEmptyDeviceList = errors.New("device reported no lights")

// ConnectionError means the device could not be reached or timed out.
type ConnectionError struct {
	Op  string
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s %s: device unreachable: %v", e.Op, e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProtocolError means the device answered with a non-success HTTP status.
type ProtocolError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *ProtocolError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status code: %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status code: %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
}

// DecodeError means the response body did not match the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: failed to decode response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
