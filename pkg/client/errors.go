package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrSchemaVersion = errors.New("unsupported local store schema version")

// APIError is a non-2xx answer from the backend, decoded from the error
// envelope when one is present.
type APIError struct {
	StatusCode int    `json:"code"`
	Message    string `json:"message"`
	TraceID    string `json:"trace_id"`
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{}
	if err := json.Unmarshal(body, e); err != nil || e.Message == "" {
		e.Message = http.StatusText(status)
	}
	e.StatusCode = status
	return e
}

func (e *APIError) Error() string {
	if e.TraceID != "" {
		return fmt.Sprintf("api: %d %s (trace %s)", e.StatusCode, e.Message, e.TraceID)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// TransportError means no HTTP answer was read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
