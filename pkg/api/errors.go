package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrShapeMismatch matches every *ShapeError via errors.Is.
var ErrShapeMismatch = errors.New("unexpected response shape")

// Failure is a transport error or a non-2xx response.
type Failure struct {
	Status  int    // 0 when no response was received
	Message string // server-supplied message, only when the body was a plain string
	Err     error
}

func (f *Failure) Error() string {
	switch {
	case f.Message != "":
		return fmt.Sprintf("remote failure (%d): %s", f.Status, f.Message)
	case f.Status != 0:
		return fmt.Sprintf("remote failure: %d %s", f.Status, http.StatusText(f.Status))
	case f.Err != nil:
		return "transport error: " + f.Err.Error()
	default:
		return "transport error"
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// HasMessage reports whether the server supplied a displayable message.
func (f *Failure) HasMessage() bool { return f.Message != "" }

// ShapeError reports a collection response that was not a JSON array of records.
type ShapeError struct {
	Path string
	Body string
	Err  error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: unexpected response shape: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: unexpected response shape: %s", e.Path, e.Body)
}

func (e *ShapeError) Is(target error) bool { return target == ErrShapeMismatch }

func (e *ShapeError) Unwrap() error { return e.Err }

// MessageOr returns the server message carried by err, or generic when there is none.
func MessageOr(err error, generic string) string {
	var f *Failure
	if errors.As(err, &f) && f.HasMessage() {
		return f.Message
	}
	return generic
}

// serverMessage extracts a message only when the body is a plain string:
// either a JSON string literal or non-JSON text. Objects, arrays and numbers yield "".
func serverMessage(body []byte) string {
	b := bytes.TrimSpace(body)
	if len(b) == 0 {
		return ""
	}
	if !json.Valid(b) {
		return string(b)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return ""
	}
	return s
}
