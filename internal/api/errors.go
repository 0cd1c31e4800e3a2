package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork marks requests that never completed or whose body could not be read.
	ErrNetwork = errors.New("network failure")
	// ErrUnauthorized marks 401 responses. Matching errors are *RejectedError values.
	ErrUnauthorized = errors.New("unauthorized")
)

// NetworkError is returned when the request never produced a usable response.
type NetworkError struct {
	Op  string // e.g. "GET /shloks"
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes every NetworkError match ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// RejectedError is returned when the server answered with success:false or an
// error status.
type RejectedError struct {
	Op      string
	Status  int
	Message string // server-supplied, may be empty
}

func (e *RejectedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: rejected (%d): %s", e.Op, e.Status, msg)
}

// Is makes 401 rejections match ErrUnauthorized.
func (e *RejectedError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Message returns the server-supplied message carried by err, or fallback when
// there is none (network failures, empty messages, non-api errors).
func Message(err error, fallback string) string {
	var rej *RejectedError
	if errors.As(err, &rej) && rej.Message != "" {
		return rej.Message
	}
	return fallback
}
