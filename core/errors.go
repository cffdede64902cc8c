package core

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err *ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// ErrorKind classifies a failed backend call. The core never interprets
// status codes beyond this; mapping a kind to a user message is a caller
// concern.
type ErrorKind int

const (
	KindNetwork ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindServer
)

// APIError is the structured failure returned by the backend collaborators.
// A zero Status means no response was received at all.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("api: network failure: %s", e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
}

func (e *APIError) Kind() ErrorKind {
	switch {
	case e.Status == 0:
		return KindNetwork
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return KindAuth
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status >= 400 && e.Status < 500:
		return KindValidation
	default:
		return KindServer
	}
}

// UserMessage extracts a message fit for a notification from any error
// returned by a collaborator: the backend "detail" payload when present,
// else the first field error, else a generic text per kind.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		for _, msg := range apiErr.Fields {
			return msg
		}
		switch apiErr.Kind() {
		case KindNetwork:
			return "Cannot reach the server. Check your connection."
		case KindAuth:
			return "You do not have permission to do this."
		case KindNotFound:
			return "The record no longer exists."
		default:
			return "The operation failed. Please try again."
		}
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		for _, fld := range vErr.Fields {
			return fld.Error
		}
		return vErr.Error()
	}
	return err.Error()
}
