package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared by adapters, services and controllers.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSummaryUnavailable = errors.New("ai summary service unavailable")
	ErrPageOutOfRange     = errors.New("page out of range")
	ErrUpstream           = errors.New("consultation api error")
)

// ValidationError carries per-field messages, either from local validation or
// from a 400 response of the consultation API. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields map[string][]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "invalid input: " + strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Messages returns "field: message" strings sorted by field name.
func (e *ValidationError) Messages() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []string
	for _, k := range keys {
		for _, msg := range e.Fields[k] {
			if k == "" || k == "non_field_errors" || k == "detail" {
				out = append(out, msg)
				continue
			}
			out = append(out, k+": "+msg)
		}
	}
	return out
}

// Field returns the first message for field, or "".
func (e *ValidationError) Field(name string) string {
	if msgs := e.Fields[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// StatusError is returned for unexpected consultation API responses. It unwraps to ErrUpstream.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("consultation api returned status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("consultation api returned status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrUpstream }
