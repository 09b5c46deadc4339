package model

import (
	"fmt"

	"github.com/Laisky/errors/v2"
)

var (
	// ErrNotFound indicates the reference movie or credit of a query does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguousTitle indicates a title lookup matched more than one document in strict mode.
	ErrAmbiguousTitle = errors.New("title matches more than one document")
	// ErrInvalidArgument indicates a query or insert parameter did not pass validation.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrJobNotFound is returned when an ingest job id is unknown.
	ErrJobNotFound = errors.New("ingest job not found")
)

// ParseError is a malformed cell met while mapping a row. It fails the row only.
type ParseError struct {
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, truncate(e.Value, 64), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AggregationError reports the fan-out branch that failed a query.
type AggregationError struct {
	// Key is the actor or company the branch was computing
	Key string
	Err error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregate %q: %v", e.Key, e.Err)
}

func (e *AggregationError) Unwrap() error {
	return e.Err
}

// StoreError wraps a failed storage operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err, nil stays nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}

	return &StoreError{Op: op, Err: errors.WithStack(err)}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
