package store

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError reports one or more violated field constraints on a
// create or update. It rejects the single call only.
type ValidationError struct {
	Entity     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s", e.Entity, strings.Join(e.Violations, "; "))
}

// NotFoundError reports a lookup by id that matched no row.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferenceError reports an insert or update naming a parent row that
// does not exist.
type ReferenceError struct {
	Entity   string
	Parent   string
	ParentID uint
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s references missing %s %d", e.Entity, e.Parent, e.ParentID)
}

// InvalidTransitionError reports an illegal status change, such as
// updating a scheduled message that already reached a terminal status.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s cannot transition from %q to %q", e.Entity, e.From, e.To)
}

// StoreError wraps an underlying connection or I/O failure. The failing
// call does not partially apply.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
