package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when a write collides with existing state.
	ErrConflict = errors.New("application: conflict")
	// ErrStorage wraps storage failures that no domain rule explains.
	ErrStorage = errors.New("application: storage failure")
)

// Field level messages surfaced to callers.
const (
	MsgEmptyName           = "empty name"
	MsgNonPositiveCapacity = "non-positive capacity"
	MsgDuplicateName       = "duplicate name"
	MsgAlreadyBooked       = "already booked"
	MsgPastDate            = "past date"
	MsgInvalidDate         = "invalid date"
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
	// Details carries the room context of a rejected reservation, if any.
	Details *RoomDetails
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	if len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + ": " + v.FieldErrors[field]
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConflictError reports a uniqueness violation on a single field.
type ConflictError struct {
	Field   string
	Message string
	Details *RoomDetails
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrConflict) hold for every ConflictError.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// NotFoundError reports a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Is makes errors.Is(err, ErrNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func roomNotFound(id string) error {
	return &NotFoundError{Resource: "room", ID: id}
}

func storageError(err error) error {
	if err == nil || errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
