package core

import (
	"strings"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports caller-supplied data that fails a precondition.
// Nothing has been written when it is returned.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

// NewFieldValidationError is a shortcut for a ValidationError on a single field.
func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Err: errors.New(msg), Fields: []FieldError{{Field: field, Error: msg}}}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// FirstField returns the name of the first offending field, if any.
func (err ValidationError) FirstField() string {
	if len(err.Fields) == 0 {
		return ""
	}
	return err.Fields[0].Field
}

// ConstraintViolation is returned when a uniqueness or reference rule rejected a write.
type ConstraintViolation struct {
	Op  string
	Err error
}

func NewConstraintViolation(op string, err error) error {
	return &ConstraintViolation{Op: op, Err: err}
}

func (err ConstraintViolation) Error() string {
	if err.Err == nil {
		return err.Op + ": constraint violation"
	}
	return err.Op + ": " + err.Err.Error()
}

func (err ConstraintViolation) Unwrap() error { return err.Err }

// StorageIOError is returned when the backing file cannot be opened, read or copied.
type StorageIOError struct {
	Path string
	Err  error
}

func NewStorageIOError(path string, err error) error {
	return &StorageIOError{Path: path, Err: err}
}

func (err StorageIOError) Error() string {
	var b strings.Builder
	b.WriteString("storage i/o")
	if err.Path != "" {
		b.WriteString(" (" + err.Path + ")")
	}
	if err.Err != nil {
		b.WriteString(": " + err.Err.Error())
	}
	return b.String()
}

func (err StorageIOError) Unwrap() error { return err.Err }

func IsValidation(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

func IsConstraintViolation(err error) bool {
	var cErr *ConstraintViolation
	return errors.As(err, &cErr)
}

func IsStorageIO(err error) bool {
	var sErr *StorageIOError
	return errors.As(err, &sErr)
}

// AsValidation returns the ValidationError carried by err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
