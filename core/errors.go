package core

import (
	"github.com/go-playground/validator/v10"
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

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

type notFound struct {
	what string
}

// NewNotFoundError returns an error reporting that `what` does not exist.
func NewNotFoundError(what string) error {
	return &notFound{what: what}
}

func (nf notFound) Error() string {
	return nf.what + " not found"
}

func IsNotFound(err error) bool {
	var nf *notFound
	return errors.As(err, &nf)
}

func IsValidation(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var fldErrs validator.ValidationErrors
	return errors.As(err, &fldErrs)
}
