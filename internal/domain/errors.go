// Package domain defines the error taxonomy shared by services and the HTTP
// boundary. Handlers map these onto status codes; everything else is a 500.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func AccountNotFound(name string) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf("Account '%s' was not found", name)}
}

func AccountIDNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf("Account with ID '%s' was not found", id)}
}

type DuplicateError struct {
	Msg string
}

func (e *DuplicateError) Error() string { return e.Msg }

func DuplicateAccount(name string) *DuplicateError {
	return &DuplicateError{Msg: fmt.Sprintf("Account '%s' already exists", name)}
}

// InvalidFileError covers uploads whose file is malformed or corrupted at the
// stream level, as opposed to per-row parse failures which stay in the
// upload outcome.
type InvalidFileError struct {
	Msg string
}

func (e *InvalidFileError) Error() string { return e.Msg }

type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string { return e.Msg }

type UnauthorizedOperationError struct {
	Operation string
}

func (e *UnauthorizedOperationError) Error() string {
	return fmt.Sprintf("Unauthorized to perform operation: %s", e.Operation)
}
