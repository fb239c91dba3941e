package shared

import "fmt"

// DomainError is the base error type for domain errors that carry no extra data
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Lookup errors

// NotFoundError indicates an entity missing from a registry or repository
type NotFoundError struct {
	*DomainError
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s not found", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}

// AlreadyExistsError indicates a duplicate registration
type AlreadyExistsError struct {
	*DomainError
	Entity string
	ID     string
}

func NewAlreadyExistsError(entity, id string) *AlreadyExistsError {
	return &AlreadyExistsError{
		DomainError: &DomainError{Message: fmt.Sprintf("%s %s already exists", entity, id)},
		Entity:      entity,
		ID:          id,
	}
}
