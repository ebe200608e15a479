package service

import "fmt"

// ValidationError reports a missing or empty request field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports an absent, malformed or unknown food identifier
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return "food not found"
	}
	return fmt.Sprintf("food %q not found", e.ID)
}

// ConflictError reports a write that would break a uniqueness rule
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("food with %s %q already exists", e.Field, e.Value)
}
