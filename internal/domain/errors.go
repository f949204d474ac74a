package domain

import (
	"errors"
	"strings"
)

// Domain-specific errors for business logic validation.
var (
	// Task errors
	ErrTaskNotFound      = errors.New("task not found")
	ErrAlreadyTerminal   = errors.New("task already completed or cancelled")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConcurrentUpdate  = errors.New("task was modified concurrently")

	// Schedule errors
	ErrScheduleValidation = errors.New("schedule validation failed")
	ErrInvalidRecurrence  = errors.New("invalid recurrence")

	// Permission errors
	ErrPermissionDenied = errors.New("permission denied")

	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserInactive = errors.New("user is inactive")
	ErrInvalidToken = errors.New("invalid authentication token")

	// Project errors
	ErrProjectNotFound = errors.New("project not found")

	// Validation errors
	ErrInvalidStatus = errors.New("invalid task status")
	ErrEmptyComment  = errors.New("comment is required")
)

// Violation is a single failed field rule.
type Violation struct {
	Field   string
	Message string
}

// ScheduleValidationError lists every rule a task failed.
// It matches ErrScheduleValidation with errors.Is.
type ScheduleValidationError struct {
	Violations []Violation
}

func (e *ScheduleValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Field + ": " + v.Message
	}
	return ErrScheduleValidation.Error() + ": " + strings.Join(msgs, "; ")
}

// Is makes errors.Is(err, ErrScheduleValidation) hold.
func (e *ScheduleValidationError) Is(target error) bool {
	return target == ErrScheduleValidation
}

// Add records a violation.
func (e *ScheduleValidationError) Add(field, message string) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: message})
}

// ErrOrNil returns e when it holds violations, nil otherwise.
func (e *ScheduleValidationError) ErrOrNil() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}
