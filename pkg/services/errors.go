// Package services exposes the editing session and the workflow catalog to the API and CLI.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dukex/flowbuilder/pkg/document"
	"github.com/dukex/flowbuilder/pkg/models"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidSortOrder = errors.New("invalid sort order")
	ErrUnknownNodeKind  = models.ErrUnknownNodeKind
	ErrInvalidDocument  = document.ErrInvalidDocument

	// Lookup Errors (404 Not Found).
	ErrWorkflowNotFound = errors.New("workflow not found")
	ErrNodeNotFound     = errors.New("node not found")
	ErrEdgeNotFound     = errors.New("edge not found")

	// State Conflicts (409 Conflict).
	ErrNoPendingDeletion = errors.New("no node is pending deletion")

	// Rejected edits (422 Unprocessable Entity).
	ErrEditRejected = errors.New("edit rejected")

	// Backend failures (503 Service Unavailable).
	ErrCatalogUnavailable = errors.New("workflow catalog unavailable")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// RejectedError reports an edit refused by the editor together with the issues explaining why.
type RejectedError struct {
	Op     string
	Issues models.Issues
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, strings.Join(e.Issues.Messages(), "; "))
}

func (e *RejectedError) Unwrap() error {
	return ErrEditRejected
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSortField) ||
		errors.Is(err, ErrInvalidSortOrder) ||
		errors.Is(err, ErrUnknownNodeKind) ||
		errors.Is(err, ErrInvalidDocument)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) ||
		errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrEdgeNotFound)
}

// IsConflictError checks if an error is a state conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrNoPendingDeletion)
}

// IsRejectedError returns the rejection carried by err, if any.
func IsRejectedError(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}

	return nil, false
}

// IsUnavailableError checks if an error is a backend failure that should return HTTP 503.
func IsUnavailableError(err error) bool {
	return errors.Is(err, ErrCatalogUnavailable)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func newRejectedError(op string, issues models.Issues) *RejectedError {
	return &RejectedError{Op: op, Issues: issues.Blocking()}
}
