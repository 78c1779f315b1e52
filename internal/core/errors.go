package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by a Store when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrResultNotFound is returned when an exam result id does not exist.
var ErrResultNotFound = fmt.Errorf("exam result %w", ErrNotFound)

// File-level failures.
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrNoHeaderRow  = errors.New("worksheet has no header row")
)

// Missing reference roles, one per required role.
var (
	ErrStudentReferenceMissing   = errors.New("skeleton has no STUDENT_NUMBER reference field")
	ErrClassroomReferenceMissing = errors.New("skeleton has no CLASSROOM_NUMBER reference field")
	ErrSortKeyReferenceMissing   = errors.New("skeleton has no SORT_KEY reference field")
)

// ErrorKind classifies a fatal ingestion failure.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindSchemaIncomplete ErrorKind = "SchemaIncomplete"
	KindFileUnreadable   ErrorKind = "FileUnreadable"
)

// IngestError is a fatal ingestion failure. Nothing is persisted when one
// is returned.
type IngestError struct {
	Kind    ErrorKind
	Role    ReferenceRole // set for KindSchemaIncomplete
	Message string
	Err     error
}

func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// missingRoleError returns the SchemaIncomplete error for role.
func missingRoleError(role ReferenceRole) *IngestError {
	var sentinel error
	switch role {
	case RoleStudentNumber:
		sentinel = ErrStudentReferenceMissing
	case RoleClassroomNumber:
		sentinel = ErrClassroomReferenceMissing
	default:
		sentinel = ErrSortKeyReferenceMissing
	}
	return &IngestError{
		Kind:    KindSchemaIncomplete,
		Role:    role,
		Message: fmt.Sprintf("exam skeleton is missing the %s reference field", role.Label()),
		Err:     sentinel,
	}
}

func examNotFoundError(examID fmt.Stringer) *IngestError {
	return &IngestError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("exam not found: %s", examID),
		Err:     ErrNotFound,
	}
}

func unreadableError(msg string, err error) *IngestError {
	return &IngestError{
		Kind:    KindFileUnreadable,
		Message: msg,
		Err:     err,
	}
}

// AsIngestError returns the IngestError in err's chain, if any.
func AsIngestError(err error) (*IngestError, bool) {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
