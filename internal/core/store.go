package core

import (
	"context"

	"github.com/google/uuid"
)

// Directory looks up the entities a row's reference columns point at.
// Both lookups return ErrNotFound when nothing matches.
type Directory interface {
	FindStudentByNumber(ctx context.Context, number int64) (StudentSummary, error)
	FindClassroomByNumber(ctx context.Context, number int64) (ClassroomSummary, error)
}

// Tx is the unit of work an ingestion runs in.
type Tx interface {
	Directory

	// SaveExamResult inserts the result and all of its items.
	SaveExamResult(ctx context.Context, result *ExamResult) error
}

// Store is the persistence port of the ingestion core.
type Store interface {
	// GetExam returns ErrNotFound if the exam does not exist.
	GetExam(ctx context.Context, id uuid.UUID) (Exam, error)

	// GetSkeleton returns the skeleton with its fields in declaration order.
	GetSkeleton(ctx context.Context, id uuid.UUID) (ExamSkeleton, error)

	// GetExamResult returns the result with its items in row order.
	GetExamResult(ctx context.Context, id uuid.UUID) (*ExamResult, error)

	// ListExamResults returns the results of an exam, newest first, without items.
	ListExamResults(ctx context.Context, examID uuid.UUID) ([]ExamResult, error)

	// DeleteExamResult deletes the result and every item it owns.
	DeleteExamResult(ctx context.Context, id uuid.UUID) error

	// InTx runs fn in a transaction, committing if fn returns nil and
	// rolling back otherwise.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
}
