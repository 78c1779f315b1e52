package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Classroom struct {
	ID              pgtype.UUID
	ClassroomNumber int64
	Name            string
}

type Exam struct {
	ID                pgtype.UUID
	Name              string
	ExamTypeID        pgtype.UUID
	SkeletonID        pgtype.UUID
	SkeletonUpdatedAt pgtype.Timestamptz
}

type ExamField struct {
	ID            pgtype.UUID
	SkeletonID    pgtype.UUID
	Position      int32
	Name          string
	FieldType     string
	IsReference   bool
	ReferenceRole string
}

type ExamResult struct {
	ID        pgtype.UUID
	ExamID    pgtype.UUID
	FileName  string
	ItemCount int32
	CreatedAt pgtype.Timestamptz
}

type ExamResultItem struct {
	ID          pgtype.UUID
	ResultID    pgtype.UUID
	Position    int32
	RowNumber   int32
	StudentID   pgtype.UUID
	ClassroomID pgtype.UUID
	SortKey     pgtype.Numeric
	ResultData  []byte
}

type ExamSkeleton struct {
	ID             pgtype.UUID
	OrganizationID pgtype.UUID
	Name           string
	UpdatedAt      pgtype.Timestamptz
}

type Student struct {
	ID            pgtype.UUID
	StudentNumber int64
	FirstName     string
	LastName      string
}
