package core

import (
	"time"

	"github.com/JonMunkholm/examsheet/internal/ordered"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ReferenceRole marks an exam field as carrying a semantic reference
// instead of free-form result data.
type ReferenceRole string

const (
	RoleNone            ReferenceRole = "NONE"
	RoleStudentNumber   ReferenceRole = "STUDENT_NUMBER"
	RoleClassroomNumber ReferenceRole = "CLASSROOM_NUMBER"
	RoleSortKey         ReferenceRole = "SORT_KEY"
)

// RequiredRoles lists the reference roles every skeleton must bind, in the
// order they are checked.
var RequiredRoles = []ReferenceRole{RoleStudentNumber, RoleClassroomNumber, RoleSortKey}

// Label returns the short human name of the role.
func (r ReferenceRole) Label() string {
	switch r {
	case RoleStudentNumber:
		return "student"
	case RoleClassroomNumber:
		return "classroom"
	case RoleSortKey:
		return "sort-key"
	default:
		return "none"
	}
}

// FieldType is the semantic type tag of an exam field. It describes the
// column for clients; ingestion stores every value as a string.
type FieldType string

const (
	FieldText    FieldType = "TEXT"
	FieldNumeric FieldType = "NUMERIC"
	FieldDecimal FieldType = "DECIMAL"
	FieldDate    FieldType = "DATE"
	FieldBool    FieldType = "BOOLEAN"
)

// ExamField is one named column of an exam skeleton.
type ExamField struct {
	ID            uuid.UUID     `json:"id"`
	SkeletonID    uuid.UUID     `json:"skeletonId"`
	Position      int           `json:"position"`
	Name          string        `json:"name"` // must equal a spreadsheet header exactly
	Type          FieldType     `json:"type"`
	IsReference   bool          `json:"isReference"`
	ReferenceRole ReferenceRole `json:"referenceRole"`
}

// ExamSkeleton is the reusable column schema of a class of exams.
type ExamSkeleton struct {
	ID             uuid.UUID   `json:"id"`
	OrganizationID uuid.UUID   `json:"organizationId"`
	Name           string      `json:"name"`
	Fields         []ExamField `json:"fields"` // declaration order
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// Exam names the skeleton that governs uploads for it.
type Exam struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	ExamTypeID        uuid.UUID `json:"examTypeId"`
	SkeletonID        uuid.UUID `json:"skeletonId"`
	SkeletonUpdatedAt time.Time `json:"-"`
}

// StudentSummary is the client-visible view of a resolved student.
type StudentSummary struct {
	ID            uuid.UUID `json:"id"`
	StudentNumber int64     `json:"studentNumber"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
}

// ClassroomSummary is the client-visible view of a resolved classroom.
type ClassroomSummary struct {
	ID              uuid.UUID `json:"id"`
	ClassroomNumber int64     `json:"classroomNumber"`
	Name            string    `json:"name"`
}

// ResultData maps header names to nullable cell values in column order.
type ResultData = ordered.Map[pgtype.Text]

// ExamResultItem is the structured record built from one data row.
type ExamResultItem struct {
	ID         uuid.UUID         `json:"id"`
	ResultID   uuid.UUID         `json:"resultId"`
	Position   int               `json:"position"`  // zero-based order within the result
	RowNumber  int               `json:"rowNumber"` // one-based worksheet row
	Student    *StudentSummary   `json:"student"`
	Classroom  *ClassroomSummary `json:"classroom"`
	SortKey    pgtype.Numeric    `json:"sortKey"`
	ResultData *ResultData       `json:"resultData"`
}

// ExamResult is the aggregate root of one successful ingestion. It is the
// sole owner of its items: deleting a result deletes every item.
type ExamResult struct {
	ID        uuid.UUID        `json:"id"`
	ExamID    uuid.UUID        `json:"examId"`
	FileName  string           `json:"fileName"`
	ItemCount int              `json:"itemCount"`
	CreatedAt time.Time        `json:"createdAt"`
	Items     []ExamResultItem `json:"items,omitempty"`
}
