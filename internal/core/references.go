package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ReferenceResolver attaches the student, classroom and sort key a row
// refers to. Lookup results are memoized for the lifetime of one
// ingestion, so a student appearing on many rows is looked up once.
type ReferenceResolver struct {
	dir      Directory
	bindings ReferenceBindings
	logger   *slog.Logger

	students   map[int64]*StudentSummary
	classrooms map[int64]*ClassroomSummary
	stats      ReferenceStats
}

// ReferenceStats counts non-fatal reference outcomes of one ingestion.
type ReferenceStats struct {
	StudentsResolved   int
	StudentMisses      int
	ClassroomsResolved int
	ClassroomMisses    int
	InvalidSortKeys    int
}

// NewReferenceResolver creates a resolver for one ingestion.
func NewReferenceResolver(dir Directory, bindings ReferenceBindings, logger *slog.Logger) *ReferenceResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceResolver{
		dir:        dir,
		bindings:   bindings,
		logger:     logger,
		students:   make(map[int64]*StudentSummary),
		classrooms: make(map[int64]*ClassroomSummary),
	}
}

// Stats returns the counts collected so far.
func (r *ReferenceResolver) Stats() ReferenceStats {
	return r.stats
}

// Resolve reads the reference columns from data and sets item's student,
// classroom and sort key. A value that does not resolve is a reference
// miss: it is logged and the association is left unset. Only a failing
// lookup is returned as an error.
func (r *ReferenceResolver) Resolve(ctx context.Context, item *ExamResultItem, data *ResultData) error {
	if v, ok := data.Get(r.bindings.StudentNumber); ok && v.Valid {
		student, err := r.student(ctx, item.RowNumber, v.String)
		if err != nil {
			return err
		}
		item.Student = student
	}

	if v, ok := data.Get(r.bindings.ClassroomNumber); ok && v.Valid {
		classroom, err := r.classroom(ctx, item.RowNumber, v.String)
		if err != nil {
			return err
		}
		item.Classroom = classroom
	}

	if v, ok := data.Get(r.bindings.SortKey); ok && v.Valid {
		key, err := ParseSortKey(v.String)
		if err != nil {
			r.stats.InvalidSortKeys++
			r.logger.Warn("invalid sort key",
				"row", item.RowNumber,
				"column", r.bindings.SortKey,
				"value", v.String,
			)
		} else {
			item.SortKey = key
			r.logger.Debug("sort key", "row", item.RowNumber, "key", NumericString(key))
		}
	}

	return nil
}

func (r *ReferenceResolver) student(ctx context.Context, row int, raw string) (*StudentSummary, error) {
	number, err := ParseReferenceNumber(raw)
	if err != nil {
		r.miss(row, RoleStudentNumber, raw, err)
		r.stats.StudentMisses++
		return nil, nil
	}

	if s, ok := r.students[number]; ok {
		if s == nil {
			r.miss(row, RoleStudentNumber, raw, nil)
			r.stats.StudentMisses++
		} else {
			r.stats.StudentsResolved++
		}
		return s, nil
	}

	found, err := r.dir.FindStudentByNumber(ctx, number)
	switch {
	case errors.Is(err, ErrNotFound):
		r.students[number] = nil
		r.miss(row, RoleStudentNumber, raw, nil)
		r.stats.StudentMisses++
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("row %d: find student %d: %w", row, number, err)
	}

	r.students[number] = &found
	r.stats.StudentsResolved++
	return &found, nil
}

func (r *ReferenceResolver) classroom(ctx context.Context, row int, raw string) (*ClassroomSummary, error) {
	number, err := ParseReferenceNumber(raw)
	if err != nil {
		r.miss(row, RoleClassroomNumber, raw, err)
		r.stats.ClassroomMisses++
		return nil, nil
	}

	if c, ok := r.classrooms[number]; ok {
		if c == nil {
			r.miss(row, RoleClassroomNumber, raw, nil)
			r.stats.ClassroomMisses++
		} else {
			r.stats.ClassroomsResolved++
		}
		return c, nil
	}

	found, err := r.dir.FindClassroomByNumber(ctx, number)
	switch {
	case errors.Is(err, ErrNotFound):
		r.classrooms[number] = nil
		r.miss(row, RoleClassroomNumber, raw, nil)
		r.stats.ClassroomMisses++
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("row %d: find classroom %d: %w", row, number, err)
	}

	r.classrooms[number] = &found
	r.stats.ClassroomsResolved++
	return &found, nil
}

func (r *ReferenceResolver) miss(row int, role ReferenceRole, raw string, cause error) {
	args := []any{
		"row", row,
		"role", string(role),
		"value", raw,
	}
	if cause != nil {
		args = append(args, "error", cause)
	}
	r.logger.Warn("reference miss", args...)
}
