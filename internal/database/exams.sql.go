package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getExam = `-- name: GetExam :one
SELECT e.id, e.name, e.exam_type_id, e.skeleton_id, s.updated_at AS skeleton_updated_at
FROM exams e
JOIN exam_skeletons s ON s.id = e.skeleton_id
WHERE e.id = $1
`

func (q *Queries) GetExam(ctx context.Context, id pgtype.UUID) (Exam, error) {
	row := q.db.QueryRow(ctx, getExam, id)
	var i Exam
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.ExamTypeID,
		&i.SkeletonID,
		&i.SkeletonUpdatedAt,
	)
	return i, err
}

const getExamSkeleton = `-- name: GetExamSkeleton :one
SELECT id, organization_id, name, updated_at
FROM exam_skeletons
WHERE id = $1
`

func (q *Queries) GetExamSkeleton(ctx context.Context, id pgtype.UUID) (ExamSkeleton, error) {
	row := q.db.QueryRow(ctx, getExamSkeleton, id)
	var i ExamSkeleton
	err := row.Scan(
		&i.ID,
		&i.OrganizationID,
		&i.Name,
		&i.UpdatedAt,
	)
	return i, err
}

const listExamFields = `-- name: ListExamFields :many
SELECT id, skeleton_id, position, name, field_type, is_reference, reference_role
FROM exam_fields
WHERE skeleton_id = $1
ORDER BY position
`

func (q *Queries) ListExamFields(ctx context.Context, skeletonID pgtype.UUID) ([]ExamField, error) {
	rows, err := q.db.Query(ctx, listExamFields, skeletonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExamField
	for rows.Next() {
		var i ExamField
		if err := rows.Scan(
			&i.ID,
			&i.SkeletonID,
			&i.Position,
			&i.Name,
			&i.FieldType,
			&i.IsReference,
			&i.ReferenceRole,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
