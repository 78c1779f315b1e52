package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const insertExamResult = `-- name: InsertExamResult :exec
INSERT INTO exam_results (id, exam_id, file_name, item_count, created_at)
VALUES ($1, $2, $3, $4, $5)
`

type InsertExamResultParams struct {
	ID        pgtype.UUID
	ExamID    pgtype.UUID
	FileName  string
	ItemCount int32
	CreatedAt pgtype.Timestamptz
}

func (q *Queries) InsertExamResult(ctx context.Context, arg InsertExamResultParams) error {
	_, err := q.db.Exec(ctx, insertExamResult,
		arg.ID,
		arg.ExamID,
		arg.FileName,
		arg.ItemCount,
		arg.CreatedAt,
	)
	return err
}

type CopyExamResultItemsParams struct {
	ID          pgtype.UUID
	ResultID    pgtype.UUID
	Position    int32
	RowNumber   int32
	StudentID   pgtype.UUID
	ClassroomID pgtype.UUID
	SortKey     pgtype.Numeric
	ResultData  []byte
}

const getExamResult = `-- name: GetExamResult :one
SELECT id, exam_id, file_name, item_count, created_at
FROM exam_results
WHERE id = $1
`

func (q *Queries) GetExamResult(ctx context.Context, id pgtype.UUID) (ExamResult, error) {
	row := q.db.QueryRow(ctx, getExamResult, id)
	var i ExamResult
	err := row.Scan(
		&i.ID,
		&i.ExamID,
		&i.FileName,
		&i.ItemCount,
		&i.CreatedAt,
	)
	return i, err
}

const listExamResultsByExam = `-- name: ListExamResultsByExam :many
SELECT id, exam_id, file_name, item_count, created_at
FROM exam_results
WHERE exam_id = $1
ORDER BY created_at DESC, id
`

func (q *Queries) ListExamResultsByExam(ctx context.Context, examID pgtype.UUID) ([]ExamResult, error) {
	rows, err := q.db.Query(ctx, listExamResultsByExam, examID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExamResult
	for rows.Next() {
		var i ExamResult
		if err := rows.Scan(
			&i.ID,
			&i.ExamID,
			&i.FileName,
			&i.ItemCount,
			&i.CreatedAt,
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

const listExamResultItems = `-- name: ListExamResultItems :many
SELECT
    i.id, i.result_id, i.position, i.row_number, i.sort_key, i.result_data,
    s.id AS student_id, s.student_number, s.first_name, s.last_name,
    c.id AS classroom_id, c.classroom_number, c.name AS classroom_name
FROM exam_result_items i
LEFT JOIN students s ON s.id = i.student_id
LEFT JOIN classrooms c ON c.id = i.classroom_id
WHERE i.result_id = $1
ORDER BY i.position
`

type ListExamResultItemsRow struct {
	ID              pgtype.UUID
	ResultID        pgtype.UUID
	Position        int32
	RowNumber       int32
	SortKey         pgtype.Numeric
	ResultData      []byte
	StudentID       pgtype.UUID
	StudentNumber   pgtype.Int8
	FirstName       pgtype.Text
	LastName        pgtype.Text
	ClassroomID     pgtype.UUID
	ClassroomNumber pgtype.Int8
	ClassroomName   pgtype.Text
}

func (q *Queries) ListExamResultItems(ctx context.Context, resultID pgtype.UUID) ([]ListExamResultItemsRow, error) {
	rows, err := q.db.Query(ctx, listExamResultItems, resultID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListExamResultItemsRow
	for rows.Next() {
		var i ListExamResultItemsRow
		if err := rows.Scan(
			&i.ID,
			&i.ResultID,
			&i.Position,
			&i.RowNumber,
			&i.SortKey,
			&i.ResultData,
			&i.StudentID,
			&i.StudentNumber,
			&i.FirstName,
			&i.LastName,
			&i.ClassroomID,
			&i.ClassroomNumber,
			&i.ClassroomName,
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

const deleteExamResultItems = `-- name: DeleteExamResultItems :execrows
DELETE FROM exam_result_items
WHERE result_id = $1
`

func (q *Queries) DeleteExamResultItems(ctx context.Context, resultID pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExamResultItems, resultID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteExamResult = `-- name: DeleteExamResult :execrows
DELETE FROM exam_results
WHERE id = $1
`

func (q *Queries) DeleteExamResult(ctx context.Context, id pgtype.UUID) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExamResult, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const resetExamResultItems = `-- name: ResetExamResultItems :exec
DELETE FROM exam_result_items
`

func (q *Queries) ResetExamResultItems(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetExamResultItems)
	return err
}

const resetExamResults = `-- name: ResetExamResults :exec
DELETE FROM exam_results
`

func (q *Queries) ResetExamResults(ctx context.Context) error {
	_, err := q.db.Exec(ctx, resetExamResults)
	return err
}
