package database

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// iteratorForCopyExamResultItems implements pgx.CopyFromSource.
type iteratorForCopyExamResultItems struct {
	rows                 []CopyExamResultItemsParams
	skippedFirstNextCall bool
}

func (r *iteratorForCopyExamResultItems) Next() bool {
	if len(r.rows) == 0 {
		return false
	}
	if !r.skippedFirstNextCall {
		r.skippedFirstNextCall = true
		return true
	}
	r.rows = r.rows[1:]
	return len(r.rows) > 0
}

func (r iteratorForCopyExamResultItems) Values() ([]interface{}, error) {
	return []interface{}{
		r.rows[0].ID,
		r.rows[0].ResultID,
		r.rows[0].Position,
		r.rows[0].RowNumber,
		r.rows[0].StudentID,
		r.rows[0].ClassroomID,
		r.rows[0].SortKey,
		r.rows[0].ResultData,
	}, nil
}

func (r iteratorForCopyExamResultItems) Err() error {
	return nil
}

func (q *Queries) CopyExamResultItems(ctx context.Context, arg []CopyExamResultItemsParams) (int64, error) {
	return q.db.CopyFrom(ctx, pgx.Identifier{"exam_result_items"}, []string{"id", "result_id", "position", "row_number", "student_id", "classroom_id", "sort_key", "result_data"}, &iteratorForCopyExamResultItems{rows: arg})
}
