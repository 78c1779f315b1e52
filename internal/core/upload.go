package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/examsheet/internal/ordered"
	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// ContextCheckInterval is how often, in rows, the row loop checks for cancellation.
var ContextCheckInterval = 100

// RowIngestor turns the data rows of a worksheet into result items.
type RowIngestor struct {
	headers HeaderTable
	refs    *ReferenceResolver
	logger  *slog.Logger
}

// NewRowIngestor creates an ingestor for rows laid out under headers.
func NewRowIngestor(headers HeaderTable, refs *ReferenceResolver, logger *slog.Logger) *RowIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowIngestor{headers: headers, refs: refs, logger: logger}
}

// Ingest builds one item per data row, in row order. Any error aborts the
// whole ingestion; reference misses are not errors.
func (in *RowIngestor) Ingest(ctx context.Context, rows []spreadsheet.Row) ([]ExamResultItem, error) {
	items := make([]ExamResultItem, 0, len(rows))

	for i, row := range rows {
		if i%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("ingestion cancelled at row %d: %w", row.Index+1, err)
			}
		}

		item, err := in.BuildItem(ctx, row)
		if err != nil {
			return nil, err
		}
		item.Position = i
		items = append(items, item)
	}

	return items, nil
}

// BuildItem builds the item of a single row.
//
// Only the row's own cells are visited: when the row is physically shorter
// than the header, the trailing header names are absent from its data
// rather than null. Under a repeated header name the first column wins.
// Reference columns are stored like any other column and also resolved.
func (in *RowIngestor) BuildItem(ctx context.Context, row spreadsheet.Row) (ExamResultItem, error) {
	data := ordered.New[pgtype.Text](row.Len())
	for pos, cell := range row.Cells {
		name, ok := in.headers.Name(pos)
		if !ok {
			continue
		}
		data.SetIfAbsent(name, CoerceCell(cell))
	}

	item := ExamResultItem{
		RowNumber:  row.Index + 1,
		ResultData: data,
	}
	if err := in.refs.Resolve(ctx, &item, data); err != nil {
		return ExamResultItem{}, err
	}
	return item, nil
}

// ResultAssembler creates the result aggregate of an ingestion and persists it.
type ResultAssembler struct {
	Now   func() time.Time
	NewID func() uuid.UUID
}

// Assemble creates a result for exam owning items, setting each item's
// back-reference and identity.
func (a ResultAssembler) Assemble(exam Exam, fileName string, items []ExamResultItem) *ExamResult {
	now, newID := a.Now, a.NewID
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.New
	}

	result := &ExamResult{
		ID:        newID(),
		ExamID:    exam.ID,
		FileName:  fileName,
		ItemCount: len(items),
		CreatedAt: now().UTC(),
		Items:     items,
	}
	for i := range result.Items {
		result.Items[i].ID = newID()
		result.Items[i].ResultID = result.ID
		result.Items[i].Position = i
	}
	return result
}

// Commit assembles the result and saves it with all items in tx.
func (a ResultAssembler) Commit(ctx context.Context, tx Tx, exam Exam, fileName string, items []ExamResultItem) (*ExamResult, error) {
	result := a.Assemble(exam, fileName, items)
	if err := tx.SaveExamResult(ctx, result); err != nil {
		return nil, fmt.Errorf("save exam result: %w", err)
	}
	return result, nil
}
