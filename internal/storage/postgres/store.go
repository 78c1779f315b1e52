// Package postgres is the PostgreSQL implementation of core.Store.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/examsheet/internal/core"
	db "github.com/JonMunkholm/examsheet/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store runs the exam result queries over a connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ core.Store = (*Store)(nil)

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetExam(ctx context.Context, id uuid.UUID) (core.Exam, error) {
	row, err := db.New(s.pool).GetExam(ctx, pgUUID(id))
	if err != nil {
		return core.Exam{}, notFound(err)
	}
	return examFromRow(row), nil
}

func (s *Store) GetSkeleton(ctx context.Context, id uuid.UUID) (core.ExamSkeleton, error) {
	q := db.New(s.pool)

	row, err := q.GetExamSkeleton(ctx, pgUUID(id))
	if err != nil {
		return core.ExamSkeleton{}, notFound(err)
	}
	fields, err := q.ListExamFields(ctx, row.ID)
	if err != nil {
		return core.ExamSkeleton{}, fmt.Errorf("list fields: %w", err)
	}
	return skeletonFromRows(row, fields), nil
}

func (s *Store) GetExamResult(ctx context.Context, id uuid.UUID) (*core.ExamResult, error) {
	q := db.New(s.pool)

	row, err := q.GetExamResult(ctx, pgUUID(id))
	if err != nil {
		return nil, notFound(err)
	}
	itemRows, err := q.ListExamResultItems(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	result := resultFromRow(row)
	result.Items = make([]core.ExamResultItem, 0, len(itemRows))
	for _, ir := range itemRows {
		item, err := itemFromRow(ir)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", ir.Position, err)
		}
		result.Items = append(result.Items, item)
	}
	return &result, nil
}

func (s *Store) ListExamResults(ctx context.Context, examID uuid.UUID) ([]core.ExamResult, error) {
	rows, err := db.New(s.pool).ListExamResultsByExam(ctx, pgUUID(examID))
	if err != nil {
		return nil, err
	}
	out := make([]core.ExamResult, len(rows))
	for i, r := range rows {
		out[i] = resultFromRow(r)
	}
	return out, nil
}

// DeleteExamResult deletes the items of a result and then the result
// itself, in one transaction.
func (s *Store) DeleteExamResult(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	q := db.New(tx)
	if _, err := q.DeleteExamResultItems(ctx, pgUUID(id)); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	n, err := q.DeleteExamResult(ctx, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete result: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// InTx runs fn inside a database transaction.
func (s *Store) InTx(ctx context.Context, fn func(core.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if err := fn(&txStore{q: db.New(tx)}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// txStore is the transaction-bound view handed to ingestion.
type txStore struct {
	q *db.Queries
}

func (t *txStore) FindStudentByNumber(ctx context.Context, number int64) (core.StudentSummary, error) {
	row, err := t.q.GetStudentByNumber(ctx, number)
	if err != nil {
		return core.StudentSummary{}, notFound(err)
	}
	return core.StudentSummary{
		ID:            uuid.UUID(row.ID.Bytes),
		StudentNumber: row.StudentNumber,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
	}, nil
}

func (t *txStore) FindClassroomByNumber(ctx context.Context, number int64) (core.ClassroomSummary, error) {
	row, err := t.q.GetClassroomByNumber(ctx, number)
	if err != nil {
		return core.ClassroomSummary{}, notFound(err)
	}
	return core.ClassroomSummary{
		ID:              uuid.UUID(row.ID.Bytes),
		ClassroomNumber: row.ClassroomNumber,
		Name:            row.Name,
	}, nil
}

// SaveExamResult inserts the result row and bulk-copies its items.
func (t *txStore) SaveExamResult(ctx context.Context, r *core.ExamResult) error {
	if err := t.q.InsertExamResult(ctx, db.InsertExamResultParams{
		ID:        pgUUID(r.ID),
		ExamID:    pgUUID(r.ExamID),
		FileName:  r.FileName,
		ItemCount: int32(r.ItemCount),
		CreatedAt: pgTime(r.CreatedAt),
	}); err != nil {
		return fmt.Errorf("insert exam result: %w", err)
	}

	if len(r.Items) == 0 {
		return nil
	}

	params := make([]db.CopyExamResultItemsParams, len(r.Items))
	for i, it := range r.Items {
		p, err := itemParams(it)
		if err != nil {
			return fmt.Errorf("item %d: %w", it.RowNumber, err)
		}
		params[i] = p
	}

	n, err := t.q.CopyExamResultItems(ctx, params)
	if err != nil {
		return fmt.Errorf("copy exam result items: %w", err)
	}
	if n != int64(len(params)) {
		return fmt.Errorf("copy exam result items: wrote %d of %d rows", n, len(params))
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}
