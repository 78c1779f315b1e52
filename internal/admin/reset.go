// Package admin provides administrative operations for database management.
package admin

import (
	"context"
	"fmt"
	"time"

	db "github.com/JonMunkholm/examsheet/internal/database"
	"github.com/jackc/pgx/v5"
)

// DefaultResetTimeout bounds a reset when the caller passes no deadline.
const DefaultResetTimeout = 30 * time.Second

// Beginner starts transactions; *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Resetter wipes stored exam results.
type Resetter struct {
	DB      Beginner
	Timeout time.Duration
}

type dbResetFn func(ctx context.Context) error

// ResetResults deletes every exam result and item in one transaction.
// Items go first since they reference their result. Skeletons, exams and
// the student and classroom directories are left alone.
// This is a destructive operation - use with caution.
func (r *Resetter) ResetResults(ctx context.Context) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultResetTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback(ctx)

	q := db.New(tx)
	if err := runResets(ctx, []dbResetFn{
		q.ResetExamResultItems,
		q.ResetExamResults,
	}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func runResets(ctx context.Context, resets []dbResetFn) error {
	for i, reset := range resets {
		if err := reset(ctx); err != nil {
			return fmt.Errorf("reset step %d: %w", i+1, err)
		}
	}
	return nil
}
