// Package inmem is a map-backed core.Store for tests and local runs
// without PostgreSQL.
package inmem

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/JonMunkholm/examsheet/internal/core"
	"github.com/google/uuid"
)

// Store keeps every entity in maps guarded by one RWMutex.
type Store struct {
	mu sync.RWMutex

	exams      map[uuid.UUID]core.Exam
	skeletons  map[uuid.UUID]core.ExamSkeleton
	students   map[int64]core.StudentSummary
	classrooms map[int64]core.ClassroomSummary
	results    map[uuid.UUID]*core.ExamResult

	// BeforeSave, when set, runs before a transaction stores a result.
	// Returning an error aborts the transaction.
	BeforeSave func(*core.ExamResult) error
}

var _ core.Store = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		exams:      make(map[uuid.UUID]core.Exam),
		skeletons:  make(map[uuid.UUID]core.ExamSkeleton),
		students:   make(map[int64]core.StudentSummary),
		classrooms: make(map[int64]core.ClassroomSummary),
		results:    make(map[uuid.UUID]*core.ExamResult),
	}
}

// PutSkeleton adds or replaces a skeleton and stamps every exam using it
// with the new revision.
func (s *Store) PutSkeleton(sk core.ExamSkeleton) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range sk.Fields {
		sk.Fields[i].SkeletonID = sk.ID
		sk.Fields[i].Position = i
	}
	s.skeletons[sk.ID] = sk
	for id, e := range s.exams {
		if e.SkeletonID == sk.ID {
			e.SkeletonUpdatedAt = sk.UpdatedAt
			s.exams[id] = e
		}
	}
}

// PutExam adds or replaces an exam. Its skeleton must already be present.
func (s *Store) PutExam(e core.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sk, ok := s.skeletons[e.SkeletonID]
	if !ok {
		return fmt.Errorf("skeleton %s: %w", e.SkeletonID, core.ErrNotFound)
	}
	e.SkeletonUpdatedAt = sk.UpdatedAt
	s.exams[e.ID] = e
	return nil
}

// PutStudent adds or replaces a student, keyed by student number.
func (s *Store) PutStudent(st core.StudentSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[st.StudentNumber] = st
}

// PutClassroom adds or replaces a classroom, keyed by classroom number.
func (s *Store) PutClassroom(c core.ClassroomSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classrooms[c.ClassroomNumber] = c
}

// ResultCount returns the number of stored results.
func (s *Store) ResultCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// ItemCount returns the number of stored items across all results.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.results {
		n += len(r.Items)
	}
	return n
}

func (s *Store) GetExam(_ context.Context, id uuid.UUID) (core.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.exams[id]
	if !ok {
		return core.Exam{}, core.ErrNotFound
	}
	return e, nil
}

func (s *Store) GetSkeleton(_ context.Context, id uuid.UUID) (core.ExamSkeleton, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sk, ok := s.skeletons[id]
	if !ok {
		return core.ExamSkeleton{}, core.ErrNotFound
	}
	sk.Fields = slices.Clone(sk.Fields)
	return sk, nil
}

func (s *Store) FindStudentByNumber(_ context.Context, number int64) (core.StudentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[number]
	if !ok {
		return core.StudentSummary{}, core.ErrNotFound
	}
	return st, nil
}

func (s *Store) FindClassroomByNumber(_ context.Context, number int64) (core.ClassroomSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.classrooms[number]
	if !ok {
		return core.ClassroomSummary{}, core.ErrNotFound
	}
	return c, nil
}

func (s *Store) GetExamResult(_ context.Context, id uuid.UUID) (*core.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	out := *r
	out.Items = slices.Clone(r.Items)
	return &out, nil
}

func (s *Store) ListExamResults(_ context.Context, examID uuid.UUID) ([]core.ExamResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.ExamResult, 0)
	for _, r := range s.results {
		if r.ExamID != examID {
			continue
		}
		summary := *r
		summary.Items = nil
		out = append(out, summary)
	}
	slices.SortFunc(out, func(a, b core.ExamResult) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// DeleteExamResult removes the result together with its items.
func (s *Store) DeleteExamResult(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.results[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.results, id)
	return nil
}

// InTx buffers saved results and applies them only when fn succeeds.
func (s *Store) InTx(ctx context.Context, fn func(tx core.Tx) error) error {
	tx := &txn{store: s}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range tx.pending {
		if _, ok := s.exams[r.ExamID]; !ok {
			return fmt.Errorf("insert exam result: exam %s: %w", r.ExamID, core.ErrNotFound)
		}
	}
	for _, r := range tx.pending {
		s.results[r.ID] = r
	}
	return nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

type txn struct {
	store   *Store
	pending []*core.ExamResult
}

func (t *txn) FindStudentByNumber(ctx context.Context, number int64) (core.StudentSummary, error) {
	return t.store.FindStudentByNumber(ctx, number)
}

func (t *txn) FindClassroomByNumber(ctx context.Context, number int64) (core.ClassroomSummary, error) {
	return t.store.FindClassroomByNumber(ctx, number)
}

func (t *txn) SaveExamResult(_ context.Context, r *core.ExamResult) error {
	if hook := t.store.BeforeSave; hook != nil {
		if err := hook(r); err != nil {
			return err
		}
	}
	stored := *r
	stored.Items = slices.Clone(r.Items)
	t.pending = append(t.pending, &stored)
	return nil
}
