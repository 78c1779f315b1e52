package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func completeSkeleton(id uuid.UUID) ExamSkeleton {
	return ExamSkeleton{
		ID:   id,
		Name: "Midterm",
		Fields: []ExamField{
			{Name: "StudentNo", IsReference: true, ReferenceRole: RoleStudentNumber},
			{Name: "ClassNo", IsReference: true, ReferenceRole: RoleClassroomNumber},
			{Name: "Sortable", IsReference: true, ReferenceRole: RoleSortKey},
			{Name: "Score"},
		},
	}
}

func TestBindingCache_ResolveCachesPerRevision(t *testing.T) {
	skID := uuid.New()
	rev := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	exam := Exam{ID: uuid.New(), SkeletonID: skID, SkeletonUpdatedAt: rev}

	var loads atomic.Int32
	load := func(_ context.Context, id uuid.UUID) (ExamSkeleton, error) {
		loads.Add(1)
		return completeSkeleton(id), nil
	}

	cache := NewBindingCache()
	for i := 0; i < 3; i++ {
		b, err := cache.Resolve(context.Background(), exam, load)
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if b.StudentNumber != "StudentNo" {
			t.Errorf("StudentNumber = %q, want %q", b.StudentNumber, "StudentNo")
		}
	}
	if got := loads.Load(); got != 1 {
		t.Errorf("loads = %d, want 1", got)
	}

	exam.SkeletonUpdatedAt = rev.Add(time.Minute)
	if _, ok := cache.Get(exam); ok {
		t.Error("Get() hit for a newer revision, want miss")
	}
	if _, err := cache.Resolve(context.Background(), exam, load); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got := loads.Load(); got != 2 {
		t.Errorf("loads after revision change = %d, want 2", got)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestBindingCache_Invalidate(t *testing.T) {
	exam := Exam{ID: uuid.New(), SkeletonID: uuid.New()}
	load := func(_ context.Context, id uuid.UUID) (ExamSkeleton, error) {
		return completeSkeleton(id), nil
	}

	cache := NewBindingCache()
	if _, err := cache.Resolve(context.Background(), exam, load); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	cache.Invalidate(exam.SkeletonID)

	if _, ok := cache.Get(exam); ok {
		t.Error("Get() hit after Invalidate, want miss")
	}
}

func TestBindingCache_ErrorsNotCached(t *testing.T) {
	exam := Exam{ID: uuid.New(), SkeletonID: uuid.New()}
	incomplete := func(_ context.Context, id uuid.UUID) (ExamSkeleton, error) {
		return ExamSkeleton{ID: id, Fields: skeletonFields(RoleStudentNumber, RoleSortKey)}, nil
	}

	cache := NewBindingCache()
	_, err := cache.Resolve(context.Background(), exam, incomplete)
	ie, ok := AsIngestError(err)
	if !ok || ie.Role != RoleClassroomNumber {
		t.Fatalf("Resolve() error = %v, want SchemaIncomplete for classroom", err)
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("Len() after failure = %d, want 0", got)
	}

	boom := errors.New("connection refused")
	failing := func(context.Context, uuid.UUID) (ExamSkeleton, error) {
		return ExamSkeleton{}, boom
	}
	if _, err := cache.Resolve(context.Background(), exam, failing); !errors.Is(err, boom) {
		t.Errorf("Resolve() error = %v, want wrapped %v", err, boom)
	}
}

func TestBindingCache_ConcurrentResolve(t *testing.T) {
	exam := Exam{ID: uuid.New(), SkeletonID: uuid.New()}

	var loads atomic.Int32
	release := make(chan struct{})
	load := func(_ context.Context, id uuid.UUID) (ExamSkeleton, error) {
		loads.Add(1)
		<-release
		return completeSkeleton(id), nil
	}

	cache := NewBindingCache()
	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Resolve(context.Background(), exam, load)
			errs <- err
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Errorf("Resolve() error: %v", err)
		}
	}
	if got := loads.Load(); got > 2 {
		t.Errorf("loads = %d, want concurrent misses to share a load", got)
	}
}

func TestBindingCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	exam := Exam{ID: uuid.New(), SkeletonID: uuid.New()}

	var loads atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	load := func(ctx context.Context, id uuid.UUID) (ExamSkeleton, error) {
		if loads.Add(1) == 1 {
			close(started)
		}
		<-release
		if err := ctx.Err(); err != nil {
			return ExamSkeleton{}, err
		}
		return completeSkeleton(id), nil
	}

	cache := NewBindingCache()
	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := cache.Resolve(ctx, exam, load)
		first <- err
	}()
	<-started

	second := make(chan error, 1)
	go func() {
		_, err := cache.Resolve(context.Background(), exam, load)
		second <- err
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	if err := <-first; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled Resolve() error = %v, want %v", err, context.Canceled)
	}

	close(release)
	if err := <-second; err != nil {
		t.Errorf("waiting Resolve() error = %v, want nil", err)
	}
	if got := loads.Load(); got != 1 {
		t.Errorf("loads = %d, want 1", got)
	}
	if _, ok := cache.Get(exam); !ok {
		t.Error("Get() miss after the shared load finished, want hit")
	}
}
