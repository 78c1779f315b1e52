package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// skeletonLoadTimeout bounds a shared skeleton load, which outlives the
// request that started it.
const skeletonLoadTimeout = 10 * time.Second

// bindingKey identifies one revision of a skeleton.
type bindingKey struct {
	skeletonID uuid.UUID
	updatedAt  time.Time
}

// BindingCache remembers the reference bindings of each skeleton revision
// so the field list is scanned once per revision instead of on every
// upload. Failed resolutions are not cached.
type BindingCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]cachedBindings
	group   singleflight.Group
}

type cachedBindings struct {
	key      bindingKey
	bindings ReferenceBindings
}

// NewBindingCache creates an empty cache.
func NewBindingCache() *BindingCache {
	return &BindingCache{entries: make(map[uuid.UUID]cachedBindings)}
}

// Get returns the cached bindings for the exam's skeleton revision.
func (c *BindingCache) Get(exam Exam) (ReferenceBindings, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[exam.SkeletonID]
	if !ok || !e.key.updatedAt.Equal(exam.SkeletonUpdatedAt) {
		return ReferenceBindings{}, false
	}
	return e.bindings, true
}

// Resolve returns the bindings for the exam's skeleton, loading the
// skeleton through load on a miss. Concurrent misses for the same skeleton
// share a single load; a caller whose ctx ends stops waiting without
// failing the others.
func (c *BindingCache) Resolve(ctx context.Context, exam Exam, load func(context.Context, uuid.UUID) (ExamSkeleton, error)) (ReferenceBindings, error) {
	if b, ok := c.Get(exam); ok {
		return b, nil
	}

	flightKey := fmt.Sprintf("%s@%d", exam.SkeletonID, exam.SkeletonUpdatedAt.UnixNano())
	ch := c.group.DoChan(flightKey, func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), skeletonLoadTimeout)
		defer cancel()

		skeleton, err := load(lctx, exam.SkeletonID)
		if err != nil {
			return nil, fmt.Errorf("load skeleton %s: %w", exam.SkeletonID, err)
		}

		bindings, err := ResolveReferences(skeleton.Fields)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[exam.SkeletonID] = cachedBindings{
			key:      bindingKey{skeletonID: exam.SkeletonID, updatedAt: exam.SkeletonUpdatedAt},
			bindings: bindings,
		}
		c.mu.Unlock()

		return bindings, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return ReferenceBindings{}, res.Err
		}
		return res.Val.(ReferenceBindings), nil
	case <-ctx.Done():
		return ReferenceBindings{}, ctx.Err()
	}
}

// Invalidate drops the cached bindings of a skeleton.
// Schema editors call it after changing a skeleton's fields.
func (c *BindingCache) Invalidate(skeletonID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, skeletonID)
}

// Len returns the number of cached skeletons.
func (c *BindingCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
