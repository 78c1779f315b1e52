package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/examsheet/internal/logging"
	"github.com/JonMunkholm/examsheet/internal/spreadsheet"
	"github.com/google/uuid"
)

// Default limits applied when Options leaves them unset.
var (
	UploadTimeout = 10 * time.Minute
	MaxFileSize   = int64(32 << 20)
)

// Options configures a Service. Zero values select the defaults.
type Options struct {
	MaxFileSize   int64
	MaxConcurrent int
	MaxWaitTime   time.Duration
	UploadTimeout time.Duration
}

// Service is the entry point of the ingestion core. It is safe for
// concurrent use; each upload runs in its own transaction.
type Service struct {
	store     Store
	cache     *BindingCache
	limiter   *UploadLimiter
	assembler ResultAssembler

	maxFileSize   int64
	uploadTimeout time.Duration
}

// NewService creates a Service over store.
func NewService(store Store, opts Options) *Service {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = MaxFileSize
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = UploadTimeout
	}

	return &Service{
		store:         store,
		cache:         NewBindingCache(),
		limiter:       NewUploadLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		maxFileSize:   opts.MaxFileSize,
		uploadTimeout: opts.UploadTimeout,
	}
}

// UploadExamResult ingests one workbook for an exam and returns the stored
// result with its items.
//
// The exam and its skeleton are checked before the file is decoded, so a
// skeleton lacking a reference role fails without reading the upload. On
// any error nothing is persisted.
func (s *Service) UploadExamResult(ctx context.Context, examID uuid.UUID, fileName string, data []byte) (*ExamResult, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	logger := logging.WithFields(ctx,
		"exam_id", examID,
		"file", fileName,
	)
	start := time.Now()

	exam, err := s.store.GetExam(ctx, examID)
	if errors.Is(err, ErrNotFound) {
		return nil, examNotFoundError(examID)
	}
	if err != nil {
		return nil, fmt.Errorf("get exam %s: %w", examID, err)
	}

	bindings, err := s.cache.Resolve(ctx, exam, s.store.GetSkeleton)
	if err != nil {
		if ie, ok := AsIngestError(err); ok && ie.Kind == KindSchemaIncomplete {
			logger.Warn("exam skeleton incomplete", "role", string(ie.Role))
		}
		return nil, err
	}

	if int64(len(data)) > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, len(data), s.maxFileSize)
	}

	sheet, format, err := spreadsheet.Open(data)
	if err != nil {
		return nil, unreadableError("cannot read workbook", err)
	}
	header, rows, ok := sheet.Header()
	if !ok {
		return nil, unreadableError("cannot read workbook", ErrNoHeaderRow)
	}

	headers := MakeHeaderTable(header)
	logger = logger.With("format", string(format), "sheet", sheet.Name)
	logger.Info("ingestion started", "rows", len(rows), "columns", headers.Width())
	logger.Debug("header row", "names", headers.Names())
	if dups := headers.Duplicates(); len(dups) > 0 {
		logger.Warn("duplicate header names, first column wins", "names", dups)
	}

	var (
		result *ExamResult
		stats  ReferenceStats
	)
	err = s.store.InTx(ctx, func(tx Tx) error {
		refs := NewReferenceResolver(tx, bindings, logger)
		items, err := NewRowIngestor(headers, refs, logger).Ingest(ctx, rows)
		if err != nil {
			return err
		}
		stats = refs.Stats()

		result, err = s.assembler.Commit(ctx, tx, exam, fileName, items)
		return err
	})
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		return nil, err
	}

	logger.Info("ingestion completed",
		"result_id", result.ID,
		"items", result.ItemCount,
		"student_misses", stats.StudentMisses,
		"classroom_misses", stats.ClassroomMisses,
		"invalid_sort_keys", stats.InvalidSortKeys,
		"duration", time.Since(start),
	)
	return result, nil
}

// GetExamResult returns a stored result with its items in row order.
func (s *Service) GetExamResult(ctx context.Context, id uuid.UUID) (*ExamResult, error) {
	result, err := s.store.GetExamResult(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exam result %s: %w", id, err)
	}
	return result, nil
}

// ListExamResults returns the results uploaded for an exam, newest first.
func (s *Service) ListExamResults(ctx context.Context, examID uuid.UUID) ([]ExamResult, error) {
	if _, err := s.store.GetExam(ctx, examID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, examNotFoundError(examID)
		}
		return nil, fmt.Errorf("get exam %s: %w", examID, err)
	}

	results, err := s.store.ListExamResults(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("list exam results: %w", err)
	}
	return results, nil
}

// DeleteExamResult removes a result and all of its items.
func (s *Service) DeleteExamResult(ctx context.Context, id uuid.UUID) error {
	err := s.store.DeleteExamResult(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return ErrResultNotFound
	}
	if err != nil {
		return fmt.Errorf("delete exam result %s: %w", id, err)
	}
	logging.FromContext(ctx).Info("exam result deleted", "result_id", id)
	return nil
}

// InvalidateSkeleton drops cached reference bindings after a skeleton's
// fields change.
func (s *Service) InvalidateSkeleton(id uuid.UUID) {
	s.cache.Invalidate(id)
}

// Ping checks the store.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// UploadStatus reports ingestion slot usage.
func (s *Service) UploadStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until running ingestions finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
