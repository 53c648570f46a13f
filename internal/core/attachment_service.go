package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"investing-journal-go/internal/db"
	"investing-journal-go/internal/models"
	"investing-journal-go/internal/storage"
)

// uploadConcurrency caps parallel per-file store writes in one batch.
const uploadConcurrency = 4

// attachmentService implements AttachmentService.
type attachmentService struct {
	store      ObjectStore
	stagedRepo db.StagedUploadRepository
	logger     *zap.Logger
}

// NewAttachmentService creates a new AttachmentService instance.
func NewAttachmentService(store ObjectStore, sr db.StagedUploadRepository, logger *zap.Logger) AttachmentService {
	return &attachmentService{store: store, stagedRepo: sr, logger: logger}
}

// Upload stores a batch of files concurrently and joins the results.
// Every stored file is recorded as staged until a thesis point save
// commits it. Per-file failures do not fail the batch: the result lists
// which files made it and which did not.
func (s *attachmentService) Upload(ctx context.Context, files []UploadFile) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files in upload", ErrValidation)
	}

	result := &UploadResult{Uploaded: []models.Attachment{}}
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for _, file := range files {
		file := file
		g.Go(func() error {
			att, err := s.store.Upload(gCtx, file.Data, file.MimeType, file.Name)
			if err != nil {
				mu.Lock()
				result.Failed = append(result.Failed, UploadFailure{Name: file.Name, Message: err.Error()})
				mu.Unlock()
				return nil
			}
			if err := s.stagedRepo.Put(gCtx, &models.StagedUpload{Key: att.Key, StagedAt: time.Now().UTC()}); err != nil {
				s.logger.Warn("failed to record staged upload", zap.String("key", att.Key), zap.Error(err))
			}
			mu.Lock()
			result.Uploaded = append(result.Uploaded, att)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteStaged removes one staged object from the store and returns the
// passed-in staged list with the matching entry filtered out.
func (s *attachmentService) DeleteStaged(ctx context.Context, key string, uploaded []models.Attachment) ([]models.Attachment, error) {
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete staged attachment '%s': %w", key, err)
	}
	if err := s.stagedRepo.Delete(ctx, key); err != nil {
		s.logger.Warn("failed to remove staging record", zap.String("key", key), zap.Error(err))
	}

	updated := make([]models.Attachment, 0, len(uploaded))
	for _, file := range uploaded {
		if file.Key != key {
			updated = append(updated, file)
		}
	}
	return updated, nil
}

// Discard purges all staged attachments of an abandoned create/edit
// session. Best-effort: store failures are logged but a discard never
// fails the client out of abandoning its session.
func (s *attachmentService) Discard(ctx context.Context, attachments []models.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	keys := make([]string, 0, len(attachments))
	for _, att := range attachments {
		keys = append(keys, att.Key)
	}

	if err := s.store.DeleteMany(ctx, keys); err != nil {
		s.logger.Warn("failed to discard staged attachments", zap.Error(err))
	}
	if err := s.stagedRepo.DeleteMany(ctx, keys); err != nil {
		s.logger.Warn("failed to remove staging records on discard", zap.Error(err))
	}
	return nil
}
