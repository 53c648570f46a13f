package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"investing-journal-go/internal/db"
	"investing-journal-go/internal/models"
	"investing-journal-go/internal/storage"
)

// ErrThesisPointNotFound is returned when a thesis point ID does not resolve.
var ErrThesisPointNotFound = errors.New("thesis point not found")

// thesisPointService implements ThesisPointService.
type thesisPointService struct {
	thesisRepo db.ThesisPointRepository
	vaultRepo  db.VaultRepository
	stagedRepo db.StagedUploadRepository
	store      ObjectStore
	logger     *zap.Logger
}

// NewThesisPointService creates a new ThesisPointService instance.
func NewThesisPointService(
	tr db.ThesisPointRepository,
	vr db.VaultRepository,
	sr db.StagedUploadRepository,
	store ObjectStore,
	logger *zap.Logger,
) ThesisPointService {
	return &thesisPointService{
		thesisRepo: tr,
		vaultRepo:  vr,
		stagedRepo: sr,
		store:      store,
		logger:     logger,
	}
}

// ownedThesisPoint fetches a thesis point and verifies the ownership chain:
// the point must belong to the given vault and the vault to the given
// user. A point reached through the wrong vault ID fails with
// ErrOwnershipMismatch.
func (s *thesisPointService) ownedThesisPoint(ctx context.Context, userID, vaultID, thesisPointID string) (*models.ThesisPoint, error) {
	point, err := s.thesisRepo.GetByID(ctx, thesisPointID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrThesisPointNotFound
		}
		return nil, fmt.Errorf("failed to get thesis point '%s': %w", thesisPointID, err)
	}
	if point.VaultID != vaultID {
		return nil, fmt.Errorf("%w: thesis point '%s' does not belong to vault '%s'", ErrOwnershipMismatch, thesisPointID, vaultID)
	}
	if _, err := s.ownedVault(ctx, userID, vaultID); err != nil {
		return nil, err
	}
	return point, nil
}

func (s *thesisPointService) ownedVault(ctx context.Context, userID, vaultID string) (*models.Vault, error) {
	vault, err := s.vaultRepo.GetByID(ctx, vaultID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrVaultNotFound
		}
		return nil, fmt.Errorf("failed to get vault '%s': %w", vaultID, err)
	}
	if vault.OwnerUserID != userID {
		return nil, fmt.Errorf("%w: vault '%s'", ErrOwnershipMismatch, vaultID)
	}
	return vault, nil
}

// commitStaged clears the staging records for attachments that are now
// referenced by a persisted thesis point. Failures are logged, not
// returned: the thesis point itself is already saved.
func (s *thesisPointService) commitStaged(ctx context.Context, attachments []models.Attachment) {
	if len(attachments) == 0 {
		return
	}
	keys := make([]string, 0, len(attachments))
	for _, att := range attachments {
		keys = append(keys, att.Key)
	}
	if err := s.stagedRepo.DeleteMany(ctx, keys); err != nil {
		s.logger.Warn("failed to clear staging records for committed attachments", zap.Error(err))
	}
}

// Create persists a new thesis point and appends its ID to the parent
// vault's list. The two writes are one logical unit: if the append fails,
// the new document is deleted again (compensating action). Staged
// attachments included in the request become committed.
func (s *thesisPointService) Create(ctx context.Context, userID, vaultID string, req models.CreateThesisPointRequest) (*models.ThesisPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.ownedVault(ctx, userID, vaultID); err != nil {
		return nil, err
	}

	attachments := req.Attachments
	if attachments == nil {
		attachments = []models.Attachment{}
	}
	point := &models.ThesisPoint{
		DateCreated: time.Now().UTC().Format(models.DateCreatedFormat),
		Title:       req.Title,
		Description: req.Description,
		Attachments: attachments,
		VaultID:     vaultID,
	}

	thesisPointID, err := s.thesisRepo.Create(ctx, point)
	if err != nil {
		return nil, fmt.Errorf("failed to create thesis point: %w", err)
	}

	if err := s.vaultRepo.AppendThesisPointID(ctx, vaultID, thesisPointID); err != nil {
		if delErr := s.thesisRepo.Delete(ctx, thesisPointID); delErr != nil {
			s.logger.Error("failed to roll back thesis point after vault update failure",
				zap.String("thesisPointID", thesisPointID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record thesis point on vault '%s': %w", vaultID, err)
	}

	s.commitStaged(ctx, point.Attachments)
	return point, nil
}

// Get fetches one thesis point through its owning vault.
func (s *thesisPointService) Get(ctx context.Context, userID, vaultID, thesisPointID string) (*models.ThesisPoint, error) {
	return s.ownedThesisPoint(ctx, userID, vaultID, thesisPointID)
}

// Update edits title and description and appends the new attachments to
// the existing list. Editing never removes attachments; removal goes
// through DeleteCommittedAttachment.
func (s *thesisPointService) Update(ctx context.Context, userID, vaultID, thesisPointID string, req models.UpdateThesisPointRequest) (*models.ThesisPoint, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	point, err := s.ownedThesisPoint(ctx, userID, vaultID, thesisPointID)
	if err != nil {
		return nil, err
	}

	point.Title = req.Title
	point.Description = req.Description
	point.Attachments = append(point.Attachments, req.Attachments...)

	if err := s.thesisRepo.Update(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to update thesis point '%s': %w", thesisPointID, err)
	}

	s.commitStaged(ctx, req.Attachments)
	return point, nil
}

// Delete removes the thesis point document and its reference on the vault
// as one logical unit, then best-effort deletes the listed files from the
// object store. A storage failure is reported as a warning and never rolls
// the document deletion back.
func (s *thesisPointService) Delete(ctx context.Context, userID, vaultID, thesisPointID string, filesToDelete []models.Attachment) ([]string, error) {
	if _, err := s.ownedThesisPoint(ctx, userID, vaultID, thesisPointID); err != nil {
		return nil, err
	}

	if err := s.thesisRepo.Delete(ctx, thesisPointID); err != nil {
		return nil, fmt.Errorf("failed to delete thesis point '%s': %w", thesisPointID, err)
	}
	if err := s.vaultRepo.RemoveThesisPointID(ctx, vaultID, thesisPointID); err != nil {
		return nil, fmt.Errorf("failed to remove thesis point '%s' from vault '%s': %w", thesisPointID, vaultID, err)
	}

	var warnings []string
	if len(filesToDelete) > 0 {
		keys := make([]string, 0, len(filesToDelete))
		for _, file := range filesToDelete {
			keys = append(keys, file.Key)
		}
		if err := s.store.DeleteMany(ctx, keys); err != nil {
			s.logger.Warn("failed to delete attachment objects of deleted thesis point",
				zap.String("thesisPointID", thesisPointID), zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("some attachment files could not be removed from storage: %v", err))
		}
	}
	return warnings, nil
}

// DeleteCommittedAttachment removes one attachment object from the store,
// pulls the matching entry from the thesis point's persisted list, and
// returns the updated list.
func (s *thesisPointService) DeleteCommittedAttachment(ctx context.Context, userID, vaultID, thesisPointID, key string, loadedFiles []models.Attachment) ([]models.Attachment, error) {
	point, err := s.ownedThesisPoint(ctx, userID, vaultID, thesisPointID)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to delete attachment object '%s': %w", key, err)
	}

	remaining := make([]models.Attachment, 0, len(point.Attachments))
	for _, att := range point.Attachments {
		if att.Key != key {
			remaining = append(remaining, att)
		}
	}
	point.Attachments = remaining

	if err := s.thesisRepo.Update(ctx, point); err != nil {
		return nil, fmt.Errorf("failed to update thesis point '%s' after attachment removal: %w", thesisPointID, err)
	}

	updated := make([]models.Attachment, 0, len(loadedFiles))
	for _, file := range loadedFiles {
		if file.Key != key {
			updated = append(updated, file)
		}
	}
	return updated, nil
}
