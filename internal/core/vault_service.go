package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"investing-journal-go/internal/db"
	"investing-journal-go/internal/models"
)

// Errors returned by the VaultService.
var (
	ErrVaultNotFound      = errors.New("vault not found")
	ErrOwnershipMismatch  = errors.New("resource does not belong to this user")
	ErrDuplicateVaultName = errors.New("vault with this name already exists")
)

// vaultService implements VaultService.
type vaultService struct {
	vaultRepo  db.VaultRepository
	thesisRepo db.ThesisPointRepository
	userRepo   db.UserRepository
	store      ObjectStore
	logger     *zap.Logger
}

// NewVaultService creates a new VaultService instance.
func NewVaultService(
	vr db.VaultRepository,
	tr db.ThesisPointRepository,
	ur db.UserRepository,
	store ObjectStore,
	logger *zap.Logger,
) VaultService {
	return &vaultService{
		vaultRepo:  vr,
		thesisRepo: tr,
		userRepo:   ur,
		store:      store,
		logger:     logger,
	}
}

// ownedVault fetches a vault and verifies the requester owns it. A vault
// owned by someone else fails with ErrOwnershipMismatch, never silently
// returning foreign data.
func (s *vaultService) ownedVault(ctx context.Context, userID, vaultID string) (*models.Vault, error) {
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

// CreateVault creates a vault for the user and records it in the user's
// vault list. The two writes are one logical unit: if appending to the
// user's list fails, the freshly created vault document is removed again
// (compensating action, since the store gives no cross-document
// transaction for free).
func (s *vaultService) CreateVault(ctx context.Context, userID string, req models.CreateVaultRequest) (*models.Vault, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if _, err := s.vaultRepo.GetByName(ctx, req.Name); err == nil {
		return nil, ErrDuplicateVaultName
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing vault name: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}

	vault := &models.Vault{
		Name:           req.Name,
		Sector:         req.Sector,
		ThesisPointIDs: []string{},
		OwnerUserID:    userID,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	vaultID, err := s.vaultRepo.Create(ctx, vault)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault: %w", err)
	}

	if err := s.userRepo.AppendVaultID(ctx, userID, vaultID); err != nil {
		if delErr := s.vaultRepo.Delete(ctx, vaultID); delErr != nil {
			s.logger.Error("failed to roll back vault after user update failure",
				zap.String("vaultID", vaultID), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to record vault on user '%s': %w", userID, err)
	}

	return vault, nil
}

// GetVault returns the vault and all of its thesis points. A vault with no
// thesis points yields an empty, non-nil slice so callers can tell "no
// thesis points" from an error.
func (s *vaultService) GetVault(ctx context.Context, userID, vaultID string) (*models.Vault, []*models.ThesisPoint, error) {
	vault, err := s.ownedVault(ctx, userID, vaultID)
	if err != nil {
		return nil, nil, err
	}

	points, err := s.thesisRepo.GetByVaultID(ctx, vaultID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get thesis points for vault '%s': %w", vaultID, err)
	}
	return vault, points, nil
}

// GetMinimalVault returns the vault fields only.
func (s *vaultService) GetMinimalVault(ctx context.Context, userID, vaultID string) (*models.Vault, error) {
	return s.ownedVault(ctx, userID, vaultID)
}

// ListVaults returns the user's vaults in the order recorded on the user
// document. A vault ID whose document is gone is skipped with a warning
// rather than failing the whole listing.
func (s *vaultService) ListVaults(ctx context.Context, userID string) ([]*models.Vault, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}

	vaults := make([]*models.Vault, 0, len(user.VaultIDs))
	for _, vaultID := range user.VaultIDs {
		vault, err := s.vaultRepo.GetByID(ctx, vaultID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				s.logger.Warn("user references missing vault",
					zap.String("userID", userID), zap.String("vaultID", vaultID))
				continue
			}
			return nil, fmt.Errorf("failed to get vault '%s': %w", vaultID, err)
		}
		vaults = append(vaults, vault)
	}
	return vaults, nil
}

// UpdateVault renames or re-sectors a vault. The duplicate-name check
// excludes the vault itself so saving without a rename succeeds.
func (s *vaultService) UpdateVault(ctx context.Context, userID, vaultID string, req models.UpdateVaultRequest) (*models.Vault, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	vault, err := s.ownedVault(ctx, userID, vaultID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.vaultRepo.GetByName(ctx, req.Name); err == nil {
		if existing.ID != vaultID {
			return nil, ErrDuplicateVaultName
		}
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing vault name: %w", err)
	}

	vault.Name = req.Name
	vault.Sector = req.Sector
	vault.UpdatedAt = time.Now().UTC()

	if err := s.vaultRepo.Update(ctx, vault); err != nil {
		return nil, fmt.Errorf("failed to update vault '%s': %w", vaultID, err)
	}
	return vault, nil
}

// DeleteVault cascades in a fixed order: vault document, the owner's vault
// list, every thesis point document of the vault, then a best-effort batch
// delete of all their attachment objects. A storage failure after the
// documents are gone is reported as a warning, never rolled back.
func (s *vaultService) DeleteVault(ctx context.Context, userID, vaultID string) ([]string, error) {
	if _, err := s.ownedVault(ctx, userID, vaultID); err != nil {
		return nil, err
	}

	// Collect descendant attachment keys before their documents disappear.
	points, err := s.thesisRepo.GetByVaultID(ctx, vaultID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect thesis points of vault '%s': %w", vaultID, err)
	}
	var attachmentKeys []string
	for _, point := range points {
		for _, att := range point.Attachments {
			attachmentKeys = append(attachmentKeys, att.Key)
		}
	}

	if err := s.vaultRepo.Delete(ctx, vaultID); err != nil {
		return nil, fmt.Errorf("failed to delete vault '%s': %w", vaultID, err)
	}
	if err := s.userRepo.RemoveVaultID(ctx, userID, vaultID); err != nil {
		return nil, fmt.Errorf("failed to remove vault '%s' from user '%s': %w", vaultID, userID, err)
	}
	if err := s.thesisRepo.DeleteByVaultID(ctx, vaultID); err != nil {
		return nil, fmt.Errorf("failed to delete thesis points of vault '%s': %w", vaultID, err)
	}

	var warnings []string
	if err := s.store.DeleteMany(ctx, attachmentKeys); err != nil {
		s.logger.Warn("failed to delete attachment objects of deleted vault",
			zap.String("vaultID", vaultID), zap.Error(err))
		warnings = append(warnings, fmt.Sprintf("some attachment files could not be removed from storage: %v", err))
	}

	return warnings, nil
}
