package db

import (
	"context"
	"errors"
	"time"

	"investing-journal-go/internal/models"
)

// ErrNotFound is returned by repositories when a document does not exist.
var ErrNotFound = errors.New("document not found")

// UserRepository defines user document storage operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (string, error) // Returns new user ID
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	AppendVaultID(ctx context.Context, userID, vaultID string) error
	RemoveVaultID(ctx context.Context, userID, vaultID string) error
}

// VaultRepository defines vault document storage operations.
type VaultRepository interface {
	Create(ctx context.Context, vault *models.Vault) (string, error) // Returns new vault ID
	GetByID(ctx context.Context, vaultID string) (*models.Vault, error)
	GetByName(ctx context.Context, name string) (*models.Vault, error)
	Update(ctx context.Context, vault *models.Vault) error
	Delete(ctx context.Context, vaultID string) error
	AppendThesisPointID(ctx context.Context, vaultID, thesisPointID string) error
	RemoveThesisPointID(ctx context.Context, vaultID, thesisPointID string) error
}

// ThesisPointRepository defines thesis point document storage operations.
type ThesisPointRepository interface {
	Create(ctx context.Context, point *models.ThesisPoint) (string, error) // Returns new point ID
	GetByID(ctx context.Context, thesisPointID string) (*models.ThesisPoint, error)
	GetByVaultID(ctx context.Context, vaultID string) ([]*models.ThesisPoint, error)
	Update(ctx context.Context, point *models.ThesisPoint) error
	Delete(ctx context.Context, thesisPointID string) error
	DeleteByVaultID(ctx context.Context, vaultID string) error
}

// StagedUploadRepository tracks uploaded-but-uncommitted object keys so
// abandoned sessions can be reclaimed.
type StagedUploadRepository interface {
	Put(ctx context.Context, upload *models.StagedUpload) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*models.StagedUpload, error)
}
