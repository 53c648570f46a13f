package core

import (
	"context"
	"errors"

	"investing-journal-go/internal/models"
)

// ErrValidation wraps request payload validation failures.
var ErrValidation = errors.New("validation failed")

// ObjectStore is the object-bucket surface the services depend on.
// storage.Store satisfies it.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, mimeType, originalName string) (models.Attachment, error)
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

// UserService handles registration and authentication.
type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResult, error)
}

// VaultService handles vault CRUD and the cascades that keep the user,
// vault, and thesis point documents consistent.
type VaultService interface {
	CreateVault(ctx context.Context, userID string, req models.CreateVaultRequest) (*models.Vault, error)
	GetVault(ctx context.Context, userID, vaultID string) (*models.Vault, []*models.ThesisPoint, error)
	GetMinimalVault(ctx context.Context, userID, vaultID string) (*models.Vault, error)
	ListVaults(ctx context.Context, userID string) ([]*models.Vault, error)
	UpdateVault(ctx context.Context, userID, vaultID string, req models.UpdateVaultRequest) (*models.Vault, error)
	// DeleteVault cascades to thesis point documents and their attachment
	// objects. Storage cleanup is best-effort; failures come back as
	// warnings, never as an error once the documents are gone.
	DeleteVault(ctx context.Context, userID, vaultID string) (warnings []string, err error)
}

// ThesisPointService handles thesis point CRUD under a vault.
type ThesisPointService interface {
	Create(ctx context.Context, userID, vaultID string, req models.CreateThesisPointRequest) (*models.ThesisPoint, error)
	Get(ctx context.Context, userID, vaultID, thesisPointID string) (*models.ThesisPoint, error)
	Update(ctx context.Context, userID, vaultID, thesisPointID string, req models.UpdateThesisPointRequest) (*models.ThesisPoint, error)
	Delete(ctx context.Context, userID, vaultID, thesisPointID string, filesToDelete []models.Attachment) (warnings []string, err error)
	// DeleteCommittedAttachment removes an attachment that is already
	// persisted on the thesis point and returns the updated list.
	DeleteCommittedAttachment(ctx context.Context, userID, vaultID, thesisPointID, key string, loadedFiles []models.Attachment) ([]models.Attachment, error)
}

// UploadFile is one file received from a multipart upload request.
type UploadFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// UploadFailure reports one file that could not be stored.
type UploadFailure struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// UploadResult aggregates a batch upload: files that made it into the
// store (now staged) and files that did not.
type UploadResult struct {
	Uploaded []models.Attachment `json:"files"`
	Failed   []UploadFailure     `json:"failed,omitempty"`
}

// AttachmentService owns the staged-attachment lifecycle: upload stages a
// file, a thesis point save commits it, discard or the sweeper reclaims it.
type AttachmentService interface {
	Upload(ctx context.Context, files []UploadFile) (*UploadResult, error)
	DeleteStaged(ctx context.Context, key string, uploaded []models.Attachment) ([]models.Attachment, error)
	Discard(ctx context.Context, attachments []models.Attachment) error
}
