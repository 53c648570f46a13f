package models

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// SignupRequest represents the request body for POST /api/users/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the signup payload.
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 0)),
	)
}

// LoginRequest represents the request body for POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate validates the login payload.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// CreateVaultRequest represents the request body for creating a new vault.
type CreateVaultRequest struct {
	Name   string `json:"vault_name"`
	Sector string `json:"vault_sector"`
}

// Validate validates the create-vault payload.
func (r CreateVaultRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// UpdateVaultRequest represents the request body for renaming or
// re-sectoring an existing vault.
type UpdateVaultRequest struct {
	Name   string `json:"vault_name"`
	Sector string `json:"vault_sector"`
}

// Validate validates the update-vault payload.
func (r UpdateVaultRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
	)
}

// CreateThesisPointRequest represents the request body for adding a thesis
// point to a vault. Attachments, if present, were staged via the upload
// endpoint and are committed by this call.
type CreateThesisPointRequest struct {
	Title       string       `json:"thesis_point_title"`
	Description string       `json:"thesis_point_description"`
	Attachments []Attachment `json:"thesis_point_attachments"`
}

// Validate validates the create-thesis-point payload.
func (r CreateThesisPointRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

// UpdateThesisPointRequest represents the request body for editing a thesis
// point. Attachments listed here are appended to the existing list, never
// replacing it; removal goes through the dedicated attachment endpoints.
type UpdateThesisPointRequest struct {
	Title       string       `json:"thesis_point_title"`
	Description string       `json:"thesis_point_description"`
	Attachments []Attachment `json:"thesis_point_attachments"`
}

// Validate validates the update-thesis-point payload.
func (r UpdateThesisPointRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
	)
}

// DeleteThesisPointRequest carries the attachment list of the thesis point
// being deleted so their objects can be removed from the store.
type DeleteThesisPointRequest struct {
	FilesToDelete []Attachment `json:"filesToDelete"`
}

// DeleteAttachmentRequest represents the body of DELETE
// /api/vaults/:vaultId/upload: remove one staged attachment and return the
// remaining staged list.
type DeleteAttachmentRequest struct {
	FileName      string       `json:"fileName"`
	UploadedFiles []Attachment `json:"uploadedFiles"`
}

// Validate validates the delete-attachment payload.
func (r DeleteAttachmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileName, validation.Required),
	)
}

// DiscardAttachmentsRequest represents the body of DELETE
// /api/vaults/:vaultId/upload/discard: purge all staged attachments of an
// abandoned create/edit session.
type DiscardAttachmentsRequest struct {
	UploadedFiles []Attachment `json:"uploadedFiles"`
}

// DeleteCommittedAttachmentRequest represents the body of DELETE
// /api/vaults/:vaultId/:thesisPointId/edit: remove an attachment that is
// already persisted on the thesis point.
type DeleteCommittedAttachmentRequest struct {
	FileName    string       `json:"fileName"`
	LoadedFiles []Attachment `json:"loadedFiles"`
}

// Validate validates the delete-committed-attachment payload.
func (r DeleteCommittedAttachmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FileName, validation.Required),
	)
}
