package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investing-journal-go/internal/core"
	"investing-journal-go/internal/models"
	"investing-journal-go/internal/storage"
)

// uploadFieldName is the multipart form field carrying attachment files.
const uploadFieldName = "fileInputField"

// UploadHandler handles staged-attachment endpoints.
type UploadHandler struct {
	attachmentService core.AttachmentService
	logger            *zap.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(as core.AttachmentService, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{attachmentService: as, logger: logger}
}

// Upload handles POST /api/vaults/:vaultId/upload. One or more files are
// accepted under the fileInputField form field; each successful file is
// stored and staged, each failed file is reported by name.
func (h *UploadHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid multipart form"})
		return
	}

	fileHeaders := form.File[uploadFieldName]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("No files found under field '%s'", uploadFieldName)})
		return
	}

	files := make([]core.UploadFile, 0, len(fileHeaders))
	oversized := make([]core.UploadFailure, 0)
	for _, fh := range fileHeaders {
		// Reject oversized files before reading them into memory.
		if fh.Size > storage.MaxAttachmentSize {
			oversized = append(oversized, core.UploadFailure{
				Name:    fh.Filename,
				Message: storage.ErrSizeExceeded.Error(),
			})
			continue
		}

		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("Failed to read uploaded file '%s'", fh.Filename)})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: fmt.Sprintf("Failed to read uploaded file '%s'", fh.Filename)})
			return
		}

		files = append(files, core.UploadFile{
			Name:     fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Data:     data,
		})
	}

	result := &core.UploadResult{Uploaded: []models.Attachment{}}
	if len(files) > 0 {
		result, err = h.attachmentService.Upload(c.Request.Context(), files)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
	}
	result.Failed = append(result.Failed, oversized...)

	c.JSON(http.StatusOK, result)
}

// DeleteStagedAttachment handles DELETE /api/vaults/:vaultId/upload:
// remove one staged attachment and return the remaining staged list.
func (h *UploadHandler) DeleteStagedAttachment(c *gin.Context) {
	var req models.DeleteAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error()})
		return
	}

	updated, err := h.attachmentService.DeleteStaged(c.Request.Context(), req.FileName, req.UploadedFiles)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedUploadedFiles": updated})
}

// DiscardAttachments handles DELETE /api/vaults/:vaultId/upload/discard:
// purge every staged attachment of an abandoned session.
func (h *UploadHandler) DiscardAttachments(c *gin.Context) {
	var req models.DiscardAttachmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}

	if err := h.attachmentService.Discard(c.Request.Context(), req.UploadedFiles); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully discarded staged attachments"})
}
