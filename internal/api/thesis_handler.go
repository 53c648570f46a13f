package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investing-journal-go/internal/core"
	"investing-journal-go/internal/models"
)

// ThesisPointHandler handles thesis point endpoints under a vault.
type ThesisPointHandler struct {
	thesisService core.ThesisPointService
	logger        *zap.Logger
}

// NewThesisPointHandler creates a new ThesisPointHandler.
func NewThesisPointHandler(ts core.ThesisPointService, logger *zap.Logger) *ThesisPointHandler {
	return &ThesisPointHandler{thesisService: ts, logger: logger}
}

// GetThesisPoint handles GET /api/vaults/:vaultId/:thesisPointId.
func (h *ThesisPointHandler) GetThesisPoint(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	point, err := h.thesisService.Get(c.Request.Context(), userID, c.Param("vaultId"), c.Param("thesisPointId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thesisPoint": point})
}

// CreateThesisPoint handles POST /api/vaults/:vaultId.
func (h *ThesisPointHandler) CreateThesisPoint(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateThesisPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}

	point, err := h.thesisService.Create(c.Request.Context(), userID, c.Param("vaultId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"thesisPoint": point})
}

// UpdateThesisPoint handles PATCH /api/vaults/:vaultId/:thesisPointId.
// Attachments in the payload are appended to the existing list.
func (h *ThesisPointHandler) UpdateThesisPoint(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateThesisPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}

	point, err := h.thesisService.Update(c.Request.Context(), userID, c.Param("vaultId"), c.Param("thesisPointId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"thesisPoint": point})
}

// DeleteThesisPoint handles DELETE /api/vaults/:vaultId/:thesisPointId.
func (h *ThesisPointHandler) DeleteThesisPoint(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.DeleteThesisPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}

	warnings, err := h.thesisService.Delete(c.Request.Context(), userID, c.Param("vaultId"), c.Param("thesisPointId"), req.FilesToDelete)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := gin.H{"message": "Successfully deleted thesis point"}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCommittedAttachment handles DELETE
// /api/vaults/:vaultId/:thesisPointId/edit: remove an attachment already
// persisted on the thesis point.
func (h *ThesisPointHandler) DeleteCommittedAttachment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.DeleteCommittedAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: err.Error()})
		return
	}

	updated, err := h.thesisService.DeleteCommittedAttachment(
		c.Request.Context(), userID, c.Param("vaultId"), c.Param("thesisPointId"), req.FileName, req.LoadedFiles)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updatedLoadedFiles": updated})
}
