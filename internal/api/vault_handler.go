package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investing-journal-go/internal/core"
	"investing-journal-go/internal/models"
)

// VaultHandler handles vault CRUD endpoints.
type VaultHandler struct {
	vaultService core.VaultService
	logger       *zap.Logger
}

// NewVaultHandler creates a new VaultHandler.
func NewVaultHandler(vs core.VaultService, logger *zap.Logger) *VaultHandler {
	return &VaultHandler{vaultService: vs, logger: logger}
}

// ListVaults handles GET /api/vaults.
func (h *VaultHandler) ListVaults(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	vaults, err := h.vaultService.ListVaults(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vaults": vaults})
}

// GetVault handles GET /api/vaults/:vaultId. The thesis list is always
// present; a vault without thesis points returns an empty array, which is
// distinct from an error.
func (h *VaultHandler) GetVault(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	vault, points, err := h.vaultService.GetVault(c.Request.Context(), userID, c.Param("vaultId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vault": vault, "thesis": points})
}

// GetMinimalVault handles GET /api/vaults/:vaultId/minimal.
func (h *VaultHandler) GetMinimalVault(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	vault, err := h.vaultService.GetMinimalVault(c.Request.Context(), userID, c.Param("vaultId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vault": vault})
}

// CreateVault handles POST /api/vaults.
func (h *VaultHandler) CreateVault(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}

	vault, err := h.vaultService.CreateVault(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vault": vault})
}

// UpdateVault handles PATCH /api/vaults/:vaultId.
func (h *VaultHandler) UpdateVault(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateVaultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request payload"})
		return
	}

	vault, err := h.vaultService.UpdateVault(c.Request.Context(), userID, c.Param("vaultId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vault": vault})
}

// DeleteVault handles DELETE /api/vaults/:vaultId. Cleanup warnings (for
// attachment objects that could not be removed) ride along in the response.
func (h *VaultHandler) DeleteVault(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	warnings, err := h.vaultService.DeleteVault(c.Request.Context(), userID, c.Param("vaultId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := gin.H{"message": "Successfully deleted vault"}
	if len(warnings) > 0 {
		resp["warnings"] = warnings
	}
	c.JSON(http.StatusOK, resp)
}
