package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investing-journal-go/internal/config"
	"investing-journal-go/internal/core"
	"investing-journal-go/internal/middleware"
)

// SetupRoutes configures all application routes. Global middleware
// (logging, recovery, CORS) is applied to the router before this is
// called, in main.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	vaultService core.VaultService,
	thesisService core.ThesisPointService,
	attachmentService core.AttachmentService,
) {
	authMW := middleware.NewAuthMiddleware([]byte(appConfig.JWTSecretKey))

	userHandler := NewUserHandler(userService, logger)
	vaultHandler := NewVaultHandler(vaultService, logger)
	thesisHandler := NewThesisPointHandler(thesisService, logger)
	uploadHandler := NewUploadHandler(attachmentService, logger)

	users := router.Group("/api/users")
	{
		users.POST("/signup", userHandler.Signup)
		users.POST("/login", userHandler.Login)
	}

	// Every vault route requires a bearer token. Static segments
	// (minimal, upload, discard, edit) take priority over the
	// :thesisPointId parameter.
	vaults := router.Group("/api/vaults", authMW.VerifyToken())
	{
		vaults.GET("", vaultHandler.ListVaults)
		vaults.GET("/:vaultId", vaultHandler.GetVault)
		vaults.GET("/:vaultId/minimal", vaultHandler.GetMinimalVault)
		vaults.POST("", vaultHandler.CreateVault)
		vaults.PATCH("/:vaultId", vaultHandler.UpdateVault)
		vaults.DELETE("/:vaultId", vaultHandler.DeleteVault)

		vaults.GET("/:vaultId/:thesisPointId", thesisHandler.GetThesisPoint)
		vaults.POST("/:vaultId", thesisHandler.CreateThesisPoint)
		vaults.PATCH("/:vaultId/:thesisPointId", thesisHandler.UpdateThesisPoint)
		vaults.DELETE("/:vaultId/:thesisPointId", thesisHandler.DeleteThesisPoint)
		vaults.DELETE("/:vaultId/:thesisPointId/edit", thesisHandler.DeleteCommittedAttachment)

		vaults.POST("/:vaultId/upload", uploadHandler.Upload)
		vaults.DELETE("/:vaultId/upload", uploadHandler.DeleteStagedAttachment)
		vaults.DELETE("/:vaultId/upload/discard", uploadHandler.DiscardAttachments)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured")
}
