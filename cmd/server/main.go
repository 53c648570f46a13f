package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"investing-journal-go/internal/api"
	"investing-journal-go/internal/config"
	"investing-journal-go/internal/core"
	"investing-journal-go/internal/db"
	"investing-journal-go/internal/middleware"
	"investing-journal-go/internal/storage"
)

func main() {
	// --- 1. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Initialize Logger (Zap) ---
	var zapLogger *zap.Logger
	if strings.ToLower(appConfig.GinMode) == "release" {
		zapLogger, err = zap.NewProduction()
	} else {
		zapLogger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Logger and configuration initialized.")

	// --- 3. Initialize Firestore ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	firestoreClient, err := db.NewFirestoreClient(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore client", zap.Error(err))
	}
	defer firestoreClient.Close()
	zapLogger.Info("Firestore client initialized.", zap.String("projectID", appConfig.FirestoreProjectID))

	// --- 4. Initialize Object Store (S3) ---
	objectStore, err := storage.NewStoreFromConfig(initCtx, appConfig)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize object store", zap.Error(err))
	}
	zapLogger.Info("Object store initialized.", zap.String("bucket", appConfig.S3Bucket), zap.String("region", appConfig.S3Region))

	// --- 5. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	vaultRepo := db.NewFirestoreVaultRepository(firestoreClient)
	thesisRepo := db.NewFirestoreThesisPointRepository(firestoreClient)
	stagedRepo := db.NewFirestoreStagedUploadRepository(firestoreClient)
	zapLogger.Info("Repositories initialized.")

	// --- 6. Initialize Services ---
	userService := core.NewUserService(userRepo, []byte(appConfig.JWTSecretKey), appConfig.JWTValidity, zapLogger)
	vaultService := core.NewVaultService(vaultRepo, thesisRepo, userRepo, objectStore, zapLogger)
	thesisService := core.NewThesisPointService(thesisRepo, vaultRepo, stagedRepo, objectStore, zapLogger)
	attachmentService := core.NewAttachmentService(objectStore, stagedRepo, zapLogger)
	zapLogger.Info("Core services initialized.")

	// --- 7. Start Staged Upload Sweeper ---
	// Reclaims attachments that were uploaded but never committed to a
	// thesis point. Runs until the server shuts down.
	sweeperCtx, cancelSweeper := context.WithCancel(context.Background())
	defer cancelSweeper()
	sweeper := core.NewSweeper(stagedRepo, objectStore, appConfig.StagedUploadTTL, appConfig.SweepInterval, zapLogger)
	go sweeper.Run(sweeperCtx)

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	// gin.New() so the middleware stack stays fully under our control.
	router := gin.New()

	// --- 9. Apply Global Middleware (order matters) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS middleware SKIPPED: CLIENT_URL is not configured.")
	}

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		vaultService,
		thesisService,
		attachmentService,
	)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	cancelSweeper()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
