// File: main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pocketclass/config"
	"pocketclass/database"
	"pocketclass/database/repository"
	"pocketclass/handlers"
	"pocketclass/middleware"
	"pocketclass/routes"
	"pocketclass/services/clients"
	"pocketclass/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if config.AppConfig.UsesFirebase() {
		if err := utils.FirebaseInit(ctx); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
	}

	// repositories.
	var (
		stores      repository.Stores
		mongoClient *mongo.Client
	)
	switch config.AppConfig.DataBackend {
	case "firestore":
		if err := utils.InitFirestore(ctx); err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer utils.FirestoreClient.Close()
		stores = repository.NewFirestoreStores(utils.FirestoreClient)
	default:
		database.InitDB()
		mongoClient = database.MongoClient
		stores = repository.NewMongoStores()
	}

	cacheClient := utils.GetCacheClient()
	authCacheClient := utils.GetAuthCacheClient()
	utils.StartHealthMonitor(ctx, []*redis.Client{cacheClient, authCacheClient}, mongoClient)

	// services.
	clientService, err := clients.NewDefaultClientService(stores.Bookings, stores.Clients, stores.Profiles, stores.Classes, logger.Named("clients"))
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	clientService.LookupConcurrency = config.AppConfig.ProfileLookupConcurrency
	clientService.ExportFolder = config.AppConfig.ExportFolder
	if ttl := config.AppConfig.ClientCacheTTL; ttl > 0 {
		clientService.Cache = clients.NewRedisIdentityCache(cacheClient, time.Duration(ttl)*time.Second)
	}
	if config.AppConfig.CloudinaryConfigured() {
		archive, err := utils.Cloudinary()
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
		}
		clientService.Storage = archive
	} else {
		logger.Info("Cloudinary not configured; export archiving disabled")
	}

	verifier, err := newTokenVerifier(ctx)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		middleware.InstructorAuthMiddleware(verifier, authCacheClient),
		handlers.NewClientHandler(clientService),
	)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	srv := &http.Server{
		Addr:    "0.0.0.0:" + config.AppConfig.AppPort,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	// Ends open client streams and the health monitor.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Error("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newTokenVerifier picks the instructor token verifier for AUTH_MODE.
func newTokenVerifier(ctx context.Context) (middleware.TokenVerifier, error) {
	if config.AppConfig.AuthMode == "jwt" {
		return &middleware.JWTVerifier{Secret: []byte(config.AppConfig.JWTSecret)}, nil
	}
	authClient, err := utils.FirebaseAuth(ctx)
	if err != nil {
		return nil, err
	}
	return &middleware.FirebaseVerifier{Client: authClient}, nil
}
