package router

import (
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/lucasmnd/toile/backend/internal/handlers"
	"github.com/lucasmnd/toile/backend/internal/middleware"
	"github.com/lucasmnd/toile/backend/internal/repositories"
	"github.com/lucasmnd/toile/backend/internal/services"
	"github.com/lucasmnd/toile/backend/pkg/config"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil; the firebase-login route is then skipped.
func SetupRoutes(e *echo.Echo, cfg *config.Config, mgClient *mongo.Client, firebaseAuthClient *auth.Client, log *zap.Logger) {
	db := mgClient.Database(cfg.MongoDatabase)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "toile api"})
	})

	// --- Repositories ---
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	collectionRepo := repositories.NewMongoCollectionRepository(db)

	// --- Services ---
	tokenService := services.NewTokenService(userRepo, cfg.JWTSecret)
	collectionService := services.NewCollectionService(userRepo, collectionRepo, postRepo)
	savedPostsService := services.NewSavedPostsService(userRepo, postRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, tokenService, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Info("auth routes configured", zap.Bool("firebase_login", firebaseAuthClient != nil))

	// --- Protected routes (require a session JWT) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo)
	postHandler.RegisterPostRoutes(api)

	collectionHandler := handlers.NewCollectionHandler(collectionService)
	collectionHandler.RegisterCollectionRoutes(api)

	savedPostHandler := handlers.NewSavedPostHandler(collectionService, savedPostsService)
	savedPostHandler.RegisterSavedPostRoutes(api)

	log.Info("all routes configured")
}
