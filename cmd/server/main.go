package main

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/lucasmnd/toile/backend/internal/router"
	"github.com/lucasmnd/toile/backend/pkg/config"
	"github.com/lucasmnd/toile/backend/pkg/firebase"
	"github.com/lucasmnd/toile/backend/pkg/logger"
	"github.com/lucasmnd/toile/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	log := logger.New()
	if err := log.Init(cfg.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		zapLogger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()
	zapLogger.Info("connected to MongoDB", zap.String("database", cfg.MongoDatabase))

	// Initialize Firebase when credentials are configured
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			zapLogger.Fatal("failed to initialize Firebase", zap.Error(err))
		}
		firebaseAuthClient = firebaseApp.AuthClient
		zapLogger.Info("Firebase auth client initialized")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Mongo, firebaseAuthClient, zapLogger)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	zapLogger.Info("starting server", zap.String("port", cfg.Port))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
