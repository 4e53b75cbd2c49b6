package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/glucolog-health/glucolog-engine/pkg/auth"
	"github.com/glucolog-health/glucolog-engine/pkg/config"
	"github.com/glucolog-health/glucolog-engine/pkg/database"
	"github.com/glucolog-health/glucolog-engine/pkg/handlers"
	"github.com/glucolog-health/glucolog-engine/pkg/logging"
	"github.com/glucolog-health/glucolog-engine/pkg/middleware"
	"github.com/glucolog-health/glucolog-engine/pkg/providers/recipe"
	"github.com/glucolog-health/glucolog-engine/pkg/providers/video"
	"github.com/glucolog-health/glucolog-engine/pkg/repositories"
	"github.com/glucolog-health/glucolog-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("bind_addr", cfg.BindAddr),
		zap.String("port", cfg.Port),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())))

	ctx := context.Background()

	// Migrations run over database/sql; the app itself uses pgxpool.
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, "migrations", logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	jwksClient, err := auth.NewJWKSClient(&auth.JWKSConfig{
		EnableVerification: cfg.Auth.EnableVerification,
		JWKSEndpoints:      cfg.Auth.JWKSEndpoints,
	})
	if err != nil {
		logger.Fatal("Failed to create JWKS client", zap.Error(err))
	}
	defer jwksClient.Close()

	authService := auth.NewAuthService(jwksClient, logger)
	authMW := auth.NewMiddleware(authService, logger)

	credentialRepo := repositories.NewServiceCredentialRepository(db)
	readingRepo := repositories.NewHealthReadingRepository(db)
	mealRepo := repositories.NewMealRepository(db)

	categories, err := services.LoadCategoryTable()
	if err != nil {
		logger.Fatal("Failed to load video categories", zap.Error(err))
	}

	videoClient := video.NewClient(cfg.Providers.VideoBaseURL, cfg.Providers.Timeout(), logger)
	recipeClient := recipe.NewClient(cfg.Providers.RecipeBaseURL, cfg.Providers.Timeout(), logger)

	// Without the encryption key the proxy cannot decrypt stored
	// credentials. The rest of the engine still serves; the proxy
	// endpoint answers with a generic misconfiguration error.
	var proxy services.ServiceProxy
	var credentialAdmin services.CredentialAdminService
	if cfg.ServiceCredentialsKey == "" {
		logger.Warn("SERVICE_CREDENTIALS_KEY not set, service proxy disabled")
	} else {
		resolver, err := services.NewKeyResolver(credentialRepo, cfg.ServiceCredentialsKey, logger)
		if err != nil {
			logger.Fatal("Failed to create key resolver", zap.Error(err))
		}
		proxy = services.NewServiceProxy(resolver, videoClient, recipeClient, categories, logger)

		credentialAdmin, err = services.NewCredentialAdminService(credentialRepo, cfg.ServiceCredentialsKey, logger)
		if err != nil {
			logger.Fatal("Failed to create credential admin service", zap.Error(err))
		}
	}

	aggregation := services.NewHealthAggregationService(readingRepo, logger)
	recommendation := services.NewMealRecommendationService(mealRepo, logger)

	mux := http.NewServeMux()

	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewServiceProxyHandler(proxy, logger).RegisterRoutes(mux)
	handlers.NewHealthDataHandler(readingRepo, aggregation, authMW, logger).RegisterRoutes(mux)
	handlers.NewMealsHandler(mealRepo, recommendation, authMW, logger).RegisterRoutes(mux)
	if credentialAdmin != nil {
		handlers.NewAdminCredentialsHandler(credentialAdmin, authMW, logger).RegisterRoutes(mux)
	}

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting glucolog-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := server.ListenAndServe(); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
