package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/pathpiper/backend/internal/app/controllers"
	appMigrations "github.com/pathpiper/backend/internal/app/migrations"
	appRepos "github.com/pathpiper/backend/internal/app/repositories"
	appRoutes "github.com/pathpiper/backend/internal/app/routes"
	appServices "github.com/pathpiper/backend/internal/app/services"
	"github.com/pathpiper/backend/internal/config"
	"github.com/pathpiper/backend/internal/db"
	appMiddleware "github.com/pathpiper/backend/internal/middleware"
	pkgAuth "github.com/pathpiper/backend/internal/pkg/auth"
	"github.com/pathpiper/backend/internal/pkg/helpers"
	"github.com/pathpiper/backend/internal/pkg/logger"
	"github.com/pathpiper/backend/internal/pkg/sessioncache"
	"github.com/pathpiper/backend/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	ProfileService      appServices.ProfileService
	PostService         appServices.PostService
	GoalService         appServices.GoalService
	EducationService    appServices.EducationService
	AuthController      *appControllers.AuthController
	ProfileController   *appControllers.ProfileController
	PostController      *appControllers.PostController
	GoalController      *appControllers.GoalController
	EducationController *appControllers.EducationController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	SessionCache        sessioncache.Cache
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seed failure is logged but does not block startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupSessionCache builds the configured session cache backend.
func SetupSessionCache(cfg *config.Config, lgr zerolog.Logger) (sessioncache.Cache, error) {
	ttl := helpers.ParseDuration(cfg.SessionCache.TTL, sessioncache.DefaultTTL)
	sweep := helpers.ParseDuration(cfg.SessionCache.SweepInterval, sessioncache.DefaultSweepInterval)

	switch strings.ToLower(cfg.SessionCache.Backend) {
	case "redis":
		cache, err := sessioncache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to connect redis session cache: %w", err)
		}
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis session cache configured")
		return cache, nil
	default:
		lgr.Info().Dur("ttl", ttl).Dur("sweepInterval", sweep).Msg("In-memory session cache configured")
		return sessioncache.NewMemoryCache(ttl, sweep), nil
	}
}

// BuildDependencies initializes application repositories, services,
// controllers and middleware.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.SessionCache, err = SetupSessionCache(cfg, lgr)
	if err != nil {
		return nil, err
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.ProfileRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		deps.SessionCache,
		lgr,
	)
	deps.ProfileService = appServices.NewProfileService(
		deps.Repos.ProfileRepository,
		deps.Repos.InterestRepository,
		deps.Repos.EducationRepository,
		lgr,
	)
	deps.PostService = appServices.NewPostService(deps.Repos.PostRepository, lgr)
	deps.GoalService = appServices.NewGoalService(deps.Repos.GoalRepository, lgr)
	deps.EducationService = appServices.NewEducationService(
		deps.Repos.EducationRepository,
		deps.ProfileService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(
		deps.JWTService,
		deps.SessionCache,
		deps.Repos.ProfileRepository,
		lgr,
	)

	deps.AuthController = appControllers.NewAuthController(
		deps.AuthService,
		deps.ProfileService,
		cfg.Server.CookieDomain,
		cfg.Server.CookieSecure,
	)
	deps.ProfileController = appControllers.NewProfileController(deps.ProfileService)
	deps.PostController = appControllers.NewPostController(deps.PostService)
	deps.GoalController = appControllers.NewGoalController(deps.GoalService)
	deps.EducationController = appControllers.NewEducationController(deps.EducationService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ProfileController,
		deps.PostController,
		deps.GoalController,
		deps.EducationController,
		deps.AuthMiddleware,
	)

	// Health endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
