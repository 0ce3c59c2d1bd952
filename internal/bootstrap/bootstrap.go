package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/yigit/elearning/internal/app/auth"
	appControllers "github.com/yigit/elearning/internal/app/controllers"
	appMigrations "github.com/yigit/elearning/internal/app/migrations"
	appRepos "github.com/yigit/elearning/internal/app/repositories"
	appRoutes "github.com/yigit/elearning/internal/app/routes"
	appServices "github.com/yigit/elearning/internal/app/services"
	"github.com/yigit/elearning/internal/config"
	"github.com/yigit/elearning/internal/db"
	appMiddleware "github.com/yigit/elearning/internal/middleware"
	pkgAuth "github.com/yigit/elearning/internal/pkg/auth"
	"github.com/yigit/elearning/internal/pkg/cache"
	"github.com/yigit/elearning/internal/pkg/filestorage"
	"github.com/yigit/elearning/internal/pkg/helpers"
	"github.com/yigit/elearning/internal/pkg/logger"
	"github.com/yigit/elearning/internal/pkg/youtube"
	"github.com/yigit/elearning/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    *appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthzService   *appAuth.AuthorizationService
	Cache          cache.Store
	FileStorage    filestorage.FileStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:   logLevel,
		Pretty:  prettyLog,
		Service: "elearning",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConnectDatabase establishes the database connection
func ConnectDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")
	return database, nil
}

// RunMigrations applies the SQL files of database.migrations_dir
func RunMigrations(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) error {
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	applied, err := appMigrations.NewMigrator(database.Pool).MigrateFromDirectory(ctx, migrationsDir)
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Int("applied", applied).Msg("Database migrations successfully applied.")
	return nil
}

// SeedDefaults creates default subjects and the optional seed teacher
func SeedDefaults(ctx context.Context, cfg *config.Config, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	return seed.CreateDefaultData(ctx, repos.SubjectRepository, repos.UserRepository, seed.Options{
		TeacherEmail:    cfg.Seed.TeacherEmail,
		TeacherPassword: cfg.Seed.TeacherPassword,
	}, lgr)
}

// NewCache returns a Redis store when cache.redis_addr is set and an
// in-process store otherwise. An unreachable Redis falls back to memory.
func NewCache(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) cache.Store {
	if cfg.Cache.RedisAddr == "" {
		lgr.Info().Msg("Using in-memory catalog cache")
		return cache.NewMemoryStore()
	}

	store, err := cache.NewRedisStore(ctx, cache.RedisOptions{
		Addr:      cfg.Cache.RedisAddr,
		Password:  cfg.Cache.RedisPassword,
		DB:        cfg.Cache.RedisDB,
		KeyPrefix: cfg.Cache.KeyPrefix,
	})
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Cache.RedisAddr).Msg("Redis unavailable, using in-memory catalog cache")
		return cache.NewMemoryStore()
	}

	lgr.Info().Str("addr", cfg.Cache.RedisAddr).Msg("Using Redis catalog cache")
	return store
}

// NewFileStorage builds the upload backend named by storage.driver
func NewFileStorage(ctx context.Context, cfg *config.Config) (filestorage.FileStorage, error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "s3":
		return filestorage.NewS3Storage(ctx, filestorage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			BaseURL:   cfg.Storage.BaseURL,
		})
	default:
		return filestorage.NewLocalStorage(cfg.Storage.Path, cfg.Storage.BaseURL)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	var err error
	deps.FileStorage, err = NewFileStorage(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Cache = NewCache(ctx, cfg, lgr)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.OwnershipRepository)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	videos := youtube.NewClient(youtube.Config{
		APIKey:  cfg.YouTube.APIKey,
		BaseURL: cfg.YouTube.BaseURL,
		Timeout: helpers.ParseDuration(cfg.YouTube.Timeout, 10*time.Second),
	})
	if cfg.YouTube.APIKey == "" {
		lgr.Warn().Msg("YouTube API key not set, video search is disabled")
	}

	deps.Services = appServices.NewServices(appServices.Dependencies{
		Repos:   deps.Repos,
		Tx:      database,
		Cache:   deps.Cache,
		Storage: deps.FileStorage,
		Tokens:  deps.JWTService,
		Videos:  videos,
		Authz:   deps.AuthzService,
		Clustering: appServices.RecommendationConfig{
			MaxK:          cfg.Cluster.MaxK,
			MaxIterations: cfg.Cluster.MaxIterations,
		},
		Logger: lgr,
	})

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	svc := deps.Services
	deps.Controllers = &appRoutes.Controllers{
		Auth:           appControllers.NewAuthController(svc.Auth, lgr),
		User:           appControllers.NewUserController(svc.User),
		Catalog:        appControllers.NewCatalogController(svc.Catalog),
		Course:         appControllers.NewCourseController(svc.Course, lgr),
		Review:         appControllers.NewReviewController(svc.Review, lgr),
		Student:        appControllers.NewStudentController(svc.Enrollment),
		Content:        appControllers.NewContentController(svc.Content, lgr),
		Order:          appControllers.NewOrderController(svc.Order, lgr),
		Recommendation: appControllers.NewRecommendationController(svc.Recommendation),
		Video:          appControllers.NewVideoController(svc.Video),
		Health:         appControllers.NewHealthController(database.Pool),
	}

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
	router.Use(appMiddleware.RequestLogger(lgr.With().Str("component", "http").Logger()))
	router.Use(cors.New(corsConfig(cfg)))

	// Local uploads are served from the same origin
	if strings.ToLower(cfg.Storage.Driver) == "local" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		router.Static(cfg.Storage.BaseURL, cfg.Storage.Path)
		lgr.Info().Str("path", cfg.Storage.Path).Str("url", cfg.Storage.BaseURL).Msg("Static file serving configured for uploads")
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", appMiddleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Location", helpers.NoticeHeader, appMiddleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	origins := cfg.CORSOriginList()
	for _, o := range origins {
		if o == "*" {
			corsCfg.AllowAllOrigins = true
			corsCfg.AllowCredentials = false
			return corsCfg
		}
	}
	corsCfg.AllowOrigins = origins
	return corsCfg
}
