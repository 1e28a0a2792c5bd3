package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/stallhub/internal/app/auth"
	appControllers "github.com/yigit/stallhub/internal/app/controllers"
	appJobs "github.com/yigit/stallhub/internal/app/jobs"
	appMigrations "github.com/yigit/stallhub/internal/app/migrations"
	appRepos "github.com/yigit/stallhub/internal/app/repositories"
	appRoutes "github.com/yigit/stallhub/internal/app/routes"
	appServices "github.com/yigit/stallhub/internal/app/services"
	"github.com/yigit/stallhub/internal/config"
	"github.com/yigit/stallhub/internal/db"
	appMiddleware "github.com/yigit/stallhub/internal/middleware"
	pkgAuth "github.com/yigit/stallhub/internal/pkg/auth"
	"github.com/yigit/stallhub/internal/pkg/email"
	"github.com/yigit/stallhub/internal/pkg/export"
	"github.com/yigit/stallhub/internal/pkg/filestorage"
	"github.com/yigit/stallhub/internal/pkg/helpers"
	"github.com/yigit/stallhub/internal/pkg/logger"
	"github.com/yigit/stallhub/internal/pkg/websocket"
	"github.com/yigit/stallhub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos        *appRepos.Repositories
	FileStorage  *filestorage.LocalStorage
	JWTService   *pkgAuth.JWTService
	Resolver     *appAuth.IdentityResolver
	AuthzService *appAuth.AuthorizationService

	NotificationService appServices.NotificationService
	ApplicationService  appServices.ApplicationService
	EventService        appServices.EventService
	ExhibitorService    appServices.ExhibitorService
	OrganizerService    appServices.OrganizerService

	Hub            *websocket.Hub
	FanOut         *appServices.FanOut
	DeadlineCloser *appJobs.DeadlineCloser
	ApplyLimiter   *appMiddleware.RateLimiter
	Handlers       appRoutes.Handlers

	Logger zerolog.Logger

	cancelHub   context.CancelFunc
	stopCleanup chan struct{}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lvl := logger.Configure(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", lvl.String()).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	dbPool, err := db.Connect(context.Background(), cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), time.Minute)
	defer migrateCancel()
	if err := migrator.MigrateFromDirectory(migrateCtx, migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

func newExporter(cfg *config.Config, repos *appRepos.Repositories, storage *filestorage.LocalStorage, lgr zerolog.Logger) (export.Exporter, error) {
	switch cfg.Export.Mode {
	case config.ExportModeHTTP:
		timeout := helpers.ParseDuration(cfg.Export.Timeout, 30*time.Second)
		return export.NewHTTPExporter(cfg.Export.URL, cfg.Export.APIKey, timeout, lgr), nil
	case config.ExportModeCSV, "":
		return export.NewCSVExporter(repos.ApplicationRepository, storage, "exports", lgr), nil
	default:
		return nil, fmt.Errorf("unknown export mode %q", cfg.Export.Mode)
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	fileStorageBaseURL := cfg.GetPublicURL() + "/uploads" // must match the static file serving path
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	exporter, err := newExporter(cfg, deps.Repos, deps.FileStorage, lgr)
	if err != nil {
		return nil, err
	}

	mailer := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
	}, lgr)

	hubCtx, cancelHub := context.WithCancel(context.Background())
	deps.cancelHub = cancelHub
	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	go deps.Hub.Run(hubCtx)

	deps.FanOut = appServices.NewFanOut(
		cfg.Notifications.Async,
		helpers.ParseDuration(cfg.Notifications.FanOutTimeout, 10*time.Second),
		logger.Component("fanout"),
	)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.TokenExpiration, time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.Resolver = appAuth.NewIdentityResolver(deps.Repos.ExhibitorRepository, deps.Repos.OrganizerRepository)
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.EventRepository)

	deps.NotificationService = appServices.NewNotificationService(deps.Repos.NotificationRepository, deps.Hub, deps.AuthzService, lgr)
	deps.ApplicationService = appServices.NewApplicationService(appServices.ApplicationServiceDeps{
		Applications:              deps.Repos.ApplicationRepository,
		Events:                    deps.Repos.EventRepository,
		Organizers:                deps.Repos.OrganizerRepository,
		Exhibitors:                deps.Repos.ExhibitorRepository,
		Resolver:                  deps.Resolver,
		Authz:                     deps.AuthzService,
		Notifications:             deps.NotificationService,
		Mailer:                    mailer,
		Exporter:                  exporter,
		FanOut:                    deps.FanOut,
		Logger:                    lgr,
		NotifyExhibitorOnDecision: cfg.Notifications.NotifyExhibitorOnDecision,
	})
	deps.EventService = appServices.NewEventService(deps.Repos.EventRepository, deps.AuthzService)
	deps.ExhibitorService = appServices.NewExhibitorService(deps.Repos.ExhibitorRepository, deps.Resolver, deps.FileStorage)
	deps.OrganizerService = appServices.NewOrganizerService(deps.Repos.OrganizerRepository, deps.Resolver)

	if cfg.Jobs.DeadlineCloserEnabled {
		deps.DeadlineCloser = appJobs.NewDeadlineCloser(deps.Repos.EventRepository, deps.ApplicationService, logger.Component("jobs"))
		if err := deps.DeadlineCloser.Start(cfg.Jobs.DeadlineCloserSpec); err != nil {
			deps.Close(context.Background())
			return nil, err
		}
	}

	deps.ApplyLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.ApplyPerMinute, cfg.RateLimit.Burst)
	deps.stopCleanup = make(chan struct{})
	deps.ApplyLimiter.StartCleanup(time.Minute, deps.stopCleanup)

	notificationController := appControllers.NewNotificationController(deps.NotificationService, deps.Resolver)
	deps.Handlers = appRoutes.Handlers{
		Exhibitor:    appControllers.NewExhibitorController(deps.ExhibitorService, deps.Resolver),
		Organizer:    appControllers.NewOrganizerController(deps.OrganizerService, deps.Resolver),
		Event:        appControllers.NewEventController(deps.EventService, deps.Resolver),
		Application:  appControllers.NewApplicationController(deps.ApplicationService, deps.Resolver),
		Notification: notificationController,
		Websocket:    websocket.NewHandler(deps.Hub, notificationController.Recipient, []string{cfg.Server.AppURL}, lgr),
		Auth:         appMiddleware.NewAuthMiddleware(deps.JWTService),
		ApplyLimiter: deps.ApplyLimiter,
	}

	return deps, nil
}

// Close stops background work: the schedule, queued fan-out steps, the
// limiter cleanup and the websocket hub, in that order.
func (d *Dependencies) Close(ctx context.Context) {
	if d.DeadlineCloser != nil {
		d.DeadlineCloser.Stop(ctx)
	}
	if d.FanOut != nil {
		done := make(chan struct{})
		go func() {
			d.FanOut.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			d.Logger.Warn().Msg("Pending notification fan-out did not finish before shutdown deadline")
		}
	}
	if d.stopCleanup != nil {
		close(d.stopCleanup)
		d.stopCleanup = nil
	}
	if d.cancelHub != nil {
		d.cancelHub()
	}
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
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.Metrics())

	appRoutes.SetupRouter(router, deps.Handlers)

	return router
}
