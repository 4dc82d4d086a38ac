package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"fundacion-portal-backend/internal/config"
	infraCache "fundacion-portal-backend/internal/infrastructure/cache"
	"fundacion-portal-backend/internal/infrastructure/database"
	"fundacion-portal-backend/internal/infrastructure/storage"
	"fundacion-portal-backend/pkg/cache"
	"fundacion-portal-backend/pkg/jwt"

	entHandler "fundacion-portal-backend/internal/domains/entrepreneur/handler"
	entRepo "fundacion-portal-backend/internal/domains/entrepreneur/repository"
	entService "fundacion-portal-backend/internal/domains/entrepreneur/service"
	staffHandler "fundacion-portal-backend/internal/domains/staff/handler"
	staffRepo "fundacion-portal-backend/internal/domains/staff/repository"
	staffService "fundacion-portal-backend/internal/domains/staff/service"
	volHandler "fundacion-portal-backend/internal/domains/volunteer/handler"
	volRepo "fundacion-portal-backend/internal/domains/volunteer/repository"
	volService "fundacion-portal-backend/internal/domains/volunteer/service"
	wizardHandler "fundacion-portal-backend/internal/domains/wizard/handler"
	wizardJob "fundacion-portal-backend/internal/domains/wizard/job"
	wizardRepo "fundacion-portal-backend/internal/domains/wizard/repository"
	wizardService "fundacion-portal-backend/internal/domains/wizard/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup; handlers, services and repositories are
// stateless and shared across requests.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	// Repositories
	EntrepreneurRepo entRepo.RepositoryInterface
	VolunteerRepo    volRepo.RepositoryInterface
	StaffRepo        staffRepo.RepositoryInterface
	SessionRepo      wizardRepo.RepositoryInterface

	// Services
	EntrepreneurService entService.ServiceInterface
	VolunteerService    volService.ServiceInterface
	StaffService        staffService.ServiceInterface
	WizardService       wizardService.ServiceInterface

	// Handlers
	EntrepreneurHandler *entHandler.Handler
	VolunteerHandler    *volHandler.Handler
	StaffHandler        *staffHandler.Handler
	WizardHandler       *wizardHandler.Handler

	// Jobs (consumed by the worker binary only)
	StagingSweepHandler *wizardJob.StagingSweepHandler
}

// NewContainer builds the whole dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("config loaded (environment: %s)", cfg.App.Environment)

	db := database.NewPostgresDB(cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("database connected")

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(ctx); err != nil {
		// The wizard cannot run without redis; list caching alone would be
		// degradable, session storage is not.
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	c.Cache = redisCache
	log.Println("redis connected")

	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("minio init failed: %w", err)
	}
	c.Storage = minioStorage
	log.Println("object storage ready")

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Println("container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.EntrepreneurRepo = entRepo.NewPostgresRepository(pool)
	c.VolunteerRepo = volRepo.NewPostgresRepository(pool)
	c.StaffRepo = staffRepo.NewPostgresRepository(pool)

	sessionTTL := time.Duration(c.Config.Wizard.SessionTTLMinutes) * time.Minute
	c.SessionRepo = wizardRepo.NewSessionRepository(c.Cache, sessionTTL)
}

func (c *Container) initServices() {
	c.EntrepreneurService = entService.NewEntrepreneurService(c.EntrepreneurRepo, c.Storage, c.Cache)
	c.VolunteerService = volService.NewVolunteerService(c.VolunteerRepo, c.Cache)
	c.StaffService = staffService.NewStaffService(c.StaffRepo, c.JWTManager)

	c.WizardService = wizardService.NewWizardService(
		c.SessionRepo,
		c.Storage,
		c.EntrepreneurService,
		c.VolunteerService,
		c.Config.Wizard.MaxUploadBytes,
	)
}

func (c *Container) initHandlers() {
	c.EntrepreneurHandler = entHandler.NewHandler(c.EntrepreneurService)
	c.VolunteerHandler = volHandler.NewHandler(c.VolunteerService)
	c.StaffHandler = staffHandler.NewHandler(c.StaffService)
	c.WizardHandler = wizardHandler.NewHandler(c.WizardService)

	c.StagingSweepHandler = wizardJob.NewStagingSweepHandler(c.SessionRepo, c.Storage)
}

// Cleanup releases container resources. Call it on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
		log.Println("database connections closed")
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("redis close: %v", err)
		}
	}
}
