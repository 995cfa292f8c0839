package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/alumnihub/backend/config"
	"github.com/alumnihub/backend/internal/api"
	"github.com/alumnihub/backend/internal/database"
	"github.com/alumnihub/backend/internal/router"
	"github.com/alumnihub/backend/internal/service"
)

// Server wires the services, handlers and HTTP listener together.
type Server struct {
	cfg    *config.Config
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
	redis  *redis.Client
}

// New builds the full service graph and returns a server ready to start.
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	emailService := service.NewEmailService(cfg)
	changeLogService := service.NewChangeLogService(db)
	profileService := service.NewProfileService(db, changeLogService)
	authService := service.NewAuthService(db, redisClient, cfg.JWTSecret, emailService, changeLogService)
	directoryService := service.NewDirectoryService(db)
	orgService := service.NewOrganizationService(db)
	updateRequestService := service.NewUpdateRequestService(db, profileService, emailService)
	exportService := service.NewExportService(db)

	var avatarService service.IAvatarService
	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		// Avatar uploads degrade to an error response; the rest of the
		// API keeps working without blob storage.
		log.Printf("[Server] S3 unavailable, avatar uploads disabled: %v", err)
	} else {
		// Profiles link avatars by plain object URL, which only works
		// when the bucket serves public reads.
		if err := s3cfg.SetupBucketPolicy(context.Background()); err != nil {
			log.Printf("[Server] failed to apply avatar bucket policy: %v", err)
		}
		avatarService = service.NewAvatarService(s3cfg, profileService)
	}

	engine := router.SetupRouter(router.Handlers{
		Auth:          api.NewAuthHandler(authService),
		Profile:       api.NewProfileHandler(profileService, changeLogService, avatarService),
		Directory:     api.NewDirectoryHandler(directoryService),
		Organization:  api.NewOrganizationHandler(orgService),
		UpdateRequest: api.NewUpdateRequestHandler(updateRequestService),
		Admin:         api.NewAdminHandler(authService, profileService, updateRequestService, exportService),
	}, authService, db, redisClient)

	return &Server{
		cfg:    cfg,
		engine: engine,
		db:     db,
		redis:  redisClient,
	}, nil
}

// Start begins serving and blocks until the listener stops.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    ":" + s.cfg.ServerPort,
		Handler: s.engine,
	}

	log.Printf("[Server] listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			log.Printf("[Server] redis close: %v", err)
		}
	}
	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("[Server] database close: %v", err)
			}
		}
	}
	return nil
}
