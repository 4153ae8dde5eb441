package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/notesphere/backend/internal/config"
	"github.com/notesphere/backend/internal/domain"
	"github.com/notesphere/backend/internal/handler"
	"github.com/notesphere/backend/internal/middleware"
	"github.com/notesphere/backend/internal/migration"
	"github.com/notesphere/backend/internal/repository"
	"github.com/notesphere/backend/internal/routes"
	"github.com/notesphere/backend/internal/service"
	pkgcache "github.com/notesphere/backend/pkg/cache"
	pkges "github.com/notesphere/backend/pkg/elasticsearch"
	"github.com/notesphere/backend/pkg/jwt"
	pkglogger "github.com/notesphere/backend/pkg/logger"
	pkgredis "github.com/notesphere/backend/pkg/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// getConfigPath returns the config file path based on APP_ENV
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	zlog := pkglogger.GetLogger()

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	zlog.Info().Msg("connected to MySQL")

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis (optional)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		zlog.Warn().Err(err).Msg("redis unavailable, continuing without cache and rate limiting")
		redisClient = nil
	} else {
		zlog.Info().Msg("connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	// Elasticsearch (optional)
	var esClient *pkges.Client
	if cfg.Elasticsearch.Enabled && len(cfg.Elasticsearch.Addresses) > 0 {
		esClient, err = pkges.NewClient(cfg.Elasticsearch.Addresses, cfg.Elasticsearch.Username, cfg.Elasticsearch.Password)
		if err != nil {
			zlog.Warn().Err(err).Msg("elasticsearch unavailable, search falls back to database")
			esClient = nil
		} else {
			zlog.Info().Msg("connected to Elasticsearch")
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS
	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "X-Cache"},
		MaxAge:           86400,
	}))

	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.InputSanitizer())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	if redisClient != nil && !cfg.IsDevelopment() {
		router.Use(middleware.RateLimit(redisClient, middleware.DefaultRateLimitConfig()))
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": cfg.App.Name,
			"time":    time.Now().Unix(),
		})
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	repoRepo := repository.NewRepoRepository(db)
	shareRepo := repository.NewShareRepository(db)
	friendshipRepo := repository.NewFriendshipRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Services
	resolver := service.NewAccessResolver(shareRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)
	shareSvc := service.NewShareService(shareRepo, userRepo, resolver, notificationSvc)
	authSvc := service.NewAuthService(userRepo, jwtManager)
	userSvc := service.NewUserService(userRepo)
	searchSvc := service.NewSearchService(esClient, cfg.Elasticsearch.NoteIndex, noteRepo, resolver)
	noteSvc := service.NewNoteService(noteRepo, repoRepo, likeRepo, userRepo, resolver, shareSvc, searchSvc, cacheService)
	repoSvc := service.NewRepositoryService(repoRepo, noteRepo, followRepo, likeRepo, userRepo, resolver, shareSvc, noteSvc, cacheService)
	friendshipSvc := service.NewFriendshipService(friendshipRepo, userRepo, notificationSvc)
	followSvc := service.NewFollowService(followRepo, repoRepo, userRepo, repoSvc, notificationSvc)
	likeSvc := service.NewLikeService(likeRepo, noteRepo, repoRepo, userRepo, resolver, notificationSvc)
	commentSvc := service.NewCommentService(commentRepo, noteRepo, repoRepo, userRepo, resolver, notificationSvc)
	messageSvc := service.NewMessageService(messageRepo, userRepo, friendshipRepo, notificationSvc)

	if err := searchSvc.EnsureIndex(context.Background()); err != nil {
		zlog.Warn().Err(err).Msg("failed to ensure search index")
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	noteHandler := handler.NewNoteHandler(noteSvc, cacheService)
	repositoryHandler := handler.NewRepositoryHandler(repoSvc)
	friendshipHandler := handler.NewFriendshipHandler(friendshipSvc)
	followHandler := handler.NewFollowHandler(followSvc)
	noteLikeHandler := handler.NewLikeHandler(likeSvc, domain.KindNote)
	repoLikeHandler := handler.NewLikeHandler(likeSvc, domain.KindRepository)
	commentHandler := handler.NewCommentHandler(commentSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	routes.Setup(
		router,
		authHandler,
		userHandler,
		noteHandler,
		repositoryHandler,
		friendshipHandler,
		followHandler,
		noteLikeHandler,
		repoLikeHandler,
		commentHandler,
		messageHandler,
		notificationHandler,
		jwtManager,
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zlog.Info().Str("addr", addr).Str("env", cfg.App.Env).Msg("starting server")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// initDB opens the MySQL connection and configures the pool
func initDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
