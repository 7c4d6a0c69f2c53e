package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"promptvault/internal/config"
	"promptvault/internal/generation"
	"promptvault/internal/handlers"
	"promptvault/internal/metrics"
	"promptvault/internal/models"
	"promptvault/internal/storage"
	"promptvault/internal/workers"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	ctx := context.Background()

	// Shared pgx pool for both River and GORM.
	pgxConfig, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}
	dbPool, err := pgxpool.NewWithConfig(ctx, pgxConfig)
	if err != nil {
		log.Fatal("Failed to create database pool:", err)
	}
	defer dbPool.Close()

	sqlDB := stdlib.OpenDBFromPool(dbPool)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to initialize GORM with shared pool:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.PromptSet{},
		&models.Version{},
		&models.Share{},
		&models.Notification{},
		&models.MediaImage{},
		&models.Backup{},
		&models.InviteLink{},
		&models.APIKey{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	migrator, err := rivermigrate.New(riverpgxv5.New(dbPool), nil)
	if err != nil {
		log.Fatal("Failed to create River migrator:", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil); err != nil {
		log.Fatal("Failed to run River migrations:", err)
	}

	seedAdmin(db, cfg)

	var st storage.Storage
	if cfg.UseS3() {
		st, err = storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			ForcePathStyle:  cfg.S3ForcePathStyle,
		})
		if err != nil {
			log.Fatal("Failed to initialize S3 storage:", err)
		}
		slog.Info("Using S3 storage", "bucket", cfg.S3Bucket)
	} else {
		st = storage.NewFSStorage(cfg.StoragePath)
		slog.Info("Using filesystem storage", "path", cfg.StoragePath)
	}

	gen, err := generation.NewClient(ctx, generation.Config{
		APIKey:     cfg.GeminiAPIKey,
		Endpoint:   cfg.GeminiEndpoint,
		ImageModel: cfg.ImageModel,
		VideoModel: cfg.VideoModel,
	})
	if err != nil {
		log.Fatal("Failed to create generation client:", err)
	}
	defer gen.Close()

	riverWorkers := river.NewWorkers()
	river.AddWorker(riverWorkers, workers.NewVideoPollWorker(db, gen))
	river.AddWorker(riverWorkers, workers.NewCleanupWorker(db))

	riverClient, err := river.NewClient(riverpgxv5.New(dbPool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.MaxWorkers},
		},
		Workers: riverWorkers,
		PeriodicJobs: []*river.PeriodicJob{
			river.NewPeriodicJob(
				river.PeriodicInterval(time.Hour),
				func() (river.JobArgs, *river.InsertOpts) {
					return workers.CleanupJobArgs{}, nil
				},
				&river.PeriodicJobOpts{RunOnStart: true},
			),
		},
	})
	if err != nil {
		log.Fatal("Failed to create River client:", err)
	}
	if err := riverClient.Start(ctx); err != nil {
		log.Fatal("Failed to start River client:", err)
	}
	defer riverClient.Stop(ctx)

	qm := workers.NewQueueManager(riverClient, db)

	r := gin.Default()
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("session", store))
	r.Use(metrics.Middleware())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/media/:name", func(c *gin.Context) { handlers.MediaServe(c, st) })

	r.POST("/api/login", func(c *gin.Context) { handlers.LoginPost(c, db) })
	r.POST("/api/logout", handlers.LogoutPost)

	api := r.Group("/api", handlers.RequireUser(db))
	{
		api.GET("/me", handlers.MeGet)
		api.PUT("/settings", func(c *gin.Context) { handlers.SettingsPut(c, db) })
		api.GET("/directory", func(c *gin.Context) { handlers.DirectoryGet(c, db) })

		api.GET("/prompt-sets", func(c *gin.Context) { handlers.PromptSetsGet(c, db) })
		api.POST("/prompt-sets", func(c *gin.Context) { handlers.PromptSetCreate(c, db) })
		api.GET("/prompt-sets/:id", func(c *gin.Context) { handlers.PromptSetGet(c, db) })
		api.PUT("/prompt-sets/:id", func(c *gin.Context) { handlers.PromptSetUpdate(c, db) })
		api.DELETE("/prompt-sets/:id", func(c *gin.Context) { handlers.PromptSetDelete(c, db) })
		api.POST("/prompt-sets/:id/duplicate", func(c *gin.Context) { handlers.PromptSetDuplicate(c, db) })
		api.POST("/prompt-sets/:id/versions", func(c *gin.Context) { handlers.VersionCreate(c, db) })
		api.PUT("/versions/:id", func(c *gin.Context) { handlers.VersionUpdate(c, db) })
		api.DELETE("/versions/:id", func(c *gin.Context) { handlers.VersionDelete(c, db) })

		api.GET("/categories", func(c *gin.Context) { handlers.CategoriesGet(c, db) })
		api.POST("/categories", func(c *gin.Context) { handlers.CategoryCreate(c, db) })
		api.PUT("/categories/:id", func(c *gin.Context) { handlers.CategoryUpdate(c, db) })
		api.DELETE("/categories/:id", func(c *gin.Context) { handlers.CategoryDelete(c, db) })

		api.GET("/media", func(c *gin.Context) { handlers.MediaGet(c, db) })
		api.POST("/media", func(c *gin.Context) { handlers.MediaCreate(c, db) })
		api.POST("/media/sync", func(c *gin.Context) { handlers.MediaSyncPost(c, db) })
		api.DELETE("/media/:id", func(c *gin.Context) { handlers.MediaDelete(c, db, st, cfg.PublicBaseURL) })

		api.GET("/shares", func(c *gin.Context) { handlers.SharesGet(c, db) })
		api.POST("/shares", func(c *gin.Context) { handlers.ShareCreate(c, db) })
		api.POST("/shares/:id/accept", func(c *gin.Context) { handlers.ShareAccept(c, db, st, cfg.PublicBaseURL) })
		api.POST("/shares/:id/reject", func(c *gin.Context) { handlers.ShareReject(c, db) })

		api.GET("/notifications", func(c *gin.Context) { handlers.NotificationsGet(c, db) })
		api.POST("/notifications/:id/read", func(c *gin.Context) { handlers.NotificationReadPost(c, db) })
		api.POST("/notifications/read-all", func(c *gin.Context) { handlers.NotificationsReadAllPost(c, db) })

		api.GET("/backups", func(c *gin.Context) { handlers.BackupsGet(c, db) })
		api.POST("/backups", func(c *gin.Context) { handlers.BackupCreate(c, db, st) })
		api.GET("/backups/:id/download", func(c *gin.Context) { handlers.BackupDownload(c, db) })
		api.POST("/backups/restore", func(c *gin.Context) { handlers.BackupRestore(c, db) })

		api.POST("/invites", func(c *gin.Context) { handlers.InviteCreate(c, db) })
		api.GET("/invites/:code", func(c *gin.Context) { handlers.InviteResolve(c, db) })

		api.GET("/keys", func(c *gin.Context) { handlers.APIKeysGet(c, db) })
		api.POST("/keys", func(c *gin.Context) { handlers.APIKeyCreate(c, db) })
		api.PUT("/keys/:id", func(c *gin.Context) { handlers.APIKeyUpdate(c, db) })
		api.DELETE("/keys/:id", func(c *gin.Context) { handlers.APIKeyDelete(c, db) })

		api.POST("/generate", func(c *gin.Context) {
			handlers.Generate(c, db, gen, st, qm, cfg.PublicBaseURL)
		})

		admin := api.Group("/admin", handlers.RequireAdmin())
		{
			admin.GET("/users", func(c *gin.Context) { handlers.AdminUsersGet(c, db) })
			admin.POST("/users", func(c *gin.Context) { handlers.UserCreate(c, db) })
			admin.PUT("/users/:id/role", func(c *gin.Context) { handlers.UserRolePut(c, db) })
			admin.GET("/queue", func(c *gin.Context) { handlers.AdminQueueGet(c, qm) })
		}
	}

	apiV1 := r.Group("/api/v1", handlers.RequireAPIKey(db))
	{
		apiV1.GET("/prompt-sets", func(c *gin.Context) { handlers.APIPromptSetsGet(c, db) })
		apiV1.POST("/prompt-sets", func(c *gin.Context) { handlers.APIPromptSetCreate(c, db) })
		apiV1.GET("/prompt-sets/:id", func(c *gin.Context) { handlers.APIPromptSetGet(c, db) })
		apiV1.PUT("/prompt-sets/:id", func(c *gin.Context) { handlers.APIPromptSetUpdate(c, db) })
		apiV1.DELETE("/prompt-sets/:id", func(c *gin.Context) { handlers.APIPromptSetDelete(c, db) })
		apiV1.POST("/prompt-sets/:id/versions", func(c *gin.Context) { handlers.APIVersionCreate(c, db) })
		apiV1.GET("/versions", func(c *gin.Context) { handlers.APIVersionsGet(c, db) })
	}

	slog.Info("Starting server", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin ensures at least one admin account exists.
func seedAdmin(db *gorm.DB, cfg config.Config) {
	var count int64
	db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password:", err)
	}
	admin := models.User{
		Email:        cfg.AdminEmail,
		DisplayName:  "Admin",
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	slog.Info("Created default admin user", "email", cfg.AdminEmail)
}
