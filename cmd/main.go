package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"microblog-backend/config"
	"microblog-backend/internal/api/media"
	"microblog-backend/internal/api/tweet"
	"microblog-backend/internal/api/user"
	"microblog-backend/internal/common"
	"microblog-backend/internal/metrics"
	"microblog-backend/internal/middleware"
	"microblog-backend/internal/repository/mysql"
	"microblog-backend/internal/service"
	"microblog-backend/internal/storage"
	"microblog-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

const uploadsRoute = "/uploads"

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 连接数据库
	db, err := sql.Open("mysql", config.AppConfig.DSN())
	if err != nil {
		util.Logger.Fatal("连接数据库失败", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(config.AppConfig.DBMaxOpenConns)
	db.SetMaxIdleConns(config.AppConfig.DBMaxOpenConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 数据库可能晚于应用启动，重试连接
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	err = common.WithRetry(startupCtx, func() error {
		return db.PingContext(startupCtx)
	}, 5, time.Second)
	if err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功")

	if err := mysql.Apply(startupCtx, db); err != nil {
		util.Logger.Fatal("初始化数据库表失败", zap.Error(err))
	}

	fileStorage, closeStorage := newFileStorage()
	defer closeStorage()
	cancelStartup()

	// 注册自定义验证器
	if err := util.RegisterBindingValidators(); err != nil {
		util.Logger.Fatal("注册验证器失败", zap.Error(err))
	}

	// 初始化存储库、服务和处理器
	userRepo := mysql.NewUserRepository(db)
	relationshipRepo := mysql.NewRelationshipRepository(db)
	contentRepo := mysql.NewContentRepository(db)

	identityService := service.NewIdentityService(userRepo)
	relationshipService := service.NewRelationshipService(relationshipRepo)
	contentService := service.NewContentService(contentRepo, fileStorage, config.AppConfig.MaxUploadSize)
	feedService := service.NewFeedService(contentRepo, fileStorage.URL)
	profileService := service.NewProfileService(userRepo, relationshipRepo)

	tweetHandler := tweet.NewTweetHandler(contentService, feedService, relationshipService)
	mediaHandler := media.NewMediaHandler(contentService, config.AppConfig.MaxUploadSize)
	userHandler := user.NewUserHandler(profileService, relationshipService)

	// 启动孤儿媒体清理任务
	sweeper := service.NewMediaSweeper(contentRepo, fileStorage, config.AppConfig.OrphanMediaTTL)
	scheduler, err := sweeper.Start(config.AppConfig.OrphanSweepSchedule)
	if err != nil {
		util.Logger.Fatal("启动孤儿媒体清理任务失败", zap.Error(err))
	}

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware())

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		middleware.APIKeyHeader,
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length",
		"Content-Type",
	}
	r.Use(cors.New(corsConfig))

	// 本地存储时由本服务提供媒体文件
	if config.AppConfig.StorageBackend == config.StorageLocal {
		r.Static(uploadsRoute, config.AppConfig.LocalStoragePath)
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := identityService.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 定义 API 路由，全部需要 api-key
	api := r.Group("/api", middleware.AuthMiddleware(identityService))
	{
		api.POST("/tweets", tweetHandler.CreateTweet)
		api.GET("/tweets", tweetHandler.ListTweets)
		api.GET("/tweets/:id", tweetHandler.GetTweet)
		api.DELETE("/tweets/:id", tweetHandler.DeleteTweet)
		api.POST("/tweets/:id/likes", tweetHandler.LikeTweet)
		api.DELETE("/tweets/:id/likes", tweetHandler.UnlikeTweet)

		api.POST("/medias", mediaHandler.UploadMedia)

		api.GET("/users/me", userHandler.GetMe)
		api.GET("/users/:id", userHandler.GetUser)
		api.POST("/users/:id/follow", userHandler.Follow)
		api.DELETE("/users/:id/follow", userHandler.Unfollow)
	}

	if config.AppConfig.Debug {
		util.Logger.Info("已注册的路由列表：")
		for _, route := range r.Routes() {
			util.Logger.Info("路由",
				zap.String("method", route.Method),
				zap.String("path", route.Path),
				zap.String("handler", route.Handler))
		}
	}

	srv := &http.Server{
		Addr:              config.AppConfig.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	// 等待正在执行的清理任务结束
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Error("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// newFileStorage 按配置创建媒体存储后端
func newFileStorage() (storage.FileStorage, func()) {
	cfg := config.AppConfig
	switch cfg.StorageBackend {
	case config.StorageS3:
		s, err := storage.NewS3Storage(cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化 S3 存储失败", zap.Error(err))
		}
		util.Logger.Info("使用 S3 存储", zap.String("bucket", cfg.S3Bucket))
		return s, func() {}
	case config.StorageGCS:
		s, err := storage.NewGCSStorage(context.Background(), cfg.GCSBucketName, cfg.GCSCredentialsFile)
		if err != nil {
			util.Logger.Fatal("初始化 GCS 存储失败", zap.Error(err))
		}
		util.Logger.Info("使用 GCS 存储", zap.String("bucket", cfg.GCSBucketName))
		return s, func() { s.Close() }
	default:
		prefix := uploadsRoute
		if cfg.BackendURL != "" {
			prefix = strings.TrimSuffix(cfg.BackendURL, "/") + uploadsRoute
		}
		s, err := storage.NewLocalStorage(cfg.LocalStoragePath, prefix)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		util.Logger.Info("使用本地存储", zap.String("path", cfg.LocalStoragePath))
		return s, func() {}
	}
}
