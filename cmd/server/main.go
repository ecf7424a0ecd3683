package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"gochat/dao"
	"gochat/handler"
	"gochat/pkg/auth"
	"gochat/pkg/config"
	"gochat/pkg/database"
	"gochat/pkg/filestore"
	"gochat/pkg/logger"
	"gochat/pkg/middleware"
	"gochat/service"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoDB, err := database.NewMongoDB(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close()
	appLog.Info(ctx, "Database connected", logger.F("db", cfg.MongoDB.DBName))

	files, err := filestore.New(cfg.Uploads.Dir)
	if err != nil {
		log.Fatalf("Failed to init file store: %v", err)
	}

	authn, err := auth.NewAuthenticator(auth.Config{
		Secret:   cfg.Auth.JWTSecret,
		TokenTTL: cfg.Auth.TokenTTL,
	})
	if err != nil {
		log.Fatalf("Failed to init authenticator: %v", err)
	}

	svc := service.NewService(
		dao.NewUserDAO(mongoDB),
		dao.NewMessageDAO(mongoDB),
		files,
		service.Options{
			ProbeInterval: cfg.Heartbeat.Interval,
			ProbeTimeout:  cfg.Heartbeat.Timeout,
			BcryptCost:    cfg.Auth.BcryptCost,
		},
		appLog,
	)

	engine := newEngine(cfg, appLog)

	authMW := middleware.NewAuthMiddleware(authn, appLog)
	httpHandler := handler.NewHTTPHandler(svc, authn, int(cfg.Auth.TokenTTL.Seconds()), appLog)
	httpHandler.RegisterRoutes(engine, authMW.GinAuth())

	wsHandler := handler.NewWSHandler(svc, authn, cfg.CORS.Origin, appLog)
	wsHandler.RegisterRoutes(engine)

	engine.Static("/uploads", files.Dir())

	server := &http.Server{
		Addr:        cfg.Server.Addr,
		Handler:     engine,
		ReadTimeout: cfg.Server.Timeout,
	}

	go func() {
		appLog.Info(ctx, "Server listening", logger.F("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	appLog.Info(context.Background(), "Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLog.Error(context.Background(), "Shutdown error", logger.F("error", err.Error()))
	}
}

// newEngine 创建Gin引擎并装好中间件与健康检查
func newEngine(cfg *config.Config, appLog logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestLogging(appLog))
	r.Use(middleware.Recovery(appLog))
	r.Use(middleware.CORS(cfg.CORS.Origin))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	return r
}
