package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"linguachat/internal/config"
	"linguachat/internal/controllers"
	"linguachat/internal/db"
	"linguachat/internal/logger"
	"linguachat/internal/middleware"
	"linguachat/internal/service"
	"linguachat/internal/store"
	"linguachat/internal/stream"
	"linguachat/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err.Error())
	}

	log := logger.New(cfg.LogLevel)

	dbConn, err := db.Init(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to init database", "error", err.Error())
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis ping failed", "error", err.Error())
	}

	chat, err := stream.NewClient(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		log.Fatal("failed to init chat provider client", "error", err.Error())
	}

	users := store.NewCachedUsers(store.NewUsers(dbConn), rdb)
	issuer := token.NewIssuer(cfg.JWTSecret)
	auth := service.NewAuth(users, chat, issuer, log)

	r := gin.Default()

	authController := controllers.NewAuthController(auth, cfg.IsProduction(), log)

	api := r.Group("/api/auth")
	{
		api.POST("/signup", authController.SignUp)
		api.POST("/login", authController.Login)
		api.POST("/logout", authController.Logout)
	}

	protected := r.Group("/api/auth")
	protected.Use(middleware.Protect(issuer, users))
	{
		protected.POST("/onboarding", authController.Onboard)
	}

	log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err.Error())
	}
}
