package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"job-portal/internal/config"
	"job-portal/internal/db"
	apihttp "job-portal/internal/http"
	"job-portal/internal/oauth"
	"job-portal/internal/repository"
	"job-portal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	jwtSvc, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Fatal("jwt service", zap.Error(err))
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Fatal("db migrate", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	userRepo := repository.NewPgUserRepository(pool)
	jobRepo := repository.NewPgJobRepository(pool)

	loginLimiter := service.NewLoginRateLimiter(cfg.LoginWindow, cfg.LoginMaxAttempts)
	stateStore := service.NewMemoryOAuthStateStore(cfg.OAuthStateTTL)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory limiter and state store", zap.Error(err))
		} else {
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, cfg.LoginWindow, cfg.LoginMaxAttempts)
			stateStore = service.NewRedisOAuthStateStore(redisClient, cfg.OAuthStateTTL)
		}
		cancel()
	}

	userSvc := service.NewUserService(logger, userRepo, loginLimiter, cfg.BcryptCost)
	jobSvc := service.NewJobService(logger, jobRepo)

	cookies := apihttp.CookieConfig{Secure: cfg.IsProduction(), MaxAge: jwtSvc.TTL()}
	authHandler := apihttp.NewAuthHandler(logger, userSvc, jwtSvc, cookies, cfg.ClientURL)
	if cfg.GoogleEnabled() {
		provider := oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
		})
		authHandler.WithGoogle(provider, stateStore, cfg.OAuthStateTTL)
	} else {
		logger.Warn("google oauth not configured, /api/auth/google disabled")
	}
	userHandler := apihttp.NewUserHandler(logger, userSvc)
	jobHandler := apihttp.NewJobHandler(logger, jobSvc)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := apihttp.NewRouter(
		logger,
		apihttp.RouterConfig{ClientURL: cfg.ClientURL, DB: pool},
		apihttp.AuthMiddleware(logger, jwtSvc, userSvc),
		authHandler,
		userHandler,
		jobHandler,
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
}
