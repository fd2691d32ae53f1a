package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"job-portal/internal/db"
	"job-portal/internal/domain"
)

type RouterConfig struct {
	ClientURL string
	DB        db.Pinger
}

// NewRouter configura el router de Gin con middlewares y rutas de la API.
func NewRouter(
	logger *zap.Logger,
	cfg RouterConfig,
	authMW gin.HandlerFunc,
	authH *AuthHandler,
	userH *UserHandler,
	jobH *JobHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(cfg.ClientURL))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API is running")
	})
	r.GET("/healthz", healthHandler(cfg.DB))

	api := r.Group("/api")

	authG := api.Group("/auth")
	authG.POST("/register", authH.Register)
	authG.POST("/login", authH.Login)
	authG.POST("/logout", authH.Logout)
	authG.GET("/google", authH.GoogleStart)
	authG.GET("/google/callback", authH.GoogleCallback)
	authG.GET("/me", authMW, authH.Me)
	authG.PATCH("/me", authMW, authH.UpdateMe)
	authG.POST("/password", authMW, authH.ChangePassword)

	users := api.Group("/users", authMW, RequireRole(domain.RoleAdmin))
	users.GET("", userH.List)
	users.PATCH("/:id/role", userH.UpdateRole)
	users.DELETE("/:id", userH.Delete)

	jobs := api.Group("/jobs")
	jobs.GET("", jobH.List)
	jobs.GET("/:id", jobH.Get)
	jobs.POST("", authMW, RequireRole(domain.RoleRecruiter, domain.RoleAdmin), jobH.Create)
	jobs.PATCH("/:id", authMW, RequireRole(domain.RoleAdmin), jobH.Update)
	jobs.DELETE("/:id", authMW, RequireRole(domain.RoleAdmin), jobH.Delete)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware permite credenciales solo desde el frontend configurado.
func corsMiddleware(clientURL string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{strings.TrimRight(clientURL, "/")},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func healthHandler(pinger db.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinger != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx, pinger); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
