package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"job-portal/internal/auth"
	"job-portal/internal/domain"
	"job-portal/internal/service"
)

type tokenVerifier interface {
	Verify(token string) (service.Claims, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id string) (domain.User, error)
}

// AuthMiddleware resuelve el token (cookie primero, luego Bearer), carga el
// usuario y deja su identidad en el contexto de la peticion.
func AuthMiddleware(logger *zap.Logger, jwtSvc tokenVerifier, users userLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token provided"})
			return
		}

		claims, err := jwtSvc.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token is invalid or expired"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			logger.Error("auth middleware user lookup failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server error in auth middleware"})
			return
		}

		ctx := auth.WithIdentity(c.Request.Context(), auth.FromUser(user))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole se encadena despues de AuthMiddleware.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token provided"})
			return
		}
		if !id.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: insufficient role"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (auth.Identity, bool) {
	return auth.IdentityFrom(c.Request.Context())
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(tokenCookieName); err == nil && strings.TrimSpace(cookie) != "" {
		return strings.TrimSpace(cookie)
	}
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) > len("bearer ") && strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(header[len("bearer "):])
	}
	return ""
}
