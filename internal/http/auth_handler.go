package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"job-portal/internal/domain"
	"job-portal/internal/oauth"
	"job-portal/internal/service"
)

// AuthHandler atiende registro, login, sesion y el flujo de Google.
type AuthHandler struct {
	logger    *zap.Logger
	userServ  *service.UserService
	jwtServ   *service.JWTService
	cookies   CookieConfig
	clientURL string

	provider oauth.Provider
	states   service.OAuthStateStore
	stateTTL time.Duration
}

func NewAuthHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService, cookies CookieConfig, clientURL string) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		userServ:  userServ,
		jwtServ:   jwtServ,
		cookies:   cookies,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

// WithGoogle habilita las rutas de login con Google.
func (h *AuthHandler) WithGoogle(provider oauth.Provider, states service.OAuthStateStore, stateTTL time.Duration) *AuthHandler {
	h.provider = provider
	h.states = states
	h.stateTTL = stateTTL
	return h
}

// Register maneja POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "register", err)
		return
	}

	user, err := h.userServ.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}

	token, ok := h.issueSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "registration successful", "token": token, "user": user})
}

// Login maneja POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "login", err)
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}

	token, ok := h.issueSession(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token, "user": user})
}

// Me maneja GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token provided"})
		return
	}
	user, err := h.userServ.GetByID(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, h.logger, "me", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe maneja PATCH /api/auth/me.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token provided"})
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update profile", err)
		return
	}
	user, err := h.userServ.UpdateProfile(c.Request.Context(), id.UserID, req.Name)
	if err != nil {
		respondError(c, h.logger, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ChangePassword maneja POST /api/auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token provided"})
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "change password", err)
		return
	}
	if err := h.userServ.ChangePassword(c.Request.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.logger, "change password", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Logout maneja POST /api/auth/logout. El token sigue siendo valido hasta
// expirar; solo se borra la cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.clearToken(c.Writer)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// GoogleStart maneja GET /api/auth/google.
func (h *AuthHandler) GoogleStart(c *gin.Context) {
	if h.provider == nil || h.states == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "google login is not enabled"})
		return
	}
	state, err := h.states.Issue(c.Request.Context())
	if err != nil {
		h.logger.Error("oauth state issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}
	h.cookies.setState(c.Writer, state, h.stateTTL)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback maneja GET /api/auth/google/callback. Cualquier fallo
// redirige al login del cliente.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.provider == nil || h.states == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "google login is not enabled"})
		return
	}
	ctx := c.Request.Context()
	h.cookies.clearState(c.Writer)

	if errParam := c.Query("error"); errParam != "" {
		h.logger.Warn("google login denied", zap.String("error", errParam))
		h.redirectFailure(c)
		return
	}

	state := c.Query("state")
	bound, _ := c.Cookie(stateCookieName)
	if state == "" || state != bound {
		h.logger.Warn("google login state mismatch")
		h.redirectFailure(c)
		return
	}
	valid, err := h.states.Consume(ctx, state)
	if err != nil || !valid {
		h.logger.Warn("google login state rejected", zap.Error(err))
		h.redirectFailure(c)
		return
	}

	profile, err := h.provider.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.logger.Warn("google exchange failed", zap.Error(err))
		h.redirectFailure(c)
		return
	}

	user, err := h.userServ.LoginWithOAuth(ctx, service.OAuthInput{
		Subject: profile.Subject,
		Email:   profile.Email,
		Name:    profile.Name,
	})
	if err != nil {
		if errors.Is(err, service.ErrOAuthConflict) || errors.Is(err, service.ErrOAuthInvalid) {
			h.logger.Warn("google login rejected", zap.Error(err))
		} else {
			h.logger.Error("google login failed", zap.Error(err))
		}
		h.redirectFailure(c)
		return
	}

	token, err := h.jwtServ.IssueForUser(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		h.redirectFailure(c)
		return
	}
	h.cookies.setToken(c.Writer, token)
	c.Redirect(http.StatusFound, h.clientURL+"/?token="+url.QueryEscape(token)+"&google_login=success")
}

func (h *AuthHandler) redirectFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, h.clientURL+"/login?error=not_registered")
}

// issueSession firma el token y lo deja tambien en la cookie.
func (h *AuthHandler) issueSession(c *gin.Context, user domain.User) (string, bool) {
	token, err := h.jwtServ.IssueForUser(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return "", false
	}
	h.cookies.setToken(c.Writer, token)
	return token, true
}
