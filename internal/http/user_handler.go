package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"job-portal/internal/service"
)

// UserHandler expone la administracion de usuarios (solo admin).
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
	}
}

// List maneja GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userServ.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// UpdateRole maneja PATCH /api/users/:id/role.
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update role", err)
		return
	}
	user, err := h.userServ.UpdateRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		respondError(c, h.logger, "update role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Delete maneja DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userServ.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
