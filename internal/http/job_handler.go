package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"job-portal/internal/domain"
	"job-portal/internal/service"
)

type JobHandler struct {
	logger  *zap.Logger
	jobServ *service.JobService
}

func NewJobHandler(logger *zap.Logger, jobServ *service.JobService) *JobHandler {
	return &JobHandler{
		logger:  logger,
		jobServ: jobServ,
	}
}

type jobRequest struct {
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

// List maneja GET /api/jobs?type=&posted_by=&limit=&offset=.
func (h *JobHandler) List(c *gin.Context) {
	filter := domain.JobFilter{
		Type:     domain.JobType(c.Query("type")),
		PostedBy: c.Query("posted_by"),
	}
	var err error
	if v := c.Query("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
	}
	if v := c.Query("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a number"})
			return
		}
	}

	jobs, err := h.jobServ.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "list jobs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Get maneja GET /api/jobs/:id.
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobServ.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get job", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Create maneja POST /api/jobs (recruiter o admin).
func (h *JobHandler) Create(c *gin.Context) {
	id, ok := CurrentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token provided"})
		return
	}
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "create job", err)
		return
	}
	job, err := h.jobServ.Create(c.Request.Context(), id.UserID, service.JobInput{
		Title:       deref(req.Title),
		Company:     deref(req.Company),
		Location:    deref(req.Location),
		Type:        deref(req.Type),
		Description: deref(req.Description),
	})
	if err != nil {
		respondError(c, h.logger, "create job", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

// Update maneja PATCH /api/jobs/:id (admin).
func (h *JobHandler) Update(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "update job", err)
		return
	}
	job, err := h.jobServ.Update(c.Request.Context(), c.Param("id"), service.JobPatch{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, h.logger, "update job", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

// Delete maneja DELETE /api/jobs/:id (admin).
func (h *JobHandler) Delete(c *gin.Context) {
	if err := h.jobServ.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete job", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
