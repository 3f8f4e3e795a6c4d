package handlers

import (
	"errors"
	"log"
	"net/http"

	"easypro-api/internal/middleware"
	"easypro-api/internal/plagiarism"
	"easypro-api/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// CheckRequest is the body of POST /plagiarism/check. Input is left untyped so
// non-string values are reported as invalid input rather than bind errors.
type CheckRequest struct {
	Input any    `json:"input"`
	Type  string `json:"type"`
}

// PlagiarismHandler serves the plagiarism gateway endpoints.
type PlagiarismHandler struct {
	service *plagiarism.Service
	limiter *ratelimit.FixedWindow
}

// NewPlagiarismHandler builds a handler around a service and the limiter
// guarding /check.
func NewPlagiarismHandler(service *plagiarism.Service, limiter *ratelimit.FixedWindow) *PlagiarismHandler {
	return &PlagiarismHandler{service: service, limiter: limiter}
}

// RateLimit is the per-client limiter for /check.
func (h *PlagiarismHandler) RateLimit() gin.HandlerFunc {
	return middleware.RateLimit(h.limiter, func(c *gin.Context, _ ratelimit.Decision) {
		e := plagiarism.ErrRateLimited()
		c.JSON(e.Status, h.errorBody(e))
	})
}

// Check handles POST /easyPro/plagiarism/check
func (h *PlagiarismHandler) Check(c *gin.Context) {
	var req CheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("plagiarism check: bad body: %v", err)
		req = CheckRequest{}
	}

	resp, err := h.service.Check(c.Request.Context(), req.Input, req.Type)
	if err != nil {
		var e *plagiarism.Error
		if !errors.As(err, &e) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success":   false,
				"error":     "Processing failed",
				"message":   err.Error(),
				"timestamp": h.service.Timestamp(),
			})
			return
		}
		c.JSON(e.Status, h.errorBody(e))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health handles GET /easyPro/plagiarism/health
func (h *PlagiarismHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"status":         "healthy",
		"service":        "plagiarism-detection",
		"timestamp":      h.service.Timestamp(),
		"cache_size":     h.service.CacheSize(),
		"api_configured": h.service.APIConfigured(),
	})
}

// Stats handles GET /easyPro/plagiarism/stats
func (h *PlagiarismHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"cache_size":             h.service.CacheSize(),
		"cache_duration_minutes": int(h.service.CacheTTL().Minutes()),
		"rate_limit":             h.limiter.Describe(),
		"timestamp":              h.service.Timestamp(),
	})
}

func (h *PlagiarismHandler) errorBody(e *plagiarism.Error) gin.H {
	return gin.H{
		"success":   false,
		"error":     e.Label,
		"message":   e.Message,
		"timestamp": h.service.Timestamp(),
	}
}
