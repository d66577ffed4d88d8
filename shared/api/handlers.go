package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"creator-stack/internal/models"
	"creator-stack/shared/ai"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type contentRequest struct {
	ContentType string `json:"content_type" binding:"required"`
	Prompt      string `json:"prompt"`
}

func (s *Server) generateContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body", err)
		return
	}

	category, err := models.ParseCategory(req.ContentType)
	if err != nil {
		s.badRequest(c, "unknown content type", err)
		return
	}

	result, err := s.pipeline.GenerateContent(c.Request.Context(), models.GenerationRequest{
		Category: category,
		Prompt:   req.Prompt,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":    result.Value,
		"provenance": result.Provenance,
	})
}

func (s *Server) analyzeVideos(c *gin.Context) {
	var req models.VideoAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.badRequest(c, "invalid request body", err)
		return
	}

	result, err := s.pipeline.AnalyzeVideos(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis":   result.Value,
		"provenance": result.Provenance,
	})
}

func (s *Server) testConnection(c *gin.Context) {
	if err := s.pipeline.TestConnection(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (s *Server) status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "running",
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}

func (s *Server) badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      message,
		"details":    err.Error(),
		"request_id": c.GetString(requestIDHeader),
	})
}

// fail maps pipeline errors onto HTTP statuses. Extraction failures carry the
// raw completion so the caller can show it.
func (s *Server) fail(c *gin.Context, err error) {
	body := gin.H{
		"error":      err.Error(),
		"request_id": c.GetString(requestIDHeader),
	}

	var (
		status        int
		extractionErr *ai.ExtractionError
		transportErr  *ai.TransportError
	)
	switch {
	case errors.Is(err, ai.ErrEmptyPrompt), ai.IsConfigurationError(err):
		status = http.StatusBadRequest
	case errors.As(err, &extractionErr):
		status = http.StatusUnprocessableEntity
		body["raw"] = extractionErr.Raw
	case errors.As(err, &transportErr) && transportErr.Timeout:
		status = http.StatusGatewayTimeout
	case errors.As(err, &transportErr), ai.IsEmptyResponse(err):
		status = http.StatusBadGateway
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusRequestTimeout
	default:
		status = http.StatusInternalServerError
	}
	body["retryable"] = ai.IsRetryable(err)

	s.log.Warn("Generation request failed",
		zap.Int("status", status),
		zap.String("request_id", c.GetString(requestIDHeader)),
		zap.Error(err))
	c.JSON(status, body)
}
