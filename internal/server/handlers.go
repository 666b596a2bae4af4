package server

import (
	"errors"
	"net/http"

	"github.com/ButyrinIA/portfolio/internal/blog"
	"github.com/ButyrinIA/portfolio/internal/middlewares"
	"github.com/ButyrinIA/portfolio/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (s *Server) listPosts(c *gin.Context) {
	posts, err := s.blog.ListPosts(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Database query failed")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (s *Server) getPost(c *gin.Context) {
	post, err := s.blog.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Database query failed")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) recordView(c *gin.Context) {
	post, err := s.blog.GetPostAndRecordView(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Database query failed")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (s *Server) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	msg, err := s.blog.SubmitContact(c.Request.Context(), req.Name, req.Email, req.Message)
	if err != nil {
		s.fail(c, err, "Failed to save message. Please try again later.")
		return
	}

	log.WithFields(log.Fields{
		"request_id": c.GetString(middlewares.RequestIDKey),
		"message_id": msg.ID,
	}).Info("contact message saved")

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"messageId":   msg.ID,
		"submittedAt": msg.SubmittedAt,
		"message":     "Thank you for your message! I'll get back to you soon.",
	})
}

func (s *Server) health(c *gin.Context) {
	if err := s.blog.Ping(c.Request.Context()); err != nil {
		log.WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail отображает ошибки сервиса в HTTP-ответы; internalMsg отдается при 500
func (s *Server) fail(c *gin.Context, err error, internalMsg string) {
	var verr *blog.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, blog.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	default:
		_ = c.Error(err)
		log.WithFields(log.Fields{
			"request_id": c.GetString(middlewares.RequestIDKey),
			"path":       c.FullPath(),
		}).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
