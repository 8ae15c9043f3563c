// Package handler provides the HTTP handlers for the feedback API.
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/cache"
	"github.com/visual-feedback/backend/internal/config"
	"github.com/visual-feedback/backend/internal/models"
	"github.com/visual-feedback/backend/internal/repository"
)

// Handler provides HTTP handlers for image and comment operations.
type Handler struct {
	repo   repository.Repository
	cache  cache.Cache
	cfg    *config.Config
	logger *zap.Logger
}

// NewHandler creates a new feedback handler.
func NewHandler(repo repository.Repository, cache cache.Cache, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		repo:   repo,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// RegisterRoutes registers the API routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/images", h.ListImages)
	rg.GET("/comments/:imageId", h.ListComments)
	rg.POST("/comments/:imageId", h.CreateComment)
	rg.POST("/upload", h.Upload)
}

// ListImages handles retrieving the listing view of all images.
func (h *Handler) ListImages(c *gin.Context) {
	ctx := c.Request.Context()

	// Try cache first
	images, found, err := h.cache.GetImages(ctx)
	if err == nil && found {
		h.logger.Debug("Returning cached image listing")
		c.JSON(http.StatusOK, images)
		return
	}

	// Cache miss, read the store
	images, err = h.repo.ListImages(ctx)
	if err != nil {
		h.logger.Error("Failed to list images", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to read image data",
		})
		return
	}

	// Update cache
	_ = h.cache.SetImages(ctx, images)

	c.JSON(http.StatusOK, images)
}

// ListComments handles retrieving the comments of a single image.
func (h *Handler) ListComments(c *gin.Context) {
	imageID := c.Param("imageId")
	ctx := c.Request.Context()

	// Try cache first
	comments, found, err := h.cache.GetComments(ctx, imageID)
	if err == nil && found {
		h.logger.Debug("Returning cached comments", zap.String("imageId", imageID))
		c.JSON(http.StatusOK, comments)
		return
	}

	// Cache miss, read the store
	comments, err = h.repo.ListComments(ctx, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "image not found",
			})
			return
		}

		h.logger.Error("Failed to list comments", zap.String("imageId", imageID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to read comment data",
		})
		return
	}

	// Update cache
	_ = h.cache.SetComments(ctx, imageID, comments)

	c.JSON(http.StatusOK, comments)
}

// CreateComment handles appending a new positioned comment to an image.
func (h *Handler) CreateComment(c *gin.Context) {
	imageID := c.Param("imageId")

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid comment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid comment data (x, y, text required)",
		})
		return
	}

	// Coordinates are percentages of the rendered image; 0 is legal.
	if *req.X < 0 || *req.X > 100 || *req.Y < 0 || *req.Y > 100 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "x and y must be within [0, 100]",
		})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "comment text must not be empty",
		})
		return
	}

	ctx := c.Request.Context()
	comment, err := h.repo.AppendComment(ctx, imageID, *req.X, *req.Y, text)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error:   "not_found",
				Message: "image not found",
			})
			return
		}

		h.logger.Error("Failed to append comment", zap.String("imageId", imageID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to save comment",
		})
		return
	}

	// The stored comment list changed
	_ = h.cache.InvalidateComments(ctx, imageID)

	c.JSON(http.StatusCreated, comment)
}
