package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/models"
)

// uploadFieldName is the multipart form field holding the image file.
const uploadFieldName = "imageFile"

// Upload handles a single image upload. The stored filename is a fresh
// unique stem plus the original extension; the stem doubles as the image id.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile(uploadFieldName)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "upload_rejected",
			Message: "no file uploaded",
		})
		return
	}

	if file.Size > h.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "upload_rejected",
			Message: "file exceeds the upload size limit",
		})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "upload_rejected",
			Message: "only image files are allowed",
		})
		return
	}

	imageID := uuid.New().String()
	filename := imageID + filepath.Ext(file.Filename)
	dst := filepath.Join(h.cfg.UploadsDir, filename)

	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.logger.Error("Failed to store uploaded file", zap.String("dst", dst), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to store uploaded file",
		})
		return
	}

	ctx := c.Request.Context()
	img, err := h.repo.CreateImage(ctx, imageID, file.Filename, "/uploads/"+filename)
	if err != nil {
		h.logger.Error("Failed to record uploaded image", zap.String("id", imageID), zap.Error(err))

		// The binary is orphaned without a store record; remove it best-effort.
		if rmErr := os.Remove(dst); rmErr != nil {
			h.logger.Warn("Failed to delete orphaned upload", zap.String("dst", dst), zap.Error(rmErr))
		}

		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "internal_error",
			Message: "failed to record uploaded image",
		})
		return
	}

	// The stored image listing changed
	_ = h.cache.InvalidateImages(ctx)

	h.logger.Info("Uploaded image",
		zap.String("id", img.ID),
		zap.String("originalName", img.OriginalName),
	)

	c.JSON(http.StatusCreated, models.UploadResponse{
		Message:  "File uploaded successfully!",
		ImageID:  img.ID,
		FilePath: img.FilePath,
	})
}
