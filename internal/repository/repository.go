// Package repository provides the domain operations over the store document.
package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/models"
	"github.com/visual-feedback/backend/internal/store"
)

// ErrImageNotFound is returned when the requested image id is not in the store.
var ErrImageNotFound = errors.New("image not found")

// Repository defines the interface for image and comment data operations.
//
// Every mutation is a full load, in-memory change, full save of the store
// document. Two concurrent writers can lose an update; that is an accepted
// limitation of the whole-document model.
type Repository interface {
	// ListImages retrieves the listing view of all images, newest first.
	ListImages(ctx context.Context) ([]models.ImageSummary, error)

	// CreateImage inserts a new image record with an empty comment list.
	CreateImage(ctx context.Context, id, originalName, filePath string) (*models.Image, error)

	// ListComments retrieves the comments of an image in stored order.
	ListComments(ctx context.Context, imageID string) ([]models.Comment, error)

	// AppendComment appends a new comment to an image and returns it with
	// its server-assigned id and timestamp.
	AppendComment(ctx context.Context, imageID string, x, y float64, text string) (*models.Comment, error)
}

// DocumentRepository implements Repository on top of a whole-document Store.
type DocumentRepository struct {
	store  store.Store
	logger *zap.Logger
}

// New creates a repository over the given store.
func New(s store.Store, logger *zap.Logger) *DocumentRepository {
	return &DocumentRepository{
		store:  s,
		logger: logger,
	}
}

// ListImages retrieves the listing view of all images, newest first.
func (r *DocumentRepository) ListImages(ctx context.Context) ([]models.ImageSummary, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	summaries := make([]models.ImageSummary, 0, len(doc.Images))
	for _, img := range doc.Images {
		summaries = append(summaries, img.Summary())
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].UploadTimestamp.After(summaries[j].UploadTimestamp)
	})

	return summaries, nil
}

// CreateImage inserts a new image record with an empty comment list.
func (r *DocumentRepository) CreateImage(ctx context.Context, id, originalName, filePath string) (*models.Image, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	img := models.Image{
		ID:              id,
		OriginalName:    originalName,
		FilePath:        filePath,
		UploadTimestamp: time.Now().UTC(),
		Comments:        []models.Comment{},
	}

	doc.Images[id] = img
	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to create image: %w", err)
	}

	r.logger.Info("Created image", zap.String("id", id), zap.String("originalName", originalName))
	return &img, nil
}

// ListComments retrieves the comments of an image in stored order.
func (r *DocumentRepository) ListComments(ctx context.Context, imageID string) ([]models.Comment, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	img, ok := doc.Images[imageID]
	if !ok {
		return nil, ErrImageNotFound
	}

	if img.Comments == nil {
		return []models.Comment{}, nil
	}
	return img.Comments, nil
}

// AppendComment appends a new comment to an image.
func (r *DocumentRepository) AppendComment(ctx context.Context, imageID string, x, y float64, text string) (*models.Comment, error) {
	doc, err := r.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}

	img, ok := doc.Images[imageID]
	if !ok {
		return nil, ErrImageNotFound
	}

	comment := models.Comment{
		ID:        uuid.New().String(),
		X:         x,
		Y:         y,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}

	img.Comments = append(img.Comments, comment)
	doc.Images[imageID] = img

	if err := r.store.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to append comment: %w", err)
	}

	r.logger.Info("Appended comment",
		zap.String("imageId", imageID),
		zap.String("commentId", comment.ID),
	)
	return &comment, nil
}
