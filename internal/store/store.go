// Package store provides the JSON document persistence for the application.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/models"
)

// Document is the entire persisted state: a mapping of image id to image
// record. It is read and rewritten wholesale on every mutation.
type Document struct {
	Images map[string]models.Image `json:"images"`
}

// NewDocument returns an empty store document.
func NewDocument() *Document {
	return &Document{Images: map[string]models.Image{}}
}

// Store defines the narrow load/save interface over the document, so the
// whole-document model can later be swapped for a transactional store
// without touching callers.
type Store interface {
	// Load reads the full document from disk. A missing file yields an
	// empty document.
	Load(ctx context.Context) (*Document, error)

	// Save writes the full document to disk, replacing the previous one.
	Save(ctx context.Context, doc *Document) error
}

// FileStore implements Store using a single JSON file on disk.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore creates a file-backed store. If the file does not exist yet
// it is initialized with an empty document.
func NewFileStore(path string, logger *zap.Logger) (*FileStore, error) {
	s := &FileStore{
		path:   path,
		logger: logger,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.Save(context.Background(), NewDocument()); err != nil {
			return nil, fmt.Errorf("failed to initialize store file: %w", err)
		}
		logger.Info("Initialized empty store document", zap.String("path", path))
	}

	return s, nil
}

// Load reads and parses the document file.
func (s *FileStore) Load(ctx context.Context) (*Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewDocument(), nil
	}
	if err != nil {
		s.logger.Error("Failed to read store file", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Error("Failed to parse store file", zap.String("path", s.path), zap.Error(err))
		return nil, fmt.Errorf("failed to parse store file: %w", err)
	}

	if doc.Images == nil {
		doc.Images = map[string]models.Image{}
	}

	return &doc, nil
}

// Save serializes and writes the document file.
func (s *FileStore) Save(ctx context.Context, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize store document: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Error("Failed to write store file", zap.String("path", s.path), zap.Error(err))
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}
