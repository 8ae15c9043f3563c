package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/visual-feedback/backend/internal/models"
)

func testDocument() *Document {
	now := time.Now().UTC().Truncate(time.Second)

	return &Document{
		Images: map[string]models.Image{
			"img-1": {
				ID:              "img-1",
				OriginalName:    "cat.png",
				FilePath:        "/uploads/img-1.png",
				UploadTimestamp: now,
				Comments: []models.Comment{
					{ID: "c-1", X: 50.0, Y: 25.5, Text: "nice cat", Timestamp: now},
				},
			},
			"img-2": {
				ID:              "img-2",
				OriginalName:    "dog.jpg",
				FilePath:        "/uploads/img-2.jpg",
				UploadTimestamp: now,
				Comments:        []models.Comment{},
			},
		},
	}
}

func TestNewFileStore_InitializesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	s, err := NewFileStore(path, zap.NewNop())
	assert.NoError(t, err)

	// The file exists and holds an empty mapping
	_, err = os.Stat(path)
	assert.NoError(t, err)

	doc, err := s.Load(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, doc.Images)
	assert.Empty(t, doc.Images)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := NewFileStore(path, zap.NewNop())
	assert.NoError(t, err)

	original := testDocument()
	err = s.Save(context.Background(), original)
	assert.NoError(t, err)

	loaded, err := s.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestFileStore_ReserializeIsStructurallyEqual(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := NewFileStore(path, zap.NewNop())
	assert.NoError(t, err)

	original := testDocument()
	err = s.Save(context.Background(), original)
	assert.NoError(t, err)

	firstBytes, err := os.ReadFile(path)
	assert.NoError(t, err)

	loaded, err := s.Load(context.Background())
	assert.NoError(t, err)

	secondBytes, err := json.Marshal(loaded)
	assert.NoError(t, err)

	assert.JSONEq(t, string(firstBytes), string(secondBytes))
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	err := os.WriteFile(path, []byte("{not json"), 0o644)
	assert.NoError(t, err)

	s := &FileStore{path: path, logger: zap.NewNop()}
	_, err = s.Load(context.Background())
	assert.Error(t, err)
}

func TestFileStore_LoadNilImagesMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	err := os.WriteFile(path, []byte(`{}`), 0o644)
	assert.NoError(t, err)

	s := &FileStore{path: path, logger: zap.NewNop()}
	doc, err := s.Load(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, doc.Images)
}
