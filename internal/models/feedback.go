// Package models contains the data models for the application.
package models

import (
	"time"
)

// Comment represents a positioned feedback comment pinned to an image.
// X and Y are percentages of the image's rendered width and height at the
// moment the reviewer clicked, so the pin stays in place at any display size.
type Comment struct {
	ID        string    `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Image represents an uploaded image together with its ordered comment list.
type Image struct {
	ID              string    `json:"id"`
	OriginalName    string    `json:"originalName"`
	FilePath        string    `json:"filePath"`
	UploadTimestamp time.Time `json:"uploadTimestamp"`
	Comments        []Comment `json:"comments"`
}

// ImageSummary is the listing view of an Image, with comments omitted
// for payload economy.
type ImageSummary struct {
	ID              string    `json:"id"`
	OriginalName    string    `json:"originalName"`
	FilePath        string    `json:"filePath"`
	UploadTimestamp time.Time `json:"uploadTimestamp"`
}

// Summary returns the listing view of the image.
func (i *Image) Summary() ImageSummary {
	return ImageSummary{
		ID:              i.ID,
		OriginalName:    i.OriginalName,
		FilePath:        i.FilePath,
		UploadTimestamp: i.UploadTimestamp,
	}
}

// CreateCommentRequest represents the request body for creating a comment.
// X and Y are pointers so that an explicit 0 is distinguishable from an
// absent field.
type CreateCommentRequest struct {
	X    *float64 `json:"x" binding:"required"`
	Y    *float64 `json:"y" binding:"required"`
	Text string   `json:"text"`
}

// UploadResponse is returned after a successful image upload.
type UploadResponse struct {
	Message  string `json:"message"`
	ImageID  string `json:"imageId"`
	FilePath string `json:"filePath"`
}

// ErrorResponse represents an error response from the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
