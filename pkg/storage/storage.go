// Package storage keeps the source screenshots that perk extraction ran on,
// so low-confidence results can be re-checked against the original image.
package storage

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// CaptureInfo contains metadata about a stored screen capture
type CaptureInfo struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"` // Internal storage path
	CreatedAt   time.Time `json:"created_at"`
}

// Storage defines the interface for screen capture storage operations
type Storage interface {
	// Save stores a capture image and returns its metadata
	Save(ctx context.Context, cardID uuid.UUID, filename string, contentType string, r io.Reader) (*CaptureInfo, error)

	// Open retrieves a capture by its ID
	Open(ctx context.Context, cardID uuid.UUID, captureID uuid.UUID) (io.ReadCloser, *CaptureInfo, error)

	// Delete removes a capture by its ID
	Delete(ctx context.Context, cardID uuid.UUID, captureID uuid.UUID) error

	// List returns all captures stored for a card
	List(ctx context.Context, cardID uuid.UUID) ([]*CaptureInfo, error)

	// DeleteOlderThan removes captures created before the cutoff, across all
	// cards, and returns how many were removed. Used by the retention job.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
