package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LocalStorage implements Storage using the local filesystem. Captures live
// under <base>/<cardID>/ with JSON sidecar metadata in a .meta subdirectory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local filesystem capture store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: basePath}, nil
}

// Save stores a capture image and returns its metadata
func (s *LocalStorage) Save(ctx context.Context, cardID uuid.UUID, filename string, contentType string, r io.Reader) (*CaptureInfo, error) {
	captureID := uuid.New()

	cardDir := filepath.Join(s.basePath, cardID.String())
	if err := os.MkdirAll(cardDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create card directory: %w", err)
	}

	// Sanitize filename and add UUID prefix for uniqueness
	safeFilename := sanitizeFilename(filename)
	storedFilename := fmt.Sprintf("%s_%s", captureID.String()[:8], safeFilename)
	filePath := filepath.Join(cardDir, storedFilename)

	f, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	info := &CaptureInfo{
		ID:          captureID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		Path:        storedFilename,
		CreatedAt:   time.Now(),
	}

	if err := s.saveMetadata(cardID, captureID, info); err != nil {
		os.Remove(filePath) // Cleanup on error
		return nil, err
	}

	return info, nil
}

// Open retrieves a capture by its ID
func (s *LocalStorage) Open(ctx context.Context, cardID uuid.UUID, captureID uuid.UUID) (io.ReadCloser, *CaptureInfo, error) {
	info, err := s.getInfo(cardID, captureID)
	if err != nil {
		return nil, nil, err
	}

	filePath := filepath.Join(s.basePath, cardID.String(), info.Path)
	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open capture: %w", err)
	}

	return f, info, nil
}

// Delete removes a capture by its ID
func (s *LocalStorage) Delete(ctx context.Context, cardID uuid.UUID, captureID uuid.UUID) error {
	info, err := s.getInfo(cardID, captureID)
	if err != nil {
		return err
	}

	filePath := filepath.Join(s.basePath, cardID.String(), info.Path)
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete capture: %w", err)
	}

	metaPath := filepath.Join(s.basePath, cardID.String(), ".meta", captureID.String()+".json")
	os.Remove(metaPath)

	return nil
}

// List returns all captures stored for a card
func (s *LocalStorage) List(ctx context.Context, cardID uuid.UUID) ([]*CaptureInfo, error) {
	metaDir := filepath.Join(s.basePath, cardID.String(), ".meta")
	if _, err := os.Stat(metaDir); os.IsNotExist(err) {
		return []*CaptureInfo{}, nil
	}

	entries, err := os.ReadDir(metaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata: %w", err)
	}

	captures := make([]*CaptureInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id, err := uuid.Parse(strings.TrimSuffix(entry.Name(), ".json"))
		if err != nil {
			continue
		}

		info, err := s.getInfo(cardID, id)
		if err != nil {
			continue
		}
		captures = append(captures, info)
	}

	return captures, nil
}

// DeleteOlderThan removes captures created before the cutoff across all cards.
func (s *LocalStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return 0, fmt.Errorf("failed to list storage root: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		cardID, err := uuid.Parse(entry.Name())
		if err != nil {
			continue
		}

		captures, err := s.List(ctx, cardID)
		if err != nil {
			return removed, err
		}
		for _, info := range captures {
			if !info.CreatedAt.Before(cutoff) {
				continue
			}
			if err := s.Delete(ctx, cardID, info.ID); err != nil {
				return removed, err
			}
			removed++
		}
	}

	return removed, nil
}

// getInfo reads a capture's sidecar metadata
func (s *LocalStorage) getInfo(cardID, captureID uuid.UUID) (*CaptureInfo, error) {
	metaPath := filepath.Join(s.basePath, cardID.String(), ".meta", captureID.String()+".json")

	data, err := os.ReadFile(metaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("capture not found: %s", captureID)
		}
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}

	var info CaptureInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &info, nil
}

// saveMetadata saves capture metadata to a JSON sidecar file
func (s *LocalStorage) saveMetadata(cardID, captureID uuid.UUID, info *CaptureInfo) error {
	metaDir := filepath.Join(s.basePath, cardID.String(), ".meta")
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	metaPath := filepath.Join(metaDir, captureID.String()+".json")
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	if err := os.WriteFile(metaPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// sanitizeFilename removes unsafe characters from filenames
func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		"..", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)
	return replacer.Replace(name)
}
