package perks

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/card-perks/internal/domain/extraction"
)

// PerkStore is the persistence surface the service depends on.
type PerkStore interface {
	SavePerks(ctx context.Context, cardID uuid.UUID, issuer string, perks []extraction.ExtractedPerk) ([]StoredPerk, error)
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]StoredPerk, error)
}

// CaptureResult is the outcome of processing one screen capture.
type CaptureResult struct {
	Issuer string
	Perks  []StoredPerk
}

// Service runs the extraction pipeline for a screen capture and persists and
// indexes what comes out. The extraction registry is pure and shared; all
// side effects happen here.
type Service struct {
	registry *extraction.Registry
	store    PerkStore
	index    *SearchIndex
	logger   *slog.Logger
}

// NewService creates the perk service.
func NewService(registry *extraction.Registry, store PerkStore, index *SearchIndex, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		store:    store,
		index:    index,
		logger:   logger,
	}
}

// ProcessCapture dispatches the capture's OCR lines to the matching issuer
// parser, persists the extracted perks and feeds the search index. An empty
// extraction is not an error; garbled screens simply store nothing.
func (s *Service) ProcessCapture(ctx context.Context, cardID uuid.UUID, lines []string) (*CaptureResult, error) {
	parser := s.registry.SelectForLines(lines)
	extracted := parser.ParseLines(lines)

	s.logger.Info("processed screen capture",
		slog.String("issuer", parser.Name()),
		slog.String("card_id", cardID.String()),
		slog.Int("lines", len(lines)),
		slog.Int("perks", len(extracted)),
	)

	result := &CaptureResult{Issuer: parser.Name()}
	if len(extracted) == 0 {
		return result, nil
	}

	stored, err := s.store.SavePerks(ctx, cardID, parser.Name(), extracted)
	if err != nil {
		return nil, fmt.Errorf("save extracted perks: %w", err)
	}
	result.Perks = stored

	// Indexing is best effort; a search miss is recoverable, a lost perk is not.
	if err := s.index.IndexPerks(stored); err != nil {
		s.logger.Warn("failed to index perks", slog.String("error", err.Error()))
	}

	return result, nil
}

// SearchPerks answers the UI lookup box from the in-memory index.
func (s *Service) SearchPerks(query string, limit int) ([]PerkMatch, error) {
	return s.index.Search(query, limit)
}

// ExportCard writes a card's stored perks as CSV.
func (s *Service) ExportCard(ctx context.Context, cardID uuid.UUID, w io.Writer) error {
	perks, err := s.store.ListByCard(ctx, cardID)
	if err != nil {
		return fmt.Errorf("load perks for export: %w", err)
	}
	return WriteCSV(w, perks)
}
