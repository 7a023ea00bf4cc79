package perks

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"
)

// PerkDocument is the searchable projection of a stored perk.
type PerkDocument struct {
	ID          string  `json:"id"`
	Merchant    string  `json:"merchant"`
	Description string  `json:"description"`
	Value       string  `json:"value"`
	Issuer      string  `json:"issuer"`
	Confidence  float64 `json:"confidence"`
}

// PerkMatch is one search hit with its relevance score.
type PerkMatch struct {
	Document PerkDocument
	Score    float64
}

// SearchIndex is an in-memory Bleve full-text index over stored perks,
// backing the UI's merchant lookup box. Typo tolerance comes from the match
// query's fuzziness, which suits OCR-derived merchant names well.
type SearchIndex struct {
	index bleve.Index
	mu    sync.RWMutex
}

// NewSearchIndex creates an in-memory perk index.
func NewSearchIndex() (*SearchIndex, error) {
	index, err := bleve.NewMemOnly(buildPerkMapping())
	if err != nil {
		return nil, fmt.Errorf("create perk index: %w", err)
	}
	return &SearchIndex{index: index}, nil
}

func buildPerkMapping() mapping.IndexMapping {
	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = simple.Name

	keywordField := bleve.NewTextFieldMapping()
	keywordField.Analyzer = keyword.Name

	numericField := bleve.NewNumericFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("merchant", textField)
	doc.AddFieldMappingsAt("description", textField)
	doc.AddFieldMappingsAt("value", keywordField)
	doc.AddFieldMappingsAt("issuer", keywordField)
	doc.AddFieldMappingsAt("confidence", numericField)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = simple.Name
	return m
}

// IndexPerks adds stored perks to the index in one batch.
func (si *SearchIndex) IndexPerks(perks []StoredPerk) error {
	si.mu.Lock()
	defer si.mu.Unlock()

	batch := si.index.NewBatch()
	for _, p := range perks {
		doc := PerkDocument{
			ID:          p.ID.String(),
			Merchant:    p.Merchant,
			Description: p.Description,
			Value:       p.Value,
			Issuer:      p.Issuer,
			Confidence:  p.Confidence,
		}
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("index perk %s: %w", doc.ID, err)
		}
	}

	if err := si.index.Batch(batch); err != nil {
		return fmt.Errorf("batch index perks: %w", err)
	}
	return nil
}

// Search finds perks matching the query, typo-tolerantly.
func (si *SearchIndex) Search(query string, limit int) ([]PerkMatch, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()

	if limit <= 0 {
		limit = 10
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetFuzziness(1)

	req := bleve.NewSearchRequest(matchQuery)
	req.Size = limit
	req.Fields = []string{"*"}

	res, err := si.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("perk search: %w", err)
	}

	matches := make([]PerkMatch, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc := PerkDocument{ID: hit.ID}
		if v, ok := hit.Fields["merchant"].(string); ok {
			doc.Merchant = v
		}
		if v, ok := hit.Fields["description"].(string); ok {
			doc.Description = v
		}
		if v, ok := hit.Fields["value"].(string); ok {
			doc.Value = v
		}
		if v, ok := hit.Fields["issuer"].(string); ok {
			doc.Issuer = v
		}
		if v, ok := hit.Fields["confidence"].(float64); ok {
			doc.Confidence = v
		}
		matches = append(matches, PerkMatch{Document: doc, Score: hit.Score})
	}
	return matches, nil
}

// DocumentCount returns the number of indexed perks.
func (si *SearchIndex) DocumentCount() (uint64, error) {
	si.mu.RLock()
	defer si.mu.RUnlock()
	return si.index.DocCount()
}

// Close releases the index.
func (si *SearchIndex) Close() error {
	si.mu.Lock()
	defer si.mu.Unlock()
	return si.index.Close()
}
