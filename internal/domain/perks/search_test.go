package perks

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	index, err := NewSearchIndex()
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func seedIndex(t *testing.T, index *SearchIndex) {
	t.Helper()
	require.NoError(t, index.IndexPerks([]StoredPerk{
		{ID: uuid.New(), Merchant: "Starbucks", Description: "Get 10% off your purchase", Value: "10%", Issuer: "generic", Confidence: 0.9},
		{ID: uuid.New(), Merchant: "Shake Shack", Description: "Earn 20% back on purchases", Value: "20%", Issuer: "amex", Confidence: 0.85},
		{ID: uuid.New(), Merchant: "Home Depot", Description: "5% back on purchases", Value: "5%", Issuer: "citi", Confidence: 0.9},
	}))
}

func TestSearchIndex_Search(t *testing.T) {
	index := newTestIndex(t)
	seedIndex(t, index)

	matches, err := index.Search("starbucks", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Starbucks", matches[0].Document.Merchant)
	assert.Equal(t, "10%", matches[0].Document.Value)
	assert.Greater(t, matches[0].Score, 0.0)
}

func TestSearchIndex_SearchIsTypoTolerant(t *testing.T) {
	index := newTestIndex(t)
	seedIndex(t, index)

	// One edit away, the way OCR output usually is.
	matches, err := index.Search("starbucke", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Starbucks", matches[0].Document.Merchant)
}

func TestSearchIndex_SearchLimit(t *testing.T) {
	index := newTestIndex(t)
	seedIndex(t, index)

	matches, err := index.Search("purchases", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearchIndex_SearchNoResults(t *testing.T) {
	index := newTestIndex(t)
	seedIndex(t, index)

	matches, err := index.Search("zzzzzzzz", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchIndex_DocumentCount(t *testing.T) {
	index := newTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	seedIndex(t, index)

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}
