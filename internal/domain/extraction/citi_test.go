package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCiti(t *testing.T) *CitiParser {
	t.Helper()
	p, err := NewCitiParser()
	require.NoError(t, err)
	return p
}

func TestCitiParser_CanParse(t *testing.T) {
	p := newCiti(t)

	assert.True(t, p.CanParse("Citi ThankYou Rewards"))
	assert.True(t, p.CanParse("your merchant offers are ready"))
	assert.False(t, p.CanParse("Chase Ultimate Rewards"))
}

func TestCitiParser_CategoryAliases(t *testing.T) {
	p := newCiti(t)

	perks := p.ParseLines([]string{
		"Gas Stations",
		"Earn 5% back on fuel purchases",
		"Valid through 11/2025",
		"Restaurants",
		"Earn 3 ThankYou Points per $1",
	})

	require.Len(t, perks, 2)

	assert.Equal(t, "Gas Stations", perks[0].Merchant)
	assert.Equal(t, "5%", perks[0].Value)
	// Stored verbatim, no normalization.
	assert.Equal(t, "11/2025", perks[0].Expiration)
	assert.InDelta(t, citiConfidence, perks[0].Confidence, 0.001)

	assert.Equal(t, "Restaurants", perks[1].Merchant)
	assert.InDelta(t, citiConfidence, perks[1].Confidence, 0.001)
}

func TestCitiParser_FixedConfidenceNoPostFilter(t *testing.T) {
	p := newCiti(t)

	perks := p.ParseLines([]string{
		"Home Depot",
		"Spend $100, earn $10 back",
	})

	require.Len(t, perks, 1)
	assert.InDelta(t, citiConfidence, perks[0].Confidence, 0.001)
}

func TestCitiParser_EmptyInput(t *testing.T) {
	p := newCiti(t)
	assert.Empty(t, p.ParseLines(nil))
}
