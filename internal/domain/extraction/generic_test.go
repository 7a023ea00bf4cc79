package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGeneric(t *testing.T) *GenericParser {
	t.Helper()
	p, err := NewGenericParser()
	require.NoError(t, err)
	return p
}

func TestGenericParser_CanParseEverything(t *testing.T) {
	p := newGeneric(t)

	assert.True(t, p.CanParse("totally unrecognized bank app"))
	assert.True(t, p.CanParse(""))
}

func TestGenericParser_LineScan(t *testing.T) {
	p := newGeneric(t)

	perks := p.ParseLines([]string{
		"Menu",
		"Starbucks",
		"Earn 20% back on coffee",
		"Expires 12/31/2025",
		"Target",
		"Save $5 on groceries",
	})

	require.Len(t, perks, 2)

	assert.Equal(t, "Starbucks", perks[0].Merchant)
	assert.Equal(t, "20%", perks[0].Value)
	assert.Equal(t, "12/31/2025", perks[0].Expiration)
	// Known alias plus a layout-pattern offer: 0.8 + 0.1 + 0.1, capped.
	assert.InDelta(t, 1.0, perks[0].Confidence, 0.001)

	assert.Equal(t, "Target", perks[1].Merchant)
	assert.Equal(t, "$5", perks[1].Value)
	assert.Empty(t, perks[1].Expiration)
	// Alias bonus only; "Save $5 on groceries" matches no layout pattern.
	assert.InDelta(t, 0.9, perks[1].Confidence, 0.001)
}

func TestGenericParser_DedupByMerchant(t *testing.T) {
	p := newGeneric(t)

	perks := p.ParseLines([]string{
		"Starbucks",
		"Earn 10% back",
		"STARBUCKS",
		"Earn 20% back",
	})

	require.Len(t, perks, 1)
	assert.Equal(t, "10%", perks[0].Value, "first occurrence wins")
}

func TestGenericParser_FirstExpirationWinsPerBlock(t *testing.T) {
	p := newGeneric(t)

	perks := p.ParseLines([]string{
		"Starbucks",
		"Earn 10% back",
		"Expires 01/01/2025",
		"Expires 02/02/2025",
	})

	require.Len(t, perks, 1)
	assert.Equal(t, "01/01/2025", perks[0].Expiration)
}

func TestGenericParser_EmptyAndNoiseInput(t *testing.T) {
	p := newGeneric(t)

	assert.Empty(t, p.ParseLines(nil))
	assert.Empty(t, p.ParseLines([]string{}))
	assert.Empty(t, p.ParseLines([]string{"4:36", "New", "All", "%%%", "1234"}))
}

func TestGenericParser_MerchantWithoutOfferNotEmitted(t *testing.T) {
	p := newGeneric(t)

	perks := p.ParseLines([]string{"Starbucks", "Target", "Walmart"})
	assert.Empty(t, perks)
}

func TestLineScan_ConfidenceFloor(t *testing.T) {
	cfg := genericConfig()
	scanner := lineScan{
		cfg:            cfg,
		aliases:        NewAliasEngine(cfg.MerchantAliases),
		baseConfidence: 0.5,
		floor:          0.7,
	}

	perks := scanner.run([]string{"Unknown Cafe", "Earn 10% back"})
	assert.Empty(t, perks, "perks below the floor are dropped")
}
