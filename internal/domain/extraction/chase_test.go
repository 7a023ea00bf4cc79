package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChase(t *testing.T) *ChaseParser {
	t.Helper()
	p, err := NewChaseParser()
	require.NoError(t, err)
	return p
}

func TestChaseParser_CanParse(t *testing.T) {
	p := newChase(t)

	assert.True(t, p.CanParse("Chase Ultimate Rewards"))
	assert.True(t, p.CanParse("CHASE OFFERS"))
	assert.False(t, p.CanParse("Citi ThankYou"))
}

func TestChaseParser_MultiMerchantCooccurrence(t *testing.T) {
	p := newChase(t)

	perks := p.ParseLines([]string{
		"fuboTV ... Event Tickets Center ... Turo",
		"5% cash back",
		"Turo", // later repeat must not duplicate
	})

	require.Len(t, perks, 3)

	merchants := []string{perks[0].Merchant, perks[1].Merchant, perks[2].Merchant}
	assert.Equal(t, []string{"fuboTV", "Event Tickets Center", "Turo"}, merchants)

	for _, perk := range perks {
		assert.InDelta(t, chaseConfidence, perk.Confidence, 0.001)
		// Proximity search picks up the shared cash-back line.
		assert.Equal(t, "5%", perk.Value)
	}
}

func TestChaseParser_ProximityWindow(t *testing.T) {
	p := newChase(t)

	perks := p.ParseLines([]string{
		"Starbucks",
		"5% cash back",
		"12d left",
	})

	require.Len(t, perks, 1)
	assert.Equal(t, "Starbucks", perks[0].Merchant)
	assert.Equal(t, "5%", perks[0].Value)
	// Day countdowns stay verbatim.
	assert.Equal(t, "12d left", perks[0].Expiration)
}

func TestChaseParser_ValueOutsideWindowIgnored(t *testing.T) {
	p := newChase(t)

	perks := p.ParseLines([]string{
		"Turo",
		"filler one 1/1",
		"filler two 2/2",
		"filler three 3/3",
		"filler four 4/4",
		"$15 cash back", // five lines below the merchant
	})

	require.NotEmpty(t, perks)
	assert.Equal(t, "Turo", perks[0].Merchant)
	assert.Equal(t, ValueNone, perks[0].Value)
}

func TestChaseParser_FuzzyOCRMerchant(t *testing.T) {
	p := newChase(t)

	perks := p.ParseLines([]string{
		"5tarbucks",
		"$10 cash back",
	})

	require.Len(t, perks, 1)
	assert.Equal(t, "Starbucks", perks[0].Merchant)
	assert.Equal(t, "$10", perks[0].Value)
}

func TestChaseParser_FallbackNameShape(t *testing.T) {
	p := newChase(t)

	perks := p.ParseLines([]string{
		"Blue Bottle",
		"3% cash back",
	})

	require.Len(t, perks, 1)
	assert.Equal(t, "Blue Bottle", perks[0].Merchant)
}

func TestChaseParser_NavigationNeverBecomesMerchant(t *testing.T) {
	p := newChase(t)

	perks := p.ParseLines([]string{"4:36", "New", "All"})
	assert.Empty(t, perks)
}

func TestChaseParser_Idempotent(t *testing.T) {
	p := newChase(t)
	lines := []string{
		"fuboTV ... Event Tickets Center ... Turo",
		"5% cash back",
		"Starbucks",
		"12d left",
	}

	first := p.ParseLines(lines)
	second := p.ParseLines(lines)
	assert.Equal(t, first, second)
}
