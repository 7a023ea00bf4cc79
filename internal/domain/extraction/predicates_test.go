package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractOfferValue_Priority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"percent beats points", "Earn 20% back or 500 points", "20%"},
		{"percent beats dollar", "spend $30, earn 20% back", "20%"},
		{"points beat dollar", "spend $20, earn 500 points", "500 points"},
		{"dollar beats miles", "get $10 and 200 miles", "$10"},
		{"miles alone", "earn 500 miles on travel", "500 miles"},
		{"multiplied points", "5x points on dining", "5x points"},
		{"no value token", "great deals this week", ValueNone},
		{"empty input", "", ValueNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOfferValue(tt.text))
		})
	}
}

func TestIsExpirationLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Expires 12/31/2025", true},
		{"Valid through 11/2025", true},
		{"Offer valid until 1/5/26", true},
		{"Expires soon", false},            // signal without date
		{"12/31/2025", false},              // date without signal
		{"Earn 20% back on purchases", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpirationLine(tt.line))
		})
	}
}

func TestExtractExpiration_Verbatim(t *testing.T) {
	assert.Equal(t, "12/31/2025", ExtractExpiration("Expires 12/31/2025"))
	assert.Equal(t, "11/2025", ExtractExpiration("Valid through 11/2025"))
	assert.Equal(t, "1/5/26", ExtractExpiration("until 1/5/26"))
	assert.Empty(t, ExtractExpiration("no date here"))
}

func TestCleanMerchantName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  Shake* Shack!! ", "Shake Shack"},
		{"Trader Joe's & Co.", "Trader Joe's & Co."},
		{"Wal-Mart", "Wal-Mart"},
		{"Star\tbucks", "Star bucks"},
		{"[Turo]", "Turo"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanMerchantName(tt.raw))
	}
}

func TestNavigationAndSkipPredicates(t *testing.T) {
	cfg := genericConfig()

	assert.True(t, IsNavigationElement("See all offers", cfg))
	assert.True(t, IsNavigationElement("ADD TO CARD", cfg))
	assert.False(t, IsNavigationElement("Shake Shack", cfg))

	for _, line := range []string{"4:36", "New", "All", "Menu", "9:41 AM", "1234", "***"} {
		assert.True(t, IsSkipLine(line, cfg), "expected skip: %q", line)
	}
	assert.False(t, IsSkipLine("Earn 20% back", cfg))
}

func TestContainsOfferKeywords(t *testing.T) {
	cfg := genericConfig()

	assert.True(t, ContainsOfferKeywords("Earn 20% back on coffee", cfg))
	assert.True(t, ContainsOfferKeywords("SAVE $5 today", cfg))
	assert.False(t, ContainsOfferKeywords("Shake Shack", cfg))
}
