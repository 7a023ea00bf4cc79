package perks

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	perks := []StoredPerk{
		{Merchant: "Starbucks", Value: "10%", Expiration: "12/31/2025", Description: "Get 10% off your purchase", Confidence: 0.9, Issuer: "generic"},
		{Merchant: "Shake Shack", Value: "20%", Expiration: "02/14/2025", Description: "Earn 20% back, up to $9", Confidence: 0.85, Issuer: "amex"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, perks))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per perk")

	assert.Equal(t, []string{"merchant", "value", "expiration", "description", "confidence", "issuer"}, records[0])
	assert.Equal(t, "Starbucks", records[1][0])
	assert.Equal(t, "10%", records[1][1])
	// Commas inside descriptions survive quoting.
	assert.Equal(t, "Earn 20% back, up to $9", records[2][3])
	assert.Equal(t, "0.85", records[2][4])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	out := strings.TrimSpace(buf.String())
	assert.Equal(t, "merchant,value,expiration,description,confidence,issuer", out)
}
