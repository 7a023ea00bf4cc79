package perks

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// perkCSVRow is the export projection; gocsv matches columns by tag.
type perkCSVRow struct {
	Merchant    string  `csv:"merchant"`
	Value       string  `csv:"value"`
	Expiration  string  `csv:"expiration"`
	Description string  `csv:"description"`
	Confidence  float64 `csv:"confidence"`
	Issuer      string  `csv:"issuer"`
}

// WriteCSV renders stored perks as CSV for download or spreadsheet import.
func WriteCSV(w io.Writer, perks []StoredPerk) error {
	rows := make([]perkCSVRow, 0, len(perks))
	for _, p := range perks {
		rows = append(rows, perkCSVRow{
			Merchant:    p.Merchant,
			Value:       p.Value,
			Expiration:  p.Expiration,
			Description: p.Description,
			Confidence:  p.Confidence,
			Issuer:      p.Issuer,
		})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("marshal perks csv: %w", err)
	}
	return nil
}
