// Package extraction turns noisy OCR text lines captured from card-issuer
// mobile apps into structured promotional-offer records. An issuer registry
// picks the parser whose identifiers appear in the text; each parser is an
// independent implementation composed over the shared predicates in this
// package, configured by an immutable IssuerConfig.
package extraction

// ExtractedPerk is one promotional offer detected on a screen capture.
// Records are produced fresh per ParseLines call and owned by the caller.
type ExtractedPerk struct {
	Merchant    string  `json:"merchant"`
	Description string  `json:"description"`
	Value       string  `json:"value"`                // canonical value ("20%", "$10", "500 points") or "N/A"
	Expiration  string  `json:"expiration,omitempty"` // format depth varies by issuer
	Confidence  float64 `json:"confidence"`           // heuristic score in [0,1], not a probability
}

// ValueNone is the sentinel returned when no amount, points, percent or miles
// token is found in the text associated with an offer.
const ValueNone = "N/A"

// Parser classifies OCR lines for one card issuer.
//
// Implementations hold only immutable configuration after construction; any
// accumulator state is local to one ParseLines call, so a single instance is
// safe for concurrent use.
type Parser interface {
	// Name returns the issuer name ("chase", "amex", "citi", "generic").
	Name() string

	// CanParse reports whether the concatenated screen text looks like this
	// issuer's app. Case-insensitive substring test against the config's
	// identifiers; a parser with no identifiers matches everything.
	CanParse(text string) bool

	// ParseLines scans an ordered top-to-bottom sequence of trimmed OCR
	// lines and returns the offers it could extract. It never fails: the
	// worst outcome on garbled input is an empty result set.
	ParseLines(lines []string) []ExtractedPerk
}

// clampConfidence keeps heuristic scores inside [0,1].
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
