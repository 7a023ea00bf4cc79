package extraction

import "regexp"

// GenericParser is the unconditional fallback for screens that match no known
// issuer. It runs the shared line-scan machine with layout-based merchant
// detection, a small alias table of widely-seen brands, and a confidence
// model that rewards known aliases and layout-pattern offers.
type GenericParser struct {
	cfg     *IssuerConfig
	scanner lineScan
}

const (
	genericBaseConfidence = 0.8
	genericAliasBonus     = 0.1
	genericLayoutBonus    = 0.1
	genericFloor          = 0.7
)

func genericConfig() *IssuerConfig {
	return &IssuerConfig{
		Name: "generic",

		// No identifiers: CanParse always matches, which makes this parser
		// the registry's fallback.
		Identifiers: nil,

		MerchantAliases: map[string][]string{
			"Starbucks":  {"starbucks"},
			"McDonald's": {"mcdonald's", "mcdonalds"},
			"Amazon":     {"amazon", "amazon.com"},
			"Walmart":    {"walmart"},
			"Target":     {"target"},
			"Uber":       {"uber"},
			"Netflix":    {"netflix"},
			"Chipotle":   {"chipotle"},
		},

		NavigationElements: []string{
			"see all offers", "add to card", "added to card", "offer added",
			"notifications", "settings", "sign out", "account services",
		},

		OfferKeywords: []string{
			"cash back", "cashback", "% back", "earn", "spend", "save",
			"points", "miles", "bonus", "statement credit", "off your purchase",
		},

		MerchantLinePatterns: []*regexp.Regexp{
			// A short capitalized name with no digits, the way merchant rows
			// render in most offer lists.
			regexp.MustCompile(`^[A-Z][A-Za-z'&.\- ]{2,29}$`),
		},

		OfferLinePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\d+%\s*(cash\s*)?back`),
			regexp.MustCompile(`(?i)earn\s+\d+`),
			regexp.MustCompile(`(?i)\$\d+\s*(off|back|credit)`),
			regexp.MustCompile(`(?i)\d+x?\s*points`),
		},

		SkipPatterns: commonSkipPatterns(),
	}
}

// commonSkipPatterns matches whole lines of screen chrome every issuer's OCR
// output carries: status-bar clocks, lone tab labels, battery/signal glyph
// residue, bare numerals.
func commonSkipPatterns() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,2}:\d{2}\s*(?i:am|pm)?$`),
		regexp.MustCompile(`(?i)^(new|all|home|menu|back|more|done|close|offers?|rewards)$`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\W+$`),
		regexp.MustCompile(`^\d{1,3}%$`), // battery indicator, not an offer by itself
	}
}

// NewGenericParser builds the fallback parser.
func NewGenericParser() (*GenericParser, error) {
	cfg := genericConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GenericParser{
		cfg: cfg,
		scanner: lineScan{
			cfg:            cfg,
			aliases:        NewAliasEngine(cfg.MerchantAliases),
			baseConfidence: genericBaseConfidence,
			aliasBonus:     genericAliasBonus,
			layoutBonus:    genericLayoutBonus,
			floor:          genericFloor,
			dedupe:         true,
		},
	}, nil
}

func (p *GenericParser) Name() string { return p.cfg.Name }

func (p *GenericParser) CanParse(text string) bool {
	if len(p.cfg.Identifiers) == 0 {
		return true
	}
	return containsAnyFold(text, p.cfg.Identifiers)
}

func (p *GenericParser) ParseLines(lines []string) []ExtractedPerk {
	return p.scanner.run(lines)
}
