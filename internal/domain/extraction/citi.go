package extraction

import "regexp"

// CitiParser handles Citi Merchant Offers screens. Citi's offer list leans on
// spending categories ("Gas Stations", "Restaurants") rather than brand
// names, so the alias table is category-heavy. Same single-pass machine as
// the generic parser; no fuzzy matching, no multi-merchant rows, expirations
// stored verbatim. Every Citi perk carries a fixed confidence and there is no
// post-filter.
type CitiParser struct {
	cfg     *IssuerConfig
	scanner lineScan
}

const citiConfidence = 0.9

func citiConfig() *IssuerConfig {
	return &IssuerConfig{
		Name: "citi",

		Identifiers: []string{"citi", "thankyou", "merchant offers"},

		MerchantAliases: map[string][]string{
			"Gas Stations":   {"gas station", "gas stations", "fuel"},
			"Restaurants":    {"restaurant", "restaurants", "dining"},
			"Grocery Stores": {"grocery", "groceries", "supermarket"},
			"Drugstores":     {"drugstore", "drugstores", "pharmacy"},
			"Home Depot":     {"home depot"},
			"Best Buy":       {"best buy"},
			"Exxon":          {"exxon", "exxonmobil"},
			"Hilton":         {"hilton"},
			"Sam's Club":     {"sam's club", "sams club"},
		},

		NavigationElements: []string{
			"available offers", "enrolled offers", "view all", "citi entertainment",
			"account summary", "payments", "statements",
		},

		OfferKeywords: []string{
			"cash back", "% back", "earn", "spend", "statement credit",
			"thankyou points", "points", "bonus",
		},

		MerchantLinePatterns: []*regexp.Regexp{
			regexp.MustCompile(`^[A-Z][A-Za-z'&.\- ]{2,29}$`),
		},

		OfferLinePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\d+%\s*back`),
			regexp.MustCompile(`(?i)earn\s+\d+`),
			regexp.MustCompile(`(?i)\$\d+\s*(back|credit)`),
			regexp.MustCompile(`(?i)\d+\s*thankyou\s*points`),
		},

		SkipPatterns: commonSkipPatterns(),
	}
}

// NewCitiParser builds the Citi parser.
func NewCitiParser() (*CitiParser, error) {
	cfg := citiConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CitiParser{
		cfg: cfg,
		scanner: lineScan{
			cfg:            cfg,
			aliases:        NewAliasEngine(cfg.MerchantAliases),
			baseConfidence: citiConfidence,
		},
	}, nil
}

func (p *CitiParser) Name() string { return p.cfg.Name }

func (p *CitiParser) CanParse(text string) bool {
	return containsAnyFold(text, p.cfg.Identifiers)
}

func (p *CitiParser) ParseLines(lines []string) []ExtractedPerk {
	return p.scanner.run(lines)
}
