package extraction

import (
	"regexp"
	"strings"
)

// ChaseParser handles Chase Offers screens. Chase renders offers both as
// single-merchant rows and as carousel rows the OCR engine collapses into one
// line holding several merchants, so each line is first tested for
// multi-merchant packing and expanded through a closed co-occurrence table.
// Merchant hits then pull their value and expiration from a small window of
// neighboring lines, because Chase's layout keeps "5% cash back" and
// "12d left" within a couple of lines of the merchant name.
type ChaseParser struct {
	cfg     *IssuerConfig
	aliases *AliasEngine
	ocr     *OCRMatcher
}

const (
	chaseConfidence = 0.9
	chaseFloor      = 0.8

	// Proximity window around the merchant's line for value/expiration.
	chaseWindow = 3

	// Token count at or above which a line is treated as possibly packing
	// several merchants.
	chaseMultiTokenCount = 4
)

var (
	chasePercentBackRe = regexp.MustCompile(`(?i)\d+%\s*cash\s*back`)
	chaseDollarBackRe  = regexp.MustCompile(`(?i)\$\d+\s*cash\s*back`)
	chaseDaysLeftRe    = regexp.MustCompile(`(?i)\d+d\s*left`)

	// Fallback merchant shape: short, letters with spaces/apostrophes/hyphens,
	// starts and ends on a letter.
	chaseMerchantShapeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z\s'-]*[a-zA-Z]$`)
)

// chaseCooccurrence is the closed table of carousel patterns. A packed line
// matching a pattern expands to the literal merchant set; a packed line
// matching nothing falls through to single-merchant handling.
type chaseCooccurrence struct {
	pattern   *regexp.Regexp
	merchants []string
}

func chaseCooccurrenceTable() []chaseCooccurrence {
	return []chaseCooccurrence{
		{
			pattern:   regexp.MustCompile(`(?i)fubo.*(event|tickets).*turo`),
			merchants: []string{"fuboTV", "Event Tickets Center", "Turo"},
		},
		{
			pattern:   regexp.MustCompile(`(?i)doordash.*instacart`),
			merchants: []string{"DoorDash", "Instacart"},
		},
		{
			pattern:   regexp.MustCompile(`(?i)lyft.*(shell|bp)`),
			merchants: []string{"Lyft", "Shell"},
		},
		{
			pattern:   regexp.MustCompile(`(?i)(nike.*adidas|adidas.*nike)`),
			merchants: []string{"Nike", "adidas"},
		},
	}
}

func chaseConfig() *IssuerConfig {
	return &IssuerConfig{
		Name: "chase",

		Identifiers: []string{"chase", "ultimate rewards", "chase offers"},

		MerchantAliases: map[string][]string{
			"fuboTV":               {"fubotv", "fubo tv", "fubo"},
			"Event Tickets Center": {"event tickets center", "event tickets"},
			"Turo":                 {"turo"},
			"DoorDash":             {"doordash", "door dash"},
			"Instacart":            {"instacart"},
			"Lyft":                 {"lyft"},
			"Shell":                {"shell"},
			"Nike":                 {"nike"},
			"adidas":               {"adidas"},
			"Starbucks":            {"starbucks"},
			"Panera Bread":         {"panera bread", "panera"},
		},

		OCRCorrections: map[string]string{
			"0":  "o",
			"1":  "l",
			"5":  "s",
			"8":  "b",
			"vv": "w",
			"|":  "l",
		},

		NavigationElements: []string{
			"chase offers", "see all", "add offer", "added", "hub",
			"account activity", "ultimate rewards",
		},

		OfferKeywords: []string{
			"cash back", "% back", "earn", "spend", "left", "expires",
		},

		MultiMerchantIndicators: []string{"...", "…", "\t", "  "},

		SkipPatterns: commonSkipPatterns(),
	}
}

// NewChaseParser builds the Chase parser.
func NewChaseParser() (*ChaseParser, error) {
	cfg := chaseConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ChaseParser{
		cfg:     cfg,
		aliases: NewAliasEngine(cfg.MerchantAliases),
		ocr:     NewOCRMatcher(cfg.OCRCorrections),
	}, nil
}

func (p *ChaseParser) Name() string { return p.cfg.Name }

func (p *ChaseParser) CanParse(text string) bool {
	return containsAnyFold(text, p.cfg.Identifiers)
}

// ParseLines extracts Chase perks. The processed set is local to this call:
// a merchant is emitted at most once per screen no matter how many lines
// mention it.
func (p *ChaseParser) ParseLines(lines []string) []ExtractedPerk {
	var perks []ExtractedPerk
	processed := make(map[string]bool)

	emit := func(merchant string, idx int) {
		key := strings.ToLower(merchant)
		if merchant == "" || processed[key] {
			return
		}
		processed[key] = true
		perks = append(perks, p.perkNear(lines, idx, merchant))
	}

	for i, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || IsSkipLine(line, p.cfg) || IsNavigationElement(line, p.cfg) {
			continue
		}

		if p.isMultiMerchantLine(raw) {
			if merchants := p.expandMultiMerchant(line); merchants != nil {
				for _, m := range merchants {
					emit(m, i)
				}
				continue
			}
			// No co-occurrence pattern matched: treat as a single merchant.
		}

		if name, ok := p.detectMerchant(line); ok {
			emit(name, i)
		}
	}

	kept := perks[:0]
	for _, perk := range perks {
		if perk.Confidence >= chaseFloor {
			kept = append(kept, perk)
		}
	}
	return kept
}

// isMultiMerchantLine reports whether the raw line may pack several merchants:
// a configured indicator (ellipsis, multi-space run, tab) or four-plus
// whitespace tokens.
func (p *ChaseParser) isMultiMerchantLine(raw string) bool {
	for _, ind := range p.cfg.MultiMerchantIndicators {
		if strings.Contains(raw, ind) {
			return true
		}
	}
	return len(strings.Fields(raw)) >= chaseMultiTokenCount
}

// expandMultiMerchant resolves a packed line through the co-occurrence table.
// Returns nil when no pattern matches.
func (p *ChaseParser) expandMultiMerchant(line string) []string {
	for _, co := range chaseCooccurrenceTable() {
		if co.pattern.MatchString(line) {
			return co.merchants
		}
	}
	return nil
}

// detectMerchant classifies a line as a Chase merchant via three tiers:
// direct alias substring, OCR-corrected fuzzy match against an alias, or a
// plain short-name shape carrying no offer keywords.
func (p *ChaseParser) detectMerchant(line string) (string, bool) {
	if name, ok := p.aliases.Lookup(line); ok {
		return name, true
	}

	if name, ok := p.fuzzyMerchant(line); ok {
		return name, true
	}

	if len(line) >= 3 && len(line) <= 30 &&
		chaseMerchantShapeRe.MatchString(line) &&
		!ContainsOfferKeywords(line, p.cfg) {
		return CleanMerchantName(line), true
	}

	return "", false
}

// fuzzyMerchant tries every alias through the OCR matcher and keeps the
// best-scoring hit, so "5tarbucks" still resolves to Starbucks.
func (p *ChaseParser) fuzzyMerchant(line string) (string, bool) {
	bestScore := -1
	bestName := ""
	for canonical, aliases := range p.cfg.MerchantAliases {
		for _, alias := range aliases {
			if !p.ocr.Matches(line, alias) {
				continue
			}
			if score := p.ocr.Score(line, alias); score > bestScore {
				bestScore = score
				bestName = canonical
			}
		}
	}
	return bestName, bestName != ""
}

// perkNear builds the perk for a merchant found at line idx, pulling value
// and expiration from the first matches inside a fixed window around it.
func (p *ChaseParser) perkNear(lines []string, idx int, merchant string) ExtractedPerk {
	perk := ExtractedPerk{
		Merchant:   merchant,
		Value:      ValueNone,
		Confidence: chaseConfidence,
	}

	lo := idx - chaseWindow
	if lo < 0 {
		lo = 0
	}
	hi := idx + chaseWindow
	if hi > len(lines)-1 {
		hi = len(lines) - 1
	}

	for i := lo; i <= hi; i++ {
		line := lines[i]
		if perk.Value == ValueNone {
			if m := chasePercentBackRe.FindString(line); m != "" {
				perk.Value = ExtractOfferValue(m)
				perk.Description = strings.TrimSpace(line)
			} else if m := chaseDollarBackRe.FindString(line); m != "" {
				perk.Value = ExtractOfferValue(m)
				perk.Description = strings.TrimSpace(line)
			}
		}
		if perk.Expiration == "" {
			// Day countdowns ("12d left") stay verbatim; they are not
			// absolute dates and normalizing them would invent one.
			perk.Expiration = chaseDaysLeftRe.FindString(line)
		}
	}

	return perk
}
