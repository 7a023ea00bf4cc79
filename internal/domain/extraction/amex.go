package extraction

import (
	"fmt"
	"regexp"
	"strings"
)

// AmexParser handles American Express offer screens with block-anchored
// extraction: input is filtered through a noise denylist, then matched
// against a closed table of merchant blocks, each pairing a merchant-name
// pattern with the offer text expected near it. A block only fires when both
// the name and the expected offer are found, which keeps a merchant mention
// without an accompanying offer from producing a perk.
//
// The block table is closed by design: merchants outside it are not detected
// by this parser.
type AmexParser struct {
	cfg    *IssuerConfig
	blocks []amexBlock
}

const (
	amexConfidence = 0.85

	// Forward search windows, in filtered lines.
	amexOfferWindow      = 4 // name line -> offer line
	amexExpirationWindow = 3 // offer line -> expiration line
	amexDescriptionLines = 2 // extra lines folded into the description
)

// amexBlock anchors one merchant: the name pattern, the offer text expected
// within a few lines of it, and the canonical name to emit.
type amexBlock struct {
	name      *regexp.Regexp
	offer     *regexp.Regexp
	canonical string
}

// Amex-specific value priority: percent > points > dollar, no miles.
// Percent-back promotions dominate Membership Rewards offers and OCR more
// reliably than point counts.
var amexValuePriority = []*regexp.Regexp{percentValueRe, pointsValueRe, dollarValueRe}

var (
	amexExpirationRe = regexp.MustCompile(`(?i)exp(?:ires)?\.?\s*(\d{1,4}/\d{1,4}(?:/\d{2,4})?)`)

	// Offer-like content for description assembly: spend/earn/%-back/$ tokens.
	amexOfferishRe = regexp.MustCompile(`(?i)spend|earn|\d+%|\$\d+|back|total|purchase|minimum`)

	// OCR artifacts scrubbed from description lines: stray equals signs,
	// bracket residue, trailing "AF" glyph garbage, truncated dollar
	// fragments, merchant-name-plus-digit glue ("Walmart+2").
	amexArtifactRes = []*regexp.Regexp{
		regexp.MustCompile(`[=\[\]{}|]`),
		regexp.MustCompile(`\s+AF$`),
		regexp.MustCompile(`\$\d*\+?$`),
		regexp.MustCompile(`[A-Za-z]+\+\d+`),
	}

	// Denylist of fixed noise shapes in Amex OCR output: timestamps, lone
	// punctuation, footer menu text, OCR-confidence metadata, standalone
	// numerals.
	amexNoiseRes = []*regexp.Regexp{
		regexp.MustCompile(`^\d{1,2}:\d{2}(\s*(?i:am|pm))?$`),
		regexp.MustCompile(`^\W+$`),
		regexp.MustCompile(`(?i)^(home|membership|account|offers?|statements?|activity|explore)$`),
		regexp.MustCompile(`(?i)confidence[:\s]`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`^\d{1,3}%$`),
		regexp.MustCompile(`(?i)^(new|all|map|list)$`),
	}
)

func amexBlockTable() []amexBlock {
	return []amexBlock{
		{
			name:      regexp.MustCompile(`(?i)shake\s*shack`),
			offer:     regexp.MustCompile(`(?i)earn\s*\d+%|(\d+%\s*back)`),
			canonical: "Shake Shack",
		},
		{
			name:      regexp.MustCompile(`(?i)walmart\+?`),
			offer:     regexp.MustCompile(`(?i)\$\d+\s*back|earn\s*\$\d+|\d+%\s*back`),
			canonical: "Walmart",
		},
		{
			name:      regexp.MustCompile(`(?i)hilton`),
			offer:     regexp.MustCompile(`(?i)\d+%\s*back|\d+x?\s*points|spend\s*\$\d+`),
			canonical: "Hilton",
		},
		{
			name:      regexp.MustCompile(`(?i)best\s*buy`),
			offer:     regexp.MustCompile(`(?i)\$\d+\s*back|\d+%\s*back`),
			canonical: "Best Buy",
		},
		{
			name:      regexp.MustCompile(`(?i)dunkin'?`),
			offer:     regexp.MustCompile(`(?i)\d+%\s*back|earn\s*\d+`),
			canonical: "Dunkin'",
		},
		{
			name:      regexp.MustCompile(`(?i)delta(\s*air\s*lines)?`),
			offer:     regexp.MustCompile(`(?i)\d+x?\s*(points|miles)|\$\d+\s*back|\d+%\s*back`),
			canonical: "Delta Air Lines",
		},
	}
}

func amexConfig() *IssuerConfig {
	return &IssuerConfig{
		Name: "amex",

		Identifiers: []string{"american express", "amex", "membership rewards"},

		MerchantAliases: map[string][]string{
			"Shake Shack":     {"shake shack"},
			"Walmart":         {"walmart"},
			"Hilton":          {"hilton"},
			"Best Buy":        {"best buy"},
			"Dunkin'":         {"dunkin"},
			"Delta Air Lines": {"delta air lines", "delta"},
		},

		NavigationElements: []string{
			"amex offers", "membership rewards", "add to card", "eligible card",
			"view all offers",
		},

		OfferKeywords: []string{
			"% back", "earn", "spend", "back on purchases", "statement credit",
		},

		SkipPatterns: commonSkipPatterns(),
	}
}

// NewAmexParser builds the Amex parser.
func NewAmexParser() (*AmexParser, error) {
	cfg := amexConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &AmexParser{cfg: cfg, blocks: amexBlockTable()}, nil
}

func (p *AmexParser) Name() string { return p.cfg.Name }

func (p *AmexParser) CanParse(text string) bool {
	return containsAnyFold(text, p.cfg.Identifiers)
}

// ParseLines runs the block-anchored scan over the noise-filtered lines.
// Blocks are processed in table order; each fires at most once.
func (p *AmexParser) ParseLines(lines []string) []ExtractedPerk {
	filtered := p.filterNoise(lines)

	var perks []ExtractedPerk
	for _, block := range p.blocks {
		if perk, ok := p.extractBlock(filtered, block); ok {
			perks = append(perks, perk)
		}
	}
	return perks
}

// filterNoise drops lines matching the denylist before any block matching.
func (p *AmexParser) filterNoise(lines []string) []string {
	filtered := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || p.isNoise(line) {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}

func (p *AmexParser) isNoise(line string) bool {
	for _, re := range amexNoiseRes {
		if re.MatchString(line) {
			return true
		}
	}
	return IsNavigationElement(line, p.cfg)
}

// extractBlock fires one merchant block against the filtered lines.
func (p *AmexParser) extractBlock(lines []string, block amexBlock) (ExtractedPerk, bool) {
	nameIdx := -1
	for i, line := range lines {
		if block.name.MatchString(line) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return ExtractedPerk{}, false
	}

	// The expected offer must appear within the window past the name line;
	// a merchant mentioned without its offer does not fire.
	offerIdx := -1
	for i := nameIdx + 1; i <= nameIdx+amexOfferWindow && i < len(lines); i++ {
		if block.offer.MatchString(lines[i]) {
			offerIdx = i
			break
		}
	}
	if offerIdx < 0 {
		return ExtractedPerk{}, false
	}

	expiration, expIdx := p.findExpiration(lines, offerIdx)
	description := p.buildDescription(lines, offerIdx, expIdx)

	return ExtractedPerk{
		Merchant:    block.canonical,
		Description: description,
		Value:       extractValueByPriority(description, amexValuePriority),
		Expiration:  expiration,
		Confidence:  amexConfidence,
	}, true
}

// findExpiration searches forward from the offer line for the first
// "Exp <date>" match and normalizes the captured date. Returns the line
// index so description assembly can exclude it, or -1.
func (p *AmexParser) findExpiration(lines []string, offerIdx int) (string, int) {
	for i := offerIdx; i <= offerIdx+amexExpirationWindow && i < len(lines); i++ {
		if m := amexExpirationRe.FindStringSubmatch(lines[i]); m != nil {
			return normalizeAmexDate(m[1]), i
		}
	}
	return "", -1
}

// buildDescription joins the offer line with up to two following offer-like
// lines, excluding the expiration line, scrubbing OCR artifacts from each.
func (p *AmexParser) buildDescription(lines []string, offerIdx, expIdx int) string {
	parts := []string{scrubArtifacts(lines[offerIdx])}

	taken := 0
	for i := offerIdx + 1; i < len(lines) && taken < amexDescriptionLines; i++ {
		if i == expIdx {
			continue
		}
		if !amexOfferishRe.MatchString(lines[i]) && !ContainsOfferKeywords(lines[i], p.cfg) {
			break
		}
		parts = append(parts, scrubArtifacts(lines[i]))
		taken++
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

// scrubArtifacts removes OCR residue from one description line.
func scrubArtifacts(line string) string {
	cleaned := line
	for _, re := range amexArtifactRes {
		cleaned = re.ReplaceAllString(cleaned, "")
	}
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(cleaned, " "))
}

// normalizeAmexDate repairs OCR-damaged expiration dates: a glued
// four-digit/two-digit form ("1112/25") gets its separator back, and
// two-digit years are widened to 20YY. Well-formed dates pass through.
func normalizeAmexDate(date string) string {
	parts := strings.Split(date, "/")

	switch len(parts) {
	case 2:
		// Either MM/YYYY (well-formed, pass through) or MMDD/YY glued.
		if len(parts[0]) == 4 {
			mm, dd := parts[0][:2], parts[0][2:]
			return fmt.Sprintf("%s/%s/%s", mm, dd, widenYear(parts[1]))
		}
		if len(parts[1]) == 4 {
			return date
		}
		return parts[0] + "/" + widenYear(parts[1])
	case 3:
		return fmt.Sprintf("%s/%s/%s", parts[0], parts[1], widenYear(parts[2]))
	default:
		return date
	}
}

func widenYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}
