package extraction

import (
	"fmt"
	"regexp"
)

// IssuerConfig is the immutable tuning data for one issuer parser. All issuer
// behavior that is data rather than control flow lives here, so tuning an
// issuer never touches parser code.
type IssuerConfig struct {
	// Name identifies the issuer ("chase", "amex", "citi", "generic").
	Name string

	// Identifiers are lowercase substrings that mark a screen as belonging
	// to this issuer. Empty means the config matches any screen.
	Identifiers []string

	// MerchantAliases maps a canonical merchant name to the lowercase alias
	// substrings that may appear for it in OCR output.
	MerchantAliases map[string][]string

	// OCRCorrections maps commonly-misread substrings to their corrected
	// form ("0ffer" -> "offer").
	OCRCorrections map[string]string

	// NavigationElements are lowercase substrings marking UI chrome that is
	// discarded before any merchant or offer detection.
	NavigationElements []string

	// OfferKeywords are lowercase substrings signaling offer-related text.
	OfferKeywords []string

	// MerchantLinePatterns match lines that look like a merchant name by
	// layout alone (no alias hit required).
	MerchantLinePatterns []*regexp.Regexp

	// OfferLinePatterns match lines that look like offer text by layout.
	OfferLinePatterns []*regexp.Regexp

	// SkipPatterns match whole lines to ignore outright (timestamps, lone
	// menu words). Checked before everything else.
	SkipPatterns []*regexp.Regexp

	// MultiMerchantIndicators are substrings hinting that one line packs
	// several merchants (carousel rows collapsed by the OCR engine).
	MultiMerchantIndicators []string
}

// Validate checks construction-time invariants. A malformed configuration is
// the only failure this subsystem can raise; parsing itself never errors.
func (c *IssuerConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("issuer config: name is required")
	}
	for canonical, aliases := range c.MerchantAliases {
		if canonical == "" {
			return fmt.Errorf("issuer config %q: alias table has an empty canonical name", c.Name)
		}
		if len(aliases) == 0 {
			return fmt.Errorf("issuer config %q: merchant %q has no aliases", c.Name, canonical)
		}
		for _, a := range aliases {
			if a == "" {
				return fmt.Errorf("issuer config %q: merchant %q has an empty alias", c.Name, canonical)
			}
		}
	}
	for from := range c.OCRCorrections {
		if from == "" {
			return fmt.Errorf("issuer config %q: OCR correction with empty source", c.Name)
		}
	}
	return nil
}
