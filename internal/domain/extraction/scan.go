package extraction

import "strings"

// lineScan is the shared single-pass state machine used by the Generic and
// Citi parsers. It walks the lines top to bottom accumulating a pending
// (merchant, offer, expiration) block; a new merchant line flushes the block
// that came before it.
type lineScan struct {
	cfg     *IssuerConfig
	aliases *AliasEngine

	baseConfidence float64
	aliasBonus     float64 // added when the merchant hit the alias table
	layoutBonus    float64 // added when an offer line matched a layout pattern
	floor          float64 // post-filter; perks below it are dropped
	dedupe         bool    // drop repeated merchants (case-insensitive, first wins)
}

type scanState struct {
	merchant   string
	offer      string
	expiration string
	aliasHit   bool
	layoutHit  bool
}

func (s *lineScan) run(lines []string) []ExtractedPerk {
	var perks []ExtractedPerk
	var st scanState

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if IsSkipLine(line, s.cfg) || IsNavigationElement(line, s.cfg) {
			continue
		}

		if name, alias, ok := s.looksLikeMerchant(line); ok {
			perks = s.flush(perks, &st)
			st.merchant = name
			st.aliasHit = alias
			continue
		}

		if layout, ok := s.looksLikeOffer(line); ok {
			if st.offer == "" {
				st.offer = line
			} else {
				st.offer += " " + line
			}
			st.layoutHit = st.layoutHit || layout
			continue
		}

		if IsExpirationLine(line) {
			// First expiration wins per block.
			if st.expiration == "" {
				st.expiration = ExtractExpiration(line)
			}
			continue
		}

		// Noise.
	}

	perks = s.flush(perks, &st)
	return s.postFilter(perks)
}

// looksLikeMerchant returns the cleaned merchant name when the line reads as
// a merchant: an alias-table hit, or a layout-pattern match, provided no
// offer keywords are present.
func (s *lineScan) looksLikeMerchant(line string) (name string, aliasHit, ok bool) {
	if ContainsOfferKeywords(line, s.cfg) {
		return "", false, false
	}
	if _, hit := s.aliases.Lookup(line); hit {
		return CleanMerchantName(line), true, true
	}
	for _, re := range s.cfg.MerchantLinePatterns {
		if re.MatchString(line) {
			return CleanMerchantName(line), false, true
		}
	}
	return "", false, false
}

func (s *lineScan) looksLikeOffer(line string) (layout, ok bool) {
	for _, re := range s.cfg.OfferLinePatterns {
		if re.MatchString(line) {
			return true, true
		}
	}
	if ContainsOfferKeywords(line, s.cfg) {
		return false, true
	}
	return false, false
}

// flush emits the pending block when both merchant and offer are set, and
// resets the offer/expiration accumulator either way.
func (s *lineScan) flush(perks []ExtractedPerk, st *scanState) []ExtractedPerk {
	if st.merchant != "" && st.offer != "" {
		conf := s.baseConfidence
		if st.aliasHit {
			conf += s.aliasBonus
		}
		if st.layoutHit {
			conf += s.layoutBonus
		}
		perks = append(perks, ExtractedPerk{
			Merchant:    st.merchant,
			Description: st.offer,
			Value:       ExtractOfferValue(st.offer),
			Expiration:  st.expiration,
			Confidence:  clampConfidence(conf),
		})
	}
	st.offer = ""
	st.expiration = ""
	st.layoutHit = false
	return perks
}

func (s *lineScan) postFilter(perks []ExtractedPerk) []ExtractedPerk {
	if s.floor <= 0 && !s.dedupe {
		return perks
	}

	kept := perks[:0]
	seen := make(map[string]bool, len(perks))
	for _, p := range perks {
		if p.Confidence < s.floor {
			continue
		}
		if s.dedupe {
			key := strings.ToLower(p.Merchant)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		kept = append(kept, p)
	}
	return kept
}
