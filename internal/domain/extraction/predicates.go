package extraction

import (
	"regexp"
	"strings"
)

// Canonical value patterns. Extraction is fixed-priority: the first pattern
// class with a match wins, so a percent-back offer's incidental dollar figure
// ("spend $30, earn 20% back") is never misreported as the value.
var (
	percentValueRe = regexp.MustCompile(`\d+%`)
	pointsValueRe  = regexp.MustCompile(`(?i)\d+x?\s*points?`)
	dollarValueRe  = regexp.MustCompile(`\$\d+`)
	milesValueRe   = regexp.MustCompile(`(?i)\d+\s*miles?`)
)

// baseValuePriority is the default ordering: percent > points > dollar > miles.
var baseValuePriority = []*regexp.Regexp{percentValueRe, pointsValueRe, dollarValueRe, milesValueRe}

var (
	expirationSignalRe = regexp.MustCompile(`(?i)\b(expires?|valid|until|through)\b`)

	// Date-shaped substrings, longest form first: MM/DD/YYYY, MM/DD/YY, MM/YYYY.
	dateShapeRe = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}|\d{1,2}/\d{1,2}/\d{2}|\d{1,2}/\d{4}`)

	merchantJunkRe = regexp.MustCompile(`[^a-zA-Z0-9\s'&.\-]`)
	whitespaceRe   = regexp.MustCompile(`\s+`)
)

// IsNavigationElement reports whether the line is UI chrome according to the
// issuer's configured navigation list. Case-insensitive substring membership.
func IsNavigationElement(line string, cfg *IssuerConfig) bool {
	lower := strings.ToLower(line)
	for _, nav := range cfg.NavigationElements {
		if strings.Contains(lower, nav) {
			return true
		}
	}
	return false
}

// IsSkipLine reports whether the whole line matches one of the issuer's skip
// patterns (timestamps, lone menu words, status-bar fragments).
func IsSkipLine(line string, cfg *IssuerConfig) bool {
	trimmed := strings.TrimSpace(line)
	for _, re := range cfg.SkipPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// ContainsOfferKeywords reports whether the line carries any of the issuer's
// configured offer keywords. Case-insensitive substring membership.
func ContainsOfferKeywords(line string, cfg *IssuerConfig) bool {
	lower := strings.ToLower(line)
	for _, kw := range cfg.OfferKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractOfferValue pulls the canonical offer value out of free text using the
// base priority (percent > points > dollar > miles). Returns ValueNone when no
// value token is present.
func ExtractOfferValue(text string) string {
	return extractValueByPriority(text, baseValuePriority)
}

func extractValueByPriority(text string, priority []*regexp.Regexp) string {
	for _, re := range priority {
		if m := re.FindString(text); m != "" {
			return normalizeValueToken(m)
		}
	}
	return ValueNone
}

// normalizeValueToken lowercases unit words and collapses internal spacing so
// "500  Points" and "500 points" read the same downstream.
func normalizeValueToken(token string) string {
	token = whitespaceRe.ReplaceAllString(strings.TrimSpace(token), " ")
	if percentValueRe.MatchString(token) || dollarValueRe.MatchString(token) {
		return token
	}
	return strings.ToLower(token)
}

// IsExpirationLine reports whether the line carries both an expiration-signal
// word and a date-shaped substring.
func IsExpirationLine(line string) bool {
	return expirationSignalRe.MatchString(line) && dateShapeRe.MatchString(line)
}

// ExtractExpiration returns the date-shaped substring of an expiration line,
// verbatim and unnormalized. Empty when the line has no date shape.
func ExtractExpiration(line string) string {
	return dateShapeRe.FindString(line)
}

// CleanMerchantName strips characters outside the merchant alphabet
// (alphanumerics, space, quote, ampersand, dot, hyphen), collapses runs of
// whitespace and trims the result.
func CleanMerchantName(name string) string {
	cleaned := merchantJunkRe.ReplaceAllString(name, "")
	cleaned = whitespaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// containsAnyFold is a case-insensitive "text contains any of subs" helper.
func containsAnyFold(text string, subs []string) bool {
	lower := strings.ToLower(text)
	for _, s := range subs {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
