package extraction

import (
	"fmt"
	"strings"
)

// Registry holds the issuer parsers in dispatch priority order. Identifier
// substrings can overlap across issuers, so precedence is deterministic and
// explicit: registration order decides, most specific issuers first, the
// identifier-less generic parser last as the unconditional fallback.
type Registry struct {
	parsers []Parser
}

// NewRegistry constructs every issuer parser and validates its configuration.
// A malformed config fails here, at construction time; parsing itself never
// errors.
func NewRegistry() (*Registry, error) {
	chase, err := NewChaseParser()
	if err != nil {
		return nil, fmt.Errorf("build chase parser: %w", err)
	}
	amex, err := NewAmexParser()
	if err != nil {
		return nil, fmt.Errorf("build amex parser: %w", err)
	}
	citi, err := NewCitiParser()
	if err != nil {
		return nil, fmt.Errorf("build citi parser: %w", err)
	}
	generic, err := NewGenericParser()
	if err != nil {
		return nil, fmt.Errorf("build generic parser: %w", err)
	}

	return &Registry{parsers: []Parser{chase, amex, citi, generic}}, nil
}

// Select returns the first registered parser whose identifiers appear in the
// screen text. The generic parser matches everything, so Select never
// returns nil.
func (r *Registry) Select(text string) Parser {
	for _, p := range r.parsers {
		if p.CanParse(text) {
			return p
		}
	}
	// Unreachable while the generic parser is registered; kept as a guard.
	return r.parsers[len(r.parsers)-1]
}

// SelectForLines concatenates the capture's lines and dispatches on the
// joined text.
func (r *Registry) SelectForLines(lines []string) Parser {
	return r.Select(strings.Join(lines, "\n"))
}

// Parsers returns the registered parsers in dispatch order.
func (r *Registry) Parsers() []Parser {
	out := make([]Parser, len(r.parsers))
	copy(out, r.parsers)
	return out
}
