package extraction

import (
	"sort"
	"strings"
	"sync"

	"github.com/cloudflare/ahocorasick"
)

// AliasEngine answers "which canonical merchant does this line mention" for
// one issuer's alias table. All alias substrings are compiled into a single
// Aho-Corasick automaton, so a lookup is one pass over the line regardless of
// table size.
type AliasEngine struct {
	matcher   *ahocorasick.Matcher
	canonical []string // canonical name per pattern index
	aliases   []string // uppercase alias per pattern index

	// The cloudflare matcher mutates internal state during Match.
	mu sync.Mutex
}

// NewAliasEngine builds an engine from a canonical-name -> alias-substrings
// table. A nil or empty table yields an engine that never matches.
func NewAliasEngine(table map[string][]string) *AliasEngine {
	e := &AliasEngine{}
	if len(table) == 0 {
		return e
	}

	// Deterministic pattern order regardless of map iteration.
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, alias := range table[name] {
			e.canonical = append(e.canonical, name)
			e.aliases = append(e.aliases, strings.ToUpper(alias))
		}
	}

	patterns := make([][]byte, len(e.aliases))
	for i, a := range e.aliases {
		patterns[i] = []byte(a)
	}
	e.matcher = ahocorasick.NewMatcher(patterns)
	return e
}

// Lookup returns the canonical merchant whose alias appears in the line.
// When several aliases hit, the longest one wins (more specific alias beats a
// shorter accidental substring).
func (e *AliasEngine) Lookup(line string) (string, bool) {
	hits := e.matchIndices(line)
	if len(hits) == 0 {
		return "", false
	}

	best := hits[0]
	for _, idx := range hits[1:] {
		if len(e.aliases[idx]) > len(e.aliases[best]) {
			best = idx
		}
	}
	return e.canonical[best], true
}

// LookupAll returns every canonical merchant mentioned in the line, in
// alias-table order and without duplicates.
func (e *AliasEngine) LookupAll(line string) []string {
	hits := e.matchIndices(line)
	if len(hits) == 0 {
		return nil
	}

	sort.Ints(hits)
	seen := make(map[string]bool, len(hits))
	var names []string
	for _, idx := range hits {
		name := e.canonical[idx]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

func (e *AliasEngine) matchIndices(line string) []int {
	if e.matcher == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.matcher.Match([]byte(strings.ToUpper(line)))
}

// PatternCount returns the number of alias patterns loaded.
func (e *AliasEngine) PatternCount() int {
	return len(e.aliases)
}
