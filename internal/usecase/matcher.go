package usecase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mindfulplate/backend/internal/domain"
	"github.com/mindfulplate/backend/internal/infrastructure/dictionary"
)

// fuzzyMatchConfidence is reported for word-overlap matches, which are less
// certain than exact substring hits.
const fuzzyMatchConfidence = 0.8

// fillerWords are stripped during normalization. Removal is skipped when it
// would leave the input too short to match against ("ate egg").
var fillerWords = map[string]bool{
	"i": true, "a": true, "an": true, "the": true, "some": true,
	"for": true, "my": true, "today": true, "just": true,
	"ate": true, "had": true, "drank": true,
}

// minWordsAfterFiltering guards short inputs from stopword removal.
const minWordsAfterFiltering = 3

// genericTerm maps a food reference too broad to resolve ("soda") to the
// specific options the user should pick from.
type genericTerm struct {
	term    string
	options []string
}

// genericTerms is ordered so the clarification check is deterministic.
var genericTerms = []genericTerm{
	{"soda", []string{"pepsi", "coke", "sprite", "fanta", "mountain dew"}},
	{"juice", []string{"orange juice", "apple juice"}},
	{"meat", []string{"chicken", "beef", "pork", "turkey"}},
	{"fish", []string{"salmon", "tuna", "cod", "tilapia"}},
}

// FoodMatch is one dictionary hit found in an utterance.
type FoodMatch struct {
	CanonicalName string
	Entry         domain.DictionaryEntry

	// Exact is true for substring matches and false for word-overlap
	// (fuzzy) matches.
	Exact bool
}

// MatchOutcome is the matcher result: either a list of dictionary hits or a
// clarification request, never both.
type MatchOutcome struct {
	Matches       []FoodMatch
	Clarification *domain.ClarificationRequest
}

// Matcher finds which dictionary entries an utterance refers to.
type Matcher struct {
	dict *dictionary.Dictionary
}

// NewMatcher creates a matcher over the given dictionary.
func NewMatcher(dict *dictionary.Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// Match runs the generic-term check, then an exact substring pass, then a
// word-overlap fuzzy pass. The clarification check takes precedence over all
// matching: a generic term without a specific variant halts matching
// entirely.
func (m *Matcher) Match(text string) MatchOutcome {
	lower := strings.ToLower(strings.TrimSpace(text))

	if req := checkGenericTerms(lower); req != nil {
		return MatchOutcome{Clarification: req}
	}

	normalized := normalizeText(lower)

	if matches := m.substringPass(normalized); len(matches) > 0 {
		return MatchOutcome{Matches: matches}
	}

	return MatchOutcome{Matches: m.fuzzyPass(normalized)}
}

// checkGenericTerms returns a clarification request when a generic term
// appears without any of its specific options.
func checkGenericTerms(lower string) *domain.ClarificationRequest {
	for _, g := range genericTerms {
		if !strings.Contains(lower, g.term) {
			continue
		}
		hasSpecific := false
		for _, opt := range g.options {
			if strings.Contains(lower, opt) {
				hasSpecific = true
				break
			}
		}
		if !hasSpecific {
			shown := g.options
			if len(shown) > 3 {
				shown = shown[:3]
			}
			return &domain.ClarificationRequest{
				GenericTerm: g.term,
				Options:     g.options,
				Prompt:      fmt.Sprintf("Which %s? (%s...)", g.term, strings.Join(shown, ", ")),
			}
		}
	}
	return nil
}

// normalizeText lowercases and strips filler words, unless removal would
// leave fewer than minWordsAfterFiltering words.
func normalizeText(lower string) string {
	words := strings.Fields(lower)
	filtered := words[:0:0]
	for _, w := range words {
		if !fillerWords[w] {
			filtered = append(filtered, w)
		}
	}
	if len(filtered) < minWordsAfterFiltering {
		return strings.Join(words, " ")
	}
	return strings.Join(filtered, " ")
}

// substringPass finds dictionary keys appearing verbatim in the text. A hit
// must sit on word boundaries ("tea" never matches inside "instead"). Keys
// are tried longest-first and each text span is claimed by at most one key,
// so "chicken" inside an already-claimed "grilled chicken" does not produce
// a second match. Results are ordered by position in the text.
func (m *Matcher) substringPass(text string) []FoodMatch {
	type span struct{ start, end int }
	var claimed []span

	overlaps := func(start, end int) bool {
		for _, s := range claimed {
			if start < s.end && end > s.start {
				return true
			}
		}
		return false
	}

	isWordChar := func(b byte) bool {
		return ('a' <= b && b <= 'z') || ('0' <= b && b <= '9')
	}
	wordBounded := func(start, end int) bool {
		if start > 0 && isWordChar(text[start-1]) {
			return false
		}
		if end < len(text) && isWordChar(text[end]) {
			return false
		}
		return true
	}

	type positioned struct {
		match FoodMatch
		pos   int
	}
	var found []positioned

	for _, name := range m.dict.Names() {
		offset := 0
		for {
			idx := strings.Index(text[offset:], name)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(name)
			offset = end
			if !wordBounded(start, end) || overlaps(start, end) {
				continue
			}
			claimed = append(claimed, span{start, end})
			entry, _ := m.dict.Lookup(name)
			found = append(found, positioned{
				match: FoodMatch{CanonicalName: name, Entry: entry, Exact: true},
				pos:   start,
			})
			break // one claim per key is enough
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	matches := make([]FoodMatch, len(found))
	for i, f := range found {
		matches[i] = f.match
	}
	return matches
}

// fuzzyPass accepts a key when at least half of its words appear in the
// text, which handles reordered phrases ("chicken grilled"). Candidates are
// ranked by overlap ratio and a candidate is kept only if it contributes a
// word no better-ranked match already covered, so "grilled chicken" in the
// text does not also count as "chicken" and "chicken breast".
func (m *Matcher) fuzzyPass(text string) []FoodMatch {
	textWords := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		textWords[w] = true
	}

	type candidate struct {
		name    string
		ratio   float64
		matched []string
	}
	var candidates []candidate

	for _, name := range m.dict.Names() {
		keyWords := strings.Fields(name)
		var matched []string
		for _, w := range keyWords {
			if textWords[w] {
				matched = append(matched, w)
			}
		}
		if len(matched)*2 >= len(keyWords) && len(matched) > 0 {
			candidates = append(candidates, candidate{
				name:    name,
				ratio:   float64(len(matched)) / float64(len(keyWords)),
				matched: matched,
			})
		}
	}

	// Names() is already longest-first, so equal ratios prefer the more
	// specific key.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].ratio > candidates[j].ratio
	})

	covered := make(map[string]bool)
	var matches []FoodMatch
	for _, c := range candidates {
		contributes := false
		for _, w := range c.matched {
			if !covered[w] {
				contributes = true
				break
			}
		}
		if !contributes {
			continue
		}
		for _, w := range c.matched {
			covered[w] = true
		}
		entry, _ := m.dict.Lookup(c.name)
		matches = append(matches, FoodMatch{CanonicalName: c.name, Entry: entry, Exact: false})
	}
	return matches
}
