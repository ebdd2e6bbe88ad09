package relevance

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
)

const (
	// Candidate texts longer than this are narrowed to context windows
	// around question tokens before the edit-distance pass.
	longTextThreshold = 1000
	contextWindow     = 100

	// Tokens this short are too generic to anchor a context window.
	minAnchorTokenLen = 4

	editWeight    = 0.4
	overlapWeight = 0.6
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeText lowercases text, strips punctuation and collapses runs of
// whitespace into single spaces.
func NormalizeText(text string) string {
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Score computes a lexical similarity in [0,1] between a question and a
// candidate text. It blends a character-level edit-alignment ratio with the
// fraction of question tokens present in the candidate, weighting token
// overlap higher: short questions against long documents match on shared
// vocabulary more reliably than on character runs. Deterministic, no side
// effects.
func Score(question, candidate string) float64 {
	q := NormalizeText(question)
	c := NormalizeText(candidate)

	if len([]rune(c)) > longTextThreshold {
		c = focusCandidate(q, c)
	}

	edit := levenshtein.Similarity(q, c, nil)

	overlap := 0.0
	qSet := tokenSet(q)
	if len(qSet) > 0 {
		cSet := tokenSet(c)
		common := 0
		for tok := range qSet {
			if _, ok := cSet[tok]; ok {
				common++
			}
		}
		overlap = float64(common) / float64(len(qSet))
	}

	return edit*editWeight + overlap*overlapWeight
}

// focusCandidate narrows a long candidate to windows around the first
// occurrence of each sufficiently long question token. When no token occurs
// the candidate is returned unmodified.
func focusCandidate(question, candidate string) string {
	runes := []rune(candidate)

	var contexts []string
	for _, tok := range strings.Fields(question) {
		if len([]rune(tok)) < minAnchorTokenLen {
			continue
		}
		byteIdx := strings.Index(candidate, tok)
		if byteIdx < 0 {
			continue
		}
		idx := len([]rune(candidate[:byteIdx]))

		start := idx - contextWindow
		if start < 0 {
			start = 0
		}
		end := idx + contextWindow
		if end > len(runes) {
			end = len(runes)
		}
		contexts = append(contexts, string(runes[start:end]))
	}

	if len(contexts) == 0 {
		return candidate
	}
	return strings.Join(contexts, " ")
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(text) {
		set[tok] = struct{}{}
	}
	return set
}
