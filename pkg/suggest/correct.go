package suggest

import (
	"strings"

	"github.com/bastiangx/wordtrie/pkg/tst"
)

// MinCorrectionLength is the shortest input, in runes, the Corrector tries to fix.
const MinCorrectionLength = 3

// Correction is a dictionary word one edit away from the input.
type Correction struct {
	Word      string
	Frequency int
	Distance  int
}

// better reports whether c outranks other: higher frequency first, then
// fewer edits, then alphabetical order.
func (c Correction) better(other Correction) bool {
	if c.Frequency != other.Frequency {
		return c.Frequency > other.Frequency
	}
	if c.Distance != other.Distance {
		return c.Distance < other.Distance
	}
	return c.Word < other.Word
}

// Corrector proposes dictionary words within one edit of a misspelled input.
type Corrector struct {
	minLength int
}

func NewCorrector() *Corrector {
	return &Corrector{minLength: MinCorrectionLength}
}

// Correct returns the best candidate for word. It reports false when word
// is too short, already stored, or has no candidate.
func (c *Corrector) Correct(trie *tst.Trie[int], word string) (Correction, bool) {
	lower := strings.ToLower(word)
	runes := []rune(lower)
	wildcard := trie.Wildcard()

	if len(runes) < c.minLength || trie.Contains(lower) || strings.ContainsRune(lower, wildcard) {
		return Correction{}, false
	}

	var best Correction
	found := false
	consider := func(candidate string, freq, distance int) {
		if candidate == lower {
			return
		}
		cand := Correction{Word: candidate, Frequency: freq, Distance: distance}
		if !found || cand.better(best) {
			best = cand
			found = true
		}
	}
	lookup := func(candidate string, distance int) {
		if freq, ok := trie.Get(candidate); ok {
			consider(candidate, freq, distance)
		}
	}
	match := func(pattern []rune) {
		_ = trie.VisitMatches(string(pattern), func(candidate string, freq int) bool {
			consider(candidate, freq, 1)
			return true
		})
	}

	buf := make([]rune, 0, len(runes)+1)

	// substitutions: one wildcard in place of each rune
	for i := range runes {
		buf = append(buf[:0], runes...)
		buf[i] = wildcard
		match(buf)
	}

	// missing rune: one wildcard inserted at each gap
	for i := 0; i <= len(runes); i++ {
		buf = append(buf[:0], runes[:i]...)
		buf = append(buf, wildcard)
		buf = append(buf, runes[i:]...)
		match(buf)
	}

	// extra rune
	for i := range runes {
		buf = append(buf[:0], runes[:i]...)
		buf = append(buf, runes[i+1:]...)
		lookup(string(buf), 1)
	}

	// swapped neighbours
	for i := 0; i+1 < len(runes); i++ {
		if runes[i] == runes[i+1] {
			continue
		}
		buf = append(buf[:0], runes...)
		buf[i], buf[i+1] = buf[i+1], buf[i]
		lookup(string(buf), 2)
	}

	return best, found
}
