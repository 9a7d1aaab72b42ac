package suggest

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/dictionary"
	"github.com/bastiangx/wordtrie/pkg/tst"
	"github.com/charmbracelet/log"
)

const (
	DefaultMinFrequency      = 20
	DefaultMinFrequencyShort = 24
	DefaultHotCacheWords     = 20000
)

// Suggestion represents a completion suggestion with its frequency
type Suggestion struct {
	Word            string
	Frequency       int
	WasCorrected    bool
	OriginalPrefix  string
	CorrectedPrefix string
}

// Completer answers completion, match and lookup queries over a trie of
// word frequencies. The trie is either owned by the completer or read from
// a dictionary.ChunkLoader.
type Completer struct {
	mu           sync.RWMutex
	trie         *tst.Trie[int]
	maxFrequency int

	chunkLoader *dictionary.ChunkLoader
	runtime     *dictionary.RuntimeLoader
	hotCache    *HotCache
	corrector   *Corrector

	wildcard     rune
	minFreq      int
	minFreqShort int
	hotWords     int
}

// Option configures a Completer.
type Option func(*Completer)

// WithThresholds sets the minimum frequency a suggestion needs, and the
// stricter one applied to prefixes of at most two runes.
func WithThresholds(minFreq, minFreqShort int) Option {
	return func(c *Completer) {
		c.minFreq = minFreq
		c.minFreqShort = minFreqShort
	}
}

// WithHotCache sizes the hot cache. Zero disables it.
func WithHotCache(maxWords int) Option {
	return func(c *Completer) {
		c.hotWords = maxWords
	}
}

// WithWildcard sets the symbol matching any single character in Match patterns.
func WithWildcard(r rune) Option {
	return func(c *Completer) {
		c.wildcard = r
	}
}

func newCompleter(opts []Option) *Completer {
	c := &Completer{
		corrector:    NewCorrector(),
		wildcard:     tst.DefaultWildcard,
		minFreq:      DefaultMinFrequency,
		minFreqShort: DefaultMinFrequencyShort,
		hotWords:     DefaultHotCacheWords,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.hotWords > 0 {
		c.hotCache = NewHotCache(c.hotWords)
	}
	return c
}

// NewCompleter creates a completer over an empty trie filled with AddWord
// or LoadTextFile.
func NewCompleter(opts ...Option) *Completer {
	c := newCompleter(opts)
	c.trie = tst.New(tst.WithWildcard[int](c.wildcard))
	return c
}

// NewLazyCompleter creates a completer reading chunk files from dirPath in
// the background once Initialize is called.
func NewLazyCompleter(dirPath string, chunkSize, maxWords int, opts ...Option) *Completer {
	c := newCompleter(opts)
	c.chunkLoader = dictionary.NewChunkLoader(dirPath, chunkSize, maxWords, tst.WithWildcard[int](c.wildcard))
	c.runtime = dictionary.NewRuntimeLoader(c.chunkLoader)
	if c.hotCache != nil {
		c.chunkLoader.OnChange(c.hotCache.Reset)
	}
	return c
}

// view runs fn on the trie under the read lock of its owner.
func (c *Completer) view(fn func(trie *tst.Trie[int])) {
	if c.chunkLoader != nil {
		c.chunkLoader.View(fn)
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.trie)
}

// AddWord stores word in lower case. Chunk backed completers ignore it.
func (c *Completer) AddWord(word string, frequency int) {
	if c.chunkLoader != nil {
		log.Warnf("AddWord(%q) ignored: dictionary is chunk backed", word)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	lower := strings.ToLower(word)
	if err := c.trie.Put(lower, frequency); err != nil {
		log.Debugf("Skipping word %q: %v", word, err)
		return
	}
	c.maxFrequency = max(c.maxFrequency, frequency)

	if c.hotCache != nil {
		c.hotCache.Forget(lower)
	}
}

// LoadTextFile adds every word of a plain word list.
func (c *Completer) LoadTextFile(path string) (int, error) {
	if c.chunkLoader != nil {
		return 0, errors.New("cannot load a word list into a chunk backed dictionary")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return dictionary.LoadTextFile(path, func(word string, freq int) error {
		if err := c.trie.Put(strings.ToLower(word), freq); err != nil {
			if errors.Is(err, tst.ErrEmptyKey) {
				return nil
			}
			return err
		}
		c.maxFrequency = max(c.maxFrequency, freq)
		return nil
	})
}

// threshold returns the minimum frequency for completions of prefix.
func (c *Completer) threshold(lowerPrefix string) int {
	if len([]rune(lowerPrefix)) <= 2 || utils.IsRepetitive(lowerPrefix) {
		return c.minFreqShort
	}
	return c.minFreq
}

// Complete returns up to limit words below prefix ranked by frequency. A
// limit of zero or less returns every word. The prefix itself is never
// suggested, and suggestions follow the capitalization of prefix.
func (c *Completer) Complete(prefix string, limit int) []Suggestion {
	lowerPrefix := strings.ToLower(prefix)
	threshold := c.threshold(lowerPrefix)
	filter := utils.NewSuggestionFilter(lowerPrefix)

	var suggestions []Suggestion
	c.view(func(trie *tst.Trie[int]) {
		trie.VisitPrefix(lowerPrefix, func(word string, freq int) bool {
			if freq >= threshold && filter.ShouldInclude(word) {
				suggestions = append(suggestions, Suggestion{Word: word, Frequency: freq})
			}
			return true
		})

		if c.hotCache == nil || limit <= 0 || len(suggestions) >= limit {
			return
		}
		// cached scores may be stale, the trie has the final say
		for _, s := range c.hotCache.Search(lowerPrefix, threshold) {
			freq, ok := trie.Get(s.Word)
			if !ok || freq < threshold || !filter.ShouldInclude(s.Word) {
				continue
			}
			suggestions = append(suggestions, Suggestion{Word: s.Word, Frequency: freq})
		}
	})

	suggestions = rank(suggestions, limit)

	if c.hotCache != nil {
		for _, s := range suggestions {
			c.hotCache.Record(s.Word, s.Frequency)
		}
	}

	caps := utils.CapitalPositions(prefix)
	for i := range suggestions {
		suggestions[i].Word = utils.ApplyCapitals(suggestions[i].Word, caps)
	}
	return suggestions
}

// CompleteWithFuzzy completes prefix, and when nothing is found completes
// the best correction of prefix instead. The correction itself leads the
// results.
func (c *Completer) CompleteWithFuzzy(prefix string, limit int) []Suggestion {
	suggestions := c.Complete(prefix, limit)
	if len(suggestions) > 0 {
		return suggestions
	}

	var correction Correction
	var ok bool
	c.view(func(trie *tst.Trie[int]) {
		correction, ok = c.corrector.Correct(trie, prefix)
	})
	if !ok {
		return suggestions
	}

	log.Debugf("Corrected prefix %q to %q", prefix, correction.Word)

	corrected := []Suggestion{{Word: correction.Word, Frequency: correction.Frequency}}
	if limit != 1 {
		rest := 0
		if limit > 1 {
			rest = limit - 1
		}
		corrected = append(corrected, c.Complete(correction.Word, rest)...)
	}

	caps := utils.CapitalPositions(prefix)
	for i := range corrected {
		corrected[i].Word = utils.ApplyCapitals(corrected[i].Word, caps)
		corrected[i].WasCorrected = true
		corrected[i].OriginalPrefix = prefix
		corrected[i].CorrectedPrefix = correction.Word
	}
	return corrected
}

// Match returns up to limit words matching pattern ranked by frequency.
// Frequency thresholds do not apply. A limit of zero or less returns every match.
func (c *Completer) Match(pattern string, limit int) ([]Suggestion, error) {
	lowerPattern := strings.ToLower(pattern)

	var suggestions []Suggestion
	var err error
	c.view(func(trie *tst.Trie[int]) {
		err = trie.VisitMatches(lowerPattern, func(word string, freq int) bool {
			suggestions = append(suggestions, Suggestion{Word: word, Frequency: freq})
			return true
		})
	})
	if err != nil {
		return nil, err
	}
	return rank(suggestions, limit), nil
}

// Wildcard returns the wildcard of Match patterns.
func (c *Completer) Wildcard() rune {
	return c.wildcard
}

// LongestPrefix returns the longest stored word that is a prefix of query.
func (c *Completer) LongestPrefix(query string) string {
	var longest string
	c.view(func(trie *tst.Trie[int]) {
		longest = trie.LongestPrefixOf(strings.ToLower(query))
	})
	return longest
}

func (c *Completer) Contains(word string) bool {
	var ok bool
	c.view(func(trie *tst.Trie[int]) {
		ok = trie.Contains(strings.ToLower(word))
	})
	return ok
}

// Frequency returns the stored frequency of word.
func (c *Completer) Frequency(word string) (int, bool) {
	var freq int
	var ok bool
	c.view(func(trie *tst.Trie[int]) {
		freq, ok = trie.Get(strings.ToLower(word))
	})
	return freq, ok
}

// Initialize starts background chunk loading for lazy completers and seeds
// the hot cache of in-memory ones.
func (c *Completer) Initialize() error {
	if c.chunkLoader != nil {
		return c.chunkLoader.StartLazyLoading()
	}

	if c.hotCache != nil {
		c.mu.RLock()
		c.hotCache.Populate(c.trie)
		c.mu.RUnlock()
	}
	return nil
}

// RequestMoreWords queues chunks covering additionalWords more words.
// In-memory completers have nothing more to load.
func (c *Completer) RequestMoreWords(additionalWords int) error {
	if c.chunkLoader == nil {
		return errors.New("dictionary is not chunk backed")
	}
	return c.chunkLoader.RequestMoreChunks(additionalWords)
}

// Runtime returns the runtime loader of a chunk backed completer, nil otherwise.
func (c *Completer) Runtime() *dictionary.RuntimeLoader {
	return c.runtime
}

// Stop stops background loading.
func (c *Completer) Stop() {
	if c.chunkLoader != nil {
		c.chunkLoader.Stop()
	}
}

func (c *Completer) Stats() map[string]int {
	stats := make(map[string]int)

	if c.chunkLoader != nil {
		loaderStats := c.chunkLoader.Stats()
		stats["totalWords"] = loaderStats.TotalWords
		stats["maxFrequency"] = loaderStats.MaxFrequency
		stats["loadedChunks"] = loaderStats.LoadedChunks
		stats["availableChunks"] = loaderStats.AvailableChunks
		if loaderStats.IsLoading {
			stats["isLoading"] = 1
		} else {
			stats["isLoading"] = 0
		}
	} else {
		c.mu.RLock()
		stats["totalWords"] = c.trie.Len()
		stats["maxFrequency"] = c.maxFrequency
		c.mu.RUnlock()
	}

	if c.hotCache != nil {
		for k, v := range c.hotCache.Stats() {
			stats[k] = v
		}
	}
	return stats
}

// rank sorts by frequency, highest first, then alphabetically, and keeps
// the first limit entries when limit is positive.
func rank(suggestions []Suggestion, limit int) []Suggestion {
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].Frequency != suggestions[j].Frequency {
			return suggestions[i].Frequency > suggestions[j].Frequency
		}
		return suggestions[i].Word < suggestions[j].Word
	})
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions
}
