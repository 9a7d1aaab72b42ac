package suggest

import (
	"math"
	"sync"

	"github.com/bastiangx/wordtrie/pkg/tst"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// HotCache keeps recently served words in a small patricia trie, evicting
// the least recently used word once maxWords is reached.
type HotCache struct {
	hotTrie     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	maxWords    int
	mu          sync.Mutex
}

func NewHotCache(maxWords int) *HotCache {
	return &HotCache{
		hotTrie:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxWords),
		maxWords:   maxWords,
	}
}

// Record stores word with its score, refreshing its access time.
func (hc *HotCache) Record(word string, score int) {
	if hc.maxWords <= 0 || word == "" {
		return
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.record(word, score)
}

func (hc *HotCache) record(word string, score int) {
	if _, ok := hc.accessTime[word]; !ok && len(hc.accessTime) >= hc.maxWords {
		hc.evictLRU()
	}
	hc.hotTrie.Set(patricia.Prefix(word), score)
	hc.accessTime[word] = hc.nextAccessTime()
}

// Search returns cached words below lowerPrefix scoring at least
// minThreshold. The prefix itself is never returned.
func (hc *HotCache) Search(lowerPrefix string, minThreshold int) []Suggestion {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	var results []Suggestion
	err := hc.hotTrie.VisitSubtree(patricia.Prefix(lowerPrefix), func(p patricia.Prefix, item patricia.Item) error {
		word := string(p)
		if word == lowerPrefix {
			return nil
		}

		score := item.(int)
		if score < minThreshold {
			return nil
		}

		hc.accessTime[word] = hc.nextAccessTime()
		results = append(results, Suggestion{Word: word, Frequency: score})
		return nil
	})
	if err != nil {
		log.Errorf("Error searching hot cache: %v", err)
	}

	if len(results) > 0 {
		hc.hits++
	}
	return results
}

// Populate seeds the cache with up to half its capacity from trie.
func (hc *HotCache) Populate(trie *tst.Trie[int]) {
	if trie == nil || hc.maxWords <= 0 {
		return
	}

	hc.mu.Lock()
	defer hc.mu.Unlock()

	count := 0
	maxInitial := hc.maxWords / 2
	trie.Walk(func(word string, score int) bool {
		if count >= maxInitial {
			return false
		}
		hc.record(word, score)
		count++
		return true
	})

	log.Debugf("Populated hot cache with %d words", count)
}

// Forget drops word from the cache.
func (hc *HotCache) Forget(word string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	if _, ok := hc.accessTime[word]; ok {
		hc.hotTrie.Delete(patricia.Prefix(word))
		delete(hc.accessTime, word)
	}
}

// Reset empties the cache. Hit statistics are kept.
func (hc *HotCache) Reset() {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	hc.hotTrie = patricia.NewTrie()
	clear(hc.accessTime)
	log.Debug("Hot cache cleared")
}

// Len returns the number of cached words.
func (hc *HotCache) Len() int {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	return len(hc.accessTime)
}

func (hc *HotCache) Stats() map[string]int {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	return map[string]int{
		"hotCacheWords": len(hc.accessTime),
		"maxHotWords":   hc.maxWords,
		"hotCacheHits":  int(hc.hits),
	}
}

func (hc *HotCache) nextAccessTime() int64 {
	hc.accessCount++
	return hc.accessCount
}

func (hc *HotCache) evictLRU() {
	var oldestWord string
	var oldestTime int64 = math.MaxInt64

	for word, accessTime := range hc.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestWord = word
		}
	}

	if oldestWord != "" {
		hc.hotTrie.Delete(patricia.Prefix(oldestWord))
		delete(hc.accessTime, oldestWord)
		log.Debugf("Evicted word '%s' from hot cache", oldestWord)
	}
}
