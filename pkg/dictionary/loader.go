// Package dictionary loads word lists into the ternary search trie used by the completer.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/wordtrie/pkg/tst"
	"github.com/charmbracelet/log"
)

// ChunkLoader manages lazy loading of dictionary chunks.
//
// The trie it fills has no internal locking; every access goes through the
// loader's mutex, readers via View.
type ChunkLoader struct {
	dirPath      string
	chunkSize    int
	maxWords     int
	loadedChunks map[int]bool
	chunkWords   map[int]map[string]int
	trie         *tst.Trie[int]
	maxFrequency int
	mu           sync.RWMutex
	loadingCh    chan int
	done         chan struct{}
	stopOnce     sync.Once
	errorCount   map[int]int
	maxRetries   int
	trieOpts     []tst.Option[int]
	onChange     func()
}

// ChunkInfo contains metadata about a chunk file
type ChunkInfo struct {
	ID        int
	Filename  string
	WordCount int
}

// LoaderStats provides statistics about the loading process
type LoaderStats struct {
	TotalWords      int
	LoadedChunks    int
	AvailableChunks int
	MaxFrequency    int
	IsLoading       bool
}

// NewChunkLoader creates a new lazy chunk loader. opts configure every trie
// the loader builds.
func NewChunkLoader(dirPath string, chunkSize, maxWords int, opts ...tst.Option[int]) *ChunkLoader {
	return &ChunkLoader{
		dirPath:      dirPath,
		chunkSize:    chunkSize,
		maxWords:     maxWords,
		loadedChunks: make(map[int]bool),
		chunkWords:   make(map[int]map[string]int),
		trie:         tst.New(opts...),
		loadingCh:    make(chan int, 10),
		done:         make(chan struct{}),
		errorCount:   make(map[int]int),
		maxRetries:   3,
		trieOpts:     opts,
	}
}

// Available scans the directory for chunk files, sorted by id.
func (cl *ChunkLoader) Available() ([]ChunkInfo, error) {
	files, err := filepath.Glob(filepath.Join(cl.dirPath, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	var chunks []ChunkInfo
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		chunkID, err := strconv.Atoi(idStr)
		if err != nil {
			continue
		}

		wordCount, err := readWordCount(file)
		if err != nil {
			log.Warnf("Failed to get word count for chunk %s: %v", file, err)
			wordCount = 0
		}
		chunks = append(chunks, ChunkInfo{ID: chunkID, Filename: file, WordCount: wordCount})
	}

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].ID < chunks[j].ID
	})
	return chunks, nil
}

// StartLazyLoading queues chunks until maxWords (0 for all) is covered and
// starts the background loader.
func (cl *ChunkLoader) StartLazyLoading() error {
	chunks, err := cl.Available()
	if err != nil {
		return fmt.Errorf("failed to get available chunks: %w", err)
	}
	if len(chunks) == 0 {
		return fmt.Errorf("no chunk files found in %s", cl.dirPath)
	}

	log.Debugf("Found %d chunk files", len(chunks))

	go cl.backgroundLoader()

	wordsToLoad := cl.maxWords
	if wordsToLoad == 0 {
		for _, chunk := range chunks {
			wordsToLoad += chunk.WordCount
		}
	}

	queued := 0
	for _, chunk := range chunks {
		if queued >= wordsToLoad {
			break
		}
		select {
		case cl.loadingCh <- chunk.ID:
			log.Debugf("Queued chunk %d for loading", chunk.ID)
		case <-time.After(100 * time.Millisecond):
			log.Warnf("Loading queue full, chunk %d will be loaded later", chunk.ID)
		}
		queued += chunk.WordCount
	}
	return nil
}

// backgroundLoader loads queued chunks until Stop is called.
func (cl *ChunkLoader) backgroundLoader() {
	for {
		select {
		case chunkID := <-cl.loadingCh:
			if err := cl.Load(chunkID); err != nil {
				log.Errorf("Failed to load chunk %d: %v", chunkID, err)
				cl.retry(chunkID)
				continue
			}
			log.Debugf("Successfully loaded chunk %d", chunkID)
		case <-cl.done:
			return
		}
	}
}

func (cl *ChunkLoader) retry(chunkID int) {
	cl.mu.Lock()
	cl.errorCount[chunkID]++
	errorCount := cl.errorCount[chunkID]
	cl.mu.Unlock()

	if errorCount >= cl.maxRetries {
		log.Errorf("Chunk %d failed %d times, giving up", chunkID, cl.maxRetries)
		return
	}

	log.Debugf("Retrying chunk %d (attempt %d/%d)", chunkID, errorCount+1, cl.maxRetries)
	go func() {
		select {
		case <-time.After(time.Duration(errorCount) * time.Second):
		case <-cl.done:
			return
		}
		select {
		case cl.loadingCh <- chunkID:
		case <-cl.done:
		}
	}()
}

// Load reads chunk id into the trie. Loading an already loaded chunk is a no-op.
func (cl *ChunkLoader) Load(chunkID int) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.loadedChunks[chunkID] {
		return nil
	}

	filename := filepath.Join(cl.dirPath, ChunkFileName(chunkID))
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open chunk file %s: %w", filename, err)
	}
	defer file.Close()

	words := make(map[string]int)
	count, err := ReadChunk(file, func(word string, score int) error {
		if word == "" {
			log.Debugf("Skipping empty word in chunk %d", chunkID)
			return nil
		}
		words[word] = score
		cl.maxFrequency = max(cl.maxFrequency, score)
		if cl.heldByHigherChunk(chunkID, word) {
			return nil
		}
		return cl.trie.Put(word, score)
	})
	if err != nil {
		// drop the words already put from the broken chunk
		cl.rebuildTrie()
		return fmt.Errorf("chunk %d: %w", chunkID, err)
	}

	cl.chunkWords[chunkID] = words
	cl.loadedChunks[chunkID] = true
	cl.changed()
	log.Debugf("Chunk %d loaded: %d words", chunkID, count)
	return nil
}

// heldByHigherChunk reports whether a loaded chunk with an id above
// chunkID has word, whose score then takes precedence.
func (cl *ChunkLoader) heldByHigherChunk(chunkID int, word string) bool {
	for id, words := range cl.chunkWords {
		if id <= chunkID {
			continue
		}
		if _, ok := words[word]; ok {
			return true
		}
	}
	return false
}

// Evict removes a loaded chunk. The trie cannot delete keys, so it is
// rebuilt from the chunks that stay loaded.
func (cl *ChunkLoader) Evict(chunkID int) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if !cl.loadedChunks[chunkID] {
		return fmt.Errorf("chunk %d is not loaded", chunkID)
	}

	log.Debugf("Unloading chunk %d", chunkID)
	delete(cl.loadedChunks, chunkID)
	delete(cl.chunkWords, chunkID)
	cl.rebuildTrie()

	log.Debugf("Successfully unloaded chunk %d", chunkID)
	return nil
}

// OnChange registers fn to run whenever the trie contents change through
// Load or Evict. fn runs with the loader locked and must not call back into it.
func (cl *ChunkLoader) OnChange(fn func()) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.onChange = fn
}

func (cl *ChunkLoader) changed() {
	if cl.onChange != nil {
		cl.onChange()
	}
}

// rebuildTrie reconstructs the trie from the loaded chunks in id order, so
// a word present in several chunks keeps the score of the highest id.
func (cl *ChunkLoader) rebuildTrie() {
	trie := tst.New(cl.trieOpts...)
	cl.maxFrequency = 0

	ids := make([]int, 0, len(cl.loadedChunks))
	for id, loaded := range cl.loadedChunks {
		if loaded {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	for _, id := range ids {
		for word, score := range cl.chunkWords[id] {
			_ = trie.Put(word, score)
			cl.maxFrequency = max(cl.maxFrequency, score)
		}
	}

	cl.trie = trie
	cl.changed()
	log.Debugf("Trie rebuilt with %d loaded chunks", len(ids))
}

// View runs fn with the current trie while holding the read lock. fn must
// not keep the trie past its return nor modify it.
func (cl *ChunkLoader) View(fn func(trie *tst.Trie[int])) {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	fn(cl.trie)
}

// Stats returns current loading statistics
func (cl *ChunkLoader) Stats() LoaderStats {
	chunks, _ := cl.Available()

	cl.mu.RLock()
	defer cl.mu.RUnlock()

	return LoaderStats{
		TotalWords:      cl.trie.Len(),
		LoadedChunks:    len(cl.loadedChunks),
		AvailableChunks: len(chunks),
		MaxFrequency:    cl.maxFrequency,
		IsLoading:       len(cl.loadingCh) > 0,
	}
}

// Stop stops the background loading process. It is safe to call more than once.
func (cl *ChunkLoader) Stop() {
	cl.stopOnce.Do(func() {
		close(cl.done)
	})
}

// RequestMoreChunks queues unloaded chunks until they cover additionalWords.
func (cl *ChunkLoader) RequestMoreChunks(additionalWords int) error {
	chunks, err := cl.Available()
	if err != nil {
		return err
	}

	queued := 0
	for _, chunk := range chunks {
		if queued >= additionalWords {
			break
		}

		cl.mu.RLock()
		alreadyLoaded := cl.loadedChunks[chunk.ID]
		cl.mu.RUnlock()
		if alreadyLoaded {
			continue
		}

		select {
		case cl.loadingCh <- chunk.ID:
			log.Debugf("Queued additional chunk %d for loading", chunk.ID)
			queued += chunk.WordCount
		default:
			log.Warnf("Loading queue full, cannot queue chunk %d", chunk.ID)
		}
	}
	return nil
}

// ChunkSize returns the configured number of words per chunk.
func (cl *ChunkLoader) ChunkSize() int {
	return cl.chunkSize
}

// LoadedIDs returns the ids of the loaded chunks in ascending order.
func (cl *ChunkLoader) LoadedIDs() []int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	ids := make([]int, 0, len(cl.loadedChunks))
	for id, loaded := range cl.loadedChunks {
		if loaded {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}
