package dictionary

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
)

// RuntimeLoader grows or shrinks the set of loaded chunks while serving.
type RuntimeLoader struct {
	chunkLoader  *ChunkLoader
	targetChunks int
	mu           sync.Mutex
}

// SizeOption describes loading the first ChunkCount chunks.
type SizeOption struct {
	ChunkCount int
	WordCount  int
	SizeLabel  string
}

// NewRuntimeLoader creates a new runtime loader
func NewRuntimeLoader(chunkLoader *ChunkLoader) *RuntimeLoader {
	return &RuntimeLoader{chunkLoader: chunkLoader}
}

// AvailableChunkCount returns the total number of available chunk files
func (rl *RuntimeLoader) AvailableChunkCount() (int, error) {
	chunks, err := rl.chunkLoader.Available()
	if err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// MaxWordsAvailable returns the number of words across all chunk files.
func (rl *RuntimeLoader) MaxWordsAvailable() (int, error) {
	chunks, err := rl.chunkLoader.Available()
	if err != nil {
		return 0, err
	}

	total := 0
	for _, chunk := range chunks {
		total += chunk.WordCount
	}
	return total, nil
}

// SetDictionarySize loads or evicts chunks until targetChunks are loaded.
// Chunks load lowest id first and are evicted highest id first.
func (rl *RuntimeLoader) SetDictionarySize(targetChunks int) error {
	if targetChunks < 1 {
		return fmt.Errorf("minimum dictionary size is 1 chunk")
	}

	chunks, err := rl.chunkLoader.Available()
	if err != nil {
		return err
	}
	if targetChunks > len(chunks) {
		return fmt.Errorf("requested %d chunks, only %d available", targetChunks, len(chunks))
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	loaded := rl.chunkLoader.LoadedIDs()
	log.Debugf("Setting dictionary size: current=%d chunks, target=%d chunks", len(loaded), targetChunks)

	switch {
	case targetChunks > len(loaded):
		rl.loadAdditional(chunks, targetChunks-len(loaded))
	case targetChunks < len(loaded):
		rl.unloadExcess(loaded, len(loaded)-targetChunks)
	}
	rl.targetChunks = targetChunks
	return nil
}

func (rl *RuntimeLoader) loadAdditional(chunks []ChunkInfo, additional int) {
	loadedCount := 0
	for _, chunk := range chunks {
		if loadedCount >= additional {
			break
		}
		if isLoaded(rl.chunkLoader.LoadedIDs(), chunk.ID) {
			continue
		}
		if err := rl.chunkLoader.Load(chunk.ID); err != nil {
			log.Warnf("Failed to load chunk %d: %v", chunk.ID, err)
			continue
		}
		loadedCount++
	}
	log.Debugf("Loaded %d additional chunks", loadedCount)
}

func (rl *RuntimeLoader) unloadExcess(loaded []int, excess int) {
	ids := append([]int(nil), loaded...)
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	unloadedCount := 0
	for _, id := range ids {
		if unloadedCount >= excess {
			break
		}
		if err := rl.chunkLoader.Evict(id); err != nil {
			log.Warnf("Failed to unload chunk %d: %v", id, err)
			continue
		}
		unloadedCount++
	}
	log.Debugf("Unloaded %d chunks", unloadedCount)
}

func isLoaded(ids []int, id int) bool {
	i := sort.SearchInts(ids, id)
	return i < len(ids) && ids[i] == id
}

// TargetChunks returns the size last set with SetDictionarySize.
func (rl *RuntimeLoader) TargetChunks() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.targetChunks
}

// SizeOptions lists the cumulative word counts of loading 1..n chunks.
func (rl *RuntimeLoader) SizeOptions() ([]SizeOption, error) {
	chunks, err := rl.chunkLoader.Available()
	if err != nil {
		return nil, err
	}

	options := make([]SizeOption, 0, len(chunks))
	totalWords := 0
	for i, chunk := range chunks {
		totalWords += chunk.WordCount
		options = append(options, SizeOption{
			ChunkCount: i + 1,
			WordCount:  totalWords,
			SizeLabel:  fmt.Sprintf("%dK words", totalWords/1000),
		})
	}
	return options, nil
}
