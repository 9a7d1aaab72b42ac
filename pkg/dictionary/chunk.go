package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// Entry is one word of a chunk file together with its frequency rank.
// Rank 1 is the most frequent word.
type Entry struct {
	Word string
	Rank uint16
}

// ChunkFileName returns the file name used for chunk id, dict_0001.bin for 1.
func ChunkFileName(id int) string {
	return fmt.Sprintf("dict_%04d.bin", id)
}

// RankToScore turns a rank into a score ordering the other way round:
// rank 1 scores 65535, rank 2 scores 65534 and so on.
func RankToScore(rank uint16) int {
	return math.MaxUint16 + 1 - int(rank)
}

// ReadChunk decodes a chunk stream: a little endian int32 word count, then
// per word a uint16 byte length, the word bytes and a uint16 rank. fn gets
// every word with its score.
func ReadChunk(r io.Reader, fn func(word string, score int) error) (int, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 {
		return 0, fmt.Errorf("invalid word count %d in chunk header", totalEntries)
	}

	count := 0
	for count < int(totalEntries) {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return count, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return count, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return count, fmt.Errorf("failed to read rank: %w", err)
		}

		if err := fn(string(wordBytes), RankToScore(rank)); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// WriteChunk encodes entries in the format ReadChunk expects.
func WriteChunk(w io.Writer, entries []Entry) error {
	writer := bufio.NewWriter(w)

	if err := binary.Write(writer, binary.LittleEndian, int32(len(entries))); err != nil {
		return fmt.Errorf("failed to write chunk header: %w", err)
	}
	for _, e := range entries {
		if len(e.Word) > math.MaxUint16 {
			return fmt.Errorf("word of %d bytes exceeds chunk limit", len(e.Word))
		}
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(e.Word))); err != nil {
			return fmt.Errorf("failed to write word length: %w", err)
		}
		if _, err := writer.WriteString(e.Word); err != nil {
			return fmt.Errorf("failed to write word: %w", err)
		}
		if err := binary.Write(writer, binary.LittleEndian, e.Rank); err != nil {
			return fmt.Errorf("failed to write rank: %w", err)
		}
	}
	return writer.Flush()
}

// WriteChunkFile writes entries to path, replacing any existing file.
func WriteChunkFile(path string, entries []Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", path, err)
	}
	if err := WriteChunk(file, entries); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
