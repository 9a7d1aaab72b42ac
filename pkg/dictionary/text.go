package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadText reads a plain word list. Each line holds a word optionally
// followed by whitespace and its frequency (default 1). Blank lines and
// lines starting with # are skipped.
func LoadText(r io.Reader, fn func(word string, freq int) error) (int, error) {
	scanner := bufio.NewScanner(r)
	lineNo, count := 0, 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		freq := 1
		if len(fields) > 1 {
			f, err := strconv.Atoi(fields[1])
			if err != nil {
				return count, fmt.Errorf("line %d: invalid frequency %q: %w", lineNo, fields[1], err)
			}
			freq = f
		}

		if err := fn(fields[0], freq); err != nil {
			return count, fmt.Errorf("line %d: %w", lineNo, err)
		}
		count++
	}

	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("failed to read word list: %w", err)
	}
	return count, nil
}

// LoadTextFile opens path and feeds it to LoadText.
func LoadTextFile(path string, fn func(word string, freq int) error) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer file.Close()

	return LoadText(file, fn)
}
