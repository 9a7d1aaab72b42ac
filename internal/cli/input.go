// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordtrie/internal/utils"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
)

const (
	matchPrefix   = "?"
	longestPrefix = ">"
)

// InputHandler processes user input from stdin, printing suggestions.
//
// Plain input completes, "?pattern" lists wildcard matches and ">query"
// shows the longest stored word prefixing query.
type InputHandler struct {
	completer       suggest.ICompleter
	minPrefixLength int
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	wildcard        rune
	in              io.Reader
	out             *log.Logger
}

// Option configures an InputHandler.
type Option func(*InputHandler)

// WithIO replaces stdin and the default logger output.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(h *InputHandler) {
		h.in = r
		h.out = log.New(w)
	}
}

// WithWildcard sets the wildcard accepted in "?pattern" input.
func WithWildcard(r rune) Option {
	return func(h *InputHandler) {
		h.wildcard = r
	}
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, minLength, maxLength, limit int, noFilter bool, opts ...Option) *InputHandler {
	h := &InputHandler{
		completer:       completer,
		minPrefixLength: minLength,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		wildcard:        '.',
		in:              os.Stdin,
		out:             log.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Start reads lines until the input ends and handles each non blank one.
func (h *InputHandler) Start() error {
	h.out.Print("WordTrie CLI [BETA]")
	h.out.Printf("type a prefix, %spattern or %squery and press Enter (Ctrl+C to exit):", matchPrefix, longestPrefix)

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(input string) {
	switch {
	case strings.HasPrefix(input, matchPrefix):
		h.handleMatch(strings.TrimPrefix(input, matchPrefix))
	case strings.HasPrefix(input, longestPrefix):
		h.handleLongest(strings.TrimPrefix(input, longestPrefix))
	default:
		h.handleComplete(input)
	}
}

func (h *InputHandler) checkLength(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < h.minPrefixLength {
		h.out.Errorf("Prefix too short: %s", s)
		return false
	}
	if n > h.maxPrefixLength {
		h.out.Errorf("Prefix too long: %s", s)
		return false
	}
	return true
}

func (h *InputHandler) handleComplete(prefix string) {
	if !h.checkLength(prefix) {
		return
	}

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter && !utils.IsValidInput(prefix) {
		h.out.Warnf("No suggestions found for prefix: '%s' (filtered out)", prefix)
		return
	}

	start := time.Now()
	suggestions := h.completer.CompleteWithFuzzy(prefix, h.suggestLimit)
	h.out.Debugf("Took [ %v ] for prefix '%s'", time.Since(start), prefix)

	if len(suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", prefix)
		return
	}

	if suggestions[0].WasCorrected {
		h.out.Printf("Corrected '%s' to '%s'", prefix, suggestions[0].CorrectedPrefix)
	}
	h.out.Printf("Found %d suggestions for prefix '%s':", len(suggestions), prefix)
	h.printSuggestions(suggestions)
}

func (h *InputHandler) handleMatch(pattern string) {
	if !h.checkLength(pattern) {
		return
	}
	if !h.noFilter && !utils.IsValidPattern(pattern, h.wildcard) {
		h.out.Warnf("No matches found for pattern: '%s' (filtered out)", pattern)
		return
	}

	start := time.Now()
	matches, err := h.completer.Match(pattern, h.suggestLimit)
	if err != nil {
		h.out.Errorf("Invalid pattern '%s': %v", pattern, err)
		return
	}
	h.out.Debugf("Took [ %v ] for pattern '%s'", time.Since(start), pattern)

	if len(matches) == 0 {
		h.out.Warnf("No matches found for pattern: '%s'", pattern)
		return
	}

	h.out.Printf("Found %d matches for pattern '%s':", len(matches), pattern)
	h.printSuggestions(matches)
}

func (h *InputHandler) handleLongest(query string) {
	if !h.checkLength(query) {
		return
	}

	longest := h.completer.LongestPrefix(query)
	if longest == "" {
		h.out.Warnf("No stored word prefixes '%s'", query)
		return
	}
	h.out.Printf("Longest prefix of '%s': %s", query, colorWord(longest))
}

func (h *InputHandler) printSuggestions(suggestions []suggest.Suggestion) {
	for i, s := range suggestions {
		h.out.Printf("%2d. %-40s (freq: %8s)", i+1, colorWord(s.Word), utils.FormatWithCommas(s.Frequency))
	}
}

func colorWord(word string) string {
	return fmt.Sprintf("\033[38;5;75m%s\033[0m", word)
}
