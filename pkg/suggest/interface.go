// Package suggest ranks completions, wildcard matches and corrections read
// from a ternary search trie of word frequencies.
package suggest

// ICompleter defines the interface for word completion engines
type ICompleter interface {
	// Complete returns suggestions for a given prefix with a limit
	Complete(prefix string, limit int) []Suggestion

	// CompleteWithFuzzy falls back to a corrected prefix when Complete finds nothing
	CompleteWithFuzzy(prefix string, limit int) []Suggestion

	// Match returns words matching a wildcard pattern
	Match(pattern string, limit int) ([]Suggestion, error)

	// Wildcard returns the symbol Match treats as any single character
	Wildcard() rune

	// LongestPrefix returns the longest stored word that prefixes query
	LongestPrefix(query string) string

	Contains(word string) bool

	// AddWord adds a word with its frequency to the completer
	AddWord(word string, frequency int)

	// Initialize starts loading the dictionary
	Initialize() error

	// RequestMoreWords asks for more of the dictionary to be loaded
	RequestMoreWords(additionalWords int) error

	// Stats returns statistics about the loaded dictionary
	Stats() map[string]int
}
