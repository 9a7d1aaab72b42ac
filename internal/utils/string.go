package utils

import (
	"strconv"
	"unicode"
)

// CapitalPositions marks which runes of s are upper case ASCII letters.
func CapitalPositions(s string) []bool {
	runes := []rune(s)
	positions := make([]bool, len(runes))
	for i, r := range runes {
		positions[i] = r >= 'A' && r <= 'Z'
	}
	return positions
}

// ApplyCapitals upper-cases the runes of word at the marked positions.
func ApplyCapitals(word string, positions []bool) string {
	if len(positions) == 0 {
		return word
	}

	runes := []rune(word)
	changed := false
	for i := 0; i < len(runes) && i < len(positions); i++ {
		if positions[i] && runes[i] >= 'a' && runes[i] <= 'z' {
			runes[i] = unicode.ToUpper(runes[i])
			changed = true
		}
	}
	if !changed {
		return word
	}
	return string(runes)
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}

	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	out := make([]byte, 0, len(str)+len(str)/3)
	for i := 0; i < len(str); i++ {
		if i > 0 && (len(str)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, str[i])
	}
	return string(out)
}
