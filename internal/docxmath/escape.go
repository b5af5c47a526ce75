package docxmath

import "strings"

// Escape backslash-escapes LaTeX special characters. A character already
// preceded by a backslash is left alone.
func Escape(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	var last rune
	for _, c := range s {
		if latexSpecialChars[c] && last != '\\' {
			result.WriteRune('\\')
		}
		result.WriteRune(c)
		last = c
	}
	return result.String()
}

// SubstituteSymbols replaces every code point that has a LaTeX equivalent.
// Other characters are copied unchanged.
func SubstituteSymbols(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, c := range s {
		if rep, ok := unicodeToLatex[c]; ok {
			result.WriteString(rep)
		} else {
			result.WriteRune(c)
		}
	}
	return result.String()
}

// literal converts document text to LaTeX. Substitution must come first:
// escaping never sees a command it did not produce from literal text.
func literal(s string) string {
	return Escape(SubstituteSymbols(s))
}
