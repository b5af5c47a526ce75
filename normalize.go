package docxtex

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	reLineEnd          = regexp.MustCompile(`\r\n?`)
	reTrailingSpace    = regexp.MustCompile(`(?m)[ \t]+$`)
	reExcessBlankLines = regexp.MustCompile(`\n{3,}`)
)

// invisible lists format characters Word leaves in text runs: soft hyphen,
// zero-width space and joiners, BOM.
var invisible = map[rune]bool{
	'\u00AD': true,
	'\u200B': true,
	'\u200C': true,
	'\u200D': true,
	'\uFEFF': true,
}

// normalizeOutput tidies converted Markdown. Line endings become LF, control
// and invisible format characters are dropped (tabs and newlines stay),
// trailing blanks are cut, blank runs collapse to one empty line and the
// result is trimmed. Invalid UTF-8 is removed.
//
// Equations are restored after this runs, so LaTeX is never touched.
func normalizeOutput(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = reLineEnd.ReplaceAllString(s, "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\t':
			return r
		case unicode.IsControl(r), invisible[r]:
			return -1
		}
		return r
	}, s)
	s = reTrailingSpace.ReplaceAllString(s, "")
	s = reExcessBlankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
