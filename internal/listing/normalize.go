package listing

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRuns     = regexp.MustCompile(` {2,}`)
	lineBreaks    = strings.NewReplacer("\n", "", "\r", "")
	nonBreakSpace = strings.NewReplacer("\u00a0", " ", "\u202f", " ")
)

// Normalize lowercases text, drops line breaks and collapses runs of spaces.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ToLower(text)
	text = nonBreakSpace.Replace(text)
	text = lineBreaks.Replace(text)
	text = spaceRuns.ReplaceAllString(text, " ")
	return norm.NFC.String(text)
}
