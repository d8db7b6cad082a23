package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9 ]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// FoldAccents strips combining marks, so "Åsa Lim-Dûl" becomes "Asa Lim-Dul".
func FoldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify turns a display name into a lowercase, dash-separated file name.
func Slugify(s string) string {
	s = strings.ToLower(FoldAccents(strings.TrimSpace(s)))
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
