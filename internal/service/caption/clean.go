package caption

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/w-h-a/originality/transcriber"
)

var (
	asideExpr  = regexp.MustCompile(` [(\[].*?[)\]]`)
	spacesExpr = regexp.MustCompile(` {2,}`)
	whitespace = strings.NewReplacer("\u00a0", " ", "\n", " ")
)

// Join concatenates the lines of a track, each preceded by a space.
func Join(snippets []transcriber.Snippet) string {
	var b strings.Builder
	for _, s := range snippets {
		b.WriteString(" ")
		b.WriteString(s.Text)
	}
	return b.String()
}

// Clean strips bracketed asides such as [Music], collapses words repeated
// back to back, turns non-breaking spaces and newlines into spaces, squeezes
// runs of spaces and drops the leading space left by Join.
func Clean(raw string) string {
	s := asideExpr.ReplaceAllString(raw, "")
	s = collapseRepeats(s)
	s = whitespace.Replace(s)
	s = spacesExpr.ReplaceAllString(s, " ")
	return strings.TrimPrefix(s, " ")
}

// collapseRepeats keeps one occurrence of a word that is repeated, separated
// by single spaces, regardless of case.
func collapseRepeats(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		end := wordEnd(s, i)
		if end == i {
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size
			continue
		}

		word := s[i:end]
		b.WriteString(word)

		for end < len(s) && s[end] == ' ' {
			next := wordEnd(s, end+1)
			if next == end+1 || !strings.EqualFold(s[end+1:next], word) {
				break
			}
			end = next
		}

		i = end
	}

	return b.String()
}

func wordEnd(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return i
}
