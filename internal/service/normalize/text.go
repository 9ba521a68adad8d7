package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var ErrMalformedDuration = errors.New("malformed duration")

var (
	digitRuns   = regexp.MustCompile(`\d+`)
	hashtagExpr = regexp.MustCompile(`#([\p{L}\p{N}\p{M}_]+)`)
	urlExpr     = regexp.MustCompile(`http\S+`)
)

// DurationSeconds reads the digit runs of a compact duration token such as
// PT1H2M3S as [h m s], [m s] or [s].
func DurationSeconds(token string) (int, error) {
	runs := digitRuns.FindAllString(token, -1)

	parts := make([]int, len(runs))
	for i, r := range runs {
		n, err := strconv.Atoi(r)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, token)
		}
		parts[i] = n
	}

	switch len(parts) {
	case 3:
		return parts[0]*3600 + parts[1]*60 + parts[2], nil
	case 2:
		return parts[0]*60 + parts[1], nil
	case 1:
		return parts[0], nil
	default:
		return 0, fmt.Errorf("%w: %q has %d segments", ErrMalformedDuration, token, len(parts))
	}
}

// Hashtags returns every #tag in text, title-cased, in order and with
// duplicates kept.
func Hashtags(text string) []string {
	matches := hashtagExpr.FindAllStringSubmatch(text, -1)

	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, TitleCase(m[1]))
	}

	return tags
}

// TitleCase upper-cases a letter that follows a non-letter and lower-cases
// every other letter.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}

	return b.String()
}

// TopicCategory keeps the last segment of a topic URL.
func TopicCategory(topic string) string {
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		return topic[i+1:]
	}
	return topic
}

// ProcessDescription keeps the leading prose of a description. The walk
// stops at the first blank line, punctuation-only line or line that does not
// start with a letter. Lines with a link or a mention are skipped. A line that
// is nothing but a link, or that follows a line ending in ':' or '-', also
// retracts the last kept line.
func ProcessDescription(text string) string {
	if len(text) == 0 {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	var kept []string

	for i, line := range lines {
		if !hasWordRune(line) || !startsWithLetter(line) {
			break
		}

		link := urlExpr.FindStringIndex(line)
		mention := strings.Contains(line, "@")

		switch {
		case link == nil && !mention:
			kept = append(kept, line)
		case len(kept) > 1 && link != nil && link[1]-link[0] == len(line):
			kept = kept[:len(kept)-1]
		case i > 0 && leadsIn(lines[i-1]) && len(kept) > 0:
			kept = kept[:len(kept)-1]
		}
	}

	return strings.Join(kept, " ")
}

func hasWordRune(s string) bool {
	for _, r := range s {
		if isWordRune(r) {
			return true
		}
	}
	return false
}

func startsWithLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func leadsIn(s string) bool {
	return strings.HasSuffix(s, ":") || strings.HasSuffix(s, "-")
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
