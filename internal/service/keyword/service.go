package keyword

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/w-h-a/originality/generator"
)

const prompt = `Extract at most %d short search key phrases that describe the topic of this video.
Reply with the phrases only, separated by commas.

Title: %s
Description: %s`

var listMarker = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

type Service struct {
	generator generator.Generator
	limit     int
	logger    *slog.Logger
}

// Suggest proposes search key phrases for a video. Without a generator the
// title is the only suggestion.
func (s *Service) Suggest(ctx context.Context, title string, description string) ([]string, error) {
	title = strings.TrimSpace(title)

	if s.generator == nil {
		if len(title) == 0 {
			return nil, nil
		}
		return []string{title}, nil
	}

	rsp, err := s.generator.Generate(ctx, fmt.Sprintf(prompt, s.limit, title, strings.TrimSpace(description)))
	if err != nil {
		return nil, fmt.Errorf("suggest keywords: %w", err)
	}

	keywords := Parse(rsp, s.limit)
	if len(keywords) == 0 && len(title) > 0 {
		keywords = []string{title}
	}

	s.logger.DebugContext(ctx, "suggested keywords", "title", title, "keywords", keywords)

	return keywords, nil
}

// Parse splits a comma or newline separated reply into at most limit
// phrases, stripping list markers and quotes and dropping case-insensitive
// duplicates.
func Parse(reply string, limit int) []string {
	fields := strings.FieldsFunc(reply, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	seen := map[string]bool{}
	out := []string{}

	for _, f := range fields {
		phrase := listMarker.ReplaceAllString(f, "")
		phrase = strings.Trim(strings.TrimSpace(phrase), `"'`+"`")

		if len(phrase) == 0 {
			continue
		}

		key := strings.ToLower(phrase)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, phrase)

		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out
}

// Term joins keywords into a single search expression matching any of them.
func Term(keywords []string) string {
	return strings.Join(keywords, "|")
}

func New(g generator.Generator, limit int) *Service {
	if limit <= 0 {
		limit = 5
	}

	return &Service{
		generator: g,
		limit:     limit,
		logger:    slog.Default().With("component", "keyword"),
	}
}
