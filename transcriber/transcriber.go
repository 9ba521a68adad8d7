package transcriber

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrNoTranscript           = errors.New("no transcript available")
	ErrTranslationUnavailable = errors.New("translation unavailable")
)

type Transcriber interface {
	ListTracks(ctx context.Context, videoId string) ([]Track, error)
	Fetch(ctx context.Context, track Track) ([]Snippet, error)
	Translate(ctx context.Context, track Track, languageCode string) ([]Snippet, error)
}

// Track describes one caption track in the order the platform lists them.
type Track struct {
	VideoId      string `json:"videoId"`
	LanguageCode string `json:"languageCode"`
	LanguageName string `json:"languageName"`
	Generated    bool   `json:"generated"`
	Translatable bool   `json:"translatable"`
	BaseURL      string `json:"baseUrl"`
}

func (t Track) IsEnglish() bool {
	return t.LanguageCode == "en" ||
		strings.HasPrefix(t.LanguageCode, "en-") ||
		strings.Contains(t.LanguageName, "English")
}

type Snippet struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}
