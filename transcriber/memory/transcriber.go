package memory

import (
	"context"
	"sync"

	"github.com/w-h-a/originality/transcriber"
)

type memoryTranscriber struct {
	options transcriber.Options
	tracks  map[string][]Track
	mtx     sync.RWMutex
}

// Track is a caption track together with its lines and, keyed by language
// code, the lines of its translations.
type Track struct {
	transcriber.Track
	Snippets     []transcriber.Snippet
	Translations map[string][]transcriber.Snippet
}

func (t *memoryTranscriber) ListTracks(ctx context.Context, videoId string) ([]transcriber.Track, error) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	stored, ok := t.tracks[videoId]
	if !ok || len(stored) == 0 {
		return nil, transcriber.ErrNoTranscript
	}

	tracks := make([]transcriber.Track, 0, len(stored))
	for _, s := range stored {
		tracks = append(tracks, s.Track)
	}

	return tracks, nil
}

func (t *memoryTranscriber) Fetch(ctx context.Context, track transcriber.Track) ([]transcriber.Snippet, error) {
	stored, ok := t.find(track)
	if !ok {
		return nil, transcriber.ErrNoTranscript
	}
	return stored.Snippets, nil
}

func (t *memoryTranscriber) Translate(ctx context.Context, track transcriber.Track, languageCode string) ([]transcriber.Snippet, error) {
	stored, ok := t.find(track)
	if !ok {
		return nil, transcriber.ErrNoTranscript
	}

	translated, ok := stored.Translations[languageCode]
	if !ok {
		return nil, transcriber.ErrTranslationUnavailable
	}

	return translated, nil
}

func (t *memoryTranscriber) find(track transcriber.Track) (Track, bool) {
	t.mtx.RLock()
	defer t.mtx.RUnlock()

	for _, s := range t.tracks[track.VideoId] {
		if s.LanguageCode == track.LanguageCode && s.LanguageName == track.LanguageName {
			return s, true
		}
	}

	return Track{}, false
}

func NewTranscriber(opts ...transcriber.Option) transcriber.Transcriber {
	options := transcriber.NewOptions(opts...)

	t := &memoryTranscriber{
		options: options,
		tracks:  map[string][]Track{},
		mtx:     sync.RWMutex{},
	}

	if tracks, ok := TracksFrom(options.Context); ok {
		for _, track := range tracks {
			t.tracks[track.VideoId] = append(t.tracks[track.VideoId], track)
		}
	}

	return t
}
