package caption

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/w-h-a/originality/table"
	"github.com/w-h-a/originality/transcriber"
)

const targetLanguage = "en"

type Service struct {
	transcriber transcriber.Transcriber
	logger      *slog.Logger
}

// Resolve builds the caption record of a video from the first listed track.
// A nil record with a nil error means the video has no usable caption.
func (s *Service) Resolve(ctx context.Context, videoId string) (*table.CaptionRecord, error) {
	tracks, err := s.transcriber.ListTracks(ctx, videoId)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.DebugContext(ctx, "no caption tracks", "video", videoId, "error", err)
		return nil, nil
	}

	if len(tracks) == 0 {
		return nil, nil
	}

	track := tracks[0]

	snippets, err := s.transcriber.Fetch(ctx, track)
	if errors.Is(err, transcriber.ErrNoTranscript) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s track of %s: %w", track.LanguageCode, videoId, err)
	}

	caption := Clean(Join(snippets))

	rec := &table.CaptionRecord{
		VideoId:         videoId,
		Caption:         caption,
		Language:        track.LanguageCode,
		LanguageName:    track.LanguageName,
		EmbeddingSource: caption,
	}

	if track.IsEnglish() {
		return rec, nil
	}

	translated, err := s.transcriber.Translate(ctx, track, targetLanguage)
	if errors.Is(err, transcriber.ErrTranslationUnavailable) || errors.Is(err, transcriber.ErrNoTranscript) {
		s.logger.DebugContext(ctx, "no english translation", "video", videoId, "lang", track.LanguageCode)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("translate %s track of %s: %w", track.LanguageCode, videoId, err)
	}

	text := Clean(Join(translated))

	rec.TranslatedCaption = &text
	rec.EmbeddingSource = text

	return rec, nil
}

func New(t transcriber.Transcriber) *Service {
	if t == nil {
		panic("transcriber is required")
	}

	return &Service{
		transcriber: t,
		logger:      slog.Default().With("component", "caption"),
	}
}
