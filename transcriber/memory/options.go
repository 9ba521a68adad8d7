package memory

import (
	"context"

	"github.com/w-h-a/originality/transcriber"
)

type tracksKey struct{}

// WithTracks registers tracks in listing order per video.
func WithTracks(tracks ...Track) transcriber.Option {
	return func(o *transcriber.Options) {
		o.Context = context.WithValue(o.Context, tracksKey{}, tracks)
	}
}

func TracksFrom(ctx context.Context) ([]Track, bool) {
	tracks, ok := ctx.Value(tracksKey{}).([]Track)
	return tracks, ok
}
