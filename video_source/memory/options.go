package memory

import (
	"context"

	videosource "github.com/w-h-a/originality/video_source"
)

type videosKey struct{}
type channelsKey struct{}
type resultsKey struct{}
type commentsKey struct{}
type commentsDisabledKey struct{}

func WithVideos(videos ...videosource.RawVideo) videosource.Option {
	return func(o *videosource.Options) {
		o.Context = context.WithValue(o.Context, videosKey{}, videos)
	}
}

func VideosFrom(ctx context.Context) ([]videosource.RawVideo, bool) {
	videos, ok := ctx.Value(videosKey{}).([]videosource.RawVideo)
	return videos, ok
}

func WithChannels(channels ...videosource.RawChannel) videosource.Option {
	return func(o *videosource.Options) {
		o.Context = context.WithValue(o.Context, channelsKey{}, channels)
	}
}

func ChannelsFrom(ctx context.Context) ([]videosource.RawChannel, bool) {
	channels, ok := ctx.Value(channelsKey{}).([]videosource.RawChannel)
	return channels, ok
}

// WithResults registers the ids a search returns, keyed as by Key. Results
// are served in pages of videosource.MaxPageSize.
func WithResults(results map[string][]string) videosource.Option {
	return func(o *videosource.Options) {
		o.Context = context.WithValue(o.Context, resultsKey{}, results)
	}
}

func ResultsFrom(ctx context.Context) (map[string][]string, bool) {
	results, ok := ctx.Value(resultsKey{}).(map[string][]string)
	return results, ok
}

// WithComments registers comments, served per video in the order given and
// in pages of videosource.MaxCommentPageSize.
func WithComments(comments ...videosource.RawComment) videosource.Option {
	return func(o *videosource.Options) {
		o.Context = context.WithValue(o.Context, commentsKey{}, comments)
	}
}

func CommentsFrom(ctx context.Context) ([]videosource.RawComment, bool) {
	comments, ok := ctx.Value(commentsKey{}).([]videosource.RawComment)
	return comments, ok
}

func WithCommentsDisabled(videoIds ...string) videosource.Option {
	return func(o *videosource.Options) {
		o.Context = context.WithValue(o.Context, commentsDisabledKey{}, videoIds)
	}
}

func CommentsDisabledFrom(ctx context.Context) ([]string, bool) {
	ids, ok := ctx.Value(commentsDisabledKey{}).([]string)
	return ids, ok
}
