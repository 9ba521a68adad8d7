package originality

import (
	"time"

	"github.com/w-h-a/originality/embedder"
	"github.com/w-h-a/originality/exporter"
	"github.com/w-h-a/originality/generator"
	"github.com/w-h-a/originality/reporter"
	"github.com/w-h-a/originality/transcriber"
	videosource "github.com/w-h-a/originality/video_source"
)

type Option func(*Options)

type Options struct {
	VideoSource  videosource.VideoSource
	Transcriber  transcriber.Transcriber
	Embedder     embedder.Embedder
	Generator    generator.Generator
	Reporter     reporter.Reporter
	Exporters    []exporter.Exporter
	Cosine       bool
	BatchSize    int
	KeywordLimit int
	// CommentPageLimit caps the comment pages read per video. Zero or
	// below reads every page.
	CommentPageLimit int
	Clock            func() time.Time
}

func WithVideoSource(s videosource.VideoSource) Option {
	return func(o *Options) {
		o.VideoSource = s
	}
}

func WithTranscriber(t transcriber.Transcriber) Option {
	return func(o *Options) {
		o.Transcriber = t
	}
}

func WithEmbedder(e embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = e
	}
}

// WithGenerator enables keyword suggestion when a request names none.
// Without it the seed title is searched as is.
func WithGenerator(g generator.Generator) Option {
	return func(o *Options) {
		o.Generator = g
	}
}

func WithReporter(r reporter.Reporter) Option {
	return func(o *Options) {
		o.Reporter = r
	}
}

func WithExporters(es ...exporter.Exporter) Option {
	return func(o *Options) {
		o.Exporters = append(o.Exporters, es...)
	}
}

// WithCosine scores by cosine similarity instead of the raw inner product.
func WithCosine() Option {
	return func(o *Options) {
		o.Cosine = true
	}
}

func WithBatchSize(n int) Option {
	return func(o *Options) {
		o.BatchSize = n
	}
}

func WithKeywordLimit(n int) Option {
	return func(o *Options) {
		o.KeywordLimit = n
	}
}

func WithCommentPageLimit(n int) Option {
	return func(o *Options) {
		o.CommentPageLimit = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Clock = now
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Clock: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
