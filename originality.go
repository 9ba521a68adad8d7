package originality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/w-h-a/originality/exporter"
	"github.com/w-h-a/originality/internal/service/caption"
	"github.com/w-h-a/originality/internal/service/comments"
	"github.com/w-h-a/originality/internal/service/discovery"
	"github.com/w-h-a/originality/internal/service/fetch"
	"github.com/w-h-a/originality/internal/service/keyword"
	"github.com/w-h-a/originality/internal/service/normalize"
	"github.com/w-h-a/originality/internal/service/query"
	"github.com/w-h-a/originality/internal/service/rank"
	reporterlog "github.com/w-h-a/originality/reporter/log"
)

type (
	Request     = discovery.Request
	Result      = discovery.Result
	StageError  = discovery.StageError
	ItemFailure = discovery.ItemFailure
)

var ErrSeedRequired = discovery.ErrSeedRequired

type Originality struct {
	options   Options
	discovery *discovery.Service
	exporters []exporter.Exporter
	logger    *slog.Logger
}

// Discover runs one discovery for a seed video and hands the tables to every
// exporter. The result is returned even when the run fails part way.
func (o *Originality) Discover(ctx context.Context, req Request) (*Result, error) {
	res, err := o.discovery.Discover(ctx, req)
	return res, o.export(ctx, res, err)
}

// Collect gathers the tables of the given videos without ranking them.
func (o *Originality) Collect(ctx context.Context, ids []string) (*Result, error) {
	res, err := o.discovery.Collect(ctx, ids)
	return res, o.export(ctx, res, err)
}

// Comments collects the tables of the given videos with their comments and
// the comment summaries.
func (o *Originality) Comments(ctx context.Context, ids []string) (*Result, error) {
	res, err := o.discovery.Comments(ctx, ids)
	return res, o.export(ctx, res, err)
}

// ChannelUploads collects the tables of a channel's most recent uploads.
func (o *Originality) ChannelUploads(ctx context.Context, channelId string, pageLimit int) (*Result, error) {
	res, err := o.discovery.ChannelUploads(ctx, channelId, pageLimit)
	return res, o.export(ctx, res, err)
}

func (o *Originality) export(ctx context.Context, res *Result, runErr error) error {
	var errs []error

	for _, e := range o.exporters {
		if err := e.Export(context.WithoutCancel(ctx), res.RunId, &res.Tables); err != nil {
			o.logger.ErrorContext(ctx, "export failed", "run", res.RunId, "error", err)
			errs = append(errs, err)
		}
	}

	if runErr != nil {
		return runErr
	}

	if len(errs) > 0 {
		return fmt.Errorf("export run %s: %w", res.RunId, errors.Join(errs...))
	}

	return nil
}

func New(opts ...Option) *Originality {
	options := NewOptions(opts...)

	if options.VideoSource == nil {
		panic("video source is required")
	}

	if options.Transcriber == nil {
		panic("transcriber is required")
	}

	if options.Embedder == nil {
		panic("embedder is required")
	}

	if options.Reporter == nil {
		options.Reporter = reporterlog.NewReporter()
	}

	q := query.New(options.VideoSource)

	d := discovery.New(
		q,
		fetch.New(options.VideoSource, options.Reporter, options.BatchSize),
		normalize.New(options.Clock),
		caption.New(options.Transcriber),
		rank.New(options.Embedder, options.Cosine),
		keyword.New(options.Generator, options.KeywordLimit),
		comments.New(options.VideoSource, options.CommentPageLimit),
		options.Reporter,
	)

	return &Originality{
		options:   options,
		discovery: d,
		exporters: options.Exporters,
		logger:    slog.Default().With("component", "originality"),
	}
}
