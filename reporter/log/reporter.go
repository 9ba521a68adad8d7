package log

import (
	"context"
	"log/slog"

	"github.com/w-h-a/originality/reporter"
)

type logReporter struct {
	options reporter.Options
	logger  *slog.Logger
}

func (r *logReporter) Report(ctx context.Context, progress reporter.Progress) error {
	r.logger.InfoContext(ctx, "progress",
		"run", progress.RunId,
		"stage", progress.Stage,
		"index", progress.Index,
		"total", progress.Total,
		"message", progress.Message,
	)
	return nil
}

func NewReporter(opts ...reporter.Option) reporter.Reporter {
	options := reporter.NewOptions(opts...)

	r := &logReporter{
		options: options,
		logger:  slog.Default().With("component", "progress"),
	}

	return r
}
