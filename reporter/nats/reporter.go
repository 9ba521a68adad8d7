package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/w-h-a/originality/reporter"
)

type natsReporter struct {
	options reporter.Options
	conn    *nats.Conn
	logger  *slog.Logger
}

// Report publishes on <subject>.<runId>.
func (r *natsReporter) Report(ctx context.Context, progress reporter.Progress) error {
	if progress.Timestamp == 0 {
		progress.Timestamp = time.Now().Unix()
	}

	subject := fmt.Sprintf("%s.%s", r.options.Subject, progress.RunId)

	data, err := json.Marshal(progress)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}

	if err := r.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish progress: %w", err)
	}

	r.logger.DebugContext(ctx, "progress sent",
		"subject", subject,
		"stage", progress.Stage,
		"index", progress.Index,
		"total", progress.Total,
	)

	return nil
}

func NewReporter(opts ...reporter.Option) reporter.Reporter {
	options := reporter.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = nats.DefaultURL
	}

	conn, err := nats.Connect(
		options.Location,
		nats.Name("originality"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		detail := "failed to connect with nats reporter"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	r := &natsReporter{
		options: options,
		conn:    conn,
		logger:  slog.Default().With("component", "nats_reporter"),
	}

	return r
}
