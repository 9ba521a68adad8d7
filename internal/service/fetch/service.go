package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/w-h-a/originality/reporter"
	videosource "github.com/w-h-a/originality/video_source"
)

const (
	StageSeed     = "seed"
	StageVideos   = "fetch"
	StageChannels = "channel"
)

var ErrNotFound = errors.New("not found")

type Service struct {
	source    videosource.VideoSource
	reporter  reporter.Reporter
	batchSize int
	logger    *slog.Logger
}

// Seed fetches the details of a single video.
func (s *Service) Seed(ctx context.Context, runId string, id string) (*videosource.RawVideo, error) {
	videos, err := batch(ctx, s, runId, StageSeed, []string{id}, s.source.Videos)
	if err != nil {
		return nil, err
	}

	for _, v := range videos {
		if v.Id == id {
			return &v, nil
		}
	}

	return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
}

// Videos fetches details in sequential batches. On failure the items of the
// batches already fetched are returned with the error.
func (s *Service) Videos(ctx context.Context, runId string, ids []string) ([]videosource.RawVideo, error) {
	return batch(ctx, s, runId, StageVideos, ids, s.source.Videos)
}

func (s *Service) Channels(ctx context.Context, runId string, ids []string) ([]videosource.RawChannel, error) {
	return batch(ctx, s, runId, StageChannels, ids, s.source.Channels)
}

func batch[T any](
	ctx context.Context,
	s *Service,
	runId string,
	stage string,
	ids []string,
	fetch func(context.Context, []string) ([]T, error),
) ([]T, error) {
	chunks := Chunk(ids, s.batchSize)

	var items []T

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		got, err := fetch(ctx, chunk)
		if err != nil {
			return items, fmt.Errorf("batch %d/%d: %w", i+1, len(chunks), err)
		}

		items = append(items, got...)

		if err := s.reporter.Report(ctx, reporter.Progress{
			RunId:     runId,
			Stage:     stage,
			Index:     i + 1,
			Total:     len(chunks),
			Timestamp: time.Now().Unix(),
		}); err != nil {
			s.logger.WarnContext(ctx, "failed to report progress", "stage", stage, "error", err)
		}
	}

	return items, nil
}

// Chunk splits ids into consecutive slices of at most size elements.
func Chunk(ids []string, size int) [][]string {
	if size <= 0 {
		size = videosource.MaxPageSize
	}

	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		chunks = append(chunks, ids[start:end])
	}

	return chunks
}

func New(source videosource.VideoSource, reporter reporter.Reporter, batchSize int) *Service {
	if source == nil {
		panic("video source is required")
	}

	if reporter == nil {
		panic("reporter is required")
	}

	if batchSize <= 0 || batchSize > videosource.MaxPageSize {
		batchSize = videosource.MaxPageSize
	}

	return &Service{
		source:    source,
		reporter:  reporter,
		batchSize: batchSize,
		logger:    slog.Default().With("component", "fetch"),
	}
}
