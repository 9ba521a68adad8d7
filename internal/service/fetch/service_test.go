package fetch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/w-h-a/originality/reporter"
	videosource "github.com/w-h-a/originality/video_source"
)

type recordingSource struct {
	calls  [][]string
	failAt int
}

func (r *recordingSource) Search(ctx context.Context, req videosource.SearchRequest) (*videosource.SearchPage, error) {
	return &videosource.SearchPage{}, nil
}

func (r *recordingSource) Videos(ctx context.Context, ids []string) ([]videosource.RawVideo, error) {
	r.calls = append(r.calls, ids)
	if r.failAt > 0 && len(r.calls) == r.failAt {
		return nil, errors.New("backend unavailable")
	}
	videos := make([]videosource.RawVideo, 0, len(ids))
	for _, id := range ids {
		videos = append(videos, videosource.RawVideo{Id: id})
	}
	return videos, nil
}

func (r *recordingSource) Channels(ctx context.Context, ids []string) ([]videosource.RawChannel, error) {
	r.calls = append(r.calls, ids)
	channels := make([]videosource.RawChannel, 0, len(ids))
	for _, id := range ids {
		channels = append(channels, videosource.RawChannel{Id: id})
	}
	return channels, nil
}

func (r *recordingSource) Comments(ctx context.Context, req videosource.CommentRequest) (*videosource.CommentPage, error) {
	return &videosource.CommentPage{}, nil
}

type recordingReporter struct {
	progress []reporter.Progress
}

func (r *recordingReporter) Report(ctx context.Context, p reporter.Progress) error {
	r.progress = append(r.progress, p)
	return nil
}

func ids(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("id-%03d", i)
	}
	return out
}

func TestVideos_SplitsIntoBatchesOfFifty(t *testing.T) {
	source := &recordingSource{}
	rep := &recordingReporter{}
	svc := New(source, rep, 0)

	videos, err := svc.Videos(context.Background(), "run", ids(120))
	require.NoError(t, err)

	require.Len(t, source.calls, 3)
	require.Len(t, source.calls[0], 50)
	require.Len(t, source.calls[1], 50)
	require.Len(t, source.calls[2], 20)
	require.Len(t, videos, 120)

	require.Len(t, rep.progress, 3)
	for i, p := range rep.progress {
		require.Equal(t, i+1, p.Index)
		require.Equal(t, 3, p.Total)
		require.Equal(t, StageVideos, p.Stage)
		require.Equal(t, "run", p.RunId)
	}
}

func TestVideos_ReturnsFetchedBatchesOnFailure(t *testing.T) {
	source := &recordingSource{failAt: 2}
	svc := New(source, &recordingReporter{}, 50)

	videos, err := svc.Videos(context.Background(), "run", ids(120))
	require.Error(t, err)
	require.Len(t, videos, 50)
	require.Len(t, source.calls, 2)
}

func TestVideos_StopsWhenCancelled(t *testing.T) {
	source := &recordingSource{}
	svc := New(source, &recordingReporter{}, 50)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	videos, err := svc.Videos(ctx, "run", ids(10))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, videos)
	require.Empty(t, source.calls)
}

func TestChannels_ReportsChannelStage(t *testing.T) {
	source := &recordingSource{}
	rep := &recordingReporter{}
	svc := New(source, rep, 50)

	channels, err := svc.Channels(context.Background(), "run", ids(51))
	require.NoError(t, err)
	require.Len(t, channels, 51)
	require.Len(t, rep.progress, 2)
	require.Equal(t, StageChannels, rep.progress[0].Stage)
}

func TestChunk(t *testing.T) {
	tests := []struct {
		n     int
		size  int
		sizes []int
	}{
		{n: 0, size: 50, sizes: []int{}},
		{n: 50, size: 50, sizes: []int{50}},
		{n: 51, size: 50, sizes: []int{50, 1}},
		{n: 120, size: 50, sizes: []int{50, 50, 20}},
		{n: 7, size: 3, sizes: []int{3, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.n, tt.size), func(t *testing.T) {
			chunks := Chunk(ids(tt.n), tt.size)
			sizes := make([]int, 0, len(chunks))
			for _, c := range chunks {
				sizes = append(sizes, len(c))
			}
			require.Equal(t, tt.sizes, sizes)
		})
	}
}

func TestSeed(t *testing.T) {
	source := &recordingSource{}
	rep := &recordingReporter{}
	svc := New(source, rep, 50)

	seed, err := svc.Seed(context.Background(), "run", "seed")
	require.NoError(t, err)
	require.Equal(t, "seed", seed.Id)
	require.Equal(t, StageSeed, rep.progress[0].Stage)
}

type emptySource struct {
	recordingSource
}

func (e *emptySource) Videos(ctx context.Context, ids []string) ([]videosource.RawVideo, error) {
	return nil, nil
}

func TestSeed_NotFound(t *testing.T) {
	svc := New(&emptySource{}, &recordingReporter{}, 50)

	_, err := svc.Seed(context.Background(), "run", "gone")
	require.ErrorIs(t, err, ErrNotFound)
}
