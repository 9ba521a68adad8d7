package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	videosource "github.com/w-h-a/originality/video_source"
)

func TestSearch_PagesResults(t *testing.T) {
	ids := make([]string, 0, 120)
	for i := 0; i < 120; i++ {
		ids = append(ids, fmt.Sprintf("v%03d", i))
	}

	s := NewVideoSource(WithResults(map[string][]string{"query:rocket": ids}))

	var got []string
	req := videosource.SearchRequest{Query: "rocket"}
	pages := 0

	for {
		page, err := s.Search(context.Background(), req)
		require.NoError(t, err)
		pages++
		got = append(got, page.Ids...)
		if len(page.NextPageToken) == 0 {
			break
		}
		req.PageToken = page.NextPageToken
	}

	require.Equal(t, 3, pages)
	require.Equal(t, ids, got)
}

func TestKey(t *testing.T) {
	require.Equal(t, "related:a", Key(videosource.SearchRequest{RelatedTo: "a", Query: "q"}))
	require.Equal(t, "channel:c", Key(videosource.SearchRequest{ChannelId: "c"}))
	require.Equal(t, "query:q", Key(videosource.SearchRequest{Query: "q"}))
}

func TestVideosAndChannels_SkipUnknown(t *testing.T) {
	s := NewVideoSource(
		WithVideos(videosource.RawVideo{Id: "a"}),
		WithChannels(videosource.RawChannel{Id: "c"}),
	)

	videos, err := s.Videos(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, videos, 1)

	channels, err := s.Channels(context.Background(), []string{"x", "c"})
	require.NoError(t, err)
	require.Equal(t, "c", channels[0].Id)
}

func TestComments_PagesPerVideo(t *testing.T) {
	var comments []videosource.RawComment
	for i := 0; i < 150; i++ {
		comments = append(comments, videosource.RawComment{Id: fmt.Sprintf("c%03d", i), VideoId: "a"})
	}
	comments = append(comments, videosource.RawComment{Id: "other", VideoId: "b"})

	s := NewVideoSource(WithComments(comments...), WithCommentsDisabled("off"))

	first, err := s.Comments(context.Background(), videosource.CommentRequest{VideoId: "a"})
	require.NoError(t, err)
	require.Len(t, first.Comments, videosource.MaxCommentPageSize)
	require.Equal(t, "100", first.NextPageToken)

	second, err := s.Comments(context.Background(), videosource.CommentRequest{VideoId: "a", PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Comments, 50)
	require.Empty(t, second.NextPageToken)

	none, err := s.Comments(context.Background(), videosource.CommentRequest{VideoId: "quiet"})
	require.NoError(t, err)
	require.Empty(t, none.Comments)

	_, err = s.Comments(context.Background(), videosource.CommentRequest{VideoId: "off"})
	require.ErrorIs(t, err, videosource.ErrCommentsDisabled)
}
