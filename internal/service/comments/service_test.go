package comments

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/w-h-a/originality/table"
	videosource "github.com/w-h-a/originality/video_source"
	memorysource "github.com/w-h-a/originality/video_source/memory"
)

func comment(id string, videoId string, author string, text string, published string) videosource.RawComment {
	return videosource.RawComment{
		Id:                id,
		VideoId:           videoId,
		AuthorChannelId:   author,
		AuthorDisplayName: "@" + author,
		TextOriginal:      text,
		PublishedAt:       published,
	}
}

type failingSource struct {
	videosource.VideoSource
	calls int
}

func (f *failingSource) Comments(ctx context.Context, req videosource.CommentRequest) (*videosource.CommentPage, error) {
	f.calls++
	if f.calls > 1 {
		return nil, errors.New("backend unavailable")
	}
	return f.VideoSource.Comments(ctx, req)
}

func manyComments(videoId string, n int) []videosource.RawComment {
	out := make([]videosource.RawComment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, comment(fmt.Sprintf("%s-%03d", videoId, i), videoId, "u", "hi", "2024-01-01T00:00:00Z"))
	}
	return out
}

func TestThread_PagesUntilCursorRunsOut(t *testing.T) {
	source := memorysource.NewVideoSource(memorysource.WithComments(manyComments("a", 230)...))

	got, err := New(source, 0).Thread(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, got, 230)
}

func TestThread_StopsAtPageLimit(t *testing.T) {
	source := memorysource.NewVideoSource(memorysource.WithComments(manyComments("a", 230)...))

	got, err := New(source, 2).Thread(context.Background(), "a")
	require.NoError(t, err)
	require.Len(t, got, 2*videosource.MaxCommentPageSize)
}

func TestThread_DisabledHasNoComments(t *testing.T) {
	source := memorysource.NewVideoSource(memorysource.WithCommentsDisabled("a"))

	got, err := New(source, 0).Thread(context.Background(), "a")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestThread_KeepsEarlierPagesOnFailure(t *testing.T) {
	source := &failingSource{
		VideoSource: memorysource.NewVideoSource(memorysource.WithComments(manyComments("a", 150)...)),
	}

	got, err := New(source, 0).Thread(context.Background(), "a")
	require.ErrorContains(t, err, "page 2")
	require.Len(t, got, videosource.MaxCommentPageSize)
}

func TestRecords_AccountAgeWhenCommenting(t *testing.T) {
	created := map[string]time.Time{
		"u1": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	raws := []videosource.RawComment{
		comment("c1", "a", "u1", "first", "2024-01-31T12:00:00Z"),
		comment("c2", "a", "u2", "second", "2024-02-01T00:00:00Z"),
		comment("c3", "a", "u1", "broken", "yesterday"),
	}
	raws[1].ParentId = "c1"

	records := New(memorysource.NewVideoSource(), 0).Records(context.Background(), raws, created)
	require.Len(t, records, 2)

	require.Equal(t, int64(30), *records[0].AccountAgeDays)
	require.Nil(t, records[0].ParentId)

	require.Nil(t, records[1].AccountAgeDays)
	require.Equal(t, "c1", *records[1].ParentId)
	require.Equal(t, "@u2", records[1].AuthorName)
}

func TestAuthors(t *testing.T) {
	at := func(day int) time.Time { return time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC) }

	records := []table.CommentRecord{
		{Id: "1", VideoId: "a", AuthorChannelId: "u1", AuthorName: "@one", PublishedAt: at(5), LikeCount: 2},
		{Id: "2", VideoId: "b", AuthorChannelId: "u2", AuthorName: "@two", PublishedAt: at(1)},
		{Id: "3", VideoId: "b", AuthorChannelId: "u1", AuthorName: "@one", PublishedAt: at(3), LikeCount: 1},
		{Id: "4", VideoId: "a", AuthorName: "@nobody", PublishedAt: at(2)},
	}

	created := map[string]time.Time{"u1": at(1)}

	authors := Authors(records, created)
	require.Len(t, authors, 2)

	one := authors[0]
	require.Equal(t, "u1", one.AuthorChannelId)
	require.Equal(t, int64(2), one.Comments)
	require.Equal(t, int64(2), one.Videos)
	require.Equal(t, int64(3), one.Likes)
	require.Equal(t, at(3), one.FirstCommentAt)
	require.Equal(t, at(5), one.LastCommentAt)
	require.Equal(t, at(1), *one.AccountCreatedAt)
	require.Equal(t, int64(2), *one.AccountAgeDays)

	two := authors[1]
	require.Equal(t, "u2", two.AuthorChannelId)
	require.Nil(t, two.AccountCreatedAt)
	require.Nil(t, two.AccountAgeDays)
}

func TestLinks(t *testing.T) {
	records := []table.CommentRecord{
		{VideoId: "a", AuthorChannelId: "u1", Text: "buy at https://www.Shop.com/deal/?utm_source=yt. also https://shop.com/deal"},
		{VideoId: "b", AuthorChannelId: "u2", Text: "(https://shop.com/deal)"},
		{VideoId: "b", AuthorChannelId: "u2", Text: "source: http://example.org/paper?id=7"},
		{VideoId: "b", AuthorChannelId: "u3", Text: "no links here"},
	}

	links := Links(records)
	require.Len(t, links, 2)

	require.Equal(t, table.CommentLinkRecord{
		Link: "shop.com/deal", Domain: "shop.com", Comments: 2, Authors: 2, Videos: 2,
	}, links[0])
	require.Equal(t, "example.org/paper?id=7", links[1].Link)
	require.Equal(t, int64(1), links[1].Comments)
}

func TestHashtags(t *testing.T) {
	records := []table.CommentRecord{
		{VideoId: "a", AuthorChannelId: "u1", Text: "#space #SPACE #launch"},
		{VideoId: "b", AuthorChannelId: "u2", Text: "love #Space"},
	}

	tags := Hashtags(records)
	require.Equal(t, []table.CommentHashtagRecord{
		{Hashtag: "Space", Comments: 2, Authors: 2, Videos: 2},
		{Hashtag: "Launch", Comments: 1, Authors: 1, Videos: 1},
	}, tags)
}

func TestCleanLink(t *testing.T) {
	tests := []struct {
		raw    string
		link   string
		domain string
		ok     bool
	}{
		{raw: "https://www.example.com/", link: "example.com", domain: "example.com", ok: true},
		{raw: "https://youtu.be/abc?t=10&utm_medium=x", link: "youtu.be/abc?t=10", domain: "youtu.be", ok: true},
		{raw: "http://Example.com/A/B!", link: "example.com/A/B", domain: "example.com", ok: true},
		{raw: "https://", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			link, domain, ok := CleanLink(tt.raw)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.link, link)
			require.Equal(t, tt.domain, domain)
		})
	}
}
