package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	videosource "github.com/w-h-a/originality/video_source"
)

func newTestSource(t *testing.T, handler http.HandlerFunc) videosource.VideoSource {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewVideoSource(
		videosource.WithApiKey("test-key"),
		videosource.WithLocation(srv.URL),
	)
}

func TestSearch_SendsFiltersAndReadsPage(t *testing.T) {
	var got *http.Request

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"nextPageToken": "CDIQAA",
			"items": [
				{"id": {"kind": "youtube#video", "videoId": "aaaaaaaaaaa"}},
				{"id": {"kind": "youtube#channel", "channelId": "UC123"}},
				{"id": {"kind": "youtube#video", "videoId": "bbbbbbbbbbb"}}
			]
		}`)
	})

	page, err := s.Search(context.Background(), videosource.SearchRequest{
		Query:     "rocket|orbit",
		Order:     "viewCount",
		Caption:   "closedCaption",
		PageToken: "CAUQAA",
	})
	require.NoError(t, err)

	require.Equal(t, []string{"aaaaaaaaaaa", "bbbbbbbbbbb"}, page.Ids)
	require.Equal(t, "CDIQAA", page.NextPageToken)

	require.Equal(t, "/youtube/v3/search", got.URL.Path)
	q := got.URL.Query()
	require.Equal(t, "test-key", q.Get("key"))
	require.Equal(t, "rocket|orbit", q.Get("q"))
	require.Equal(t, "viewCount", q.Get("order"))
	require.Equal(t, "closedCaption", q.Get("videoCaption"))
	require.Equal(t, "CAUQAA", q.Get("pageToken"))
	require.Equal(t, "video", q.Get("type"))
	require.Equal(t, "50", q.Get("maxResults"))
}

func TestSearch_RelatedTo(t *testing.T) {
	var related string

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		related = r.URL.Query().Get("relatedToVideoId")
		fmt.Fprint(w, `{"items": []}`)
	})

	page, err := s.Search(context.Background(), videosource.SearchRequest{RelatedTo: "seedseedsee"})
	require.NoError(t, err)
	require.Empty(t, page.Ids)
	require.Empty(t, page.NextPageToken)
	require.Equal(t, "seedseedsee", related)
}

func TestVideos_KeepsAbsentCountsAbsent(t *testing.T) {
	var got *http.Request

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		fmt.Fprint(w, `{"items": [{
			"id": "aaaaaaaaaaa",
			"snippet": {"publishedAt": "2023-04-05T06:07:08Z", "channelId": "UC1", "title": "t", "description": "d"},
			"contentDetails": {"duration": "PT4M13S"},
			"statistics": {"viewCount": "10", "favoriteCount": "0"}
		}]}`)
	})

	videos, err := s.Videos(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	require.Equal(t, "10", *v.Statistics.ViewCount)
	require.Equal(t, "0", *v.Statistics.FavoriteCount)
	require.Nil(t, v.Statistics.LikeCount)
	require.Nil(t, v.Statistics.CommentCount)
	require.Nil(t, v.RecordingDetails)

	require.Equal(t, "/youtube/v3/videos", got.URL.Path)
	require.Equal(t, "aaaaaaaaaaa,bbbbbbbbbbb", got.URL.Query().Get("id"))
	require.Contains(t, got.URL.Query().Get("part"), "recordingDetails")
	require.Equal(t, "test-key", got.URL.Query().Get("key"))
}

func TestVideos_SurfacesApiError(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quota exceeded"}}`)
	})

	_, err := s.Videos(context.Background(), []string{"aaaaaaaaaaa"})
	require.ErrorContains(t, err, "quota exceeded")
}

func TestVideos_RejectsOversizedBatch(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	ids := strings.Split(strings.Repeat("x,", videosource.MaxPageSize+1), ",")[:videosource.MaxPageSize+1]

	_, err := s.Videos(context.Background(), ids)
	require.Error(t, err)
}

func TestChannels_HidesSubscriberCount(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/youtube/v3/channels", r.URL.Path)
		fmt.Fprint(w, `{"items": [
			{
				"id": "UC1",
				"snippet": {"title": "Rockets", "description": "", "publishedAt": "2015-01-01T00:00:00Z", "country": "US"},
				"statistics": {"viewCount": "100", "subscriberCount": "0", "hiddenSubscriberCount": true, "videoCount": "3"},
				"brandingSettings": {"channel": {"trackingAnalyticsAccountId": "UA-1"}}
			},
			{
				"id": "UC2",
				"snippet": {"title": "Pasta", "publishedAt": "2016-01-01T00:00:00Z"},
				"statistics": {"viewCount": "5", "subscriberCount": "7", "videoCount": "1"}
			}
		]}`)
	})

	channels, err := s.Channels(context.Background(), []string{"UC1", "UC2"})
	require.NoError(t, err)
	require.Len(t, channels, 2)

	hidden := channels[0]
	require.Equal(t, "Rockets", hidden.Snippet.Title)
	require.Equal(t, "US", *hidden.Snippet.Country)
	require.Nil(t, hidden.Snippet.DefaultLanguage)
	require.Nil(t, hidden.Statistics.SubscriberCount)
	require.Equal(t, "100", *hidden.Statistics.ViewCount)
	require.Equal(t, "UA-1", *hidden.BrandingSettings.Channel.TrackingAnalyticsAccountId)

	require.Equal(t, "7", *channels[1].Statistics.SubscriberCount)
	require.Nil(t, channels[1].BrandingSettings)
}

func TestChannels_KeepsAbsentCountsAbsent(t *testing.T) {
	var got *http.Request

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		fmt.Fprint(w, `{"items": [{
			"id": "UC3",
			"snippet": {"title": "Quiet", "publishedAt": "2018-01-01T00:00:00Z"},
			"statistics": {"hiddenSubscriberCount": false}
		}]}`)
	})

	channels, err := s.Channels(context.Background(), []string{"UC3"})
	require.NoError(t, err)
	require.Len(t, channels, 1)

	stats := channels[0].Statistics
	require.NotNil(t, stats)
	require.Nil(t, stats.ViewCount)
	require.Nil(t, stats.SubscriberCount)
	require.Nil(t, stats.VideoCount)

	require.Equal(t, "UC3", got.URL.Query().Get("id"))
	require.Contains(t, got.URL.Query().Get("part"), "brandingSettings")
	require.Equal(t, "test-key", got.URL.Query().Get("key"))
}

func TestComments_FlattensThreadsAndReplies(t *testing.T) {
	var got *http.Request

	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		fmt.Fprint(w, `{
			"nextPageToken": "QURTSl",
			"items": [
				{
					"id": "t1",
					"snippet": {"videoId": "aaaaaaaaaaa", "totalReplyCount": 1, "topLevelComment": {
						"id": "t1",
						"snippet": {"authorDisplayName": "@fan", "authorChannelId": {"value": "UCfan"},
							"textOriginal": "great launch #Space", "likeCount": 4, "publishedAt": "2024-02-03T04:05:06Z"}
					}},
					"replies": {"comments": [{
						"id": "t1.r1",
						"snippet": {"authorDisplayName": "@critic", "authorChannelId": {"value": "UCcritic"},
							"textOriginal": "see https://example.com", "parentId": "t1", "publishedAt": "2024-02-04T00:00:00Z"}
					}]}
				},
				{
					"id": "t2",
					"snippet": {"videoId": "aaaaaaaaaaa", "topLevelComment": {
						"id": "t2",
						"snippet": {"authorDisplayName": "@anon", "textOriginal": "hi", "publishedAt": "2024-02-05T00:00:00Z"}
					}}
				}
			]
		}`)
	})

	page, err := s.Comments(context.Background(), videosource.CommentRequest{VideoId: "aaaaaaaaaaa", PageToken: "prev"})
	require.NoError(t, err)

	require.Equal(t, "QURTSl", page.NextPageToken)
	require.Len(t, page.Comments, 3)

	require.Equal(t, videosource.RawComment{
		Id:                "t1",
		VideoId:           "aaaaaaaaaaa",
		AuthorChannelId:   "UCfan",
		AuthorDisplayName: "@fan",
		TextOriginal:      "great launch #Space",
		LikeCount:         4,
		PublishedAt:       "2024-02-03T04:05:06Z",
	}, page.Comments[0])
	require.Equal(t, "t2", page.Comments[1].Id)
	require.Empty(t, page.Comments[1].AuthorChannelId)
	require.Equal(t, "t1", page.Comments[2].ParentId)

	require.Equal(t, "/youtube/v3/commentThreads", got.URL.Path)
	q := got.URL.Query()
	require.Equal(t, "aaaaaaaaaaa", q.Get("videoId"))
	require.Equal(t, "prev", q.Get("pageToken"))
	require.Equal(t, "100", q.Get("maxResults"))
	require.Equal(t, "plainText", q.Get("textFormat"))
	require.Equal(t, "test-key", q.Get("key"))
}

func TestComments_Disabled(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "comments disabled",
			"errors": [{"reason": "commentsDisabled", "domain": "youtube.commentThread"}]}}`)
	})

	_, err := s.Comments(context.Background(), videosource.CommentRequest{VideoId: "aaaaaaaaaaa"})
	require.ErrorIs(t, err, videosource.ErrCommentsDisabled)
}

func TestComments_OtherForbiddenIsNotDisabled(t *testing.T) {
	s := newTestSource(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quota exceeded",
			"errors": [{"reason": "quotaExceeded"}]}}`)
	})

	_, err := s.Comments(context.Background(), videosource.CommentRequest{VideoId: "aaaaaaaaaaa"})
	require.Error(t, err)
	require.NotErrorIs(t, err, videosource.ErrCommentsDisabled)
}

func TestNewVideoSource_RequiresApiKey(t *testing.T) {
	require.Panics(t, func() { NewVideoSource() })
}
