package normalize

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	videosource "github.com/w-h-a/originality/video_source"
)

func ptr[T any](v T) *T {
	return &v
}

func fullVideo() videosource.RawVideo {
	return videosource.RawVideo{
		Id: "vid1",
		Snippet: &videosource.VideoSnippet{
			PublishedAt:          "2023-04-05T06:07:08Z",
			ChannelId:            "chan1",
			Title:                "Rocket launch",
			Description:          "Watching the launch #SpaceX #spacex\nSecond line\n\nhttps://x.com/promo",
			Tags:                 []string{"rocket", "launch"},
			DefaultAudioLanguage: ptr("en"),
		},
		ContentDetails: &videosource.ContentDetails{Duration: "PT1H2M3S"},
		Statistics: &videosource.VideoStatistics{
			ViewCount:     ptr("1000"),
			LikeCount:     ptr("50"),
			FavoriteCount: ptr("0"),
			CommentCount:  ptr("7"),
		},
		TopicDetails: &videosource.TopicDetails{
			TopicCategories: []string{"https://en.wikipedia.org/wiki/Technology", "https://en.wikipedia.org/wiki/Science"},
		},
		RecordingDetails: &videosource.RecordingDetails{
			RecordingDate:       ptr("2023-04-01T00:00:00Z"),
			LocationDescription: ptr("Cape Canaveral"),
		},
	}
}

func TestVideo_AllFieldsPresent(t *testing.T) {
	collected := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := New(func() time.Time { return collected })

	res, err := svc.Video(context.Background(), fullVideo())
	require.NoError(t, err)

	v := res.Video
	require.Equal(t, "vid1", v.Id)
	require.Equal(t, time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC), v.PublishedAt)
	require.Equal(t, collected, v.CollectedAt)
	require.NotNil(t, v.RecordingDate)
	require.Equal(t, 3723, v.DurationSeconds)
	require.Equal(t, "Watching the launch #SpaceX #spacex Second line", v.ProcessedDescription)
	require.Equal(t, "en", *v.DefaultAudioLanguage)
	require.Equal(t, int64(1000), *v.ViewCount)
	require.Equal(t, int64(0), *v.FavoriteCount)
	require.Equal(t, "chan1", v.ChannelId)

	require.Len(t, res.Hashtags, 2)
	require.Equal(t, "Spacex", res.Hashtags[0].Hashtag)
	require.Equal(t, "Spacex", res.Hashtags[1].Hashtag)
	require.Len(t, res.Tags, 2)
	require.Equal(t, "Technology", res.Topics[0].Category)
	require.Equal(t, "Science", res.Topics[1].Category)
	require.Len(t, res.Locations, 1)
	require.Equal(t, "Cape Canaveral", res.Locations[0].Description)
}

func TestVideo_IsDeterministicApartFromCollectionTime(t *testing.T) {
	raw := fullVideo()

	first, err := New(nil).Video(context.Background(), raw)
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	second, err := New(nil).Video(context.Background(), raw)
	require.NoError(t, err)

	require.NotEqual(t, first.Video.CollectedAt, second.Video.CollectedAt)

	second.Video.CollectedAt = first.Video.CollectedAt
	require.Equal(t, first, second)
	require.Equal(t, fullVideo(), raw)
}

func TestVideo_MissingOptionalFieldsStayAbsent(t *testing.T) {
	raw := videosource.RawVideo{
		Id: "vid2",
		Snippet: &videosource.VideoSnippet{
			PublishedAt: "2023-04-05T06:07:08Z",
			ChannelId:   "chan1",
			Title:       "Quiet",
		},
		ContentDetails: &videosource.ContentDetails{Duration: "PT10S"},
		Statistics:     &videosource.VideoStatistics{ViewCount: ptr("12")},
		RecordingDetails: &videosource.RecordingDetails{
			RecordingDate: ptr("sometime last spring"),
		},
	}

	res, err := New(nil).Video(context.Background(), raw)
	require.NoError(t, err)

	require.Nil(t, res.Video.LikeCount)
	require.Nil(t, res.Video.CommentCount)
	require.Nil(t, res.Video.FavoriteCount)
	require.Equal(t, int64(12), *res.Video.ViewCount)
	require.Nil(t, res.Video.RecordingDate)
	require.Nil(t, res.Video.DefaultAudioLanguage)
	require.Equal(t, "", res.Video.ProcessedDescription)

	require.NotNil(t, res.Hashtags)
	require.Empty(t, res.Hashtags)
	require.Empty(t, res.Tags)
	require.Empty(t, res.Topics)
	require.Empty(t, res.Locations)
}

func TestVideo_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*videosource.RawVideo)
		target error
	}{
		{
			name:   "missing snippet",
			mutate: func(v *videosource.RawVideo) { v.Snippet = nil },
			target: ErrMissingField,
		},
		{
			name:   "missing content details",
			mutate: func(v *videosource.RawVideo) { v.ContentDetails = nil },
			target: ErrMissingField,
		},
		{
			name:   "malformed duration",
			mutate: func(v *videosource.RawVideo) { v.ContentDetails = &videosource.ContentDetails{Duration: "P1DT1H1M1S"} },
			target: ErrMalformedDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := fullVideo()
			tt.mutate(&raw)
			_, err := New(nil).Video(context.Background(), raw)
			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestChannel(t *testing.T) {
	raw := videosource.RawChannel{
		Id: "chan1",
		Snippet: &videosource.ChannelSnippet{
			Title:       "Launch Daily",
			Description: "Rockets",
			PublishedAt: "2010-01-02T03:04:05.123Z",
			Country:     ptr("US"),
		},
		Statistics: &videosource.ChannelStatistics{
			ViewCount:             ptr("100"),
			SubscriberCount:       ptr("5"),
			HiddenSubscriberCount: true,
			VideoCount:            ptr("3"),
		},
		BrandingSettings: &videosource.BrandingSettings{
			Channel: &videosource.BrandingChannel{TrackingAnalyticsAccountId: ptr("UA-1")},
		},
	}

	c, err := New(nil).Channel(context.Background(), raw)
	require.NoError(t, err)

	require.Equal(t, "Launch Daily", c.Name)
	require.Equal(t, 2010, c.CreatedAt.Year())
	require.Equal(t, "US", *c.Country)
	require.Nil(t, c.DefaultLanguage)
	require.Equal(t, int64(100), *c.ViewCount)
	require.Nil(t, c.SubscriberCount)
	require.Equal(t, int64(3), *c.VideoCount)
	require.Equal(t, "UA-1", *c.TrackingAnalyticsAccountId)
}

func TestChannel_MissingCountsStayAbsent(t *testing.T) {
	raw := videosource.RawChannel{
		Id:         "chan1",
		Snippet:    &videosource.ChannelSnippet{Title: "Quiet", PublishedAt: "2018-01-01T00:00:00Z"},
		Statistics: &videosource.ChannelStatistics{},
	}

	c, err := New(nil).Channel(context.Background(), raw)
	require.NoError(t, err)

	require.Nil(t, c.ViewCount)
	require.Nil(t, c.SubscriberCount)
	require.Nil(t, c.VideoCount)
}

func TestChannel_MissingSnippet(t *testing.T) {
	_, err := New(nil).Channel(context.Background(), videosource.RawChannel{Id: "chan1"})
	require.ErrorIs(t, err, ErrMissingField)
}
