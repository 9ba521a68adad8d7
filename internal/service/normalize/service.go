package normalize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/w-h-a/originality/table"
	videosource "github.com/w-h-a/originality/video_source"
)

var ErrMissingField = errors.New("missing required field")

// Result is everything derived from one raw video.
type Result struct {
	Video     table.VideoRecord
	Hashtags  []table.HashtagRecord
	Tags      []table.TagRecord
	Topics    []table.TopicRecord
	Locations []table.LocationRecord
}

type Service struct {
	now    func() time.Time
	logger *slog.Logger
}

// Video flattens a raw video. The raw value is only read.
func (s *Service) Video(ctx context.Context, raw videosource.RawVideo) (*Result, error) {
	if raw.Snippet == nil {
		return nil, fmt.Errorf("video %s: %w: snippet", raw.Id, ErrMissingField)
	}

	if raw.ContentDetails == nil {
		return nil, fmt.Errorf("video %s: %w: contentDetails", raw.Id, ErrMissingField)
	}

	publishedAt, err := time.Parse(time.RFC3339, raw.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("video %s: publishedAt: %w", raw.Id, err)
	}

	duration, err := DurationSeconds(raw.ContentDetails.Duration)
	if err != nil {
		return nil, fmt.Errorf("video %s: %w", raw.Id, err)
	}

	video := table.VideoRecord{
		Id:                   raw.Id,
		PublishedAt:          publishedAt,
		CollectedAt:          s.now(),
		Title:                raw.Snippet.Title,
		Description:          raw.Snippet.Description,
		ProcessedDescription: ProcessDescription(raw.Snippet.Description),
		DurationSeconds:      duration,
		DefaultAudioLanguage: raw.Snippet.DefaultAudioLanguage,
		ChannelId:            raw.Snippet.ChannelId,
	}

	if stats := raw.Statistics; stats != nil {
		video.CommentCount = s.count(ctx, raw.Id, "commentCount", stats.CommentCount)
		video.FavoriteCount = s.count(ctx, raw.Id, "favoriteCount", stats.FavoriteCount)
		video.LikeCount = s.count(ctx, raw.Id, "likeCount", stats.LikeCount)
		video.ViewCount = s.count(ctx, raw.Id, "viewCount", stats.ViewCount)
	}

	res := &Result{
		Hashtags:  []table.HashtagRecord{},
		Tags:      []table.TagRecord{},
		Topics:    []table.TopicRecord{},
		Locations: []table.LocationRecord{},
	}

	if rec := raw.RecordingDetails; rec != nil {
		if rec.RecordingDate != nil {
			video.RecordingDate = s.recordingDate(ctx, raw.Id, *rec.RecordingDate)
		}
		if rec.LocationDescription != nil {
			res.Locations = append(res.Locations, table.LocationRecord{
				VideoId:     raw.Id,
				Description: *rec.LocationDescription,
			})
		}
	}

	for _, tag := range Hashtags(raw.Snippet.Description) {
		res.Hashtags = append(res.Hashtags, table.HashtagRecord{VideoId: raw.Id, Hashtag: tag})
	}

	for _, tag := range raw.Snippet.Tags {
		res.Tags = append(res.Tags, table.TagRecord{VideoId: raw.Id, Tag: tag})
	}

	if raw.TopicDetails != nil {
		for _, topic := range raw.TopicDetails.TopicCategories {
			res.Topics = append(res.Topics, table.TopicRecord{VideoId: raw.Id, Category: TopicCategory(topic)})
		}
	}

	res.Video = video

	return res, nil
}

func (s *Service) Channel(ctx context.Context, raw videosource.RawChannel) (*table.ChannelRecord, error) {
	if raw.Snippet == nil {
		return nil, fmt.Errorf("channel %s: %w: snippet", raw.Id, ErrMissingField)
	}

	createdAt, err := time.Parse(time.RFC3339, raw.Snippet.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("channel %s: publishedAt: %w", raw.Id, err)
	}

	channel := &table.ChannelRecord{
		Id:              raw.Id,
		Name:            raw.Snippet.Title,
		Description:     raw.Snippet.Description,
		CreatedAt:       createdAt,
		DefaultLanguage: raw.Snippet.DefaultLanguage,
		Country:         raw.Snippet.Country,
	}

	if stats := raw.Statistics; stats != nil {
		channel.ViewCount = s.count(ctx, raw.Id, "viewCount", stats.ViewCount)
		channel.VideoCount = s.count(ctx, raw.Id, "videoCount", stats.VideoCount)
		if !stats.HiddenSubscriberCount {
			channel.SubscriberCount = s.count(ctx, raw.Id, "subscriberCount", stats.SubscriberCount)
		}
	}

	if raw.BrandingSettings != nil && raw.BrandingSettings.Channel != nil {
		channel.TrackingAnalyticsAccountId = raw.BrandingSettings.Channel.TrackingAnalyticsAccountId
	}

	return channel, nil
}

func (s *Service) count(ctx context.Context, id string, field string, v *string) *int64 {
	if v == nil {
		return nil
	}

	n, err := strconv.ParseInt(*v, 10, 64)
	if err != nil {
		s.logger.WarnContext(ctx, "dropping unparsable count", "id", id, "field", field, "value", *v)
		return nil
	}

	return &n
}

func (s *Service) recordingDate(ctx context.Context, id string, v string) *time.Time {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}

	s.logger.WarnContext(ctx, "dropping unparsable recording date", "id", id, "value", v)

	return nil
}

func New(now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}

	return &Service{
		now:    now,
		logger: slog.Default().With("component", "normalize"),
	}
}
