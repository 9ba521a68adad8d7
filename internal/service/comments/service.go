package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/w-h-a/originality/table"
	videosource "github.com/w-h-a/originality/video_source"
)

type Service struct {
	source    videosource.VideoSource
	pageLimit int
	logger    *slog.Logger
}

// Thread pages through the comments of one video. A video with comments
// disabled has none. On failure the comments of earlier pages are returned
// with the error.
func (s *Service) Thread(ctx context.Context, videoId string) ([]videosource.RawComment, error) {
	req := videosource.CommentRequest{VideoId: videoId}

	var comments []videosource.RawComment

	for pages := 0; s.pageLimit <= 0 || pages < s.pageLimit; {
		if err := ctx.Err(); err != nil {
			return comments, err
		}

		page, err := s.source.Comments(ctx, req)
		if errors.Is(err, videosource.ErrCommentsDisabled) {
			s.logger.DebugContext(ctx, "comments disabled", "video", videoId)
			return nil, nil
		}
		if err != nil {
			return comments, fmt.Errorf("comments of %s, page %d: %w", videoId, pages+1, err)
		}
		pages++

		comments = append(comments, page.Comments...)

		if len(page.NextPageToken) == 0 {
			break
		}

		req.PageToken = page.NextPageToken
	}

	return comments, nil
}

// Records converts raw comments. created maps author channel ids to the
// creation time of the channel and drives the account age. Comments with an
// unreadable timestamp are dropped.
func (s *Service) Records(ctx context.Context, raws []videosource.RawComment, created map[string]time.Time) []table.CommentRecord {
	records := make([]table.CommentRecord, 0, len(raws))

	for _, raw := range raws {
		published, err := time.Parse(time.RFC3339, raw.PublishedAt)
		if err != nil {
			s.logger.WarnContext(ctx, "dropping comment", "comment", raw.Id, "video", raw.VideoId, "error", err)
			continue
		}

		rec := table.CommentRecord{
			Id:              raw.Id,
			VideoId:         raw.VideoId,
			AuthorChannelId: raw.AuthorChannelId,
			AuthorName:      raw.AuthorDisplayName,
			Text:            raw.TextOriginal,
			LikeCount:       raw.LikeCount,
			PublishedAt:     published,
		}

		if len(raw.ParentId) > 0 {
			parent := raw.ParentId
			rec.ParentId = &parent
		}

		if at, ok := created[raw.AuthorChannelId]; ok {
			age := ageDays(at, published)
			rec.AccountAgeDays = &age
		}

		records = append(records, rec)
	}

	return records
}

func ageDays(created time.Time, at time.Time) int64 {
	return int64(at.Sub(created) / (24 * time.Hour))
}

func New(source videosource.VideoSource, pageLimit int) *Service {
	if source == nil {
		panic("video source is required")
	}

	return &Service{
		source:    source,
		pageLimit: pageLimit,
		logger:    slog.Default().With("component", "comments"),
	}
}
