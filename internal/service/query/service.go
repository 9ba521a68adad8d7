package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	videosource "github.com/w-h-a/originality/video_source"
)

var ErrUnknownOrder = errors.New("unknown order")
var ErrUnknownCaptionFilter = errors.New("unknown caption filter")

var orders = map[string]string{
	"relevance":  "relevance",
	"date":       "date",
	"rating":     "rating",
	"title":      "title",
	"viewcount":  "viewCount",
	"videocount": "videoCount",
}

type Request struct {
	Term      string
	SeedId    string
	Order     string
	Captions  string
	PageLimit int
}

type Service struct {
	source videosource.VideoSource
	logger *slog.Logger
}

// Query pages through a keyword search. The seed is always part of the
// result. PageLimit <= 0 pages until the cursor runs out.
func (s *Service) Query(ctx context.Context, req Request) (*IdSet, error) {
	order, err := Order(req.Order)
	if err != nil {
		return nil, err
	}

	caption, err := CaptionFilter(req.Captions)
	if err != nil {
		return nil, err
	}

	ids, err := s.page(ctx, videosource.SearchRequest{
		Query:   req.Term,
		Order:   order,
		Caption: caption,
	}, req.PageLimit)
	if err != nil {
		return nil, err
	}

	ids.Add(req.SeedId)

	return ids, nil
}

// RelatedTo pages through the related lookup until the cursor runs out.
func (s *Service) RelatedTo(ctx context.Context, id string) (*IdSet, error) {
	return s.page(ctx, videosource.SearchRequest{RelatedTo: id}, 0)
}

// ChannelUploads lists a channel's videos, newest first.
func (s *Service) ChannelUploads(ctx context.Context, channelId string, pageLimit int) (*IdSet, error) {
	return s.page(ctx, videosource.SearchRequest{ChannelId: channelId, Order: "date"}, pageLimit)
}

func (s *Service) page(ctx context.Context, req videosource.SearchRequest, limit int) (*IdSet, error) {
	ids := NewIdSet()

	// A limit of zero or below pages until the cursor runs out. It never
	// means zero requests.
	for pages := 0; limit <= 0 || pages < limit; {
		if err := ctx.Err(); err != nil {
			return ids, err
		}

		rsp, err := s.source.Search(ctx, req)
		if err != nil {
			return ids, fmt.Errorf("search page %d: %w", pages+1, err)
		}
		pages++

		ids.Add(rsp.Ids...)

		s.logger.DebugContext(ctx, "search page",
			"page", pages,
			"items", len(rsp.Ids),
			"next", rsp.NextPageToken,
		)

		if len(rsp.NextPageToken) == 0 {
			break
		}

		req.PageToken = rsp.NextPageToken
	}

	return ids, nil
}

// Order maps a display label such as "View Count" to the platform's order
// value. An empty label leaves the platform default in place.
func Order(label string) (string, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))
	if len(key) == 0 {
		return "", nil
	}

	order, ok := orders[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownOrder, label)
	}

	return order, nil
}

// CaptionFilter maps Include to no filter and Exclude to captioned videos
// only. Platform values pass through unchanged.
func CaptionFilter(label string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "include", "any":
		return "any", nil
	case "exclude", "closedcaption":
		return "closedCaption", nil
	case "none":
		return "none", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCaptionFilter, label)
	}
}

func New(source videosource.VideoSource) *Service {
	if source == nil {
		panic("video source is required")
	}

	return &Service{
		source: source,
		logger: slog.Default().With("component", "query"),
	}
}
