package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	videosource "github.com/w-h-a/originality/video_source"
)

type memoryVideoSource struct {
	options  videosource.Options
	videos   map[string]videosource.RawVideo
	channels map[string]videosource.RawChannel
	results  map[string][]string
	comments map[string][]videosource.RawComment
	disabled map[string]bool
	mtx      sync.RWMutex
}

func (s *memoryVideoSource) Comments(ctx context.Context, req videosource.CommentRequest) (*videosource.CommentPage, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.disabled[req.VideoId] {
		return nil, fmt.Errorf("video %s: %w", req.VideoId, videosource.ErrCommentsDisabled)
	}

	comments := s.comments[req.VideoId]

	start, end, next, err := window(req.PageToken, len(comments), videosource.MaxCommentPageSize)
	if err != nil {
		return nil, err
	}

	return &videosource.CommentPage{
		Comments:      append([]videosource.RawComment(nil), comments[start:end]...),
		NextPageToken: next,
	}, nil
}

func (s *memoryVideoSource) Search(ctx context.Context, req videosource.SearchRequest) (*videosource.SearchPage, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ids := s.results[Key(req)]

	start, end, next, err := window(req.PageToken, len(ids), videosource.MaxPageSize)
	if err != nil {
		return nil, err
	}

	return &videosource.SearchPage{
		Ids:           append([]string(nil), ids[start:end]...),
		NextPageToken: next,
	}, nil
}

// window turns an offset page token into the bounds of the next page.
func window(token string, n int, size int) (int, int, string, error) {
	start := 0
	if len(token) > 0 {
		var err error
		if start, err = strconv.Atoi(token); err != nil {
			return 0, 0, "", err
		}
	}

	start = min(start, n)
	end := min(start+size, n)

	next := ""
	if end < n {
		next = strconv.Itoa(end)
	}

	return start, end, next, nil
}

func (s *memoryVideoSource) Videos(ctx context.Context, ids []string) ([]videosource.RawVideo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var videos []videosource.RawVideo
	for _, id := range ids {
		if v, ok := s.videos[id]; ok {
			videos = append(videos, v)
		}
	}

	return videos, nil
}

func (s *memoryVideoSource) Channels(ctx context.Context, ids []string) ([]videosource.RawChannel, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	var channels []videosource.RawChannel
	for _, id := range ids {
		if c, ok := s.channels[id]; ok {
			channels = append(channels, c)
		}
	}

	return channels, nil
}

// Key is the lookup key that WithResults registers search results under.
func Key(req videosource.SearchRequest) string {
	switch {
	case len(req.RelatedTo) > 0:
		return "related:" + req.RelatedTo
	case len(req.ChannelId) > 0:
		return "channel:" + req.ChannelId
	default:
		return "query:" + req.Query
	}
}

func NewVideoSource(opts ...videosource.Option) videosource.VideoSource {
	options := videosource.NewOptions(opts...)

	s := &memoryVideoSource{
		options:  options,
		videos:   map[string]videosource.RawVideo{},
		channels: map[string]videosource.RawChannel{},
		results:  map[string][]string{},
		comments: map[string][]videosource.RawComment{},
		disabled: map[string]bool{},
		mtx:      sync.RWMutex{},
	}

	if videos, ok := VideosFrom(options.Context); ok {
		for _, v := range videos {
			s.videos[v.Id] = v
		}
	}

	if channels, ok := ChannelsFrom(options.Context); ok {
		for _, c := range channels {
			s.channels[c.Id] = c
		}
	}

	if results, ok := ResultsFrom(options.Context); ok {
		for k, ids := range results {
			s.results[k] = ids
		}
	}

	if comments, ok := CommentsFrom(options.Context); ok {
		for _, c := range comments {
			s.comments[c.VideoId] = append(s.comments[c.VideoId], c)
		}
	}

	if disabled, ok := CommentsDisabledFrom(options.Context); ok {
		for _, id := range disabled {
			s.disabled[id] = true
		}
	}

	return s
}
