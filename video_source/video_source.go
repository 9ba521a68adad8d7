package videosource

import (
	"context"
	"errors"
)

const (
	MaxPageSize        = 50
	MaxCommentPageSize = 100
)

// ErrCommentsDisabled is returned when a video does not accept comments.
var ErrCommentsDisabled = errors.New("comments are disabled")

type VideoSource interface {
	Search(ctx context.Context, req SearchRequest) (*SearchPage, error)
	Videos(ctx context.Context, ids []string) ([]RawVideo, error)
	Channels(ctx context.Context, ids []string) ([]RawChannel, error)
	Comments(ctx context.Context, req CommentRequest) (*CommentPage, error)
}

// SearchRequest describes one page of a search. Exactly one of Query,
// RelatedTo or ChannelId is expected to be set.
type SearchRequest struct {
	Query     string
	RelatedTo string
	ChannelId string
	Order     string
	Caption   string
	PageToken string
}

type SearchPage struct {
	Ids           []string
	NextPageToken string
}

// CommentRequest describes one page of a video's comment threads.
type CommentRequest struct {
	VideoId   string
	PageToken string
}

// CommentPage holds the top level comments of a page of threads followed by
// the replies the platform returned inline with them.
type CommentPage struct {
	Comments      []RawComment
	NextPageToken string
}
