package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	videosource "github.com/w-h-a/originality/video_source"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	defaultLocation = "https://youtube.googleapis.com/"
	videoParts      = "contentDetails,statistics,snippet,topicDetails,recordingDetails,localizations"
	channelParts    = "snippet,brandingSettings,statistics,topicDetails"
)

type youtubeVideoSource struct {
	options  videosource.Options
	location string
	client   *http.Client
	service  *youtube.Service
}

func (s *youtubeVideoSource) Search(ctx context.Context, req videosource.SearchRequest) (*videosource.SearchPage, error) {
	call := s.service.Search.List([]string{"id"}).
		MaxResults(videosource.MaxPageSize).
		Type("video").
		Context(ctx)

	if len(req.Query) > 0 {
		call = call.Q(req.Query)
	}

	if len(req.ChannelId) > 0 {
		call = call.ChannelId(req.ChannelId)
	}

	if len(req.Order) > 0 {
		call = call.Order(req.Order)
	}

	if len(req.Caption) > 0 {
		call = call.VideoCaption(req.Caption)
	}

	if len(req.PageToken) > 0 {
		call = call.PageToken(req.PageToken)
	}

	var extra []googleapi.CallOption
	if len(req.RelatedTo) > 0 {
		extra = append(extra, googleapi.QueryParameter("relatedToVideoId", req.RelatedTo))
	}

	rsp, err := call.Do(extra...)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	page := &videosource.SearchPage{
		Ids:           make([]string, 0, len(rsp.Items)),
		NextPageToken: rsp.NextPageToken,
	}

	for _, item := range rsp.Items {
		if item == nil || item.Id == nil || len(item.Id.VideoId) == 0 {
			continue
		}
		page.Ids = append(page.Ids, item.Id.VideoId)
	}

	return page, nil
}

// Videos reads the detail endpoint directly so that counts the platform
// omits are kept absent instead of being decoded as zero.
func (s *youtubeVideoSource) Videos(ctx context.Context, ids []string) ([]videosource.RawVideo, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	if len(ids) > videosource.MaxPageSize {
		return nil, fmt.Errorf("videos: %d ids exceeds the batch ceiling of %d", len(ids), videosource.MaxPageSize)
	}

	var res struct {
		Items []videosource.RawVideo `json:"items"`
	}

	if err := s.list(ctx, "videos", videoParts, ids, &res); err != nil {
		return nil, err
	}

	return res.Items, nil
}

// Channels decodes the same way as Videos. A hidden subscriber count is
// reported as zero by the platform and is dropped here.
func (s *youtubeVideoSource) Channels(ctx context.Context, ids []string) ([]videosource.RawChannel, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	if len(ids) > videosource.MaxPageSize {
		return nil, fmt.Errorf("channels: %d ids exceeds the batch ceiling of %d", len(ids), videosource.MaxPageSize)
	}

	var res struct {
		Items []videosource.RawChannel `json:"items"`
	}

	if err := s.list(ctx, "channels", channelParts, ids, &res); err != nil {
		return nil, err
	}

	for i := range res.Items {
		if stats := res.Items[i].Statistics; stats != nil && stats.HiddenSubscriberCount {
			stats.SubscriberCount = nil
		}
	}

	return res.Items, nil
}

// Comments reads one page of comment threads. Replies beyond the few the
// platform returns inline are not fetched.
func (s *youtubeVideoSource) Comments(ctx context.Context, req videosource.CommentRequest) (*videosource.CommentPage, error) {
	call := s.service.CommentThreads.List([]string{"snippet", "replies"}).
		VideoId(req.VideoId).
		MaxResults(videosource.MaxCommentPageSize).
		TextFormat("plainText").
		Context(ctx)

	if len(req.PageToken) > 0 {
		call = call.PageToken(req.PageToken)
	}

	rsp, err := call.Do()
	if err != nil {
		if commentsDisabled(err) {
			return nil, fmt.Errorf("video %s: %w", req.VideoId, videosource.ErrCommentsDisabled)
		}
		return nil, fmt.Errorf("comment threads: %w", err)
	}

	page := &videosource.CommentPage{
		NextPageToken: rsp.NextPageToken,
	}

	var replies []videosource.RawComment

	for _, thread := range rsp.Items {
		if thread == nil || thread.Snippet == nil {
			continue
		}

		if top := thread.Snippet.TopLevelComment; top != nil {
			page.Comments = append(page.Comments, toRawComment(top, req.VideoId))
		}

		if thread.Replies == nil {
			continue
		}

		for _, reply := range thread.Replies.Comments {
			if reply != nil {
				replies = append(replies, toRawComment(reply, req.VideoId))
			}
		}
	}

	page.Comments = append(page.Comments, replies...)

	return page, nil
}

func toRawComment(c *youtube.Comment, videoId string) videosource.RawComment {
	raw := videosource.RawComment{
		Id:      c.Id,
		VideoId: videoId,
	}

	if c.Snippet == nil {
		return raw
	}

	raw.ParentId = c.Snippet.ParentId
	raw.AuthorDisplayName = c.Snippet.AuthorDisplayName
	raw.TextOriginal = c.Snippet.TextOriginal
	raw.LikeCount = c.Snippet.LikeCount
	raw.PublishedAt = c.Snippet.PublishedAt

	if c.Snippet.AuthorChannelId != nil {
		raw.AuthorChannelId = c.Snippet.AuthorChannelId.Value
	}

	return raw
}

func commentsDisabled(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusForbidden {
		return false
	}

	for _, item := range gerr.Errors {
		if item.Reason == "commentsDisabled" {
			return true
		}
	}

	return false
}

func (s *youtubeVideoSource) list(ctx context.Context, resource string, parts string, ids []string, out any) error {
	q := url.Values{}
	q.Set("part", parts)
	q.Set("id", strings.Join(ids, ","))
	q.Set("maxResults", strconv.Itoa(videosource.MaxPageSize))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		s.location+"youtube/v3/"+resource+"?"+q.Encode(),
		nil,
	)
	if err != nil {
		return err
	}

	rsp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", resource, err)
	}
	defer rsp.Body.Close()

	payload, err := io.ReadAll(rsp.Body)
	if err != nil {
		return fmt.Errorf("%s: read body: %w", resource, err)
	}

	if rsp.StatusCode >= 400 {
		msg := gjson.GetBytes(payload, "error.message").String()
		if len(msg) == 0 {
			msg = rsp.Status
		}
		return fmt.Errorf("%s: status %d: %s", resource, rsp.StatusCode, msg)
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%s: decode: %w", resource, err)
	}

	return nil
}

func NewVideoSource(opts ...videosource.Option) videosource.VideoSource {
	options := videosource.NewOptions(opts...)

	if len(options.ApiKey) == 0 {
		detail := "missing api key for youtube video source"
		slog.ErrorContext(context.Background(), detail)
		panic(detail)
	}

	location := options.Location
	if len(location) == 0 {
		location = defaultLocation
	}
	if !strings.HasSuffix(location, "/") {
		location += "/"
	}

	client := &http.Client{
		Transport: &transport.APIKey{
			Key:       options.ApiKey,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	service, err := youtube.NewService(
		options.Context,
		option.WithHTTPClient(client),
		option.WithEndpoint(location),
	)
	if err != nil {
		detail := "failed to initialize youtube video source"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	s := &youtubeVideoSource{
		options:  options,
		location: location,
		client:   client,
		service:  service,
	}

	return s
}
