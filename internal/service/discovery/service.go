package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/originality/internal/service/caption"
	"github.com/w-h-a/originality/internal/service/comments"
	"github.com/w-h-a/originality/internal/service/fetch"
	"github.com/w-h-a/originality/internal/service/keyword"
	"github.com/w-h-a/originality/internal/service/normalize"
	"github.com/w-h-a/originality/internal/service/query"
	"github.com/w-h-a/originality/internal/service/rank"
	"github.com/w-h-a/originality/reporter"
	"github.com/w-h-a/originality/table"
	videosource "github.com/w-h-a/originality/video_source"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName   = "github.com/w-h-a/originality/internal/service/discovery"
	stageProcess = "process"
	stageDone    = "done"
	stageFailed  = "failed"
)

// Request describes one discovery run. CommentsTop loads the comments of
// that many videos from the top of the ranking.
type Request struct {
	SeedId         string   `json:"seedId"`
	Keywords       []string `json:"keywords,omitempty"`
	Order          string   `json:"order,omitempty"`
	Captions       string   `json:"captions,omitempty"`
	PageLimit      int      `json:"pageLimit,omitempty"`
	IncludeRelated bool     `json:"includeRelated,omitempty"`
	CommentsTop    int      `json:"commentsTop,omitempty"`
}

// Result holds whatever a run produced, including when it stopped early.
type Result struct {
	RunId    string        `json:"runId"`
	SeedId   string        `json:"seedId,omitempty"`
	Keywords []string      `json:"keywords,omitempty"`
	Tables   table.Tables  `json:"tables"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

type Service struct {
	query     *query.Service
	fetch     *fetch.Service
	normalize *normalize.Service
	caption   *caption.Service
	rank      *rank.Service
	keyword   *keyword.Service
	comments  *comments.Service
	reporter  reporter.Reporter
	tracer    trace.Tracer
	logger    *slog.Logger
}

// Discover ranks the candidates found for a seed video by caption
// similarity. The returned result is never nil and holds the partial tables
// when an error is returned.
func (s *Service) Discover(ctx context.Context, req Request) (*Result, error) {
	res := &Result{
		RunId:  uuid.NewString(),
		SeedId: strings.TrimSpace(req.SeedId),
	}

	ctx, span := s.tracer.Start(ctx, "discover", trace.WithAttributes(
		attribute.String("run.id", res.RunId),
		attribute.String("seed.id", res.SeedId),
	))
	defer span.End()

	err := s.discover(ctx, req, res)

	s.finish(ctx, span, res, err)

	return res, err
}

// Collect gathers the tables for an explicit list of videos without
// searching or ranking.
func (s *Service) Collect(ctx context.Context, ids []string) (*Result, error) {
	res := &Result{
		RunId: uuid.NewString(),
	}

	ctx, span := s.tracer.Start(ctx, "collect", trace.WithAttributes(
		attribute.String("run.id", res.RunId),
		attribute.Int("videos", len(ids)),
	))
	defer span.End()

	err := s.collect(ctx, res, query.NewIdSet(ids...).Ids())

	s.finish(ctx, span, res, err)

	return res, err
}

// Comments collects the tables of the given videos together with their
// comments and the comment summaries.
func (s *Service) Comments(ctx context.Context, ids []string) (*Result, error) {
	res := &Result{
		RunId: uuid.NewString(),
	}

	ctx, span := s.tracer.Start(ctx, "comments", trace.WithAttributes(
		attribute.String("run.id", res.RunId),
		attribute.Int("videos", len(ids)),
	))
	defer span.End()

	err := s.collect(ctx, res, query.NewIdSet(ids...).Ids())
	if err == nil {
		err = s.loadComments(ctx, res, videoIds(res.Tables.Videos))
	}

	s.finish(ctx, span, res, err)

	return res, err
}

// ChannelUploads collects the tables of a channel's uploads, newest first.
// A failed listing still yields a result with a run id.
func (s *Service) ChannelUploads(ctx context.Context, channelId string, pageLimit int) (*Result, error) {
	res := &Result{
		RunId: uuid.NewString(),
	}

	ctx, span := s.tracer.Start(ctx, "channel_uploads", trace.WithAttributes(
		attribute.String("run.id", res.RunId),
		attribute.String("channel.id", channelId),
	))
	defer span.End()

	err := s.channelUploads(ctx, res, channelId, pageLimit)

	s.finish(ctx, span, res, err)

	return res, err
}

func (s *Service) channelUploads(ctx context.Context, res *Result, channelId string, pageLimit int) error {
	var ids *query.IdSet

	if err := s.stage(ctx, StageQuery, func(ctx context.Context) error {
		var err error
		ids, err = s.query.ChannelUploads(ctx, channelId, pageLimit)
		if err != nil {
			return fmt.Errorf("channel %s uploads: %w", channelId, err)
		}
		return nil
	}); err != nil {
		return stageError(StageQuery, err)
	}

	return s.collect(ctx, res, ids.Ids())
}

func (s *Service) discover(ctx context.Context, req Request, res *Result) error {
	if len(res.SeedId) == 0 {
		return stageError(StageSeed, ErrSeedRequired)
	}

	var seed *normalize.Result

	if err := s.stage(ctx, StageSeed, func(ctx context.Context) error {
		raw, err := s.fetch.Seed(ctx, res.RunId, res.SeedId)
		if err != nil {
			return err
		}
		seed, err = s.normalize.Video(ctx, *raw)
		return err
	}); err != nil {
		return stageError(StageSeed, err)
	}

	res.Keywords = cleanKeywords(req.Keywords)

	if len(res.Keywords) == 0 {
		if err := s.stage(ctx, StageKeyword, func(ctx context.Context) error {
			var err error
			res.Keywords, err = s.keyword.Suggest(ctx, seed.Video.Title, seed.Video.ProcessedDescription)
			return err
		}); err != nil {
			return stageError(StageKeyword, err)
		}
	}

	candidates := query.NewIdSet(res.SeedId)

	if err := s.stage(ctx, StageQuery, func(ctx context.Context) error {
		if len(res.Keywords) > 0 {
			ids, err := s.query.Query(ctx, query.Request{
				Term:      keyword.Term(res.Keywords),
				SeedId:    res.SeedId,
				Order:     req.Order,
				Captions:  req.Captions,
				PageLimit: req.PageLimit,
			})
			if err != nil {
				return err
			}
			candidates.Union(ids)
		}

		if !req.IncludeRelated {
			return nil
		}

		related, err := s.query.RelatedTo(ctx, res.SeedId)
		if err != nil {
			return fmt.Errorf("related to %s: %w", res.SeedId, err)
		}
		candidates.Union(related)

		return nil
	}); err != nil {
		return stageError(StageQuery, err)
	}

	s.logger.InfoContext(ctx, "collected candidates", "run", res.RunId, "candidates", candidates.Len())

	if err := s.collect(ctx, res, candidates.Ids()); err != nil {
		return err
	}

	if err := s.stage(ctx, StageRank, func(ctx context.Context) error {
		rows, captions, err := s.rank.Rank(ctx, res.SeedId, res.Tables.Videos, res.Tables.Captions, res.Tables.Channels)
		res.Tables.Captions = captions
		res.Tables.Similarity = rows
		if errors.Is(err, rank.ErrEmbedding) {
			return stageError(StageEmbedding, err)
		}
		return stageError(StageRank, err)
	}); err != nil {
		return err
	}

	if req.CommentsTop <= 0 {
		return nil
	}

	top := make([]string, 0, req.CommentsTop)
	for _, row := range res.Tables.Similarity {
		if len(top) == req.CommentsTop {
			break
		}
		top = append(top, row.VideoId)
	}

	return s.loadComments(ctx, res, top)
}

// loadComments loads the comments of each video in turn, looks up the
// author channels and builds the comment summaries. A video whose comments
// fail to load is recorded as an item failure.
func (s *Service) loadComments(ctx context.Context, res *Result, ids []string) error {
	return s.stage(ctx, StageComments, func(ctx context.Context) error {
		var raws []videosource.RawComment

		for i, id := range ids {
			if err := ctx.Err(); err != nil {
				return stageError(StageComments, err)
			}

			thread, err := s.comments.Thread(ctx, id)
			switch {
			case err != nil && ctx.Err() != nil:
				return stageError(StageComments, err)
			case err != nil:
				s.logger.WarnContext(ctx, "comments failed", "run", res.RunId, "video", id, "error", err)
				res.Failures = append(res.Failures, newItemFailure(id, StageComments, err))
			}

			raws = append(raws, thread...)

			s.report(ctx, reporter.Progress{
				RunId: res.RunId,
				Stage: StageComments,
				Index: i + 1,
				Total: len(ids),
			})
		}

		authors := query.NewIdSet()
		for _, raw := range raws {
			if len(raw.AuthorChannelId) > 0 {
				authors.Add(raw.AuthorChannelId)
			}
		}

		created := map[string]time.Time{}

		channels, err := s.fetch.Channels(ctx, res.RunId, authors.Ids())
		for _, raw := range channels {
			channel, nerr := s.normalize.Channel(ctx, raw)
			if nerr != nil {
				s.logger.DebugContext(ctx, "skipping comment author", "run", res.RunId, "channel", raw.Id, "error", nerr)
				continue
			}
			created[channel.Id] = channel.CreatedAt
		}
		if err != nil {
			if ctx.Err() != nil {
				return stageError(StageComments, err)
			}
			s.logger.WarnContext(ctx, "comment author lookup failed", "run", res.RunId, "error", err)
		}

		t := &res.Tables
		t.Comments = s.comments.Records(ctx, raws, created)
		t.CommentSummary = comments.Authors(t.Comments, created)
		t.CommentLinks = comments.Links(t.Comments)
		t.CommentHashtags = comments.Hashtags(t.Comments)

		return nil
	})
}

func (s *Service) collect(ctx context.Context, res *Result, ids []string) error {
	var raws []videosource.RawVideo

	fetchErr := s.stage(ctx, StageFetch, func(ctx context.Context) error {
		var err error
		raws, err = s.fetch.Videos(ctx, res.RunId, ids)
		return err
	})

	if err := s.process(ctx, res, raws); err != nil {
		return err
	}

	if fetchErr != nil {
		return stageError(StageFetch, fetchErr)
	}

	return s.stage(ctx, StageChannel, func(ctx context.Context) error {
		return s.channels(ctx, res)
	})
}

// process normalises and captions each fetched video in turn. Item failures
// are recorded and skipped. Only cancellation stops the loop.
func (s *Service) process(ctx context.Context, res *Result, raws []videosource.RawVideo) error {
	t := &res.Tables

	for i, raw := range raws {
		if err := ctx.Err(); err != nil {
			return stageError(StageNormalize, err)
		}

		norm, err := s.normalize.Video(ctx, raw)
		if err != nil {
			s.logger.WarnContext(ctx, "dropping video", "run", res.RunId, "video", raw.Id, "error", err)
			res.Failures = append(res.Failures, newItemFailure(raw.Id, StageNormalize, err))
			continue
		}

		t.Videos = append(t.Videos, norm.Video)
		t.Hashtags = append(t.Hashtags, norm.Hashtags...)
		t.Tags = append(t.Tags, norm.Tags...)
		t.Topics = append(t.Topics, norm.Topics...)
		t.Locations = append(t.Locations, norm.Locations...)

		rec, err := s.caption.Resolve(ctx, raw.Id)
		switch {
		case err != nil && ctx.Err() != nil:
			return stageError(StageCaption, err)
		case err != nil:
			s.logger.WarnContext(ctx, "caption failed", "run", res.RunId, "video", raw.Id, "error", err)
			res.Failures = append(res.Failures, newItemFailure(raw.Id, StageCaption, err))
		case rec != nil:
			t.Captions = append(t.Captions, *rec)
		}

		s.report(ctx, reporter.Progress{
			RunId: res.RunId,
			Stage: stageProcess,
			Index: i + 1,
			Total: len(raws),
		})
	}

	return nil
}

func (s *Service) channels(ctx context.Context, res *Result) error {
	ids := query.NewIdSet()
	for _, v := range res.Tables.Videos {
		ids.Add(v.ChannelId)
	}

	raws, err := s.fetch.Channels(ctx, res.RunId, ids.Ids())

	for _, raw := range raws {
		channel, nerr := s.normalize.Channel(ctx, raw)
		if nerr != nil {
			s.logger.WarnContext(ctx, "dropping channel", "run", res.RunId, "channel", raw.Id, "error", nerr)
			continue
		}
		res.Tables.Channels = append(res.Tables.Channels, *channel)
	}

	return stageError(StageChannel, err)
}

func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, name)
	defer span.End()

	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return err
}

func (s *Service) finish(ctx context.Context, span trace.Span, res *Result, err error) {
	res.Tables.Prune()

	span.SetAttributes(
		attribute.Int("videos", len(res.Tables.Videos)),
		attribute.Int("captions", len(res.Tables.Captions)),
		attribute.Int("failures", len(res.Failures)),
	)

	progress := reporter.Progress{
		RunId: res.RunId,
		Stage: stageDone,
		Index: 1,
		Total: 1,
		Message: fmt.Sprintf("%d videos, %d captions, %d item failures",
			len(res.Tables.Videos), len(res.Tables.Captions), len(res.Failures)),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		progress.Stage = stageFailed
		progress.Message = err.Error()
		s.logger.ErrorContext(ctx, "run failed", "run", res.RunId, "error", err)
	} else {
		s.logger.InfoContext(ctx, "run complete", "run", res.RunId, "videos", len(res.Tables.Videos))
	}

	// the run context may already be cancelled
	s.report(context.WithoutCancel(ctx), progress)
}

func (s *Service) report(ctx context.Context, p reporter.Progress) {
	if p.Timestamp == 0 {
		p.Timestamp = time.Now().Unix()
	}
	if err := s.reporter.Report(ctx, p); err != nil {
		s.logger.WarnContext(ctx, "failed to report progress", "stage", p.Stage, "error", err)
	}
}

func videoIds(videos []table.VideoRecord) []string {
	ids := make([]string, 0, len(videos))
	for _, v := range videos {
		ids = append(ids, v.Id)
	}
	return ids
}

func cleanKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); len(k) > 0 {
			out = append(out, k)
		}
	}
	return out
}

func New(
	query *query.Service,
	fetch *fetch.Service,
	normalize *normalize.Service,
	caption *caption.Service,
	rank *rank.Service,
	keyword *keyword.Service,
	comments *comments.Service,
	reporter reporter.Reporter,
) *Service {
	if query == nil || fetch == nil || normalize == nil || caption == nil || rank == nil || keyword == nil || comments == nil {
		panic("discovery requires query, fetch, normalize, caption, rank, keyword and comments services")
	}

	if reporter == nil {
		panic("reporter is required")
	}

	return &Service{
		query:     query,
		fetch:     fetch,
		normalize: normalize,
		caption:   caption,
		rank:      rank,
		keyword:   keyword,
		comments:  comments,
		reporter:  reporter,
		tracer:    otel.Tracer(tracerName),
		logger:    slog.Default().With("component", "discovery"),
	}
}
