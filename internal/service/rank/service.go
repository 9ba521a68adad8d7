package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/w-h-a/originality/embedder"
	"github.com/w-h-a/originality/table"
)

var (
	ErrEmbedding        = errors.New("embedding failed")
	ErrSeedNotCaptioned = errors.New("seed video has no caption")
)

type Service struct {
	embedder embedder.Embedder
	cosine   bool
	logger   *slog.Logger
}

// Rank embeds every caption in one call, scores each against the seed and
// joins the scores onto the videos. Videos without a caption keep an absent
// score and sort last. The returned captions are deduplicated and carry
// their embeddings.
func (s *Service) Rank(
	ctx context.Context,
	seedId string,
	videos []table.VideoRecord,
	captions []table.CaptionRecord,
	channels []table.ChannelRecord,
) ([]table.SimilarityRecord, []table.CaptionRecord, error) {
	captions = dedupeCaptions(captions)

	seedIdx := -1
	for i, c := range captions {
		if c.VideoId == seedId {
			seedIdx = i
			break
		}
	}

	if seedIdx < 0 {
		return s.join(seedId, videos, nil, channels), captions, ErrSeedNotCaptioned
	}

	texts := make([]string, len(captions))
	for i, c := range captions {
		texts[i] = c.EmbeddingSource
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, captions, fmt.Errorf("%w: %w", ErrEmbedding, err)
	}

	if len(vectors) != len(texts) {
		return nil, captions, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbedding, len(vectors), len(texts))
	}

	seed := vectors[seedIdx]
	scores := make(map[string]float64, len(captions))

	for i := range captions {
		if len(vectors[i]) != len(seed) {
			return nil, captions, fmt.Errorf("%w: vector %d has %d dimensions, seed has %d", ErrEmbedding, i, len(vectors[i]), len(seed))
		}

		captions[i].Embedding = vectors[i]

		if s.cosine {
			scores[captions[i].VideoId] = Cosine(seed, vectors[i])
		} else {
			scores[captions[i].VideoId] = InnerProduct(seed, vectors[i])
		}
	}

	s.logger.InfoContext(ctx, "ranked captions", "seed", seedId, "captions", len(captions), "videos", len(videos))

	return s.join(seedId, videos, scores, channels), captions, nil
}

func (s *Service) join(
	seedId string,
	videos []table.VideoRecord,
	scores map[string]float64,
	channels []table.ChannelRecord,
) []table.SimilarityRecord {
	byChannel := make(map[string]table.ChannelRecord, len(channels))
	for _, c := range channels {
		if _, ok := byChannel[c.Id]; !ok {
			byChannel[c.Id] = c
		}
	}

	seedChannel := ""
	for _, v := range videos {
		if v.Id == seedId {
			seedChannel = v.ChannelId
			break
		}
	}

	seen := make(map[string]bool, len(videos))
	rows := make([]table.SimilarityRecord, 0, len(videos))

	for _, v := range videos {
		if seen[v.Id] {
			continue
		}
		seen[v.Id] = true

		row := table.SimilarityRecord{
			VideoId:       v.Id,
			Title:         v.Title,
			ViewCount:     v.ViewCount,
			LikeCount:     v.LikeCount,
			CommentCount:  v.CommentCount,
			URL:           table.WatchURL + v.Id,
			ChannelId:     v.ChannelId,
			IsSeed:        v.Id == seedId,
			IsSeedChannel: len(seedChannel) > 0 && v.ChannelId == seedChannel,
		}

		if score, ok := scores[v.Id]; ok {
			row.Score = &score
		}

		if c, ok := byChannel[v.ChannelId]; ok {
			name := c.Name
			created := c.CreatedAt
			row.ChannelName = &name
			row.ChannelCreatedAt = &created
			row.ChannelSubscribers = c.SubscriberCount
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Score, rows[j].Score
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	return rows
}

func dedupeCaptions(captions []table.CaptionRecord) []table.CaptionRecord {
	seen := make(map[string]bool, len(captions))
	out := make([]table.CaptionRecord, 0, len(captions))
	for _, c := range captions {
		if seen[c.VideoId] {
			continue
		}
		seen[c.VideoId] = true
		out = append(out, c)
	}
	return out
}

// New builds a ranker scoring with the raw inner product, or with cosine
// similarity when cosine is set.
func New(e embedder.Embedder, cosine bool) *Service {
	if e == nil {
		panic("embedder is required")
	}

	return &Service{
		embedder: e,
		cosine:   cosine,
		logger:   slog.Default().With("component", "rank"),
	}
}
