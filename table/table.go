package table

import "time"

const (
	Similarity = "similarity"
	Stats      = "stats"
	Locations  = "locations"
	Hashtags   = "hashtags"
	Topics     = "topics"
	Tags       = "tags"
	Captions   = "captions"
	Channels   = "channels"

	Comments        = "comments"
	CommentSummary  = "commentSummary"
	CommentLinks    = "commentLinks"
	CommentHashtags = "commentHashtags"
)

// Table is a named, flat view of one entity kind. Absent values are nil cells.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// Tables collects every entity produced by one run.
type Tables struct {
	Videos     []VideoRecord      `json:"videos"`
	Locations  []LocationRecord   `json:"locations"`
	Hashtags   []HashtagRecord    `json:"hashtags"`
	Topics     []TopicRecord      `json:"topics"`
	Tags       []TagRecord        `json:"tags"`
	Captions   []CaptionRecord    `json:"captions"`
	Channels   []ChannelRecord    `json:"channels"`
	Similarity []SimilarityRecord `json:"similarity"`

	Comments        []CommentRecord        `json:"comments,omitempty"`
	CommentSummary  []CommentAuthorRecord  `json:"commentSummary,omitempty"`
	CommentLinks    []CommentLinkRecord    `json:"commentLinks,omitempty"`
	CommentHashtags []CommentHashtagRecord `json:"commentHashtags,omitempty"`
}

// Prune drops every record whose parent video or channel is not part of the
// run, so no orphan survives into the joined view.
func (t *Tables) Prune() {
	videos := make(map[string]bool, len(t.Videos))
	channels := map[string]bool{}
	for _, v := range t.Videos {
		videos[v.Id] = true
		channels[v.ChannelId] = true
	}

	t.Locations = keep(t.Locations, func(r LocationRecord) bool { return videos[r.VideoId] })
	t.Hashtags = keep(t.Hashtags, func(r HashtagRecord) bool { return videos[r.VideoId] })
	t.Topics = keep(t.Topics, func(r TopicRecord) bool { return videos[r.VideoId] })
	t.Tags = keep(t.Tags, func(r TagRecord) bool { return videos[r.VideoId] })
	t.Captions = keep(t.Captions, func(r CaptionRecord) bool { return videos[r.VideoId] })
	t.Channels = keep(t.Channels, func(r ChannelRecord) bool { return channels[r.Id] })
	t.Similarity = keep(t.Similarity, func(r SimilarityRecord) bool { return videos[r.VideoId] })
	t.Comments = keep(t.Comments, func(r CommentRecord) bool { return videos[r.VideoId] })
}

// Named returns every entity as an independently exportable table. The
// comment tables are only included when the run loaded comments.
func (t *Tables) Named() []Table {
	named := []Table{
		t.similarityTable(),
		t.statsTable(),
		{
			Name:    Locations,
			Columns: []string{"videoId", "locationDescription"},
			Rows: rows(t.Locations, func(r LocationRecord) []any {
				return []any{r.VideoId, r.Description}
			}),
		},
		{
			Name:    Hashtags,
			Columns: []string{"videoId", "hashtag"},
			Rows: rows(t.Hashtags, func(r HashtagRecord) []any {
				return []any{r.VideoId, r.Hashtag}
			}),
		},
		{
			Name:    Topics,
			Columns: []string{"videoId", "topicCategory"},
			Rows: rows(t.Topics, func(r TopicRecord) []any {
				return []any{r.VideoId, r.Category}
			}),
		},
		{
			Name:    Tags,
			Columns: []string{"videoId", "tag"},
			Rows: rows(t.Tags, func(r TagRecord) []any {
				return []any{r.VideoId, r.Tag}
			}),
		},
		{
			Name:    Captions,
			Columns: []string{"videoId", "caption", "lang", "langName", "translatedCaption", "embeddingSource"},
			Rows: rows(t.Captions, func(r CaptionRecord) []any {
				return []any{r.VideoId, r.Caption, r.Language, r.LanguageName, cell(r.TranslatedCaption), r.EmbeddingSource}
			}),
		},
		{
			Name: Channels,
			Columns: []string{
				"channelId", "name", "description", "createdAt", "defaultLanguage", "country",
				"viewCount", "subscriberCount", "videoCount", "trackingAnalyticsAccountId",
			},
			Rows: rows(t.Channels, func(r ChannelRecord) []any {
				return []any{
					r.Id, r.Name, r.Description, r.CreatedAt, cell(r.DefaultLanguage), cell(r.Country),
					cell(r.ViewCount), cell(r.SubscriberCount), cell(r.VideoCount), cell(r.TrackingAnalyticsAccountId),
				}
			}),
		},
	}

	if len(t.Comments) > 0 {
		named = append(named, t.commentTables()...)
	}

	return named
}

func (t *Tables) commentTables() []Table {
	return []Table{
		{
			Name: Comments,
			Columns: []string{
				"commentId", "videoId", "parentId", "authorChannelId", "authorDisplayName",
				"textOriginal", "likeCount", "publishedAt", "accountAgeDays",
			},
			Rows: rows(t.Comments, func(r CommentRecord) []any {
				return []any{
					r.Id, r.VideoId, cell(r.ParentId), r.AuthorChannelId, r.AuthorName,
					r.Text, r.LikeCount, r.PublishedAt, cell(r.AccountAgeDays),
				}
			}),
		},
		{
			Name: CommentSummary,
			Columns: []string{
				"authorChannelId", "authorDisplayName", "comments", "videos", "likes",
				"firstCommentAt", "lastCommentAt", "accountCreatedAt", "accountAgeDays",
			},
			Rows: rows(t.CommentSummary, func(r CommentAuthorRecord) []any {
				return []any{
					r.AuthorChannelId, r.AuthorName, r.Comments, r.Videos, r.Likes,
					r.FirstCommentAt, r.LastCommentAt, cell(r.AccountCreatedAt), cell(r.AccountAgeDays),
				}
			}),
		},
		{
			Name:    CommentLinks,
			Columns: []string{"cleanLink", "domain", "comments", "authors", "videos"},
			Rows: rows(t.CommentLinks, func(r CommentLinkRecord) []any {
				return []any{r.Link, r.Domain, r.Comments, r.Authors, r.Videos}
			}),
		},
		{
			Name:    CommentHashtags,
			Columns: []string{"hashtag", "comments", "authors", "videos"},
			Rows: rows(t.CommentHashtags, func(r CommentHashtagRecord) []any {
				return []any{r.Hashtag, r.Comments, r.Authors, r.Videos}
			}),
		},
	}
}

func (t *Tables) similarityTable() Table {
	return Table{
		Name: Similarity,
		Columns: []string{
			"videoId", "similarity", "title", "views", "likes", "comments", "url",
			"channelName", "channelCreatedAt", "subscribers", "seedVideo", "seedChannel",
		},
		Rows: rows(t.Similarity, func(r SimilarityRecord) []any {
			return []any{
				r.VideoId, cell(r.Percent()), r.Title, cell(r.ViewCount), cell(r.LikeCount), cell(r.CommentCount), r.URL,
				cell(r.ChannelName), cell(r.ChannelCreatedAt), cell(r.ChannelSubscribers), r.IsSeed, r.IsSeedChannel,
			}
		}),
	}
}

func (t *Tables) statsTable() Table {
	return Table{
		Name: Stats,
		Columns: []string{
			"videoId", "publishedAt", "recordingDate", "collectDateTime", "title", "description",
			"processedDescription", "duration", "defaultAudioLanguage", "commentCount",
			"favoriteCount", "likeCount", "viewCount", "channelId",
		},
		Rows: rows(t.Videos, func(r VideoRecord) []any {
			return []any{
				r.Id, r.PublishedAt, cell(r.RecordingDate), r.CollectedAt, r.Title, r.Description,
				r.ProcessedDescription, r.DurationSeconds, cell(r.DefaultAudioLanguage), cell(r.CommentCount),
				cell(r.FavoriteCount), cell(r.LikeCount), cell(r.ViewCount), r.ChannelId,
			}
		}),
	}
}

func keep[T any](in []T, fn func(T) bool) []T {
	out := in[:0]
	for _, r := range in {
		if fn(r) {
			out = append(out, r)
		}
	}
	return out
}

func rows[T any](in []T, fn func(T) []any) [][]any {
	out := make([][]any, 0, len(in))
	for _, r := range in {
		out = append(out, fn(r))
	}
	return out
}

func cell[T string | int64 | float64 | time.Time](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}
