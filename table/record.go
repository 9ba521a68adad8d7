package table

import (
	"math"
	"time"
)

const WatchURL = "https://www.youtube.com/watch?v="

type VideoRecord struct {
	Id                   string     `json:"videoId"`
	PublishedAt          time.Time  `json:"publishedAt"`
	RecordingDate        *time.Time `json:"recordingDate,omitempty"`
	CollectedAt          time.Time  `json:"collectDateTime"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	ProcessedDescription string     `json:"processedDescription"`
	DurationSeconds      int        `json:"duration"`
	DefaultAudioLanguage *string    `json:"defaultAudioLanguage,omitempty"`
	CommentCount         *int64     `json:"commentCount,omitempty"`
	FavoriteCount        *int64     `json:"favoriteCount,omitempty"`
	LikeCount            *int64     `json:"likeCount,omitempty"`
	ViewCount            *int64     `json:"viewCount,omitempty"`
	ChannelId            string     `json:"channelId"`
}

type HashtagRecord struct {
	VideoId string `json:"videoId"`
	Hashtag string `json:"hashtag"`
}

type TagRecord struct {
	VideoId string `json:"videoId"`
	Tag     string `json:"tag"`
}

type TopicRecord struct {
	VideoId  string `json:"videoId"`
	Category string `json:"category"`
}

type LocationRecord struct {
	VideoId     string `json:"videoId"`
	Description string `json:"locationDescription"`
}

// CaptionRecord holds the default track of a video. EmbeddingSource is the
// translated text when a translation happened, the caption otherwise.
type CaptionRecord struct {
	VideoId           string    `json:"videoId"`
	Caption           string    `json:"caption"`
	Language          string    `json:"lang"`
	LanguageName      string    `json:"langName"`
	TranslatedCaption *string   `json:"translatedCaption,omitempty"`
	EmbeddingSource   string    `json:"embeddingSource"`
	Embedding         []float32 `json:"embedding,omitempty"`
}

type ChannelRecord struct {
	Id                         string    `json:"channelId"`
	Name                       string    `json:"name"`
	Description                string    `json:"description"`
	CreatedAt                  time.Time `json:"createdAt"`
	DefaultLanguage            *string   `json:"defaultLanguage,omitempty"`
	Country                    *string   `json:"country,omitempty"`
	ViewCount                  *int64    `json:"viewCount,omitempty"`
	SubscriberCount            *int64    `json:"subscriberCount,omitempty"`
	VideoCount                 *int64    `json:"videoCount,omitempty"`
	TrackingAnalyticsAccountId *string   `json:"trackingAnalyticsAccountId,omitempty"`
}

// SimilarityRecord is one row of the ranked view. Score is the raw inner
// product of the seed and candidate embeddings, absent when the candidate
// has no caption.
type SimilarityRecord struct {
	VideoId            string     `json:"videoId"`
	Score              *float64   `json:"score,omitempty"`
	Title              string     `json:"title"`
	ViewCount          *int64     `json:"viewCount,omitempty"`
	LikeCount          *int64     `json:"likeCount,omitempty"`
	CommentCount       *int64     `json:"commentCount,omitempty"`
	URL                string     `json:"url"`
	ChannelId          string     `json:"channelId"`
	ChannelName        *string    `json:"channelName,omitempty"`
	ChannelCreatedAt   *time.Time `json:"channelCreatedAt,omitempty"`
	ChannelSubscribers *int64     `json:"channelSubscribers,omitempty"`
	IsSeed             bool       `json:"isSeed"`
	IsSeedChannel      bool       `json:"isSeedChannel"`
}

// Percent is the score scaled to a percentage with one decimal.
func (r SimilarityRecord) Percent() *float64 {
	if r.Score == nil {
		return nil
	}
	p := math.Round(*r.Score*1000) / 10
	return &p
}

// CommentRecord is one comment or reply. AccountAgeDays is the age of the
// author's channel when the comment was posted, absent when the channel
// could not be looked up.
type CommentRecord struct {
	Id              string    `json:"commentId"`
	VideoId         string    `json:"videoId"`
	ParentId        *string   `json:"parentId,omitempty"`
	AuthorChannelId string    `json:"authorChannelId"`
	AuthorName      string    `json:"authorDisplayName"`
	Text            string    `json:"textOriginal"`
	LikeCount       int64     `json:"likeCount"`
	PublishedAt     time.Time `json:"publishedAt"`
	AccountAgeDays  *int64    `json:"accountAgeDays,omitempty"`
}

// CommentAuthorRecord summarises the comments of one author across the run.
type CommentAuthorRecord struct {
	AuthorChannelId  string     `json:"authorChannelId"`
	AuthorName       string     `json:"authorDisplayName"`
	Comments         int64      `json:"comments"`
	Videos           int64      `json:"videos"`
	Likes            int64      `json:"likes"`
	FirstCommentAt   time.Time  `json:"firstCommentAt"`
	LastCommentAt    time.Time  `json:"lastCommentAt"`
	AccountCreatedAt *time.Time `json:"accountCreatedAt,omitempty"`
	AccountAgeDays   *int64     `json:"accountAgeDays,omitempty"`
}

type CommentLinkRecord struct {
	Link     string `json:"cleanLink"`
	Domain   string `json:"domain"`
	Comments int64  `json:"comments"`
	Authors  int64  `json:"authors"`
	Videos   int64  `json:"videos"`
}

type CommentHashtagRecord struct {
	Hashtag  string `json:"hashtag"`
	Comments int64  `json:"comments"`
	Authors  int64  `json:"authors"`
	Videos   int64  `json:"videos"`
}
