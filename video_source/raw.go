package videosource

// RawVideo mirrors a videos resource as returned by the detail endpoint.
// Sub-structures are pointers and counts are optional strings so that a
// missing field stays distinguishable from a zero value.
type RawVideo struct {
	Id               string            `json:"id"`
	Snippet          *VideoSnippet     `json:"snippet,omitempty"`
	ContentDetails   *ContentDetails   `json:"contentDetails,omitempty"`
	Statistics       *VideoStatistics  `json:"statistics,omitempty"`
	TopicDetails     *TopicDetails     `json:"topicDetails,omitempty"`
	RecordingDetails *RecordingDetails `json:"recordingDetails,omitempty"`
}

type VideoSnippet struct {
	PublishedAt          string   `json:"publishedAt"`
	ChannelId            string   `json:"channelId"`
	ChannelTitle         string   `json:"channelTitle"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Tags                 []string `json:"tags,omitempty"`
	DefaultAudioLanguage *string  `json:"defaultAudioLanguage,omitempty"`
}

type ContentDetails struct {
	Duration string `json:"duration"`
	Caption  string `json:"caption"`
}

type VideoStatistics struct {
	ViewCount     *string `json:"viewCount,omitempty"`
	LikeCount     *string `json:"likeCount,omitempty"`
	FavoriteCount *string `json:"favoriteCount,omitempty"`
	CommentCount  *string `json:"commentCount,omitempty"`
}

type TopicDetails struct {
	TopicCategories []string `json:"topicCategories,omitempty"`
}

type RecordingDetails struct {
	RecordingDate       *string `json:"recordingDate,omitempty"`
	LocationDescription *string `json:"locationDescription,omitempty"`
}

type RawChannel struct {
	Id               string             `json:"id"`
	Snippet          *ChannelSnippet    `json:"snippet,omitempty"`
	Statistics       *ChannelStatistics `json:"statistics,omitempty"`
	BrandingSettings *BrandingSettings  `json:"brandingSettings,omitempty"`
}

type ChannelSnippet struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	PublishedAt     string  `json:"publishedAt"`
	DefaultLanguage *string `json:"defaultLanguage,omitempty"`
	Country         *string `json:"country,omitempty"`
}

type ChannelStatistics struct {
	ViewCount             *string `json:"viewCount,omitempty"`
	SubscriberCount       *string `json:"subscriberCount,omitempty"`
	HiddenSubscriberCount bool    `json:"hiddenSubscriberCount"`
	VideoCount            *string `json:"videoCount,omitempty"`
}

type BrandingSettings struct {
	Channel *BrandingChannel `json:"channel,omitempty"`
}

type BrandingChannel struct {
	TrackingAnalyticsAccountId *string `json:"trackingAnalyticsAccountId,omitempty"`
}

// RawComment is a comment or a reply. ParentId is empty for top level
// comments.
type RawComment struct {
	Id                string `json:"id"`
	VideoId           string `json:"videoId"`
	ParentId          string `json:"parentId,omitempty"`
	AuthorChannelId   string `json:"authorChannelId"`
	AuthorDisplayName string `json:"authorDisplayName"`
	TextOriginal      string `json:"textOriginal"`
	LikeCount         int64  `json:"likeCount"`
	PublishedAt       string `json:"publishedAt"`
}
