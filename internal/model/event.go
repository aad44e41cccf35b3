package model

import "time"

// Platform identifies a collection source.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformReddit   Platform = "reddit"
	PlatformFacebook Platform = "facebook"
	PlatformCNN      Platform = "cnn"
	PlatformInshorts Platform = "inshorts"
)

// AllPlatforms lists every platform the collector knows about, in scheduling order.
func AllPlatforms() []Platform {
	return []Platform{PlatformTwitter, PlatformReddit, PlatformFacebook, PlatformCNN, PlatformInshorts}
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformTwitter, PlatformReddit, PlatformFacebook, PlatformCNN, PlatformInshorts:
		return true
	}
	return false
}

// EngagementMetrics carries per-post interaction counts. All fields are
// best-effort; platforms that don't expose a metric leave it zero.
type EngagementMetrics struct {
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
}

// SentimentAnalysis is the derived scoring block attached to each event.
// Categories maps category name to the raw signed score, nil when the
// category's keywords don't appear in the text.
type SentimentAnalysis struct {
	OverallSentiment float64             `json:"overall_sentiment"` // thresholded: -1, 0 or 1
	SentimentScore   float64             `json:"sentiment_score"`   // [0,1], linear from the raw score
	Categories       map[string]*float64 `json:"categories"`
}

// SocialEvent is one normalized post or article.
//
// (EventID, Platform) is the de-duplication key: re-ingesting the same event
// upserts rather than duplicates. Events are read-only after persistence.
type SocialEvent struct {
	EventID          string            `json:"event_id"`
	Platform         Platform          `json:"platform"`
	AuthorID         string            `json:"author_id,omitempty"`
	AuthorName       string            `json:"author_name,omitempty"`
	EventContent     string            `json:"event_content"`
	CleanEventText   string            `json:"clean_event_text"`
	EventTitle       string            `json:"event_title,omitempty"`
	EventURL         string            `json:"event_url,omitempty"`
	Engagement       EngagementMetrics `json:"engagement_metrics"`
	Sentiment        SentimentAnalysis `json:"sentiment_analysis"`
	LocationFocus    *string           `json:"location_focus"`    // matched airport slug, nil if absent
	AirlineMentioned *string           `json:"airline_mentioned"` // matched airline slug, nil if absent
	TimestampUTC     time.Time         `json:"timestamp_utc"`     // source time
	CreatedAt        time.Time         `json:"created_at"`        // ingestion time
}

// DataStats aggregates engagement totals across stored events.
type DataStats struct {
	TotalEvents   int            `json:"totalEvents"`
	TotalLikes    int            `json:"totalLikes"`
	TotalShares   int            `json:"totalShares"`
	TotalComments int            `json:"totalComments"`
	ByPlatform    map[string]int `json:"byPlatform"`
}
