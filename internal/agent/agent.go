package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/normalize"
	"aeropulse.app/pulse/internal/sentiment"
)

// ErrMissingCredentials is returned by ValidateCredentials before any network
// call is attempted for a platform with incomplete credentials.
var ErrMissingCredentials = errors.New("missing credentials")

// Agent wraps one external platform API. Collect returns the normalized,
// scored events for a query. On upstream failure agents return (nil, error) -
// never demonstration data - so callers can distinguish "no data" from
// "collection failed".
type Agent interface {
	Platform() model.Platform
	SetCredentials(creds map[string]string) error
	ValidateCredentials() error
	Collect(ctx context.Context, query string) ([]model.SocialEvent, error)
}

const defaultRequestTimeout = 15 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultRequestTimeout}
}

// eventBuilder assembles a SocialEvent from provider fields, running the
// normalizer, the sentiment scorer and the airport/airline matchers.
type eventBuilder struct {
	profile *airport.Profile
	scorer  *sentiment.Scorer
}

func newEventBuilder(profile *airport.Profile) *eventBuilder {
	return &eventBuilder{
		profile: profile,
		scorer:  sentiment.NewScorer(profile.Categories),
	}
}

type rawEvent struct {
	ID         string
	AuthorID   string
	AuthorName string
	Content    string
	Title      string
	URL        string
	Likes      int
	Shares     int
	Comments   int
	Timestamp  time.Time
}

func (b *eventBuilder) build(platform model.Platform, raw rawEvent) model.SocialEvent {
	clean := normalize.Clean(raw.Content)
	if clean == "" {
		clean = normalize.Clean(raw.Title)
	}

	matchText := clean + " " + raw.Title

	return model.SocialEvent{
		EventID:        raw.ID,
		Platform:       platform,
		AuthorID:       raw.AuthorID,
		AuthorName:     raw.AuthorName,
		EventContent:   raw.Content,
		CleanEventText: clean,
		EventTitle:     raw.Title,
		EventURL:       raw.URL,
		Engagement: model.EngagementMetrics{
			Likes:    raw.Likes,
			Shares:   raw.Shares,
			Comments: raw.Comments,
		},
		Sentiment:        b.scorer.Score(clean),
		LocationFocus:    b.profile.MatchAirport(matchText),
		AirlineMentioned: b.profile.MatchAirline(matchText),
		TimestampUTC:     raw.Timestamp.UTC(),
		CreatedAt:        time.Now().UTC(),
	}
}

func decodeErrorStatus(platform model.Platform, resp *http.Response) error {
	return fmt.Errorf("%s API returned status %d", platform, resp.StatusCode)
}
