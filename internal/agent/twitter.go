package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
)

const twitterDefaultBaseURL = "https://api.twitter.com"

type TwitterConfig struct {
	BearerToken string
	BaseURL     string // overridable for tests
}

// TwitterAgent collects recent tweets via the v2 recent-search endpoint.
type TwitterAgent struct {
	cfg     TwitterConfig
	client  *http.Client
	builder *eventBuilder
}

func NewTwitterAgent(cfg TwitterConfig, profile *airport.Profile) *TwitterAgent {
	if cfg.BaseURL == "" {
		cfg.BaseURL = twitterDefaultBaseURL
	}
	return &TwitterAgent{
		cfg:     cfg,
		client:  newHTTPClient(),
		builder: newEventBuilder(profile),
	}
}

func (a *TwitterAgent) Platform() model.Platform {
	return model.PlatformTwitter
}

func (a *TwitterAgent) SetCredentials(creds map[string]string) error {
	if token, ok := creds["bearer_token"]; ok {
		a.cfg.BearerToken = token
	}
	return nil
}

func (a *TwitterAgent) ValidateCredentials() error {
	if a.cfg.BearerToken == "" {
		return fmt.Errorf("twitter: %w: bearer_token", ErrMissingCredentials)
	}
	return nil
}

type twitterSearchResponse struct {
	Data []struct {
		ID            string    `json:"id"`
		Text          string    `json:"text"`
		AuthorID      string    `json:"author_id"`
		CreatedAt     time.Time `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
		} `json:"public_metrics"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

func (a *TwitterAgent) Collect(ctx context.Context, query string) ([]model.SocialEvent, error) {
	params := url.Values{}
	params.Set("query", query+" -is:retweet lang:en")
	params.Set("max_results", "50")
	params.Set("tweet.fields", "created_at,public_metrics,author_id")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "name,username")

	endpoint := a.cfg.BaseURL + "/2/tweets/search/recent?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building twitter request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.BearerToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeErrorStatus(model.PlatformTwitter, resp)
	}

	var body twitterSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding twitter response: %w", err)
	}

	authors := make(map[string]string, len(body.Includes.Users))
	for _, u := range body.Includes.Users {
		authors[u.ID] = u.Name
	}

	events := make([]model.SocialEvent, 0, len(body.Data))
	for _, tweet := range body.Data {
		events = append(events, a.builder.build(model.PlatformTwitter, rawEvent{
			ID:         tweet.ID,
			AuthorID:   tweet.AuthorID,
			AuthorName: authors[tweet.AuthorID],
			Content:    tweet.Text,
			URL:        "https://twitter.com/i/web/status/" + tweet.ID,
			Likes:      tweet.PublicMetrics.LikeCount,
			Shares:     tweet.PublicMetrics.RetweetCount,
			Comments:   tweet.PublicMetrics.ReplyCount,
			Timestamp:  tweet.CreatedAt,
		}))
	}

	return events, nil
}
