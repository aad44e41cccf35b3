package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
)

const (
	redditDefaultAuthURL = "https://www.reddit.com"
	redditDefaultAPIURL  = "https://oauth.reddit.com"
)

type RedditConfig struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	AuthBaseURL  string // overridable for tests
	APIBaseURL   string // overridable for tests
}

// RedditAgent collects posts via the search API after an OAuth
// client-credentials token exchange.
type RedditAgent struct {
	cfg     RedditConfig
	client  *http.Client
	builder *eventBuilder
}

func NewRedditAgent(cfg RedditConfig, profile *airport.Profile) *RedditAgent {
	if cfg.AuthBaseURL == "" {
		cfg.AuthBaseURL = redditDefaultAuthURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = redditDefaultAPIURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pulse-collector/1.0"
	}
	return &RedditAgent{
		cfg:     cfg,
		client:  newHTTPClient(),
		builder: newEventBuilder(profile),
	}
}

func (a *RedditAgent) Platform() model.Platform {
	return model.PlatformReddit
}

func (a *RedditAgent) SetCredentials(creds map[string]string) error {
	if id, ok := creds["client_id"]; ok {
		a.cfg.ClientID = id
	}
	if secret, ok := creds["client_secret"]; ok {
		a.cfg.ClientSecret = secret
	}
	return nil
}

func (a *RedditAgent) ValidateCredentials() error {
	if a.cfg.ClientID == "" || a.cfg.ClientSecret == "" {
		return fmt.Errorf("reddit: %w: client_id and client_secret", ErrMissingCredentials)
	}
	return nil
}

func (a *RedditAgent) token(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.AuthBaseURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.SetBasicAuth(a.cfg.ClientID, a.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reddit token exchange: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", decodeErrorStatus(model.PlatformReddit, resp)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("reddit token exchange: empty access token")
	}

	return body.AccessToken, nil
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Author      string  `json:"author"`
				Title       string  `json:"title"`
				SelfText    string  `json:"selftext"`
				Permalink   string  `json:"permalink"`
				CreatedUTC  float64 `json:"created_utc"`
				Ups         int     `json:"ups"`
				NumComments int     `json:"num_comments"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (a *RedditAgent) Collect(ctx context.Context, query string) ([]model.SocialEvent, error) {
	token, err := a.token(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "50")
	params.Set("sort", "new")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		a.cfg.APIBaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building reddit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeErrorStatus(model.PlatformReddit, resp)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decoding reddit response: %w", err)
	}

	events := make([]model.SocialEvent, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data
		content := post.SelfText
		if content == "" {
			content = post.Title
		}
		events = append(events, a.builder.build(model.PlatformReddit, rawEvent{
			ID:         post.ID,
			AuthorID:   post.Author,
			AuthorName: post.Author,
			Content:    content,
			Title:      post.Title,
			URL:        "https://reddit.com" + post.Permalink,
			Likes:      post.Ups,
			Comments:   post.NumComments,
			Timestamp:  time.Unix(int64(post.CreatedUTC), 0),
		}))
	}

	return events, nil
}
