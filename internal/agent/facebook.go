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

const facebookDefaultBaseURL = "https://graph.facebook.com"

type FacebookConfig struct {
	AccessToken string
	PageID      string
	BaseURL     string // overridable for tests
}

// FacebookAgent collects posts from the configured page's feed via the Graph
// API. The query filters client-side since the feed endpoint has no search.
type FacebookAgent struct {
	cfg     FacebookConfig
	client  *http.Client
	builder *eventBuilder
}

func NewFacebookAgent(cfg FacebookConfig, profile *airport.Profile) *FacebookAgent {
	if cfg.BaseURL == "" {
		cfg.BaseURL = facebookDefaultBaseURL
	}
	return &FacebookAgent{
		cfg:     cfg,
		client:  newHTTPClient(),
		builder: newEventBuilder(profile),
	}
}

func (a *FacebookAgent) Platform() model.Platform {
	return model.PlatformFacebook
}

func (a *FacebookAgent) SetCredentials(creds map[string]string) error {
	if token, ok := creds["access_token"]; ok {
		a.cfg.AccessToken = token
	}
	if pageID, ok := creds["page_id"]; ok {
		a.cfg.PageID = pageID
	}
	return nil
}

func (a *FacebookAgent) ValidateCredentials() error {
	if a.cfg.AccessToken == "" || a.cfg.PageID == "" {
		return fmt.Errorf("facebook: %w: access_token and page_id", ErrMissingCredentials)
	}
	return nil
}

type facebookFeedResponse struct {
	Data []struct {
		ID           string    `json:"id"`
		Message      string    `json:"message"`
		CreatedTime  time.Time `json:"created_time"`
		PermalinkURL string    `json:"permalink_url"`
		From         struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"from"`
		Shares struct {
			Count int `json:"count"`
		} `json:"shares"`
		Likes struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Comments struct {
			Summary struct {
				TotalCount int `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
	} `json:"data"`
}

func (a *FacebookAgent) Collect(ctx context.Context, query string) ([]model.SocialEvent, error) {
	params := url.Values{}
	params.Set("fields", "id,message,created_time,permalink_url,from,shares,likes.summary(true),comments.summary(true)")
	params.Set("limit", "50")
	params.Set("access_token", a.cfg.AccessToken)

	endpoint := fmt.Sprintf("%s/v19.0/%s/feed?%s", a.cfg.BaseURL, a.cfg.PageID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building facebook request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeErrorStatus(model.PlatformFacebook, resp)
	}

	var body facebookFeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding facebook response: %w", err)
	}

	terms := queryTerms(query)

	var events []model.SocialEvent
	for _, post := range body.Data {
		if post.Message == "" || !matchesAny(post.Message, terms) {
			continue
		}
		events = append(events, a.builder.build(model.PlatformFacebook, rawEvent{
			ID:         post.ID,
			AuthorID:   post.From.ID,
			AuthorName: post.From.Name,
			Content:    post.Message,
			URL:        post.PermalinkURL,
			Likes:      post.Likes.Summary.TotalCount,
			Shares:     post.Shares.Count,
			Comments:   post.Comments.Summary.TotalCount,
			Timestamp:  post.CreatedTime,
		}))
	}

	return events, nil
}

// queryTerms splits an "a OR b OR c" query into lowercase terms.
func queryTerms(query string) []string {
	parts := strings.Split(query, " OR ")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

func matchesAny(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lower := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
