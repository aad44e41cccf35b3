package agent

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
)

type RSSConfig struct {
	FeedURL string
}

// RSSAgent collects travel news items from an RSS feed (CNN travel by
// default). Feeds need no credentials; ValidateCredentials only checks that a
// feed URL is configured.
type RSSAgent struct {
	cfg     RSSConfig
	client  *http.Client
	builder *eventBuilder
}

func NewRSSAgent(cfg RSSConfig, profile *airport.Profile) *RSSAgent {
	return &RSSAgent{
		cfg:     cfg,
		client:  newHTTPClient(),
		builder: newEventBuilder(profile),
	}
}

func (a *RSSAgent) Platform() model.Platform {
	return model.PlatformCNN
}

func (a *RSSAgent) SetCredentials(creds map[string]string) error {
	if feedURL, ok := creds["feed_url"]; ok {
		a.cfg.FeedURL = feedURL
	}
	return nil
}

func (a *RSSAgent) ValidateCredentials() error {
	if a.cfg.FeedURL == "" {
		return fmt.Errorf("cnn: %w: feed_url", ErrMissingCredentials)
	}
	return nil
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (a *RSSAgent) Collect(ctx context.Context, query string) ([]model.SocialEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.FeedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeErrorStatus(model.PlatformCNN, resp)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	terms := queryTerms(query)

	var events []model.SocialEvent
	for _, item := range feed.Channel.Items {
		if !matchesAny(item.Title+" "+item.Description, terms) {
			continue
		}

		id := item.GUID
		if id == "" {
			id = item.Link
		}

		events = append(events, a.builder.build(model.PlatformCNN, rawEvent{
			ID:        id,
			Content:   item.Description,
			Title:     item.Title,
			URL:       item.Link,
			Timestamp: parsePubDate(item.PubDate),
		}))
	}

	return events, nil
}

func parsePubDate(s string) time.Time {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
