package agent_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/internal/agent"
	"aeropulse.app/pulse/internal/airport"
	"aeropulse.app/pulse/internal/model"
)

func testProfile() *airport.Profile {
	return &airport.Profile{
		AirportName:     "Indira Gandhi International Airport",
		AirportSlug:     "delhi_igi",
		City:            "New Delhi",
		AirportKeywords: []string{"IGI Airport", "Delhi Airport"},
		Airlines: []airport.Airline{
			{Name: "IndiGo", Slug: "indigo", Keywords: []string{"IndiGo"}},
		},
		Categories: map[string][]string{
			"luggage_handling": {"luggage", "baggage"},
			"flight_delays":    {"delay", "delayed"},
		},
		QueryTerms: []string{"Delhi Airport", "IGI Airport"},
	}
}

// countingServer wraps an httptest server and counts requests, so tests can
// assert that credential failures never reach the network.
func countingServer(handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	return server, &calls
}

var _ = Describe("TwitterAgent", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("fails validation without a bearer token", func() {
		a := agent.NewTwitterAgent(agent.TwitterConfig{}, testProfile())
		Expect(a.ValidateCredentials()).To(MatchError(agent.ErrMissingCredentials))
	})

	It("parses tweets with engagement metrics and author names", func() {
		server, _ := countingServer(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/2/tweets/search/recent"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer token-1"))
			Expect(r.URL.Query().Get("query")).To(ContainSubstring("-is:retweet"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"data": [{
					"id": "1001",
					"text": "Delayed again at IGI Airport, lost my baggage too",
					"author_id": "u1",
					"created_at": "2026-08-30T10:00:00Z",
					"public_metrics": {"like_count": 10, "retweet_count": 3, "reply_count": 2}
				}],
				"includes": {"users": [{"id": "u1", "name": "Asha", "username": "asha"}]}
			}`))
		})
		defer server.Close()

		a := agent.NewTwitterAgent(agent.TwitterConfig{
			BearerToken: "token-1",
			BaseURL:     server.URL,
		}, testProfile())

		events, err := a.Collect(ctx, "Delhi Airport")
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))

		e := events[0]
		Expect(e.EventID).To(Equal("1001"))
		Expect(e.Platform).To(Equal(model.PlatformTwitter))
		Expect(e.AuthorName).To(Equal("Asha"))
		Expect(e.Engagement.Likes).To(Equal(10))
		Expect(e.Engagement.Shares).To(Equal(3))
		Expect(e.Engagement.Comments).To(Equal(2))
		Expect(e.LocationFocus).NotTo(BeNil())
		Expect(*e.LocationFocus).To(Equal("delhi_igi"))
		Expect(e.Sentiment.Categories["luggage_handling"]).NotTo(BeNil())
	})

	It("returns an error on a non-200 response", func() {
		server, _ := countingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		defer server.Close()

		a := agent.NewTwitterAgent(agent.TwitterConfig{
			BearerToken: "token-1",
			BaseURL:     server.URL,
		}, testProfile())

		events, err := a.Collect(ctx, "Delhi Airport")
		Expect(err).To(MatchError(ContainSubstring("429")))
		Expect(events).To(BeNil())
	})
})

var _ = Describe("RSSAgent", func() {
	It("fails validation without a feed URL", func() {
		a := agent.NewRSSAgent(agent.RSSConfig{}, testProfile())
		Expect(a.ValidateCredentials()).To(MatchError(agent.ErrMissingCredentials))
	})

	It("keeps only items matching the query terms", func() {
		server, _ := countingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(`<?xml version="1.0"?>
				<rss><channel>
					<item>
						<title>Delhi Airport opens new terminal wing</title>
						<link>https://news.example/delhi</link>
						<description>Smooth check-in reported at Delhi Airport.</description>
						<pubDate>Sun, 30 Aug 2026 09:00:00 +0000</pubDate>
						<guid>guid-1</guid>
					</item>
					<item>
						<title>Unrelated market news</title>
						<link>https://news.example/markets</link>
						<description>Stocks moved today.</description>
						<pubDate>Sun, 30 Aug 2026 08:00:00 +0000</pubDate>
						<guid>guid-2</guid>
					</item>
				</channel></rss>`))
		})
		defer server.Close()

		a := agent.NewRSSAgent(agent.RSSConfig{FeedURL: server.URL}, testProfile())

		events, err := a.Collect(context.Background(), "Delhi Airport OR IGI Airport")
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))
		Expect(events[0].EventID).To(Equal("guid-1"))
		Expect(events[0].Platform).To(Equal(model.PlatformCNN))
		Expect(events[0].EventURL).To(Equal("https://news.example/delhi"))
	})

	It("falls back to the link when an item has no GUID", func() {
		server, _ := countingServer(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0"?>
				<rss><channel>
					<item>
						<title>IGI Airport security lines grow</title>
						<link>https://news.example/security</link>
						<description>Long waits at IGI Airport screening.</description>
						<pubDate>Sun, 30 Aug 2026 09:00:00 +0000</pubDate>
					</item>
				</channel></rss>`))
		})
		defer server.Close()

		a := agent.NewRSSAgent(agent.RSSConfig{FeedURL: server.URL}, testProfile())

		events, err := a.Collect(context.Background(), "IGI Airport")
		Expect(err).NotTo(HaveOccurred())
		Expect(events).To(HaveLen(1))
		Expect(events[0].EventID).To(Equal("https://news.example/security"))
	})
})

var _ = Describe("InshortsAgent", func() {
	It("needs no credentials", func() {
		a := agent.NewInshortsAgent(testProfile())
		Expect(a.ValidateCredentials()).To(Succeed())
	})

	It("serves stable demo events with sentiment attached", func() {
		a := agent.NewInshortsAgent(testProfile())

		events, err := a.Collect(context.Background(), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(events).NotTo(BeEmpty())

		first, err2 := a.Collect(context.Background(), "")
		Expect(err2).NotTo(HaveOccurred())
		for i := range events {
			Expect(events[i].EventID).To(Equal(first[i].EventID))
		}
	})
})

var _ = Describe("Manager", func() {
	var (
		manager *agent.Manager
		profile *airport.Profile
	)

	BeforeEach(func() {
		profile = testProfile()
	})

	It("rejects credentials for an unknown platform", func() {
		manager = agent.NewManager(profile, agent.NewInshortsAgent(profile))
		err := manager.SetCredentials(model.PlatformTwitter, map[string]string{"bearer_token": "x"})
		Expect(err).To(MatchError(ContainSubstring("unknown platform")))
	})

	It("does not touch the network when credentials are missing", func() {
		server, calls := countingServer(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		defer server.Close()

		twitter := agent.NewTwitterAgent(agent.TwitterConfig{BaseURL: server.URL}, profile)
		manager = agent.NewManager(profile, twitter)

		events, err := manager.Collect(context.Background(), model.PlatformTwitter, "")
		Expect(err).To(MatchError(agent.ErrMissingCredentials))
		Expect(events).To(BeNil())
		Expect(calls.Load()).To(BeZero())
	})

	It("substitutes the profile's default query when none is given", func() {
		var seenQuery string
		server, _ := countingServer(func(w http.ResponseWriter, r *http.Request) {
			seenQuery = r.URL.Query().Get("query")
			_, _ = w.Write([]byte(`{"data": []}`))
		})
		defer server.Close()

		twitter := agent.NewTwitterAgent(agent.TwitterConfig{
			BearerToken: "token-1",
			BaseURL:     server.URL,
		}, profile)
		manager = agent.NewManager(profile, twitter)

		_, err := manager.Collect(context.Background(), model.PlatformTwitter, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(seenQuery).To(ContainSubstring("Delhi Airport OR IGI Airport"))
	})

	It("lists only configured platforms for scheduling", func() {
		twitter := agent.NewTwitterAgent(agent.TwitterConfig{}, profile)
		manager = agent.NewManager(profile, twitter, agent.NewInshortsAgent(profile))

		Expect(manager.ConfiguredPlatforms()).To(Equal([]model.Platform{model.PlatformInshorts}))
		Expect(manager.Platforms()).To(Equal([]model.Platform{model.PlatformTwitter, model.PlatformInshorts}))
	})
})
