package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/common/llm"
	"aeropulse.app/pulse/common/typesense"
	"aeropulse.app/pulse/internal/insight"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/service"
	"aeropulse.app/pulse/internal/store"
)

func ptr(v float64) *float64 { return &v }

func sentimentEvent(id string, overall float64, categories map[string]*float64) model.SocialEvent {
	return model.SocialEvent{
		EventID:      id,
		Platform:     model.PlatformTwitter,
		EventContent: "content " + id,
		TimestampUTC: time.Now().Add(-time.Hour),
		Sentiment: model.SentimentAnalysis{
			OverallSentiment: overall,
			Categories:       categories,
		},
	}
}

// answerWith marshals a canned answer into the structured-output target the
// same way the real client decodes the model's JSON.
func answerWith(text string) func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
	return func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
		data, err := json.Marshal(map[string]string{"answer": text})
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, result); err != nil {
			return nil, err
		}
		return &llm.Response{}, nil
	}
}

var _ = Describe("ChatService", func() {
	var (
		ctx       context.Context
		events    *mockEventStore
		convos    *mockConversationStore
		retriever *mockRetriever
		assistant *mockLLM
		persisted []model.ChatMessage
	)

	newService := func(withLLM bool) service.ChatService {
		stores := &store.Stores{
			Events:         events,
			CollectionRuns: &mockCollectionRunStore{},
			Conversations:  convos,
			Weather:        &mockWeatherStore{},
		}
		generator := insight.NewGenerator(events, serviceProfile())
		var client llm.Client
		if withLLM {
			client = assistant
		}
		return service.NewChatService(stores, generator, retriever, client, nil)
	}

	BeforeEach(func() {
		ctx = context.Background()
		events = &mockEventStore{}
		retriever = &mockRetriever{}
		assistant = &mockLLM{}
		persisted = nil
		convos = &mockConversationStore{
			appendFn: func(ctx context.Context, msg *model.ChatMessage) error {
				persisted = append(persisted, *msg)
				return nil
			},
		}
	})

	It("rejects an empty message", func() {
		_, err := newService(true).Chat(ctx, "s1", "   ")
		Expect(err).To(MatchError(ContainSubstring("message is required")))
	})

	It("answers a sentiment question from live aggregates", func() {
		events.listRecentFn = func(ctx context.Context, since time.Time, limit int) ([]model.SocialEvent, error) {
			return []model.SocialEvent{
				sentimentEvent("1", 1, nil),
				sentimentEvent("2", -1, nil),
				sentimentEvent("3", 0, nil),
			}, nil
		}

		result, err := newService(true).Chat(ctx, "s1", "What's the overall sentiment this week?")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Route).To(Equal(service.RouteCanned))
		Expect(result.Response).To(ContainSubstring("3 posts"))
	})

	It("answers a luggage question with the category aggregate", func() {
		events.listRecentFn = func(ctx context.Context, since time.Time, limit int) ([]model.SocialEvent, error) {
			return []model.SocialEvent{
				sentimentEvent("1", -1, map[string]*float64{"luggage_handling": ptr(-0.4)}),
				sentimentEvent("2", -1, map[string]*float64{"luggage_handling": ptr(-0.4)}),
			}, nil
		}

		result, err := newService(true).Chat(ctx, "s1", "Any baggage complaints lately?")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Route).To(Equal(service.RouteCanned))
		Expect(result.Response).To(ContainSubstring("2 recent posts about luggage handling"))
		Expect(result.Response).To(ContainSubstring("mostly negative"))
	})

	It("tells the caller when a topic has no recent posts", func() {
		result, err := newService(true).Chat(ctx, "s1", "How are the lounges?")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Route).To(Equal(service.RouteCanned))
		Expect(result.Response).To(ContainSubstring("haven't seen any recent posts about lounge experience"))
	})

	It("routes non-topic questions through retrieval and the model", func() {
		retriever.searchFn = func(ctx context.Context, query string, limit int) ([]typesense.Hit, error) {
			Expect(limit).To(Equal(5))
			return []typesense.Hit{
				{Text: "The food court near gate 12 is excellent", Platform: "reddit", Sentiment: 0.9},
			}, nil
		}

		var prompt string
		assistant.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
			prompt = req.UserPrompt
			return answerWith("Passengers praise the food court near gate 12.")(ctx, req, result)
		}

		result, err := newService(true).Chat(ctx, "s1", "What do passengers think of the food options?")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Route).To(Equal(service.RouteLLM))
		Expect(result.Response).To(ContainSubstring("food court"))
		Expect(prompt).To(ContainSubstring("gate 12"))
		Expect(prompt).To(ContainSubstring("What do passengers think of the food options?"))
	})

	It("falls back when no model is configured", func() {
		result, err := newService(false).Chat(ctx, "s1", "What about the wifi?")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Route).To(Equal(service.RouteFallback))
	})

	It("falls back when the model call fails", func() {
		assistant.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
			return nil, errors.New("upstream timeout")
		}

		result, err := newService(true).Chat(ctx, "s1", "What about the wifi?")
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Route).To(Equal(service.RouteFallback))
	})

	It("retries a transient model failure once before answering", func() {
		calls := 0
		assistant.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("connection reset")
			}
			return answerWith("Wifi complaints spiked near the food court.")(ctx, req, result)
		}

		result, err := newService(true).Chat(ctx, "s1", "What about the wifi?")
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(2))
		Expect(result.Route).To(Equal(service.RouteLLM))
		Expect(result.Response).To(ContainSubstring("Wifi complaints"))
	})

	It("does not retry when the request itself was cancelled", func() {
		calls := 0
		assistant.chatFn = func(ctx context.Context, req llm.Request, result any) (*llm.Response, error) {
			calls++
			return nil, context.Canceled
		}

		result, err := newService(true).Chat(ctx, "s1", "What about the wifi?")
		Expect(err).NotTo(HaveOccurred())
		Expect(calls).To(Equal(1))
		Expect(result.Route).To(Equal(service.RouteFallback))
	})

	It("persists both turns of the conversation", func() {
		_, err := newService(false).Chat(ctx, "s1", "What about the wifi?")
		Expect(err).NotTo(HaveOccurred())

		Expect(persisted).To(HaveLen(2))
		Expect(persisted[0].Role).To(Equal(model.ChatRoleUser))
		Expect(persisted[0].Route).To(BeEmpty())
		Expect(persisted[0].SessionID).To(Equal("s1"))
		Expect(persisted[1].Role).To(Equal(model.ChatRoleAssistant))
		Expect(persisted[1].Route).To(Equal(service.RouteFallback))
	})

	It("returns the session history", func() {
		convos.listBySessionFn = func(ctx context.Context, sessionID string, limit int) ([]model.ChatMessage, error) {
			Expect(sessionID).To(Equal("s1"))
			return []model.ChatMessage{{SessionID: "s1", Role: model.ChatRoleUser, Content: "hi"}}, nil
		}

		history, err := newService(true).History(ctx, "s1")
		Expect(err).NotTo(HaveOccurred())
		Expect(history).To(HaveLen(1))
	})
})
