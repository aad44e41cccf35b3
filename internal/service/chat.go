package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"aeropulse.app/pulse/common/llm"
	"aeropulse.app/pulse/common/logger"
	"aeropulse.app/pulse/internal/insight"
	"aeropulse.app/pulse/internal/metrics"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/retriever/posts"
	"aeropulse.app/pulse/internal/store"
)

const (
	// RouteCanned means the reply came from a topic template over live stats.
	RouteCanned = "canned"
	// RouteLLM means the reply came from the retrieval + LLM path.
	RouteLLM = "llm"
	// RouteFallback means the LLM path failed and a default reply was used.
	RouteFallback = "fallback"

	llmFallbackReply = "I couldn't reach the assistant just now. Please try again in a moment, or ask about sentiment, luggage, lounges, security, check-in, or delays."

	retrievalLimit = 5
)

type ChatResult struct {
	Response string
	Route    string
}

// ChatService answers assistant messages: keyword topics get templated
// answers built from live aggregates, everything else goes through retrieval
// and the LLM.
type ChatService interface {
	Chat(ctx context.Context, sessionID, message string) (*ChatResult, error)
	History(ctx context.Context, sessionID string) ([]model.ChatMessage, error)
}

// chatAnswer is the structured output schema for the LLM call.
type chatAnswer struct {
	Answer string `json:"answer" jsonschema_description:"A short, helpful answer for an airport operations analyst"`
}

var chatAnswerSchema = llm.GenerateSchema[chatAnswer]()

type chatService struct {
	stores    *store.Stores
	generator *insight.Generator
	retriever posts.Retriever
	llm       llm.Client
	logger    *slog.Logger
}

func NewChatService(stores *store.Stores, generator *insight.Generator, retriever posts.Retriever, llmClient llm.Client, logger *slog.Logger) ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &chatService{
		stores:    stores,
		generator: generator,
		retriever: retriever,
		llm:       llmClient,
		logger:    logger,
	}
}

func (s *chatService) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SessionID: &sessionID,
		Component: "pulse.service.chat",
	})

	s.persist(ctx, sessionID, model.ChatRoleUser, message, "")

	var result ChatResult
	if topic, ok := matchTopic(message); ok {
		reply, err := s.cannedReply(ctx, topic)
		if err != nil {
			return nil, err
		}
		result = ChatResult{Response: reply, Route: RouteCanned}
	} else {
		result = s.llmReply(ctx, message)
	}

	metrics.ChatRequests.WithLabelValues(result.Route).Inc()
	s.persist(ctx, sessionID, model.ChatRoleAssistant, result.Response, result.Route)

	return &result, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.stores.Conversations.ListBySession(ctx, sessionID, 0)
}

func (s *chatService) persist(ctx context.Context, sessionID string, role, content, route string) {
	msg := &model.ChatMessage{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		Route:     route,
	}
	if err := s.stores.Conversations.Append(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "failed to persist chat message", "error", err, "role", role)
	}
}

// topics maps the routed topic to the keywords that trigger it.
var topics = []struct {
	name     string
	keywords []string
}{
	{"sentiment", []string{"sentiment", "mood", "feeling", "opinion"}},
	{"luggage", []string{"luggage", "baggage", "bag", "suitcase"}},
	{"lounge", []string{"lounge", "vip", "premium"}},
	{"security", []string{"security", "screening", "checkpoint"}},
	{"checkin", []string{"check-in", "checkin", "check in", "boarding pass"}},
	{"delay", []string{"delay", "delayed", "cancelled", "cancellation", "late"}},
}

func matchTopic(message string) (string, bool) {
	lowered := strings.ToLower(message)
	for _, topic := range topics {
		for _, keyword := range topic.keywords {
			if strings.Contains(lowered, keyword) {
				return topic.name, true
			}
		}
	}
	return "", false
}

func (s *chatService) cannedReply(ctx context.Context, topic string) (string, error) {
	analysis, err := s.generator.Analyze(ctx)
	if err != nil {
		return "", fmt.Errorf("building topic answer: %w", err)
	}

	if topic == "sentiment" {
		return fmt.Sprintf(
			"Across the last 30 days I analyzed %d posts. Mean sentiment over the past week is %.2f (change of %+.2f vs the weeks before).",
			analysis.TotalEvents, analysis.RecentMean, analysis.WeeklyDelta), nil
	}

	category := topicCategory(topic)
	for _, agg := range analysis.Categories {
		if agg.Name == category {
			tone := "mixed"
			switch {
			case agg.MeanSentiment > 0.2:
				tone = "mostly positive"
			case agg.MeanSentiment < -0.2:
				tone = "mostly negative"
			}
			return fmt.Sprintf(
				"I found %d recent posts about %s. Sentiment is %s (mean %.2f).",
				agg.Mentions, strings.ReplaceAll(category, "_", " "), tone, agg.MeanSentiment), nil
		}
	}

	return fmt.Sprintf("I haven't seen any recent posts about %s. Try again after the next collection run.",
		strings.ReplaceAll(category, "_", " ")), nil
}

// topicCategory maps a chat topic onto the airport profile's category names.
func topicCategory(topic string) string {
	switch topic {
	case "luggage":
		return "luggage_handling"
	case "lounge":
		return "lounge_experience"
	case "security":
		return "security_screening"
	case "checkin":
		return "checkin_process"
	case "delay":
		return "flight_delays"
	}
	return topic
}

func (s *chatService) llmReply(ctx context.Context, message string) ChatResult {
	if s.llm == nil {
		return ChatResult{Response: llmFallbackReply, Route: RouteFallback}
	}

	var contextBlock strings.Builder
	hits, err := s.retriever.Search(ctx, message, retrievalLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "retrieval failed, answering without context", "error", err)
	}
	for _, hit := range hits {
		fmt.Fprintf(&contextBlock, "- [%s, sentiment %.2f] %s\n", hit.Platform, hit.Sentiment, logger.Truncate(hit.Text, 280))
	}

	systemPrompt := "You are Ava, an assistant for an airport operations team. " +
		"Answer questions about passenger experience using the provided social media excerpts. " +
		"Be concise and concrete. If the excerpts don't cover the question, say so."

	userPrompt := message
	if contextBlock.Len() > 0 {
		userPrompt = fmt.Sprintf("Recent passenger posts:\n%s\nQuestion: %s", contextBlock.String(), message)
	}

	req := llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		SchemaName:   "chat_answer",
		Schema:       chatAnswerSchema,
		MaxTokens:    512,
		Temperature:  llm.Temp(0.3),
	}

	var answer chatAnswer
	_, err = s.llm.Chat(ctx, req, &answer)
	if llm.IsRetryable(ctx, err) {
		s.logger.WarnContext(ctx, "llm chat failed, retrying once", "error", err)
		_, err = s.llm.Chat(ctx, req, &answer)
	}
	if err != nil || strings.TrimSpace(answer.Answer) == "" {
		if err != nil {
			s.logger.ErrorContext(ctx, "llm chat failed", "error", err)
		}
		return ChatResult{Response: llmFallbackReply, Route: RouteFallback}
	}

	return ChatResult{Response: answer.Answer, Route: RouteLLM}
}
