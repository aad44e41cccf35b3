package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/internal/http/handler"
	"aeropulse.app/pulse/internal/model"
	"aeropulse.app/pulse/internal/service"
)

var _ = Describe("ChatHandler", func() {
	var (
		chat   *mockChatService
		router *gin.Engine
	)

	BeforeEach(func() {
		chat = &mockChatService{}
		router = gin.New()
		h := handler.NewChatHandler(chat)
		router.POST("/api/ava/chat", h.Chat)
		router.GET("/api/ava/history/:sessionId", h.History)
	})

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/ava/chat", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(rec, req)
		return rec
	}

	It("rejects a request without a message", func() {
		rec := post(`{"sessionId": "s1"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("rejects a request without a session id", func() {
		rec := post(`{"message": "hello"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns the assistant reply with its route", func() {
		chat.chatFn = func(ctx context.Context, sessionID, message string) (*service.ChatResult, error) {
			Expect(sessionID).To(Equal("s1"))
			Expect(message).To(Equal("how are delays today?"))
			return &service.ChatResult{Response: "All clear.", Route: service.RouteCanned}, nil
		}

		rec := post(`{"sessionId": "s1", "message": "how are delays today?"}`)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var body map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body["success"]).To(BeTrue())
		Expect(body["response"]).To(Equal("All clear."))
		Expect(body["route"]).To(Equal(service.RouteCanned))
		Expect(body["timestamp"]).NotTo(BeEmpty())
	})

	It("returns the session history", func() {
		chat.historyFn = func(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
			Expect(sessionID).To(Equal("s7"))
			return []model.ChatMessage{
				{SessionID: "s7", Role: model.ChatRoleUser, Content: "hi"},
				{SessionID: "s7", Role: model.ChatRoleAssistant, Content: "hello", Route: service.RouteCanned},
			}, nil
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/ava/history/s7", nil)
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))

		var messages []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &messages)).To(Succeed())
		Expect(messages).To(HaveLen(2))
	})
})
