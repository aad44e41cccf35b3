package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/internal/http/handler"
	"aeropulse.app/pulse/internal/model"
)

var _ = Describe("EventsHandler", func() {
	var (
		events *mockEventQueryService
		router *gin.Engine
	)

	BeforeEach(func() {
		events = &mockEventQueryService{}
		router = gin.New()
		h := handler.NewEventsHandler(events)
		router.GET("/api/social-events", h.List)
		router.GET("/api/data-stats", h.Stats)
		router.GET("/api/collection-runs", h.Runs)
	})

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("List", func() {
		It("passes the limit through", func() {
			var gotLimit int
			events.listFn = func(ctx context.Context, limit int) ([]model.SocialEvent, error) {
				gotLimit = limit
				return []model.SocialEvent{{EventID: "1", Platform: model.PlatformTwitter}}, nil
			}

			rec := get("/api/social-events?limit=10")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(10))
		})

		It("rejects a negative limit", func() {
			rec := get("/api/social-events?limit=-1")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a non-numeric limit", func() {
			rec := get("/api/social-events?limit=lots")
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the query fails", func() {
			events.listFn = func(ctx context.Context, limit int) ([]model.SocialEvent, error) {
				return nil, errors.New("arango down")
			}

			rec := get("/api/social-events")
			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("Stats", func() {
		It("renders the aggregate counters", func() {
			events.statsFn = func(ctx context.Context) (model.DataStats, error) {
				return model.DataStats{
					TotalEvents: 12,
					TotalLikes:  40,
					ByPlatform:  map[string]int{"twitter": 8, "reddit": 4},
				}, nil
			}

			rec := get("/api/data-stats")
			Expect(rec.Code).To(Equal(http.StatusOK))

			var body map[string]any
			Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
			Expect(body["totalEvents"]).To(BeNumerically("==", 12))
			Expect(body["totalLikes"]).To(BeNumerically("==", 40))
		})
	})

	Describe("Runs", func() {
		It("asks for the twenty most recent runs", func() {
			var gotLimit int
			events.recentRunsFn = func(ctx context.Context, limit int) ([]model.CollectionRun, error) {
				gotLimit = limit
				return nil, nil
			}

			rec := get("/api/collection-runs")
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(gotLimit).To(Equal(20))
		})
	})
})
