package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"aeropulse.app/pulse/internal/http/middleware"
)

var _ = Describe("AdminKey", func() {
	newRouter := func(key string) *gin.Engine {
		router := gin.New()
		router.POST("/guarded", middleware.AdminKey(key), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": true})
		})
		return router
	}

	post := func(router *gin.Engine, headerKey string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		if headerKey != "" {
			req.Header.Set("X-Admin-Key", headerKey)
		}
		router.ServeHTTP(rec, req)
		return rec
	}

	It("rejects a request without the key", func() {
		rec := post(newRouter("secret"), "")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("rejects a request with the wrong key", func() {
		rec := post(newRouter("secret"), "guess")
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
	})

	It("passes a request with the right key", func() {
		rec := post(newRouter("secret"), "secret")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("is disabled when no key is configured", func() {
		rec := post(newRouter(""), "")
		Expect(rec.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("Recovery", func() {
	It("turns a handler panic into a 500", func() {
		router := gin.New()
		router.Use(middleware.Recovery())
		router.GET("/boom", func(c *gin.Context) {
			panic("boom")
		})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		router.ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})
})
