package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestCost(t *testing.T) {
	tests := []struct {
		path string
		cost int
	}{
		{"/api/analyze/extract", costHeavy},
		{"/api/analyze/contract", costHeavy},
		{"/api/risk/analyze/file", costHeavy},
		{"/api/risk/analyze/text", costRisk},
		{"/api/risk/analyze/batch", costRisk},
		{"/api/risk/model/info", costDefault},
		{"/api/analyses", costDefault},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.cost, requestCost(tt.path), tt.path)
	}
}

func TestTokenBucketAllowN(t *testing.T) {
	tb := NewTokenBucket(5, 1)

	assert.True(t, tb.AllowN(costHeavy))
	assert.False(t, tb.AllowN(costDefault), "bucket kosong setelah satu request berat")
}

func TestRateLimitMiddlewareWeighsOCRRoutes(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimitMiddleware(5, 1)(next)

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// request berat pertama menghabiskan seluruh bucket
	assert.Equal(t, http.StatusOK, send("/api/analyze/contract"))
	assert.Equal(t, http.StatusTooManyRequests, send("/api/risk/model/info"))

	// klien lain punya bucket sendiri
	req := httptest.NewRequest(http.MethodPost, "/api/risk/model/info", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// health check tidak pernah kena limit
	reqHealth := httptest.NewRequest(http.MethodGet, "/health", nil)
	reqHealth.RemoteAddr = "10.0.0.1:1234"
	recHealth := httptest.NewRecorder()
	handler.ServeHTTP(recHealth, reqHealth)
	assert.Equal(t, http.StatusOK, recHealth.Code)
}
