package httphandler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, route string
	status        int
}

type recorderStub struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (r *recorderStub) RecordRequest(method, route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, recordedRequest{method, route, status})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAllowJSON(t *testing.T) {
	h := AllowJSON(okHandler())

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"NoBody", "", "", http.StatusNoContent},
		{"JSON", "{}", "application/json", http.StatusNoContent},
		{"JSONWithCharset", "{}", "application/json; charset=utf-8", http.StatusNoContent},
		{"Form", "a=b", "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"Missing", "{}", "", http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(RequestIDHeader, "abc")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "abc", seen)
	assert.Equal(t, "abc", rec.Header().Get(RequestIDHeader))
}

func TestObserve(t *testing.T) {
	rec := &recorderStub{}

	mux := http.NewServeMux()
	mux.Handle("GET /items/{id}", okHandler())
	h := Chain(mux, RequestID, Observe(rec))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/1", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Len(t, rec.reqs, 2)
	assert.Equal(t,
		recordedRequest{http.MethodGet, "GET /items/{id}", http.StatusNoContent}, rec.reqs[0])
	assert.Equal(t,
		recordedRequest{http.MethodGet, "unmatched", http.StatusNotFound}, rec.reqs[1])
}

func TestRateLimiter(t *testing.T) {
	t.Run("Limits", func(t *testing.T) {
		limited := 0
		rl := NewRateLimiter(0.001, 2, OnLimitedOpt(func() { limited++ }))
		h := rl.Middleware(okHandler())

		codes := make([]int, 0, 3)
		for range 3 {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = "10.0.0.1:5000"
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			codes = append(codes, rec.Code)
		}
		assert.Equal(t,
			[]int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
		assert.Equal(t, 1, limited)

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.2:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("Disabled", func(t *testing.T) {
		h := NewRateLimiter(0, 0).Middleware(okHandler())
		for range 10 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusNoContent, rec.Code)
		}
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(okHandler(), mw("a"), mw("b"), mw("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}
