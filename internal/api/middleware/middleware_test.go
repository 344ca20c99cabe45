package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, route string
	status        int
}

type fakeMetrics struct{ got []recordedRequest }

func (f *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	f.got = append(f.got, recordedRequest{method, route, status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/tenants/{tenantId}/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/tenants/7/bookings/42", nil))

	require.Len(t, m.got, 1)
	assert.Equal(t, recordedRequest{http.MethodGet, "/tenants/{tenantId}/bookings/{bookingId}", http.StatusNotFound}, m.got[0])
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "given")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "given", seen)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, time.Minute)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))

	rl.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	rl.Cleanup()
	assert.Empty(t, rl.visitors)
}
