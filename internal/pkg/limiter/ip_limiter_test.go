package limiter

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestGetLimiterReturnsSameInstancePerIP(t *testing.T) {
	req := require.New(t)

	l := NewIPRateLimiter(rate.Limit(1), 1)

	a := l.GetLimiter("10.0.0.1")
	b := l.GetLimiter("10.0.0.1")
	other := l.GetLimiter("10.0.0.2")

	req.Same(a, b)
	req.NotSame(a, other)
}

func TestGetLimiterConcurrentFirstUse(t *testing.T) {
	req := require.New(t)

	l := NewIPRateLimiter(rate.Limit(1), 1)

	const goroutines = 20
	limiters := make([]*rate.Limiter, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			limiters[i] = l.GetLimiter("10.0.0.1")
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		req.Same(limiters[0], limiters[i])
	}
}

func TestMiddlewareBlocksAfterBurst(t *testing.T) {
	req := require.New(t)

	// Sustained rate of zero: only the burst tokens are available.
	l := NewIPRateLimiter(rate.Limit(0), 2)

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.1:1234"

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		statuses = append(statuses, w.Code)
	}

	req.Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// A different IP has its own bucket.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	req.Equal(http.StatusOK, w.Code)
}
