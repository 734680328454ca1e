package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
)

func limitedHandler(rl *RateLimiter) (http.Handler, *int) {
	calls := 0
	return rl.Limit("bookings")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})), &calls
}

func serve(h http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/bookings/create", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_CountsRequests(t *testing.T) {
	db, mock := redismock.NewClientMock()
	h, calls := limitedHandler(NewRateLimiter(db, 3, time.Minute))

	key := "ratelimit:bookings:203.0.113.7"
	mock.ExpectGet(key).SetVal("2")
	mock.ExpectIncr(key).SetVal(3)
	mock.ExpectExpire(key, time.Minute).SetVal(true)

	w := serve(h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_RejectsOverLimit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	h, calls := limitedHandler(NewRateLimiter(db, 3, time.Minute))

	mock.ExpectGet("ratelimit:bookings:203.0.113.7").SetVal("3")

	w := serve(h)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.Zero(t, *calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	db, mock := redismock.NewClientMock()
	h, calls := limitedHandler(NewRateLimiter(db, 3, time.Minute))

	mock.ExpectGet("ratelimit:bookings:203.0.113.7").SetErr(errors.New("connection refused"))

	w := serve(h)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	h, calls := limitedHandler(NewRateLimiter(nil, 1, time.Minute))
	serve(h)
	serve(h)
	assert.Equal(t, 2, *calls)
}
