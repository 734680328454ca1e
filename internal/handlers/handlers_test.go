package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mockexam/booking-backend/internal/audit"
	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/credits"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/hubspot/hubspottest"
	"github.com/mockexam/booking-backend/internal/services"
	"github.com/mockexam/booking-backend/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var objects = config.DefaultObjectTypes()

type testServer struct {
	store    *hubspottest.Store
	router   chi.Router
	contact  string
	letters  *fakeDeadLetters
	auditLog *bytes.Buffer
}

type fakeDeadLetters struct {
	letters []tasks.DeadLetter
	err     error
	limit   int
}

func (f *fakeDeadLetters) Pending(ctx context.Context, limit int) ([]tasks.DeadLetter, error) {
	f.limit = limit
	return f.letters, f.err
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := hubspottest.New()
	cfg := &config.BookingConfig{ReconcileConcurrency: 2, ExamTimezone: "America/Toronto", TaskTimeout: time.Second}
	runner := tasks.NewRunner(time.Second, tasks.LogSink{})
	t.Cleanup(func() { runner.Shutdown(context.Background()) })

	reconciler := services.NewReconciler(store, objects, cfg, nil)
	bookingSvc := services.NewBookingService(store, objects, cfg, nil, runner, audit.NewLoggerTo(io.Discard))
	examSvc := services.NewExamService(store, objects, cfg, reconciler, nil)
	letters := &fakeDeadLetters{}
	auditLog := &bytes.Buffer{}

	bookings := NewBookingHandler(bookingSvc)
	exams := NewExamHandler(examSvc)
	webhooks := NewWebhookHandler(reconciler)
	admin := NewAdminHandler(reconciler, letters, audit.NewLoggerTo(auditLog))

	r := chi.NewRouter()
	r.Post("/bookings", bookings.CreateBooking)
	r.Get("/bookings", bookings.ListBookings)
	r.Post("/bookings/{bookingId}/cancel", bookings.CancelBooking)
	r.Get("/mock-exams/available", exams.ListAvailable)
	r.Post("/webhooks/hubspot", webhooks.HandleHubSpot)
	r.Post("/admin/mock-exams/{examId}/recalculate", admin.RecalculateExam)
	r.Post("/admin/mock-exams/recalculate", admin.RecalculateAll)
	r.Get("/admin/dead-letters", admin.ListDeadLetters)

	contact := store.Seed(objects.Contacts, map[string]string{
		"student_id":       "STU123456",
		"email":            "jane@example.com",
		"firstname":        "Jane",
		"lastname":         "Doe",
		credits.BucketSJ:   "1",
		credits.BucketMini: "0",
	})
	return &testServer{store: store, router: r, contact: contact, letters: letters, auditLog: auditLog}
}

func (s *testServer) seedExam(total int) (string, string) {
	date := time.Now().AddDate(0, 1, 0).Format("2006-01-02")
	id := s.store.Seed(objects.MockExams, map[string]string{
		"mock_type":      credits.SituationalJudgment,
		"exam_date":      date,
		"location":       "Toronto",
		"capacity":       "10",
		"total_bookings": strconv.Itoa(total),
		"is_active":      "true",
	})
	return id, date
}

func (s *testServer) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) services.ErrorResponse {
	t.Helper()
	var resp services.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	return resp
}

func createBody(examID, contactID, date string) string {
	return `{"mock_exam_id":"` + examID + `","contact_id":"` + contactID + `","student_id":"STU123456",` +
		`"name":"Jane Doe","email":"jane@example.com","exam_date":"` + date + `",` +
		`"mock_type":"Situational Judgment","attending_location":"Toronto"}`
}

func TestBookingHandler_CreateAndCancel(t *testing.T) {
	s := newTestServer(t)
	examID, date := s.seedExam(3)

	w := s.do(http.MethodPost, "/bookings", createBody(examID, s.contact, date))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created services.CreateBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Jane Doe - "+date, created.BookingID)
	assert.Equal(t, 0, created.RemainingCredits)

	w = s.do(http.MethodPost, "/bookings", createBody(examID, s.contact, date))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_BOOKING", decodeError(t, w).Code)

	w = s.do(http.MethodPost, "/bookings/"+created.BookingRecordID+"/cancel",
		`{"student_id":"STU123456","email":"jane@example.com","reason":"Schedule conflict"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var cancelled services.CancelBookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cancelled))
	assert.Equal(t, credits.BucketSJ, cancelled.CreditsRestored.Bucket)
	assert.Equal(t, 3, cancelled.MockExamUpdated.TotalBookings)

	w = s.do(http.MethodGet, "/bookings?student_id=STU123456&email=jane@example.com&filter=cancelled", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listed []services.BookingSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestBookingHandler_RejectsBadBodies(t *testing.T) {
	s := newTestServer(t)
	examID, date := s.seedExam(0)

	tests := []struct {
		name string
		body string
		code string
	}{
		{"malformed", `{"mock_exam_id":`, "VALIDATION_ERROR"},
		{"unknown field", `{"mock_exam_id":"1","coupon":"FREE"}`, "VALIDATION_ERROR"},
		{"two objects", createBody(examID, s.contact, date) + createBody(examID, s.contact, date), "VALIDATION_ERROR"},
		{"clinical skills fields", strings.Replace(createBody(examID, s.contact, date), `"attending_location":"Toronto"`, `"dominant_hand":"left"`, 1), "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/bookings", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
	assert.Zero(t, s.store.CountCalls(hubspottest.OpCreate, ""))
}

func TestBookingHandler_AuthFailure(t *testing.T) {
	s := newTestServer(t)
	examID, date := s.seedExam(0)

	body := strings.Replace(createBody(examID, s.contact, date), "jane@example.com", "someone@example.com", 1)
	w := s.do(http.MethodPost, "/bookings", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "AUTH_FAILED", decodeError(t, w).Code)
}

func TestBookingHandler_CancelUnknownBooking(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodPost, "/bookings/424242/cancel", `{"student_id":"STU123456","email":"jane@example.com"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOKING_NOT_FOUND", decodeError(t, w).Code)
}

func TestExamHandler_ListAvailable(t *testing.T) {
	s := newTestServer(t)
	examID, _ := s.seedExam(4)

	w := s.do(http.MethodGet, "/mock-exams/available?mock_type=Situational+Judgment&include_capacity=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	var exams []services.ExamSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exams))
	require.Len(t, exams, 1)
	assert.Equal(t, examID, exams[0].MockExamID)
	assert.Equal(t, 6, *exams[0].AvailableSlots)

	w = s.do(http.MethodGet, "/mock-exams/available?mock_type=Situational+Judgment&realtime=maybe", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/mock-exams/available", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Details, "mock_type")
}

func TestWebhookHandler(t *testing.T) {
	s := newTestServer(t)
	examID, _ := s.seedExam(5)

	t.Run("recounts affected exams", func(t *testing.T) {
		w := s.do(http.MethodPost, "/webhooks/hubspot",
			`[{"subscriptionType":"object.propertyChange","objectTypeId":"`+objects.MockExams+`","objectId":`+examID+`}]`)
		require.Equal(t, http.StatusOK, w.Code)

		var result services.WebhookResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.True(t, result.Success)
		assert.Equal(t, 1, result.UpdatedExams)
		assert.Equal(t, "0", s.store.Props(objects.MockExams, examID)["total_bookings"])
	})

	t.Run("tolerates fields it does not use", func(t *testing.T) {
		w := s.do(http.MethodPost, "/webhooks/hubspot",
			`[{"appId":42,"sourceId":"userId:1","subscriptionType":"object.propertyChange","objectTypeId":"`+objects.MockExams+`","objectId":`+examID+`}]`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("malformed payload", func(t *testing.T) {
		w := s.do(http.MethodPost, "/webhooks/hubspot", `{"not":"an array"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("recount failures still answer 200", func(t *testing.T) {
		s.store.Fail = func(call hubspottest.Call) error {
			return &hubspot.RemoteError{Status: http.StatusBadGateway, Message: "bad gateway"}
		}
		defer func() { s.store.Fail = nil }()

		w := s.do(http.MethodPost, "/webhooks/hubspot",
			`[{"subscriptionType":"object.propertyChange","objectTypeId":"`+objects.MockExams+`","objectId":`+examID+`}]`)
		require.Equal(t, http.StatusOK, w.Code)
		var result services.WebhookResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 1, result.FailedUpdates)
	})

	t.Run("rate limited", func(t *testing.T) {
		s.store.Fail = func(call hubspottest.Call) error {
			return &hubspot.RemoteError{Status: http.StatusTooManyRequests, Message: "secondly limit"}
		}
		defer func() { s.store.Fail = nil }()

		w := s.do(http.MethodPost, "/webhooks/hubspot",
			`[{"subscriptionType":"object.propertyChange","objectTypeId":"`+objects.Bookings+`","objectId":77}]`)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "RATE_LIMITED", decodeError(t, w).Code)
	})
}

func TestAdminHandler(t *testing.T) {
	s := newTestServer(t)
	examID, _ := s.seedExam(7)

	w := s.do(http.MethodPost, "/admin/mock-exams/"+examID+"/recalculate", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", s.store.Props(objects.MockExams, examID)["total_bookings"])
	assert.Contains(t, s.auditLog.String(), "ADMIN_RECALCULATE")

	w = s.do(http.MethodPost, "/admin/mock-exams/999999/recalculate", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/admin/mock-exams/recalculate?mock_type=Oral", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/admin/mock-exams/recalculate", "")
	require.Equal(t, http.StatusOK, w.Code)
	var summary services.RecalculationSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
}

func TestAdminHandler_DeadLetters(t *testing.T) {
	s := newTestServer(t)
	s.letters.letters = []tasks.DeadLetter{{ID: "a", Task: "booking-note", Error: "boom"}}

	w := s.do(http.MethodGet, "/admin/dead-letters?limit=9000", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 500, s.letters.limit)
	assert.Contains(t, w.Body.String(), "booking-note")

	w = s.do(http.MethodGet, "/admin/dead-letters?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.letters.err = errors.New("connection reset")
	w = s.do(http.MethodGet, "/admin/dead-letters", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	unconfigured := NewAdminHandler(nil, nil, audit.NewLoggerTo(io.Discard))
	rec := httptest.NewRecorder()
	unconfigured.ListDeadLetters(rec, httptest.NewRequest(http.MethodGet, "/admin/dead-letters", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
