package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/audit"
	mW "github.com/mockexam/booking-backend/internal/middleware"
	"github.com/mockexam/booking-backend/internal/services"
	"github.com/mockexam/booking-backend/internal/tasks"
)

// DeadLetterStore lists background tasks that exhausted their attempt.
type DeadLetterStore interface {
	Pending(ctx context.Context, limit int) ([]tasks.DeadLetter, error)
}

type AdminHandler struct {
	reconciler  *services.Reconciler
	deadLetters DeadLetterStore
	audit       *audit.Logger
}

// NewAdminHandler wires the admin endpoints. deadLetters may be nil when no
// database is configured.
func NewAdminHandler(reconciler *services.Reconciler, deadLetters DeadLetterStore, auditLogger *audit.Logger) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, deadLetters: deadLetters, audit: auditLogger}
}

func adminSubject(r *http.Request) string {
	subject, _ := r.Context().Value(mW.AdminKey).(string)
	return subject
}

// RecalculateExam recounts one mock exam from its live bookings
// @Summary Recalculate Mock Exam
// @Description Authoritatively recount total_bookings of one mock exam.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param examId path string true "Mock exam id"
// @Success 200 {object} capacity.Result
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /admin/mock-exams/{examId}/recalculate [post]
func (h *AdminHandler) RecalculateExam(w http.ResponseWriter, r *http.Request) {
	examID := chi.URLParam(r, "examId")
	result, err := h.reconciler.RecalculateExam(r.Context(), examID)
	if err != nil {
		log.Printf("[ADMIN] Recalculate mock exam %s failed: %v", examID, err)
		services.SendError(w, err)
		return
	}
	h.audit.LogOperation("ADMIN_RECALCULATE", examID,
		fmt.Sprintf("by=%s previous=%d current=%d", adminSubject(r), result.Previous, result.Current))
	services.SendJSON(w, http.StatusOK, result)
}

// RecalculateAll recounts every active mock exam
// @Summary Recalculate Active Mock Exams
// @Description Recount total_bookings of every active mock exam, optionally of one type. Failures are reported per exam.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param mock_type query string false "Restrict to one mock type"
// @Success 200 {object} services.RecalculationSummary
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /admin/mock-exams/recalculate [post]
func (h *AdminHandler) RecalculateAll(w http.ResponseWriter, r *http.Request) {
	mockType := r.URL.Query().Get("mock_type")
	summary, err := h.reconciler.RecalculateActive(r.Context(), mockType)
	if err != nil {
		log.Printf("[ADMIN] Recalculate active mock exams failed: %v", err)
		services.SendError(w, err)
		return
	}
	log.Printf("[ADMIN] Recalculated %d mock exams: %d updated, %d failed", summary.Total, summary.Updated, summary.Failed)
	h.audit.LogOperation("ADMIN_RECALCULATE_ALL", "",
		fmt.Sprintf("by=%s mock_type=%q total=%d updated=%d failed=%d", adminSubject(r), mockType, summary.Total, summary.Updated, summary.Failed))
	services.SendJSON(w, http.StatusOK, summary)
}

// ListDeadLetters shows the most recent failed background tasks
// @Summary List Dead Letters
// @Description Most recent failed notes and other background tasks. Requires DATABASE_ENABLED.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows (default 50, max 500)"
// @Success 200 {array} tasks.DeadLetter
// @Failure 401 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /admin/dead-letters [get]
func (h *AdminHandler) ListDeadLetters(w http.ResponseWriter, r *http.Request) {
	if h.deadLetters == nil {
		services.SendErrorResponse(w, "Dead letter storage is not configured", "NOT_CONFIGURED", http.StatusNotFound, nil)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			services.SendErrorResponse(w, "limit must be a positive integer", apperror.CodeValidation, http.StatusBadRequest, nil)
			return
		}
		limit = min(n, 500)
	}

	letters, err := h.deadLetters.Pending(r.Context(), limit)
	if err != nil {
		log.Printf("[ADMIN] Listing dead letters failed: %v", err)
		services.SendError(w, err)
		return
	}
	services.SendJSON(w, http.StatusOK, letters)
}
