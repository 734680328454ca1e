package handlers

import (
	"log"
	"net/http"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/services"
)

type ExamHandler struct {
	service   *services.ExamService
	validator *services.ValidationHelper
}

func NewExamHandler(service *services.ExamService) *ExamHandler {
	return &ExamHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// ListAvailable lists upcoming sessions of a mock type
// @Summary List Available Mock Exams
// @Description Active sessions dated today or later, ordered by date. Full sessions are only listed when capacity is requested.
// @Tags Mock Exams
// @Produce json
// @Param mock_type query string true "Mock type" Enums(Situational Judgment, Clinical Skills, Mini-mock)
// @Param include_capacity query bool false "Include seat counters"
// @Param realtime query bool false "Recount seats from live bookings"
// @Success 200 {array} services.ExamSummary
// @Failure 400 {object} services.ErrorResponse
// @Failure 429 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /mock-exams/available [get]
func (h *ExamHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	includeCapacity, err := queryBool(r, "include_capacity")
	if err != nil {
		services.SendErrorResponse(w, "include_capacity must be true or false", apperror.CodeValidation, http.StatusBadRequest, nil)
		return
	}
	realtime, err := queryBool(r, "realtime")
	if err != nil {
		services.SendErrorResponse(w, "realtime must be true or false", apperror.CodeValidation, http.StatusBadRequest, nil)
		return
	}

	req := services.ListExamsRequest{
		MockType:        r.URL.Query().Get("mock_type"),
		IncludeCapacity: includeCapacity,
		Realtime:        realtime,
	}
	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", apperror.CodeValidation, http.StatusBadRequest, err)
		return
	}

	exams, err := h.service.ListAvailable(r.Context(), req)
	if err != nil {
		log.Printf("[EXAMS] ListAvailable - type=%s failed: %v", req.MockType, err)
		services.SendError(w, err)
		return
	}

	services.SendJSON(w, http.StatusOK, exams)
}
