package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/services"
)

type BookingHandler struct {
	service   *services.BookingService
	validator *services.ValidationHelper
}

func NewBookingHandler(service *services.BookingService) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// CreateBooking books a seat on a mock exam and debits one credit
// @Summary Create Booking
// @Description Reserve a seat on an active mock exam session. One credit is debited from the type-specific bucket, falling back to shared credits where allowed.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body services.CreateBookingRequest true "Booking request"
// @Success 201 {object} services.CreateBookingResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 429 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /bookings [post]
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req services.CreateBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("[BOOKING] CreateBooking - Decode error: %v", err)
		services.SendErrorResponse(w, "Invalid request body", apperror.CodeValidation, http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		log.Printf("[BOOKING] CreateBooking - Validation error: %v", err)
		services.SendErrorResponse(w, "Validation failed", apperror.CodeValidation, http.StatusBadRequest, err)
		return
	}

	resp, err := h.service.CreateBooking(r.Context(), req)
	if err != nil {
		log.Printf("[BOOKING] CreateBooking - exam=%s contact=%s failed: %v", req.MockExamID, req.ContactID, err)
		services.SendError(w, err)
		return
	}

	services.SendJSON(w, http.StatusCreated, resp)
}

// CancelBooking cancels a booking and restores its credit
// @Summary Cancel Booking
// @Description Soft-delete a booking owned by the student, restore the credit to the bucket it was taken from and release the seat.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param bookingId path string true "Booking record id"
// @Param request body services.CancelBookingRequest true "Student identity and optional reason"
// @Success 200 {object} services.CancelBookingResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /bookings/{bookingId}/cancel [post]
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")
	if bookingID == "" {
		services.SendErrorResponse(w, "Booking id is required", apperror.CodeValidation, http.StatusBadRequest, nil)
		return
	}

	var req services.CancelBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		log.Printf("[BOOKING] CancelBooking - Decode error: %v", err)
		services.SendErrorResponse(w, "Invalid request body", apperror.CodeValidation, http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", apperror.CodeValidation, http.StatusBadRequest, err)
		return
	}

	resp, err := h.service.CancelBooking(r.Context(), bookingID, req)
	if err != nil {
		log.Printf("[BOOKING] CancelBooking - booking=%s failed: %v", bookingID, err)
		services.SendError(w, err)
		return
	}

	services.SendJSON(w, http.StatusOK, resp)
}

// ListBookings returns the student's bookings
// @Summary List Bookings
// @Description List the bookings of the student identified by student id and email, ordered by exam date.
// @Tags Bookings
// @Produce json
// @Param student_id query string true "Student id"
// @Param email query string true "Student email"
// @Param filter query string false "all, active or cancelled" Enums(all, active, cancelled)
// @Success 200 {array} services.BookingSummary
// @Failure 400 {object} services.ErrorResponse
// @Failure 401 {object} services.ErrorResponse
// @Failure 500 {object} services.ErrorResponse
// @Router /bookings [get]
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := services.ListBookingsRequest{
		StudentID: q.Get("student_id"),
		Email:     q.Get("email"),
		Filter:    q.Get("filter"),
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", apperror.CodeValidation, http.StatusBadRequest, err)
		return
	}

	bookings, err := h.service.ListBookings(r.Context(), req)
	if err != nil {
		log.Printf("[BOOKING] ListBookings - student=%s failed: %v", req.StudentID, err)
		services.SendError(w, err)
		return
	}

	services.SendJSON(w, http.StatusOK, bookings)
}
