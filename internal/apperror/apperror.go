// Package apperror carries the client-facing error taxonomy: a stable code,
// the HTTP status it maps to, and a human-readable message.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mockexam/booking-backend/internal/hubspot"
)

const (
	CodeExamNotFound        = "EXAM_NOT_FOUND"
	CodeExamNotActive       = "EXAM_NOT_ACTIVE"
	CodeExamFull            = "EXAM_FULL"
	CodeDuplicateBooking    = "DUPLICATE_BOOKING"
	CodeInsufficientCredits = "INSUFFICIENT_CREDITS"
	CodeBookingNotFound     = "BOOKING_NOT_FOUND"
	CodeAlreadyCanceled     = "ALREADY_CANCELED"
	CodeExamInPast          = "EXAM_IN_PAST"
	CodeAuthFailed          = "AUTH_FAILED"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeValidation          = "VALIDATION_ERROR"
	CodeRateLimited         = "RATE_LIMITED"
	CodeInternal            = "INTERNAL_ERROR"
)

type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(code string, status int, format string, args ...any) *Error {
	return &Error{Code: code, Status: status, Message: fmt.Sprintf(format, args...)}
}

func ExamNotFound(id string) *Error {
	return New(CodeExamNotFound, http.StatusNotFound, "Mock exam %s not found", id)
}

func ExamNotActive() *Error {
	return New(CodeExamNotActive, http.StatusBadRequest, "This mock exam is no longer accepting bookings")
}

func ExamFull() *Error {
	return New(CodeExamFull, http.StatusBadRequest, "This mock exam is fully booked")
}

func DuplicateBooking() *Error {
	return New(CodeDuplicateBooking, http.StatusBadRequest, "You already have a booking for this exam date")
}

func InsufficientCredits(mockType string) *Error {
	return New(CodeInsufficientCredits, http.StatusBadRequest, "Insufficient credits for %s", mockType)
}

func BookingNotFound(id string) *Error {
	return New(CodeBookingNotFound, http.StatusNotFound, "Booking %s not found", id)
}

func AlreadyCanceled() *Error {
	return New(CodeAlreadyCanceled, http.StatusConflict, "Booking is already cancelled")
}

func ExamInPast() *Error {
	return New(CodeExamInPast, http.StatusConflict, "Cannot cancel a booking for an exam that has already taken place")
}

func AuthFailed() *Error {
	return New(CodeAuthFailed, http.StatusUnauthorized, "Student not found. Check your student ID and email")
}

func AccessDenied(format string, args ...any) *Error {
	return New(CodeAccessDenied, http.StatusForbidden, format, args...)
}

func Validation(format string, args ...any) *Error {
	return New(CodeValidation, http.StatusBadRequest, format, args...)
}

func RateLimited(err error) *Error {
	return &Error{Code: CodeRateLimited, Status: http.StatusTooManyRequests, Message: "Too many requests, please retry shortly", Err: err}
}

func Internal(err error) *Error {
	msg := "Internal server error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// From classifies any error into the taxonomy. Remote 429s become
// RATE_LIMITED; other remote failures become INTERNAL_ERROR carrying the
// remote message.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	var remoteErr *hubspot.RemoteError
	if errors.As(err, &remoteErr) {
		if remoteErr.Status == http.StatusTooManyRequests {
			return RateLimited(err)
		}
		return &Error{Code: CodeInternal, Status: http.StatusInternalServerError, Message: remoteErr.Message, Err: err}
	}
	return Internal(err)
}

// Is reports whether err classifies as code.
func Is(err error, code string) bool {
	appErr := From(err)
	return appErr != nil && appErr.Code == code
}
