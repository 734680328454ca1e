package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/credits"
)

// ErrorResponse represents error response structure
type ErrorResponse struct {
	Success bool              `json:"success"`           // Always false
	Error   string            `json:"error"`             // Error message
	Code    string            `json:"code"`              // Error kind, e.g. EXAM_FULL
	Details map[string]string `json:"details,omitempty"` // Validation details
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a validator with the booking rules registered:
// the mock_type tag and the Clinical Skills dominant_hand / attending_location
// exclusivity on CreateBookingRequest.
func NewValidationHelper() *ValidationHelper {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	v.RegisterValidation("mock_type", func(fl validator.FieldLevel) bool {
		return credits.ValidMockType(fl.Field().String())
	})
	v.RegisterStructValidation(validateBookingAttributes, CreateBookingRequest{})
	return &ValidationHelper{validator: v}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

func validateBookingAttributes(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateBookingRequest)
	if req.MockType == credits.ClinicalSkills {
		if req.DominantHand == "" {
			sl.ReportError(req.DominantHand, "dominant_hand", "DominantHand", "required_for_clinical_skills", "")
		}
		if req.AttendingLocation != "" {
			sl.ReportError(req.AttendingLocation, "attending_location", "AttendingLocation", "excluded_for_clinical_skills", "")
		}
		return
	}
	if req.AttendingLocation == "" {
		sl.ReportError(req.AttendingLocation, "attending_location", "AttendingLocation", "required_unless_clinical_skills", "")
	}
	if req.DominantHand != "" {
		sl.ReportError(req.DominantHand, "dominant_hand", "DominantHand", "clinical_skills_only", "")
	}
}

// SendErrorResponse sends a JSON error response
func SendErrorResponse(w http.ResponseWriter, message, code string, statusCode int, validationErr error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResp := ErrorResponse{Error: message, Code: code}
	var validationErrors validator.ValidationErrors
	if errors.As(validationErr, &validationErrors) {
		errorResp.Details = make(map[string]string)
		for _, err := range validationErrors {
			errorResp.Details[err.Field()] = fmt.Sprintf("Field Validation Failed on '%s' tag", err.Tag())
		}
	}

	json.NewEncoder(w).Encode(errorResp)
}

// SendError classifies err and writes the matching error envelope.
func SendError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	SendErrorResponse(w, appErr.Message, appErr.Code, appErr.Status, nil)
}

// SendJSON writes a success payload.
func SendJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}
