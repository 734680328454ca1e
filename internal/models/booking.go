package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/mockexam/booking-backend/internal/hubspot"
)

// Booking lifecycle values of the is_active property. Cancellation is a
// status flip; records are not deleted.
const (
	StatusActive    = "Active"
	StatusCancelled = "Cancelled"
)

type Booking struct {
	ID                 string    `json:"id"`
	BookingID          string    `json:"booking_id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	DominantHand       string    `json:"dominant_hand,omitempty"`
	AttendingLocation  string    `json:"attending_location,omitempty"`
	Status             string    `json:"status"`
	TokenUsed          string    `json:"token_used,omitempty"`
	CancellationReason string    `json:"cancellation_reason,omitempty"`
	CancelledAt        string    `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

var BookingProperties = []string{
	"booking_id", "name", "email", "dominant_hand", "attending_location",
	PropBookingStatus, "token_used", "cancellation_reason", "cancelled_at",
}

func BookingFromObject(obj *hubspot.Object) *Booking {
	return &Booking{
		ID:                 obj.ID,
		BookingID:          obj.Prop("booking_id"),
		Name:               obj.Prop("name"),
		Email:              obj.Prop("email"),
		DominantHand:       obj.Prop("dominant_hand"),
		AttendingLocation:  obj.Prop("attending_location"),
		Status:             obj.Prop(PropBookingStatus),
		TokenUsed:          obj.Prop("token_used"),
		CancellationReason: obj.Prop("cancellation_reason"),
		CancelledAt:        obj.Prop("cancelled_at"),
		CreatedAt:          obj.CreatedAt,
		UpdatedAt:          obj.UpdatedAt,
	}
}

func (b *Booking) IsCancelled() bool {
	return IsCancelledStatus(b.Status)
}

func IsCancelledStatus(status string) bool {
	s := strings.TrimSpace(status)
	return strings.EqualFold(s, StatusCancelled) || strings.EqualFold(s, "Canceled")
}

// BookingKey is the human-readable composite key used for duplicate detection.
func BookingKey(name, examDate string) string {
	return fmt.Sprintf("%s - %s", strings.TrimSpace(name), examDate)
}
