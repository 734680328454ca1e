package audit

import (
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID         string    `json:"event_id"`
	Timestamp  time.Time `json:"timestamp"`
	EventType  string    `json:"event_type"`
	BookingID  string    `json:"booking_id,omitempty"`
	ContactID  string    `json:"contact_id,omitempty"`
	MockExamID string    `json:"mock_exam_id,omitempty"`
	Status     string    `json:"status"`
	Details    any       `json:"details,omitempty"`
}

type Logger struct {
	out *log.Logger
}

func NewLogger() *Logger {
	return &Logger{out: log.Default()}
}

// NewLoggerTo writes audit lines to w instead of the standard logger.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{out: log.New(w, "", 0)}
}

func (a *Logger) LogBookingCreated(bookingID, contactID, mockExamID, creditType string) {
	a.log(Event{
		EventType:  "BOOKING_CREATED",
		BookingID:  bookingID,
		ContactID:  contactID,
		MockExamID: mockExamID,
		Status:     "SUCCESS",
		Details:    map[string]string{"credit_type": creditType},
	})
}

func (a *Logger) LogBookingCancelled(bookingID, contactID, mockExamID, creditType, reason string) {
	a.log(Event{
		EventType:  "BOOKING_CANCELLED",
		BookingID:  bookingID,
		ContactID:  contactID,
		MockExamID: mockExamID,
		Status:     "SUCCESS",
		Details:    map[string]string{"credit_type": creditType, "reason": reason},
	})
}

func (a *Logger) LogCompensation(saga, step string, err error) {
	event := Event{
		EventType: "COMPENSATION",
		Status:    "SUCCESS",
		Details:   map[string]string{"saga": saga, "step": step},
	}
	if err != nil {
		event.Status = "FAILED"
		event.Details = map[string]string{"saga": saga, "step": step, "error": err.Error()}
	}
	a.log(event)
}

func (a *Logger) LogError(operation, bookingID, contactID string, err error) {
	a.log(Event{
		EventType: "ERROR",
		BookingID: bookingID,
		ContactID: contactID,
		Status:    "FAILED",
		Details:   map[string]string{"operation": operation, "error": err.Error()},
	})
}

func (a *Logger) LogOperation(operation, mockExamID, details string) {
	a.log(Event{
		EventType:  operation,
		MockExamID: mockExamID,
		Status:     "SUCCESS",
		Details:    map[string]string{"details": details},
	})
}

func (a *Logger) log(event Event) {
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	data, _ := json.Marshal(event)
	a.out.Printf("AUDIT: %s", string(data))
}
