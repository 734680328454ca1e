package models

import (
	"time"

	"github.com/mockexam/booking-backend/internal/hubspot"
)

const examDateLayout = "2006-01-02"

// Properties read by the capacity ledger.
const (
	PropCapacity      = "capacity"
	PropTotalBookings = "total_bookings"
	PropBookingStatus = "is_active"
)

// MockExam is a scheduled sitting with a fixed number of seats.
type MockExam struct {
	ID            string `json:"mock_exam_id"`
	MockType      string `json:"mock_type"`
	ExamDate      string `json:"exam_date"`
	StartTime     string `json:"start_time,omitempty"`
	EndTime       string `json:"end_time,omitempty"`
	Location      string `json:"location,omitempty"`
	Capacity      int    `json:"capacity"`
	TotalBookings int    `json:"total_bookings"`
	IsActive      bool   `json:"is_active"`
}

var MockExamProperties = []string{
	"mock_type", "exam_date", "start_time", "end_time", "location",
	PropCapacity, PropTotalBookings, "is_active",
}

func MockExamFromObject(obj *hubspot.Object) *MockExam {
	return &MockExam{
		ID:            obj.ID,
		MockType:      obj.Prop("mock_type"),
		ExamDate:      NormalizeDate(obj.Prop("exam_date")),
		StartTime:     obj.Prop("start_time"),
		EndTime:       obj.Prop("end_time"),
		Location:      obj.Prop("location"),
		Capacity:      obj.Int(PropCapacity),
		TotalBookings: obj.Int(PropTotalBookings),
		IsActive:      obj.Bool("is_active"),
	}
}

// IsPast reports whether the exam date is strictly before today in loc.
// Unparseable dates are never treated as past.
func (m *MockExam) IsPast(now time.Time, loc *time.Location) bool {
	day, err := time.ParseInLocation(examDateLayout, m.ExamDate, loc)
	if err != nil {
		return false
	}
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return day.Before(today)
}

// NormalizeDate trims HubSpot date values, which may carry a time part
// ("2026-11-02T00:00:00Z") or be epoch milliseconds, down to YYYY-MM-DD.
func NormalizeDate(v string) string {
	if len(v) >= len(examDateLayout) {
		if _, err := time.Parse(examDateLayout, v[:len(examDateLayout)]); err == nil {
			return v[:len(examDateLayout)]
		}
	}
	if ms, ok := parseMillis(v); ok {
		return time.UnixMilli(ms).UTC().Format(examDateLayout)
	}
	return v
}

func parseMillis(v string) (int64, bool) {
	if v == "" {
		return 0, false
	}
	var ms int64
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0, false
		}
		ms = ms*10 + int64(r-'0')
	}
	return ms, true
}
