// Package capacity owns seat availability for mock exams.
//
// The cached total_bookings property on a mock exam is a projection that can
// drift: concurrent bookings race between the capacity check and the counter
// patch, and cancellations or manual CRM edits may not be reflected. The fast
// path trusts the projection; Recalculate rebuilds it from the live booking
// associations.
package capacity

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/metrics"
	"github.com/mockexam/booking-backend/internal/models"
)

// Available returns the free seats of an exam from its cached counter,
// never negative.
func Available(exam *models.MockExam) int {
	return max(0, exam.Capacity-exam.TotalBookings)
}

// IsFull is the fast-path capacity check used before creating a booking.
func IsFull(exam *models.MockExam) bool {
	return exam.TotalBookings >= exam.Capacity
}

type Ledger struct {
	api     hubspot.API
	objects config.ObjectTypes
}

func NewLedger(api hubspot.API, objects config.ObjectTypes) *Ledger {
	return &Ledger{api: api, objects: objects}
}

// Result describes one authoritative recount.
type Result struct {
	MockExamID string `json:"mock_exam_id"`
	Previous   int    `json:"previous_total"`
	Current    int    `json:"total_bookings"`
	Capacity   int    `json:"capacity"`
	Available  int    `json:"available_slots"`
	Changed    bool   `json:"changed"`
}

// CountLive counts bookings associated with the exam that still resolve and
// are not cancelled. Archived bookings are absent from the batch read.
func (l *Ledger) CountLive(ctx context.Context, examID string) (int, error) {
	ids, err := l.api.ListAssociations(ctx, l.objects.MockExams, examID, l.objects.Bookings)
	if err != nil {
		return 0, fmt.Errorf("list bookings of mock exam %s: %w", examID, err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	bookings, err := l.api.BatchReadObjects(ctx, l.objects.Bookings, ids, []string{models.PropBookingStatus})
	if err != nil {
		return 0, fmt.Errorf("read bookings of mock exam %s: %w", examID, err)
	}

	live := 0
	for i := range bookings {
		if !models.IsCancelledStatus(bookings[i].Prop(models.PropBookingStatus)) {
			live++
		}
	}
	return live, nil
}

// Recalculate recounts the exam's live bookings and persists the result to
// total_bookings. The patch is issued even when nothing changed, so running
// it twice yields the same counter.
func (l *Ledger) Recalculate(ctx context.Context, examID string) (*Result, error) {
	obj, err := l.api.GetObject(ctx, l.objects.MockExams, examID, []string{models.PropCapacity, models.PropTotalBookings})
	if err != nil {
		return nil, fmt.Errorf("get mock exam %s: %w", examID, err)
	}
	exam := models.MockExamFromObject(obj)

	live, err := l.CountLive(ctx, examID)
	if err != nil {
		return nil, err
	}

	if _, err := l.api.UpdateObject(ctx, l.objects.MockExams, examID, map[string]string{
		models.PropTotalBookings: strconv.Itoa(live),
	}); err != nil {
		return nil, fmt.Errorf("update total_bookings of mock exam %s: %w", examID, err)
	}

	result := &Result{
		MockExamID: examID,
		Previous:   exam.TotalBookings,
		Current:    live,
		Capacity:   exam.Capacity,
		Available:  max(0, exam.Capacity-live),
		Changed:    exam.TotalBookings != live,
	}
	if result.Changed {
		metrics.CapacityDrift.Inc()
		log.Printf("[CAPACITY] Corrected total_bookings for mock exam %s: %d -> %d", examID, exam.TotalBookings, live)
	}
	return result, nil
}

// Sync recounts an already-loaded exam and patches total_bookings only when
// the live count differs. exam.TotalBookings is updated in place.
func (l *Ledger) Sync(ctx context.Context, exam *models.MockExam) (*Result, error) {
	live, err := l.CountLive(ctx, exam.ID)
	if err != nil {
		return nil, err
	}

	result := &Result{
		MockExamID: exam.ID,
		Previous:   exam.TotalBookings,
		Current:    live,
		Capacity:   exam.Capacity,
		Available:  max(0, exam.Capacity-live),
		Changed:    exam.TotalBookings != live,
	}
	if !result.Changed {
		return result, nil
	}

	if _, err := l.api.UpdateObject(ctx, l.objects.MockExams, exam.ID, map[string]string{
		models.PropTotalBookings: strconv.Itoa(live),
	}); err != nil {
		return nil, fmt.Errorf("update total_bookings of mock exam %s: %w", exam.ID, err)
	}
	metrics.CapacityDrift.Inc()
	log.Printf("[CAPACITY] Corrected total_bookings for mock exam %s: %d -> %d", exam.ID, exam.TotalBookings, live)
	exam.TotalBookings = live
	return result, nil
}
