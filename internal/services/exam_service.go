package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/capacity"
	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/credits"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/models"
)

// ListExamsRequest selects the sessions shown on the booking calendar
type ListExamsRequest struct {
	MockType        string `json:"mock_type" validate:"required,mock_type"`
	IncludeCapacity bool   `json:"include_capacity"`
	Realtime        bool   `json:"realtime"`
}

// ExamSummary is one bookable session. Seat counters are only present when
// the caller asked for capacity.
type ExamSummary struct {
	MockExamID     string `json:"mock_exam_id"`
	MockType       string `json:"mock_type"`
	ExamDate       string `json:"exam_date"`
	StartTime      string `json:"start_time,omitempty"`
	EndTime        string `json:"end_time,omitempty"`
	Location       string `json:"location,omitempty"`
	Capacity       *int   `json:"capacity,omitempty"`
	TotalBookings  *int   `json:"total_bookings,omitempty"`
	AvailableSlots *int   `json:"available_slots,omitempty"`
	IsFull         *bool  `json:"is_full,omitempty"`
}

type ExamService struct {
	api        hubspot.API
	objects    config.ObjectTypes
	reconciler *Reconciler
	cache      *ExamCache
	loc        *time.Location
	now        func() time.Time
}

func NewExamService(api hubspot.API, objects config.ObjectTypes, cfg *config.BookingConfig, reconciler *Reconciler, cache *ExamCache) *ExamService {
	return &ExamService{
		api:        api,
		objects:    objects,
		reconciler: reconciler,
		cache:      cache,
		loc:        cfg.Location(),
		now:        time.Now,
	}
}

// ListAvailable returns active, upcoming sessions of a mock type ordered by
// date. Without capacity only sessions with free seats are listed.
func (s *ExamService) ListAvailable(ctx context.Context, req ListExamsRequest) ([]ExamSummary, error) {
	if !credits.ValidMockType(req.MockType) {
		return nil, apperror.Validation("Unknown mock type %q", req.MockType)
	}

	var cached []ExamSummary
	if s.cache.Get(ctx, req.MockType, req.IncludeCapacity, req.Realtime, &cached) {
		return cached, nil
	}

	today := s.now().In(s.loc).Format("2006-01-02")
	objs, err := searchAll(ctx, s.api, s.objects.MockExams, hubspot.SearchRequest{
		FilterGroups: []hubspot.FilterGroup{{Filters: []hubspot.Filter{
			{PropertyName: "mock_type", Operator: hubspot.OpEQ, Value: req.MockType},
			{PropertyName: "is_active", Operator: hubspot.OpEQ, Value: "true"},
			{PropertyName: "exam_date", Operator: hubspot.OpGTE, Value: today},
		}}},
		Properties: models.MockExamProperties,
		Sorts:      []hubspot.Sort{{PropertyName: "exam_date", Direction: "ASCENDING"}},
	})
	if err != nil {
		return nil, fmt.Errorf("search mock exams: %w", err)
	}

	exams := make([]*models.MockExam, 0, len(objs))
	for i := range objs {
		exams = append(exams, models.MockExamFromObject(&objs[i]))
	}

	if req.Realtime {
		s.reconciler.ReconcileListing(ctx, exams)
	}

	summaries := make([]ExamSummary, 0, len(exams))
	for _, exam := range exams {
		available := capacity.Available(exam)
		if !req.IncludeCapacity && available == 0 {
			continue
		}

		summary := ExamSummary{
			MockExamID: exam.ID,
			MockType:   exam.MockType,
			ExamDate:   exam.ExamDate,
			StartTime:  exam.StartTime,
			EndTime:    exam.EndTime,
			Location:   exam.Location,
		}
		if req.IncludeCapacity {
			full := capacity.IsFull(exam)
			summary.Capacity = &exam.Capacity
			summary.TotalBookings = &exam.TotalBookings
			summary.AvailableSlots = &available
			summary.IsFull = &full
		}
		summaries = append(summaries, summary)
	}

	s.cache.Set(ctx, req.MockType, req.IncludeCapacity, req.Realtime, summaries)
	log.Printf("[EXAMS] Listed %d of %d %s sessions (capacity=%t, realtime=%t)",
		len(summaries), len(exams), req.MockType, req.IncludeCapacity, req.Realtime)
	return summaries, nil
}
