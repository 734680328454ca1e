package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/audit"
	"github.com/mockexam/booking-backend/internal/capacity"
	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/credits"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/metrics"
	"github.com/mockexam/booking-backend/internal/models"
	"github.com/mockexam/booking-backend/internal/saga"
	"github.com/mockexam/booking-backend/internal/tasks"
)

const defaultCancellationReason = "Cancelled by student"

// CreateBookingRequest represents a booking submission
type CreateBookingRequest struct {
	MockExamID        string `json:"mock_exam_id" validate:"required" example:"35864421"`
	ContactID         string `json:"contact_id" validate:"required" example:"1001"`
	EnrollmentID      string `json:"enrollment_id,omitempty" example:"20045"`
	StudentID         string `json:"student_id" validate:"required,max=64" example:"STU123456"`
	Name              string `json:"name" validate:"required,min=2,max=200" example:"Jane Doe"`
	Email             string `json:"email" validate:"required,email" example:"jane@example.com"`
	ExamDate          string `json:"exam_date" validate:"required,datetime=2006-01-02" example:"2026-11-02"`
	MockType          string `json:"mock_type" validate:"required,mock_type" example:"Situational Judgment"`
	DominantHand      string `json:"dominant_hand,omitempty" validate:"omitempty,max=50" example:"right"`
	AttendingLocation string `json:"attending_location,omitempty" validate:"omitempty,max=100" example:"Toronto"`
}

// CancelBookingRequest identifies the student cancelling a booking
type CancelBookingRequest struct {
	StudentID string `json:"student_id" validate:"required,max=64" example:"STU123456"`
	Email     string `json:"email" validate:"required,email" example:"jane@example.com"`
	Reason    string `json:"reason,omitempty" validate:"max=500" example:"Schedule conflict"`
}

// ListBookingsRequest selects a student's bookings
type ListBookingsRequest struct {
	StudentID string `json:"student_id" validate:"required,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Filter    string `json:"filter" validate:"omitempty,oneof=all active cancelled"`
}

type ExamDetails struct {
	MockExamID string `json:"mock_exam_id"`
	MockType   string `json:"mock_type"`
	ExamDate   string `json:"exam_date"`
	StartTime  string `json:"start_time,omitempty"`
	EndTime    string `json:"end_time,omitempty"`
	Location   string `json:"location,omitempty"`
}

type CreateBookingResponse struct {
	BookingID           string      `json:"booking_id"`
	BookingRecordID     string      `json:"booking_record_id"`
	ConfirmationMessage string      `json:"confirmation_message"`
	ExamDetails         ExamDetails `json:"exam_details"`
	RemainingCredits    int         `json:"remaining_credits"`
	CreditDeductedFrom  string      `json:"credit_deducted_from"`
	ActionsCompleted    []string    `json:"actions_completed"`
	AssociationWarnings []string    `json:"association_warnings,omitempty"`
}

type CanceledBooking struct {
	ID                 string `json:"id"`
	BookingID          string `json:"booking_id"`
	MockType           string `json:"mock_type"`
	ExamDate           string `json:"exam_date"`
	CancelledAt        string `json:"cancelled_at"`
	CancellationReason string `json:"cancellation_reason"`
}

type MockExamUpdate struct {
	MockExamID     string `json:"mock_exam_id"`
	PreviousTotal  int    `json:"previous_total"`
	TotalBookings  int    `json:"total_bookings"`
	Capacity       int    `json:"capacity"`
	AvailableSlots int    `json:"available_slots"`
}

type CancelBookingResponse struct {
	CanceledBooking CanceledBooking `json:"canceled_booking"`
	CreditsRestored credits.Intent  `json:"credits_restored"`
	MockExamUpdated MockExamUpdate  `json:"mock_exam_updated"`
}

// BookingSummary is one row of a student's booking history.
type BookingSummary struct {
	*models.Booking
	Exam *ExamDetails `json:"mock_exam,omitempty"`
}

// BookingService runs the create and cancel sequences. HubSpot offers no
// multi-object transaction, so each sequence is a saga of single-object
// writes with explicit compensations.
type BookingService struct {
	api      hubspot.API
	objects  config.ObjectTypes
	identity *IdentityResolver
	cache    *ExamCache
	tasks    *tasks.Runner
	audit    *audit.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewBookingService(api hubspot.API, objects config.ObjectTypes, cfg *config.BookingConfig, cache *ExamCache, runner *tasks.Runner, auditLogger *audit.Logger) *BookingService {
	return &BookingService{
		api:      api,
		objects:  objects,
		identity: NewIdentityResolver(api, objects),
		cache:    cache,
		tasks:    runner,
		audit:    auditLogger,
		loc:      cfg.Location(),
		now:      time.Now,
	}
}

func (s *BookingService) sagaHooks() saga.Hooks {
	return saga.Hooks{
		OnCompensated: func(name, step string) {
			metrics.Compensations.WithLabelValues(step, "success").Inc()
			s.audit.LogCompensation(name, step, nil)
		},
		OnCompensationFailure: func(name, step string, err error) {
			metrics.Compensations.WithLabelValues(step, "failed").Inc()
			s.audit.LogCompensation(name, step, err)
		},
	}
}

func (s *BookingService) getExam(ctx context.Context, examID string) (*models.MockExam, error) {
	obj, err := s.api.GetObject(ctx, s.objects.MockExams, examID, models.MockExamProperties)
	if hubspot.IsNotFound(err) {
		return nil, apperror.ExamNotFound(examID)
	}
	if err != nil {
		return nil, fmt.Errorf("get mock exam %s: %w", examID, err)
	}
	return models.MockExamFromObject(obj), nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return apperror.From(err).Code
}

// CreateBooking books a seat on a mock exam and charges one credit.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (resp *CreateBookingResponse, err error) {
	defer func() {
		metrics.Bookings.WithLabelValues("create", outcome(err)).Inc()
	}()

	contact, err := s.identity.Resolve(ctx, req.StudentID, req.Email)
	if err != nil {
		return nil, err
	}
	if contact.ID != req.ContactID {
		return nil, apperror.AccessDenied("Contact %s does not belong to student %s", req.ContactID, req.StudentID)
	}

	exam, err := s.getExam(ctx, req.MockExamID)
	if err != nil {
		return nil, err
	}
	if !exam.IsActive {
		return nil, apperror.ExamNotActive()
	}
	if exam.MockType != req.MockType {
		return nil, apperror.Validation("Mock exam %s is a %s exam, not %s", exam.ID, exam.MockType, req.MockType)
	}
	if models.NormalizeDate(req.ExamDate) != exam.ExamDate {
		return nil, apperror.Validation("Mock exam %s takes place on %s, not %s", exam.ID, exam.ExamDate, req.ExamDate)
	}
	if capacity.IsFull(exam) {
		return nil, apperror.ExamFull()
	}

	key := models.BookingKey(req.Name, exam.ExamDate)
	duplicate, err := s.hasLiveBooking(ctx, key)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, apperror.DuplicateBooking()
	}

	balances, err := s.identity.Balances(ctx, contact.ID)
	if err != nil {
		return nil, err
	}
	available, err := credits.Available(exam.MockType, balances)
	if err != nil {
		return nil, apperror.Validation("%v", err)
	}
	if available.Total <= 0 {
		return nil, apperror.InsufficientCredits(exam.MockType)
	}
	debit, err := credits.SelectDebit(exam.MockType, balances)
	if err != nil {
		return nil, apperror.InsufficientCredits(exam.MockType)
	}

	props := map[string]string{
		"booking_id":             key,
		"name":                   strings.TrimSpace(req.Name),
		"email":                  contact.Email,
		models.PropBookingStatus: models.StatusActive,
		"token_used":             debit.Bucket,
	}
	if exam.MockType == credits.ClinicalSkills {
		props["dominant_hand"] = req.DominantHand
	} else {
		props["attending_location"] = req.AttendingLocation
	}

	var (
		booking  *hubspot.Object
		linked   []hubspot.Target
		actions  []string
		warnings []string
	)
	prior := exam.TotalBookings

	err = saga.New("create-booking", s.sagaHooks()).Add(
		saga.Step{
			Name: "create-booking",
			Action: func(ctx context.Context) error {
				obj, err := s.api.CreateObject(ctx, s.objects.Bookings, props)
				if err != nil {
					return fmt.Errorf("create booking: %w", err)
				}
				booking = obj
				actions = append(actions, "booking_created")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				return s.api.DeleteObject(ctx, s.objects.Bookings, booking.ID)
			},
		},
		saga.Step{
			Name: "associate",
			Action: func(ctx context.Context) error {
				targets := []hubspot.Target{
					{ObjectType: s.objects.Contacts, ID: contact.ID},
					{ObjectType: s.objects.MockExams, ID: exam.ID},
					{ObjectType: s.objects.Enrollments, ID: req.EnrollmentID},
				}
				for _, t := range targets {
					if t.ID == "" {
						continue
					}
					if err := s.api.CreateAssociation(ctx, s.objects.Bookings, booking.ID, t.ObjectType, t.ID); err != nil {
						log.Printf("[BOOKING] Failed to associate booking %s with %s/%s: %v", booking.ID, t.ObjectType, t.ID, err)
						warnings = append(warnings, fmt.Sprintf("association with %s %s failed", t.ObjectType, t.ID))
						continue
					}
					linked = append(linked, t)
					actions = append(actions, "associated_"+t.ObjectType)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				var errs []error
				for _, t := range linked {
					if err := s.api.RemoveAssociation(ctx, s.objects.Bookings, booking.ID, t.ObjectType, t.ID); err != nil {
						errs = append(errs, fmt.Errorf("unlink %s/%s: %w", t.ObjectType, t.ID, err))
					}
				}
				return errors.Join(errs...)
			},
		},
		saga.Step{
			Name: "increment-total-bookings",
			Action: func(ctx context.Context) error {
				if _, err := s.api.UpdateObject(ctx, s.objects.MockExams, exam.ID, map[string]string{
					models.PropTotalBookings: strconv.Itoa(prior + 1),
				}); err != nil {
					return fmt.Errorf("increment total_bookings of mock exam %s: %w", exam.ID, err)
				}
				actions = append(actions, "total_bookings_incremented")
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := s.api.UpdateObject(ctx, s.objects.MockExams, exam.ID, map[string]string{
					models.PropTotalBookings: strconv.Itoa(prior),
				})
				return err
			},
		},
		saga.Step{
			Name: "debit-credit",
			Action: func(ctx context.Context) error {
				if _, err := s.api.UpdateObject(ctx, s.objects.Contacts, contact.ID, map[string]string{
					debit.Bucket: debit.Value(),
				}); err != nil {
					return fmt.Errorf("debit %s of contact %s: %w", debit.Bucket, contact.ID, err)
				}
				actions = append(actions, "credit_deducted")
				return nil
			},
		},
	).Run(ctx)
	if err != nil {
		bookingID := ""
		if booking != nil {
			bookingID = booking.ID
		}
		s.audit.LogError("create_booking", bookingID, contact.ID, err)
		return nil, err
	}

	s.cache.Invalidate(ctx, exam.MockType)
	s.audit.LogBookingCreated(booking.ID, contact.ID, exam.ID, debit.Bucket)
	log.Printf("[BOOKING] Created booking %s (%s) for contact %s on mock exam %s using %s",
		booking.ID, key, contact.ID, exam.ID, debit.Bucket)

	s.enqueueBookingNote(contact, exam, booking.ID, key, debit, req.EnrollmentID)

	details := examDetails(exam)
	return &CreateBookingResponse{
		BookingID:           key,
		BookingRecordID:     booking.ID,
		ConfirmationMessage: fmt.Sprintf("Your %s mock exam on %s is confirmed.", exam.MockType, exam.ExamDate),
		ExamDetails:         details,
		RemainingCredits:    available.Total - 1,
		CreditDeductedFrom:  debit.Bucket,
		ActionsCompleted:    actions,
		AssociationWarnings: warnings,
	}, nil
}

func (s *BookingService) hasLiveBooking(ctx context.Context, key string) (bool, error) {
	resp, err := s.api.SearchObjects(ctx, s.objects.Bookings, hubspot.SearchRequest{
		FilterGroups: []hubspot.FilterGroup{{Filters: []hubspot.Filter{
			{PropertyName: "booking_id", Operator: hubspot.OpEQ, Value: key},
			{PropertyName: models.PropBookingStatus, Operator: hubspot.OpNEQ, Value: models.StatusCancelled},
		}}},
		Properties: []string{"booking_id", models.PropBookingStatus},
		Limit:      10,
	})
	if err != nil {
		return false, fmt.Errorf("search duplicate bookings: %w", err)
	}
	for i := range resp.Results {
		if !models.IsCancelledStatus(resp.Results[i].Prop(models.PropBookingStatus)) {
			return true, nil
		}
	}
	return false, nil
}

// CancelBooking soft-deletes a booking, refunds its credit and frees the seat.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID string, req CancelBookingRequest) (resp *CancelBookingResponse, err error) {
	defer func() {
		metrics.Bookings.WithLabelValues("cancel", outcome(err)).Inc()
	}()

	contact, err := s.identity.Resolve(ctx, req.StudentID, req.Email)
	if err != nil {
		return nil, err
	}

	obj, err := s.api.GetObject(ctx, s.objects.Bookings, bookingID, models.BookingProperties)
	if hubspot.IsNotFound(err) {
		return nil, apperror.BookingNotFound(bookingID)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	booking := models.BookingFromObject(obj)

	if err := s.checkOwnership(ctx, booking, contact); err != nil {
		return nil, err
	}
	if booking.IsCancelled() {
		return nil, apperror.AlreadyCanceled()
	}

	examIDs, err := s.api.ListAssociations(ctx, s.objects.Bookings, booking.ID, s.objects.MockExams)
	if err != nil {
		return nil, fmt.Errorf("list mock exam of booking %s: %w", booking.ID, err)
	}
	if len(examIDs) == 0 {
		return nil, apperror.ExamNotFound("for booking " + booking.ID)
	}
	exam, err := s.getExam(ctx, examIDs[0])
	if err != nil {
		return nil, err
	}
	if exam.IsPast(s.now(), s.loc) {
		return nil, apperror.ExamInPast()
	}

	balances, err := s.identity.Balances(ctx, contact.ID)
	if err != nil {
		return nil, err
	}
	var restore credits.Intent
	if credits.ValidRestoreBucket(exam.MockType, booking.TokenUsed) {
		restore = credits.Restore(booking.TokenUsed, balances)
	} else {
		restore, err = credits.SelectRestore(exam.MockType, balances)
		if err != nil {
			return nil, fmt.Errorf("choose restore bucket for booking %s: %w", booking.ID, err)
		}
		log.Printf("[CANCEL] Booking %s has no usable token_used (%q); restoring to %s", booking.ID, booking.TokenUsed, restore.Bucket)
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		reason = defaultCancellationReason
	}
	cancelledAt := s.now().UTC().Format(time.RFC3339)
	prior := exam.TotalBookings
	next := max(0, prior-1)

	err = saga.New("cancel-booking", s.sagaHooks()).Add(
		saga.Step{
			Name: "restore-credit",
			Action: func(ctx context.Context) error {
				if _, err := s.api.UpdateObject(ctx, s.objects.Contacts, contact.ID, map[string]string{
					restore.Bucket: restore.Value(),
				}); err != nil {
					return fmt.Errorf("restore %s of contact %s: %w", restore.Bucket, contact.ID, err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := s.api.UpdateObject(ctx, s.objects.Contacts, contact.ID, map[string]string{
					restore.Bucket: strconv.Itoa(restore.Before),
				})
				return err
			},
		},
		saga.Step{
			Name: "decrement-total-bookings",
			Action: func(ctx context.Context) error {
				if _, err := s.api.UpdateObject(ctx, s.objects.MockExams, exam.ID, map[string]string{
					models.PropTotalBookings: strconv.Itoa(next),
				}); err != nil {
					return fmt.Errorf("decrement total_bookings of mock exam %s: %w", exam.ID, err)
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				_, err := s.api.UpdateObject(ctx, s.objects.MockExams, exam.ID, map[string]string{
					models.PropTotalBookings: strconv.Itoa(prior),
				})
				return err
			},
		},
		saga.Step{
			Name: "soft-delete",
			Action: func(ctx context.Context) error {
				if _, err := s.api.UpdateObject(ctx, s.objects.Bookings, booking.ID, map[string]string{
					models.PropBookingStatus: models.StatusCancelled,
					"cancelled_at":           cancelledAt,
					"cancellation_reason":    reason,
				}); err != nil {
					return fmt.Errorf("cancel booking %s: %w", booking.ID, err)
				}
				return nil
			},
		},
	).Run(ctx)
	if err != nil {
		s.audit.LogError("cancel_booking", booking.ID, contact.ID, err)
		return nil, err
	}

	s.cache.Invalidate(ctx, exam.MockType)
	s.audit.LogBookingCancelled(booking.ID, contact.ID, exam.ID, restore.Bucket, reason)
	log.Printf("[CANCEL] Cancelled booking %s for contact %s; restored %s %d -> %d",
		booking.ID, contact.ID, restore.Bucket, restore.Before, restore.After)

	s.enqueueCancellationNote(contact, exam, booking, restore, reason)

	return &CancelBookingResponse{
		CanceledBooking: CanceledBooking{
			ID:                 booking.ID,
			BookingID:          booking.BookingID,
			MockType:           exam.MockType,
			ExamDate:           exam.ExamDate,
			CancelledAt:        cancelledAt,
			CancellationReason: reason,
		},
		CreditsRestored: restore,
		MockExamUpdated: MockExamUpdate{
			MockExamID:     exam.ID,
			PreviousTotal:  prior,
			TotalBookings:  next,
			Capacity:       exam.Capacity,
			AvailableSlots: max(0, exam.Capacity-next),
		},
	}, nil
}

// checkOwnership accepts a booking associated with the contact, or, for
// bookings whose contact association never landed, one carrying its email.
func (s *BookingService) checkOwnership(ctx context.Context, booking *models.Booking, contact *models.Contact) error {
	owners, err := s.api.ListAssociations(ctx, s.objects.Bookings, booking.ID, s.objects.Contacts)
	if err != nil {
		return fmt.Errorf("list contacts of booking %s: %w", booking.ID, err)
	}
	for _, id := range owners {
		if id == contact.ID {
			return nil
		}
	}
	if len(owners) == 0 && strings.EqualFold(booking.Email, contact.Email) {
		return nil
	}
	return apperror.AccessDenied("Booking %s does not belong to this student", booking.ID)
}

// ListBookings returns the student's bookings with their exam details,
// soonest exam first.
func (s *BookingService) ListBookings(ctx context.Context, req ListBookingsRequest) ([]BookingSummary, error) {
	contact, err := s.identity.Resolve(ctx, req.StudentID, req.Email)
	if err != nil {
		return nil, err
	}

	ids, err := s.api.ListAssociations(ctx, s.objects.Contacts, contact.ID, s.objects.Bookings)
	if err != nil {
		return nil, fmt.Errorf("list bookings of contact %s: %w", contact.ID, err)
	}
	if len(ids) == 0 {
		return []BookingSummary{}, nil
	}

	objs, err := s.api.BatchReadObjects(ctx, s.objects.Bookings, ids, models.BookingProperties)
	if err != nil {
		return nil, fmt.Errorf("read bookings of contact %s: %w", contact.ID, err)
	}

	summaries := make([]BookingSummary, 0, len(objs))
	examOf := make(map[string]string)
	for i := range objs {
		booking := models.BookingFromObject(&objs[i])
		switch req.Filter {
		case "active":
			if booking.IsCancelled() {
				continue
			}
		case "cancelled":
			if !booking.IsCancelled() {
				continue
			}
		}

		examIDs, err := s.api.ListAssociations(ctx, s.objects.Bookings, booking.ID, s.objects.MockExams)
		if err != nil {
			log.Printf("[BOOKING] Failed to list mock exam of booking %s: %v", booking.ID, err)
		} else if len(examIDs) > 0 {
			examOf[booking.ID] = examIDs[0]
		}
		summaries = append(summaries, BookingSummary{Booking: booking})
	}

	exams, err := s.readExams(ctx, examOf)
	if err != nil {
		return nil, err
	}
	for i := range summaries {
		if exam, ok := exams[examOf[summaries[i].ID]]; ok {
			details := examDetails(exam)
			summaries[i].Exam = &details
		}
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return examDate(summaries[i]) < examDate(summaries[j])
	})
	return summaries, nil
}

func (s *BookingService) readExams(ctx context.Context, examOf map[string]string) (map[string]*models.MockExam, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, id := range examOf {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	exams := make(map[string]*models.MockExam, len(ids))
	if len(ids) == 0 {
		return exams, nil
	}

	objs, err := s.api.BatchReadObjects(ctx, s.objects.MockExams, ids, models.MockExamProperties)
	if err != nil {
		return nil, fmt.Errorf("read mock exams: %w", err)
	}
	for i := range objs {
		exam := models.MockExamFromObject(&objs[i])
		exams[exam.ID] = exam
	}
	return exams, nil
}

func examDate(b BookingSummary) string {
	if b.Exam == nil {
		return ""
	}
	return b.Exam.ExamDate
}

func examDetails(exam *models.MockExam) ExamDetails {
	return ExamDetails{
		MockExamID: exam.ID,
		MockType:   exam.MockType,
		ExamDate:   exam.ExamDate,
		StartTime:  exam.StartTime,
		EndTime:    exam.EndTime,
		Location:   exam.Location,
	}
}

func (s *BookingService) enqueueBookingNote(contact *models.Contact, exam *models.MockExam, bookingID, key string, debit credits.Intent, enrollmentID string) {
	body := fmt.Sprintf(
		"<p><strong>Mock exam booked</strong></p><p>%s booked %s on %s (%s).</p><p>Booking: %s<br>Credit used: %s (%d remaining)</p>",
		html.EscapeString(contact.Name()), html.EscapeString(exam.MockType), exam.ExamDate,
		html.EscapeString(exam.Location), html.EscapeString(key), debit.Bucket, debit.After,
	)
	at := s.now()
	s.tasks.Go("booking-note", map[string]string{"booking_id": bookingID, "contact_id": contact.ID}, func(ctx context.Context) error {
		_, err := hubspot.CreateNote(ctx, s.api, s.objects.Notes, body, at,
			hubspot.Target{ObjectType: s.objects.Contacts, ID: contact.ID},
			hubspot.Target{ObjectType: s.objects.Bookings, ID: bookingID},
			hubspot.Target{ObjectType: s.objects.Enrollments, ID: enrollmentID},
		)
		return err
	})
}

func (s *BookingService) enqueueCancellationNote(contact *models.Contact, exam *models.MockExam, booking *models.Booking, restore credits.Intent, reason string) {
	body := fmt.Sprintf(
		"<p><strong>Mock exam booking cancelled</strong></p><p>%s cancelled %s on %s.</p><p>Reason: %s<br>Credit restored to %s (%d available)</p>",
		html.EscapeString(contact.Name()), html.EscapeString(exam.MockType), exam.ExamDate,
		html.EscapeString(reason), restore.Bucket, restore.After,
	)
	at := s.now()
	s.tasks.Go("cancellation-note", map[string]string{"booking_id": booking.ID, "contact_id": contact.ID}, func(ctx context.Context) error {
		targets := []hubspot.Target{{ObjectType: s.objects.Contacts, ID: contact.ID}}
		for _, objectType := range []string{s.objects.Enrollments, s.objects.Deals} {
			ids, err := s.api.ListAssociations(ctx, s.objects.Bookings, booking.ID, objectType)
			if err != nil {
				log.Printf("[CANCEL] Failed to list %s of booking %s: %v", objectType, booking.ID, err)
				continue
			}
			for _, id := range ids {
				targets = append(targets, hubspot.Target{ObjectType: objectType, ID: id})
			}
		}
		_, err := hubspot.CreateNote(ctx, s.api, s.objects.Notes, body, at, targets...)
		return err
	})
}
