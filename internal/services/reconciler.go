package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/mockexam/booking-backend/internal/apperror"
	"github.com/mockexam/booking-backend/internal/capacity"
	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/credits"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/metrics"
	"github.com/mockexam/booking-backend/internal/models"
	"golang.org/x/sync/errgroup"
)

// WebhookEvent is one entry of a HubSpot webhook batch.
type WebhookEvent struct {
	EventID            int64  `json:"eventId"`
	SubscriptionID     int64  `json:"subscriptionId"`
	PortalID           int64  `json:"portalId"`
	OccurredAt         int64  `json:"occurredAt"`
	SubscriptionType   string `json:"subscriptionType"`
	AttemptNumber      int    `json:"attemptNumber"`
	ObjectID           int64  `json:"objectId"`
	ObjectTypeID       string `json:"objectTypeId"`
	PropertyName       string `json:"propertyName,omitempty"`
	PropertyValue      string `json:"propertyValue,omitempty"`
	ChangeSource       string `json:"changeSource,omitempty"`
	FromObjectTypeID   string `json:"fromObjectTypeId,omitempty"`
	FromObjectID       int64  `json:"fromObjectId,omitempty"`
	ToObjectTypeID     string `json:"toObjectTypeId,omitempty"`
	ToObjectID         int64  `json:"toObjectId,omitempty"`
	AssociationRemoved bool   `json:"associationRemoved,omitempty"`
}

// WebhookResult is returned to HubSpot with status 200.
type WebhookResult struct {
	Success       bool   `json:"success"`
	Processed     int    `json:"processed"`
	UpdatedExams  int    `json:"updatedExams"`
	FailedUpdates int    `json:"failedUpdates"`
	Message       string `json:"message"`
}

// Outcome is the settled result of one recalculation.
type Outcome struct {
	MockExamID string           `json:"mock_exam_id"`
	Result     *capacity.Result `json:"result,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// RecalculationSummary aggregates a batch of recalculations.
type RecalculationSummary struct {
	Total    int       `json:"total"`
	Updated  int       `json:"updated"`
	Failed   int       `json:"failed"`
	Outcomes []Outcome `json:"outcomes"`
}

// Reconciler rebuilds cached exam counters from the live booking
// associations, for webhooks, realtime listings and admin requests.
type Reconciler struct {
	api         hubspot.API
	objects     config.ObjectTypes
	ledger      *capacity.Ledger
	cache       *ExamCache
	concurrency int
}

func NewReconciler(api hubspot.API, objects config.ObjectTypes, cfg *config.BookingConfig, cache *ExamCache) *Reconciler {
	concurrency := cfg.ReconcileConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Reconciler{
		api:         api,
		objects:     objects,
		ledger:      capacity.NewLedger(api, objects),
		cache:       cache,
		concurrency: concurrency,
	}
}

// AffectedSessions derives the deduplicated mock exam ids touched by a batch
// of events. Bookings are followed to their mock exam; a booking that cannot
// be followed is skipped unless HubSpot rate-limited us.
func (r *Reconciler) AffectedSessions(ctx context.Context, events []WebhookEvent) ([]string, error) {
	var ids []string
	seen := make(map[string]bool)
	add := func(id string) {
		if id != "" && id != "0" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	followed := make(map[string]bool)

	for _, event := range events {
		if strings.HasSuffix(event.SubscriptionType, "associationChange") {
			if event.FromObjectTypeID == r.objects.MockExams {
				add(formatID(event.FromObjectID))
			}
			if event.ToObjectTypeID == r.objects.MockExams {
				add(formatID(event.ToObjectID))
			}
			continue
		}

		switch event.ObjectTypeID {
		case r.objects.MockExams:
			add(formatID(event.ObjectID))
		case r.objects.Bookings:
			bookingID := formatID(event.ObjectID)
			if followed[bookingID] {
				continue
			}
			followed[bookingID] = true

			examIDs, err := r.api.ListAssociations(ctx, r.objects.Bookings, bookingID, r.objects.MockExams)
			if hubspot.IsRateLimited(err) {
				return nil, err
			}
			if err != nil {
				log.Printf("[WEBHOOK] Skipping booking %s: %v", bookingID, err)
				continue
			}
			for _, id := range examIDs {
				add(id)
			}
		}
	}
	return ids, nil
}

// RecalculateMany recounts every exam concurrently. Each recount settles on
// its own; one failure never cancels the others.
func (r *Reconciler) RecalculateMany(ctx context.Context, trigger string, examIDs []string) *RecalculationSummary {
	outcomes := make([]Outcome, len(examIDs))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, id := range examIDs {
		g.Go(func() error {
			outcomes[i] = Outcome{MockExamID: id}
			result, err := r.ledger.Recalculate(ctx, id)
			if err != nil {
				log.Printf("[RECONCILE] Recalculation of mock exam %s failed: %v", id, err)
				metrics.Reconciliations.WithLabelValues(trigger, "failed").Inc()
				outcomes[i].Error = err.Error()
				return nil
			}
			metrics.Reconciliations.WithLabelValues(trigger, "success").Inc()
			outcomes[i].Result = result
			return nil
		})
	}
	g.Wait()

	summary := &RecalculationSummary{Total: len(examIDs), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Error != "" {
			summary.Failed++
		} else {
			summary.Updated++
		}
	}
	if summary.Updated > 0 {
		r.cache.InvalidateAll(ctx)
	}
	return summary
}

// HandleWebhook recounts every exam affected by the batch. Only a rate-limit
// while deriving the affected exams is returned as an error.
func (r *Reconciler) HandleWebhook(ctx context.Context, events []WebhookEvent) (*WebhookResult, error) {
	ids, err := r.AffectedSessions(ctx, events)
	if err != nil {
		metrics.Reconciliations.WithLabelValues("webhook", "rate_limited").Inc()
		return nil, err
	}

	result := &WebhookResult{Success: true, Processed: len(events)}
	if len(ids) == 0 {
		result.Message = "No mock exams affected"
		return result, nil
	}

	summary := r.RecalculateMany(ctx, "webhook", ids)
	result.UpdatedExams = summary.Updated
	result.FailedUpdates = summary.Failed
	result.Message = fmt.Sprintf("Recalculated %d of %d affected mock exams", summary.Updated, summary.Total)
	log.Printf("[WEBHOOK] %d events, %d exams updated, %d failed", len(events), summary.Updated, summary.Failed)
	return result, nil
}

// RecalculateExam recounts one exam on demand.
func (r *Reconciler) RecalculateExam(ctx context.Context, examID string) (*capacity.Result, error) {
	result, err := r.ledger.Recalculate(ctx, examID)
	if hubspot.IsNotFound(err) {
		metrics.Reconciliations.WithLabelValues("admin", "failed").Inc()
		return nil, apperror.ExamNotFound(examID)
	}
	if err != nil {
		metrics.Reconciliations.WithLabelValues("admin", "failed").Inc()
		return nil, err
	}
	metrics.Reconciliations.WithLabelValues("admin", "success").Inc()
	r.cache.InvalidateAll(ctx)
	return result, nil
}

// RecalculateActive recounts every active exam, optionally of one mock type.
func (r *Reconciler) RecalculateActive(ctx context.Context, mockType string) (*RecalculationSummary, error) {
	if mockType != "" && !credits.ValidMockType(mockType) {
		return nil, apperror.Validation("Unknown mock type %q", mockType)
	}

	filters := []hubspot.Filter{{PropertyName: "is_active", Operator: hubspot.OpEQ, Value: "true"}}
	if mockType != "" {
		filters = append(filters, hubspot.Filter{PropertyName: "mock_type", Operator: hubspot.OpEQ, Value: mockType})
	}
	exams, err := searchAll(ctx, r.api, r.objects.MockExams, hubspot.SearchRequest{
		FilterGroups: []hubspot.FilterGroup{{Filters: filters}},
		Properties:   []string{models.PropCapacity, models.PropTotalBookings},
	})
	if err != nil {
		return nil, fmt.Errorf("search active mock exams: %w", err)
	}

	ids := make([]string, 0, len(exams))
	for i := range exams {
		ids = append(ids, exams[i].ID)
	}
	return r.RecalculateMany(ctx, "admin", ids), nil
}

// ReconcileListing recounts exams about to be listed and corrects drifted
// counters. An exam whose recount fails keeps its cached counter.
func (r *Reconciler) ReconcileListing(ctx context.Context, exams []*models.MockExam) {
	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, exam := range exams {
		g.Go(func() error {
			if _, err := r.ledger.Sync(ctx, exam); err != nil {
				log.Printf("[RECONCILE] Realtime recount of mock exam %s failed, using cached total: %v", exam.ID, err)
				metrics.Reconciliations.WithLabelValues("realtime", "failed").Inc()
				return nil
			}
			metrics.Reconciliations.WithLabelValues("realtime", "success").Inc()
			return nil
		})
	}
	g.Wait()
}

const searchPageSize = 100

// searchAll follows search paging until HubSpot stops returning a cursor.
func searchAll(ctx context.Context, api hubspot.API, objectType string, req hubspot.SearchRequest) ([]hubspot.Object, error) {
	req.Limit = searchPageSize
	var all []hubspot.Object
	for {
		resp, err := api.SearchObjects(ctx, objectType, req)
		if err != nil {
			return nil, err
		}
		all = append(all, resp.Results...)
		if resp.Paging == nil || resp.Paging.Next == nil || resp.Paging.Next.After == "" {
			return all, nil
		}
		req.After = resp.Paging.Next.After
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
