package capacity

import (
	"context"
	"net/http"
	"testing"

	"github.com/mockexam/booking-backend/internal/config"
	"github.com/mockexam/booking-backend/internal/hubspot"
	"github.com/mockexam/booking-backend/internal/hubspot/hubspottest"
	"github.com/mockexam/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var objects = config.DefaultObjectTypes()

func TestAvailable(t *testing.T) {
	assert.Equal(t, 7, Available(&models.MockExam{Capacity: 10, TotalBookings: 3}))
	assert.Equal(t, 0, Available(&models.MockExam{Capacity: 5, TotalBookings: 5}))
	assert.Equal(t, 0, Available(&models.MockExam{Capacity: 5, TotalBookings: 8}), "over-booked exams clamp at zero")

	assert.True(t, IsFull(&models.MockExam{Capacity: 5, TotalBookings: 5}))
	assert.False(t, IsFull(&models.MockExam{Capacity: 5, TotalBookings: 4}))
}

func seedExam(store *hubspottest.Store, capacity, cached string) string {
	return store.Seed(objects.MockExams, map[string]string{
		"mock_type":      "Situational Judgment",
		"exam_date":      "2026-11-02",
		"capacity":       capacity,
		"total_bookings": cached,
		"is_active":      "true",
	})
}

func seedBooking(store *hubspottest.Store, examID, status string) string {
	id := store.Seed(objects.Bookings, map[string]string{"is_active": status})
	store.Link(objects.Bookings, id, objects.MockExams, examID)
	return id
}

func TestLedger_CountLiveExcludesCancelledAndArchived(t *testing.T) {
	store := hubspottest.New()
	examID := seedExam(store, "10", "6")

	seedBooking(store, examID, models.StatusActive)
	seedBooking(store, examID, models.StatusActive)
	seedBooking(store, examID, models.StatusCancelled)
	archived := seedBooking(store, examID, models.StatusActive)
	store.Archive(objects.Bookings, archived)

	ledger := NewLedger(store, objects)
	live, err := ledger.CountLive(context.Background(), examID)
	require.NoError(t, err)
	assert.Equal(t, 2, live)
}

func TestLedger_RecalculatePersistsAndIsIdempotent(t *testing.T) {
	store := hubspottest.New()
	examID := seedExam(store, "10", "7")
	for i := 0; i < 3; i++ {
		seedBooking(store, examID, models.StatusActive)
	}

	ledger := NewLedger(store, objects)

	first, err := ledger.Recalculate(context.Background(), examID)
	require.NoError(t, err)
	assert.Equal(t, 7, first.Previous)
	assert.Equal(t, 3, first.Current)
	assert.Equal(t, 7, first.Available)
	assert.True(t, first.Changed)
	assert.Equal(t, "3", store.Props(objects.MockExams, examID)["total_bookings"])

	second, err := ledger.Recalculate(context.Background(), examID)
	require.NoError(t, err)
	assert.Equal(t, first.Current, second.Current)
	assert.Equal(t, first.Available, second.Available)
	assert.False(t, second.Changed)
	assert.Equal(t, "3", store.Props(objects.MockExams, examID)["total_bookings"])
}

func TestLedger_RecalculateNoBookingsSkipsBatchRead(t *testing.T) {
	api := &MockAPI{}
	ctx := context.Background()

	api.On("GetObject", ctx, objects.MockExams, "55", mock.Anything).
		Return(&hubspot.Object{ID: "55", Properties: map[string]string{"capacity": "8", "total_bookings": "2"}}, nil)
	api.On("ListAssociations", ctx, objects.MockExams, "55", objects.Bookings).Return([]string{}, nil)
	api.On("UpdateObject", ctx, objects.MockExams, "55", map[string]string{"total_bookings": "0"}).
		Return(&hubspot.Object{ID: "55"}, nil)

	result, err := NewLedger(api, objects).Recalculate(ctx, "55")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Current)
	assert.Equal(t, 8, result.Available)

	api.AssertExpectations(t)
	api.AssertNotCalled(t, "BatchReadObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_RecalculateDoesNotPatchOnReadFailure(t *testing.T) {
	api := &MockAPI{}
	ctx := context.Background()
	remoteErr := &hubspot.RemoteError{Status: http.StatusBadGateway, Message: "bad gateway"}

	api.On("GetObject", ctx, objects.MockExams, "55", mock.Anything).
		Return(&hubspot.Object{ID: "55", Properties: map[string]string{"capacity": "8", "total_bookings": "2"}}, nil)
	api.On("ListAssociations", ctx, objects.MockExams, "55", objects.Bookings).Return([]string{"1", "2"}, nil)
	api.On("BatchReadObjects", ctx, objects.Bookings, []string{"1", "2"}, mock.Anything).Return(nil, remoteErr)

	_, err := NewLedger(api, objects).Recalculate(ctx, "55")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, hubspot.StatusOf(err))
	api.AssertNotCalled(t, "UpdateObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLedger_SyncPatchesOnlyOnDrift(t *testing.T) {
	store := hubspottest.New()
	examID := seedExam(store, "10", "2")
	seedBooking(store, examID, models.StatusActive)
	seedBooking(store, examID, models.StatusActive)

	ledger := NewLedger(store, objects)
	exam := &models.MockExam{ID: examID, Capacity: 10, TotalBookings: 2}

	result, err := ledger.Sync(context.Background(), exam)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Zero(t, store.CountCalls(hubspottest.OpUpdate, objects.MockExams))

	seedBooking(store, examID, models.StatusActive)
	result, err = ledger.Sync(context.Background(), exam)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 3, exam.TotalBookings)
	assert.Equal(t, 7, result.Available)
	assert.Equal(t, "3", store.Props(objects.MockExams, examID)["total_bookings"])
}
