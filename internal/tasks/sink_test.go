package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSink_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	failedAt := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO dead_letters").
		WithArgs("dl-1", "booking-note", []byte(`{"booking_id":"9001"}`), "timeout", failedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = NewPostgresSink(db).Record(context.Background(), DeadLetter{
		ID:       "dl-1",
		Task:     "booking-note",
		Payload:  map[string]string{"booking_id": "9001"},
		Error:    "timeout",
		FailedAt: failedAt,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSink_RecordError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO dead_letters").WillReturnError(errors.New("connection refused"))

	err = NewPostgresSink(db).Record(context.Background(), DeadLetter{ID: "dl-1", Task: "booking-note"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestPostgresSink_Pending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	failedAt := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "task", "payload", "error", "failed_at"}).
		AddRow("dl-2", "cancellation-note", []byte(`{"booking_id":"9002"}`), "bad gateway", failedAt).
		AddRow("dl-1", "booking-note", []byte(nil), "timeout", failedAt.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, task, payload, error, failed_at FROM dead_letters").
		WithArgs(10).
		WillReturnRows(rows)

	letters, err := NewPostgresSink(db).Pending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, letters, 2)
	assert.Equal(t, "9002", letters[0].Payload["booking_id"])
	assert.Nil(t, letters[1].Payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}
