package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, buf *bytes.Buffer) Event {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	require.True(t, strings.HasPrefix(line, "AUDIT: "))

	var event Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "AUDIT: ")), &event))
	return event
}

func TestLogger_BookingCreated(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf).LogBookingCreated("9001", "11", "55", "sj_credits")

	event := decode(t, &buf)
	assert.Equal(t, "BOOKING_CREATED", event.EventType)
	assert.Equal(t, "9001", event.BookingID)
	assert.Equal(t, "SUCCESS", event.Status)
	_, err := uuid.Parse(event.ID)
	assert.NoError(t, err)
	assert.False(t, event.Timestamp.IsZero())
}

func TestLogger_CompensationFailure(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf).LogCompensation("cancel-booking", "restore-credit", errors.New("hubspot 502: bad gateway"))

	event := decode(t, &buf)
	assert.Equal(t, "COMPENSATION", event.EventType)
	assert.Equal(t, "FAILED", event.Status)
	details, ok := event.Details.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "restore-credit", details["step"])
	assert.Equal(t, "hubspot 502: bad gateway", details["error"])
}
