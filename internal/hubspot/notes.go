package hubspot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// CreateNote creates a timeline note and associates it with every target.
// The note id is returned even when some associations failed.
func CreateNote(ctx context.Context, api API, notesType, body string, at time.Time, targets ...Target) (string, error) {
	note, err := api.CreateObject(ctx, notesType, map[string]string{
		"hs_note_body": body,
		"hs_timestamp": strconv.FormatInt(at.UnixMilli(), 10),
	})
	if err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}

	var errs []error
	for _, t := range targets {
		if t.ID == "" {
			continue
		}
		if err := api.CreateAssociation(ctx, notesType, note.ID, t.ObjectType, t.ID); err != nil {
			errs = append(errs, fmt.Errorf("associate note %s with %s/%s: %w", note.ID, t.ObjectType, t.ID, err))
		}
	}
	return note.ID, errors.Join(errs...)
}
