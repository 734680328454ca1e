package saga

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type journal struct {
	entries []string
}

func (j *journal) step(name string, fail error, compFail error) Step {
	return Step{
		Name: name,
		Action: func(ctx context.Context) error {
			j.entries = append(j.entries, "do:"+name)
			return fail
		},
		Compensate: func(ctx context.Context) error {
			j.entries = append(j.entries, "undo:"+name)
			return compFail
		},
	}
}

func TestSaga_AllStepsSucceed(t *testing.T) {
	j := &journal{}
	err := New("test", Hooks{}).Add(j.step("a", nil, nil), j.step("b", nil, nil)).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"do:a", "do:b"}, j.entries)
}

func TestSaga_CompensatesInReverseOrder(t *testing.T) {
	j := &journal{}
	boom := errors.New("boom")

	err := New("cancel", Hooks{}).Add(
		j.step("credit", nil, nil),
		j.step("capacity", nil, nil),
		j.step("soft-delete", boom, nil),
	).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"do:credit", "do:capacity", "do:soft-delete", "undo:capacity", "undo:credit"}, j.entries)

	var sagaErr *Error
	require.ErrorAs(t, err, &sagaErr)
	assert.Equal(t, "soft-delete", sagaErr.Step)
	assert.Equal(t, []string{"capacity", "credit"}, sagaErr.Compensated)
	assert.Empty(t, sagaErr.Uncompensated)
}

func TestSaga_CompensationFailureDoesNotStopOthers(t *testing.T) {
	j := &journal{}
	boom := errors.New("boom")
	undoFailed := errors.New("undo failed")

	var failures []string
	hooks := Hooks{OnCompensationFailure: func(saga, step string, err error) {
		failures = append(failures, saga+"/"+step)
	}}

	err := New("cancel", hooks).Add(
		j.step("credit", nil, nil),
		j.step("capacity", nil, undoFailed),
		j.step("soft-delete", boom, nil),
	).Run(context.Background())

	assert.ErrorIs(t, err, boom, "the original failure is reported, not the compensation failure")
	assert.Equal(t, []string{"do:credit", "do:capacity", "do:soft-delete", "undo:capacity", "undo:credit"}, j.entries)
	assert.Equal(t, []string{"cancel/capacity"}, failures)

	var sagaErr *Error
	require.ErrorAs(t, err, &sagaErr)
	require.Len(t, sagaErr.Uncompensated, 1)
	assert.Equal(t, "capacity", sagaErr.Uncompensated[0].Step)
}

func TestSaga_StepWithoutCompensationIsSkipped(t *testing.T) {
	j := &journal{}
	boom := errors.New("boom")

	err := New("create", Hooks{}).Add(
		j.step("create-booking", nil, nil),
		Step{Name: "associate", Action: func(ctx context.Context) error {
			j.entries = append(j.entries, "do:associate")
			return nil
		}},
		j.step("debit", boom, nil),
	).Run(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"do:create-booking", "do:associate", "do:debit", "undo:create-booking"}, j.entries)
}

func TestSaga_CompensationIgnoresRequestCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var compCtxErr error

	err := New("create", Hooks{}).Add(
		Step{
			Name:   "create-booking",
			Action: func(ctx context.Context) error { return nil },
			Compensate: func(ctx context.Context) error {
				compCtxErr = ctx.Err()
				return nil
			},
		},
		Step{Name: "debit", Action: func(ctx context.Context) error {
			cancel()
			return ctx.Err()
		}},
	).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, compCtxErr)
}
