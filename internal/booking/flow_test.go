package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zapisbot/internal/model"
)

type slotRecorder struct {
	created []*model.Slot
	err     error
	nextID  int64
}

func (r *slotRecorder) AddSlot(_ context.Context, slot *model.Slot) (*model.Slot, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	created := *slot
	created.ID = r.nextID
	r.created = append(r.created, &created)
	return &created, nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.January, 1, 12, 0, 0, 0, time.Local)
}

func TestFlow_HappyPath(t *testing.T) {
	recorder := &slotRecorder{}
	flow := NewFlow(recorder, zap.NewNop(), fixedClock)
	const sessionID = int64(42)

	res := flow.Start(sessionID)
	assert.Equal(t, StepDate, res.Step)

	res, err := flow.SubmitDate(sessionID, "15.12.2026")
	require.NoError(t, err)
	assert.Equal(t, StepTime, res.Step)

	res, err = flow.SubmitTime(sessionID, "14:30")
	require.NoError(t, err)
	assert.Equal(t, StepDuration, res.Step)

	res, err = flow.SubmitDuration(sessionID, "60")
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, res.Step)
	assert.Contains(t, res.Prompt, "15.12.2026")
	assert.Contains(t, res.Prompt, "14:30")

	res, err = flow.Confirm(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, StepNone, res.Step)
	require.NotNil(t, res.Slot)

	wantStart := time.Date(2026, time.December, 15, 14, 30, 0, 0, time.Local)
	require.Len(t, recorder.created, 1)
	assert.True(t, wantStart.Equal(recorder.created[0].StartTime))
	assert.True(t, wantStart.Add(60*time.Minute).Equal(recorder.created[0].EndTime))
	assert.Equal(t, 60, recorder.created[0].DurationMinutes)

	// Диалог завершён
	assert.Equal(t, StepNone, flow.Step(sessionID))
}

func TestFlow_RejectsBadDate(t *testing.T) {
	flow := NewFlow(&slotRecorder{}, zap.NewNop(), fixedClock)
	const sessionID = int64(1)
	flow.Start(sessionID)

	testCases := []struct {
		name string
		text string
	}{
		{"мусор вместо даты", "не дата"},
		{"неверный формат", "2026-12-15"},
		{"прошедшая дата", "01.01.2020"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := flow.SubmitDate(sessionID, tc.text)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, StepDate, res.Step)
			assert.Equal(t, StepDate, flow.Step(sessionID))
		})
	}

	// Сегодняшняя дата допустима
	res, err := flow.SubmitDate(sessionID, "01.01.2026")
	require.NoError(t, err)
	assert.Equal(t, StepTime, res.Step)
}

func TestFlow_RejectsBadTime(t *testing.T) {
	flow := NewFlow(&slotRecorder{}, zap.NewNop(), fixedClock)
	const sessionID = int64(1)
	flow.Start(sessionID)

	_, err := flow.SubmitDate(sessionID, "15.12.2026")
	require.NoError(t, err)

	res, err := flow.SubmitTime(sessionID, "полдень")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, StepTime, res.Step)

	res, err = flow.SubmitTime(sessionID, "14:30")
	require.NoError(t, err)
	assert.Equal(t, StepDuration, res.Step)
}

func TestFlow_CustomDuration(t *testing.T) {
	flow := NewFlow(&slotRecorder{}, zap.NewNop(), fixedClock)
	const sessionID = int64(1)
	flow.Start(sessionID)

	_, err := flow.SubmitDate(sessionID, "15.12.2026")
	require.NoError(t, err)
	_, err = flow.SubmitTime(sessionID, "14:30")
	require.NoError(t, err)

	// "custom" - не ошибка, шаг остаётся прежним, ждём ручной ввод
	res, err := flow.SubmitDuration(sessionID, "custom")
	require.NoError(t, err)
	assert.Equal(t, StepDuration, res.Step)

	// Вне допустимых границ
	for _, bad := range []string{"10", "500", "abc", "-5"} {
		res, err = flow.SubmitDuration(sessionID, bad)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, StepDuration, res.Step)
	}

	res, err = flow.SubmitDuration(sessionID, "45")
	require.NoError(t, err)
	assert.Equal(t, StepConfirm, res.Step)
}

func TestFlow_CancelAtEveryStep(t *testing.T) {
	recorder := &slotRecorder{}
	flow := NewFlow(recorder, zap.NewNop(), fixedClock)
	const sessionID = int64(1)

	advance := []func(){
		func() {},
		func() {
			_, err := flow.SubmitDate(sessionID, "15.12.2026")
			require.NoError(t, err)
		},
		func() {
			_, err := flow.SubmitDate(sessionID, "15.12.2026")
			require.NoError(t, err)
			_, err = flow.SubmitTime(sessionID, "14:30")
			require.NoError(t, err)
		},
		func() {
			_, err := flow.SubmitDate(sessionID, "15.12.2026")
			require.NoError(t, err)
			_, err = flow.SubmitTime(sessionID, "14:30")
			require.NoError(t, err)
			_, err = flow.SubmitDuration(sessionID, "60")
			require.NoError(t, err)
		},
	}

	for _, step := range advance {
		flow.Start(sessionID)
		step()

		res := flow.Cancel(sessionID)
		assert.Equal(t, StepNone, res.Step)
		assert.Equal(t, StepNone, flow.Step(sessionID))
	}

	// После отмен ничего не сохранено, дальнейший ввод отвергается
	assert.Empty(t, recorder.created)
	_, err := flow.SubmitDate(sessionID, "15.12.2026")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFlow_ConfirmFailureEndsDialog(t *testing.T) {
	conflict := errors.New("slot conflict")
	flow := NewFlow(&slotRecorder{err: conflict}, zap.NewNop(), fixedClock)
	const sessionID = int64(1)

	flow.Start(sessionID)
	_, err := flow.SubmitDate(sessionID, "15.12.2026")
	require.NoError(t, err)
	_, err = flow.SubmitTime(sessionID, "14:30")
	require.NoError(t, err)
	_, err = flow.SubmitDuration(sessionID, "60")
	require.NoError(t, err)

	res, err := flow.Confirm(context.Background(), sessionID)
	assert.ErrorIs(t, err, conflict)
	assert.Equal(t, StepNone, res.Step)

	// Черновик не пережил неудачное подтверждение
	assert.Equal(t, StepNone, flow.Step(sessionID))
	_, err = flow.Confirm(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFlow_RestartOverwritesDraft(t *testing.T) {
	recorder := &slotRecorder{}
	flow := NewFlow(recorder, zap.NewNop(), fixedClock)
	const sessionID = int64(1)

	flow.Start(sessionID)
	_, err := flow.SubmitDate(sessionID, "15.12.2026")
	require.NoError(t, err)
	_, err = flow.SubmitTime(sessionID, "14:30")
	require.NoError(t, err)

	// Повторный /addslot перетирает накопленное
	res := flow.Start(sessionID)
	assert.Equal(t, StepDate, res.Step)

	_, err = flow.SubmitDate(sessionID, "20.12.2026")
	require.NoError(t, err)
	_, err = flow.SubmitTime(sessionID, "10:00")
	require.NoError(t, err)
	_, err = flow.SubmitDuration(sessionID, "30")
	require.NoError(t, err)

	_, err = flow.Confirm(context.Background(), sessionID)
	require.NoError(t, err)

	require.Len(t, recorder.created, 1)
	wantStart := time.Date(2026, time.December, 20, 10, 0, 0, 0, time.Local)
	assert.True(t, wantStart.Equal(recorder.created[0].StartTime))
}

func TestFlow_WrongStepInput(t *testing.T) {
	flow := NewFlow(&slotRecorder{}, zap.NewNop(), fixedClock)
	const sessionID = int64(1)

	// Без Start любой ввод отвергается
	_, err := flow.SubmitDate(sessionID, "15.12.2026")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = flow.SubmitTime(sessionID, "14:30")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = flow.SubmitDuration(sessionID, "60")
	assert.ErrorIs(t, err, ErrNoSession)
	_, err = flow.Confirm(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrNoSession)

	// На шаге даты время не принимается
	flow.Start(sessionID)
	_, err = flow.SubmitTime(sessionID, "14:30")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestFlow_EvictIdle(t *testing.T) {
	current := fixedClock()
	flow := NewFlow(&slotRecorder{}, zap.NewNop(), func() time.Time { return current })

	flow.Start(1)
	flow.Start(2)

	// Вторая сессия остаётся активной
	current = current.Add(20 * time.Minute)
	_, err := flow.SubmitDate(2, "15.12.2026")
	require.NoError(t, err)

	current = current.Add(15 * time.Minute)
	evicted := flow.EvictIdle()
	assert.Equal(t, 1, evicted)

	assert.Equal(t, StepNone, flow.Step(1))
	assert.Equal(t, StepTime, flow.Step(2))
}

func TestFlow_ExpiredSessionRejectsInput(t *testing.T) {
	current := fixedClock()
	flow := NewFlow(&slotRecorder{}, zap.NewNop(), func() time.Time { return current })

	flow.Start(1)
	current = current.Add(DefaultSessionTTL + time.Minute)

	_, err := flow.SubmitDate(1, "15.12.2026")
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Equal(t, StepNone, flow.Step(1))
}
