package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gmsas95/lifetrack/internal/errors"
)

func TestEvents_CRUDAndToggle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := &Event{Title: "Họp team", Date: "2025-03-12", StartTime: "14:00", Category: "meeting", Reminder: true}
	require.NoError(t, s.AppendEvent(ctx, ev))
	assert.NotEmpty(t, ev.ID)

	toggled, err := s.ToggleEventComplete(ctx, ev.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	toggled, err = s.ToggleEventComplete(ctx, ev.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	got.Title = "Họp dự án"
	got.EndTime = "15:00"
	require.NoError(t, s.UpdateEvent(ctx, got))

	got, err = s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Họp dự án", got.Title)
	assert.Equal(t, "15:00", got.EndTime)
	assert.Equal(t, "meeting", got.Category)

	require.NoError(t, s.DeleteEvent(ctx, ev.ID))
	_, err = s.ToggleEventComplete(ctx, ev.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestEvents_Validation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []Event{
		{Title: "", Date: "2025-03-12", StartTime: "14:00"},
		{Title: "x", Date: "2025-13-01", StartTime: "14:00"},
		{Title: "x", Date: "2025-03-12", StartTime: "24:00"},
		{Title: "x", Date: "2025-03-12", StartTime: "9:00"},
		{Title: "x", Date: "2025-03-12", StartTime: "09:00", EndTime: "10:75"},
	}

	for _, ev := range tests {
		ev := ev
		err := s.AppendEvent(ctx, &ev)
		assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest), "%+v", ev)
	}
}

func TestEventsByDate_SortedByStartTime(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, e := range []Event{
		{Title: "Tập gym", Date: "2025-03-12", StartTime: "18:00"},
		{Title: "Họp", Date: "2025-03-12", StartTime: "09:30"},
		{Title: "Ăn trưa", Date: "2025-03-12", StartTime: "12:00"},
		{Title: "Khác ngày", Date: "2025-03-13", StartTime: "08:00"},
	} {
		e := e
		require.NoError(t, s.AppendEvent(ctx, &e))
	}

	events, err := s.EventsByDate(ctx, "2025-03-12")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, []string{"09:30", "12:00", "18:00"}, []string{events[0].StartTime, events[1].StartTime, events[2].StartTime})

	month, err := s.ListEvents(ctx, EventFilter{Month: "2025-03"})
	require.NoError(t, err)
	assert.Len(t, month, 4)
	assert.Equal(t, "2025-03-13", month[3].Date)
}

func TestUpcomingEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 12, 13, 50, 30, 0, time.UTC)

	seed := []Event{
		{Title: "due", Date: "2025-03-12", StartTime: "14:00", Reminder: true},
		{Title: "right now", Date: "2025-03-12", StartTime: "13:50", Reminder: true},
		{Title: "too late", Date: "2025-03-12", StartTime: "14:30", Reminder: true},
		{Title: "past", Date: "2025-03-12", StartTime: "13:00", Reminder: true},
		{Title: "no reminder", Date: "2025-03-12", StartTime: "14:00"},
		{Title: "completed", Date: "2025-03-12", StartTime: "14:00", Reminder: true, Completed: true},
		{Title: "other day", Date: "2025-03-13", StartTime: "14:00", Reminder: true},
	}
	for i := range seed {
		require.NoError(t, s.AppendEvent(ctx, &seed[i]))
	}

	due, err := s.UpcomingEvents(ctx, now, 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "right now", due[0].Title)
	assert.Equal(t, "due", due[1].Title)

	require.NoError(t, s.MarkReminded(ctx, due[0].ID, due[1].ID))
	due, err = s.UpcomingEvents(ctx, now, 15*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, due)
	assert.NoError(t, s.MarkReminded(ctx))
}

func TestUpcomingEvents_AcrossMidnight(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.AppendEvent(ctx, &Event{Title: "đêm", Date: "2025-03-13", StartTime: "00:05", Reminder: true}))

	due, err := s.UpcomingEvents(ctx, time.Date(2025, 3, 12, 23, 55, 0, 0, time.UTC), 15*time.Minute)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "đêm", due[0].Title)
}

func TestUpdateEvent_RearmsReminderWhenMoved(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ev := &Event{Title: "Họp", Date: "2025-03-12", StartTime: "14:00", Reminder: true}
	require.NoError(t, s.AppendEvent(ctx, ev))
	require.NoError(t, s.MarkReminded(ctx, ev.ID))

	got, err := s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.True(t, got.Reminded)

	got.StartTime = "16:00"
	require.NoError(t, s.UpdateEvent(ctx, got))

	got, err = s.GetEvent(ctx, ev.ID)
	require.NoError(t, err)
	assert.False(t, got.Reminded)
}
