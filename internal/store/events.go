package store

import (
	"context"
	"sort"
	"strings"
	"time"
)

func validateEvent(e *Event) error {
	switch {
	case strings.TrimSpace(e.Title) == "":
		return badRequest("title is required")
	case !validDate(e.Date):
		return badRequest("date must be YYYY-MM-DD")
	case !clockRe.MatchString(e.StartTime):
		return badRequest("start_time must be HH:MM")
	case e.EndTime != "" && !clockRe.MatchString(e.EndTime):
		return badRequest("end_time must be HH:MM")
	}
	return nil
}

// AppendEvent validates and inserts a new event
func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	if err := validateEvent(e); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(e).Error; err != nil {
		return writeErr(err, "event")
	}
	return nil
}

// GetEvent retrieves an event by ID
func (s *Store) GetEvent(ctx context.Context, id string) (*Event, error) {
	var e Event
	if err := s.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, readErr(err, "event", id)
	}
	return &e, nil
}

// UpdateEvent replaces an existing event. Moving it to another slot re-arms its reminder.
func (s *Store) UpdateEvent(ctx context.Context, e *Event) error {
	existing, err := s.GetEvent(ctx, e.ID)
	if err != nil {
		return err
	}
	if e.Category == "" {
		e.Category = existing.Category
	}
	if err := validateEvent(e); err != nil {
		return err
	}
	e.CreatedAt = existing.CreatedAt
	e.Reminded = existing.Reminded && existing.Date == e.Date && existing.StartTime == e.StartTime
	if err := s.db.WithContext(ctx).Save(e).Error; err != nil {
		return writeErr(err, "event")
	}
	return nil
}

// DeleteEvent removes an event
func (s *Store) DeleteEvent(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Event{}, "id = ?", id)
	if res.Error != nil {
		return writeErr(res.Error, "event")
	}
	if res.RowsAffected == 0 {
		return notFound("event", id)
	}
	return nil
}

// ToggleEventComplete flips the completed flag and returns the updated event
func (s *Store) ToggleEventComplete(ctx context.Context, id string) (*Event, error) {
	e, err := s.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Completed = !e.Completed
	if err := s.db.WithContext(ctx).Model(e).Update("completed", e.Completed).Error; err != nil {
		return nil, writeErr(err, "event")
	}
	return e, nil
}

// EventsByDate returns the events of one day ordered by start time
func (s *Store) EventsByDate(ctx context.Context, date string) ([]Event, error) {
	return s.ListEvents(ctx, EventFilter{Date: date})
}

// ListEvents returns matching events ordered by date then start time
func (s *Store) ListEvents(ctx context.Context, f EventFilter) ([]Event, error) {
	q := s.db.WithContext(ctx).Model(&Event{})
	switch {
	case f.Date != "":
		if !validDate(f.Date) {
			return nil, badRequest("date must be YYYY-MM-DD")
		}
		q = q.Where("date = ?", f.Date)
	case f.Month != "":
		if !validMonth(f.Month) {
			return nil, badRequest("month must be YYYY-MM")
		}
		q = q.Where("date LIKE ?", f.Month+"-%")
	}

	var events []Event
	if err := q.Order("date ASC, start_time ASC").Find(&events).Error; err != nil {
		return nil, readErr(err, "events", "")
	}
	return events, nil
}

// UpcomingEvents returns reminder-enabled events that are not completed or
// reminded yet and start within lead of now, soonest first.
func (s *Store) UpcomingEvents(ctx context.Context, now time.Time, lead time.Duration) ([]Event, error) {
	today := now.Format(DateLayout)
	horizon := now.Add(lead)
	dates := []string{today}
	if last := horizon.Format(DateLayout); last != today {
		dates = append(dates, last)
	}

	var candidates []Event
	err := s.db.WithContext(ctx).
		Where("date IN ? AND reminder = ? AND completed = ? AND reminded = ?", dates, true, false, false).
		Find(&candidates).Error
	if err != nil {
		return nil, readErr(err, "events", "")
	}

	from := now.Truncate(time.Minute)
	var due []Event
	for _, e := range candidates {
		start, err := e.StartAt(now.Location())
		if err != nil {
			continue
		}
		if !start.Before(from) && !start.After(horizon) {
			due = append(due, e)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].Date != due[j].Date {
			return due[i].Date < due[j].Date
		}
		return due[i].StartTime < due[j].StartTime
	})
	return due, nil
}

// MarkReminded flags events so they are not announced twice
func (s *Store) MarkReminded(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Model(&Event{}).Where("id IN ?", ids).Update("reminded", true).Error
	if err != nil {
		return writeErr(err, "event")
	}
	return nil
}
