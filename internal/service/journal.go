package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/kokua/kokua-go/internal/model"
)

var ErrDescriptionRequired = errors.New("description is required")

// dateLayout is the wire format for event dates.
const dateLayout = "2006-01-02"

// EventStore is the persistence seam the journal service needs.
type EventStore interface {
	Insert(ctx context.Context, event *model.PositiveEvent) error
	ListByUser(ctx context.Context, userID int64) ([]model.PositiveEvent, error)
	ListByUserBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.PositiveEvent, error)
}

// JournalService owns the positive event journal. Events are write-once:
// recorded, recalled, never edited.
type JournalService struct {
	store EventStore
	now   func() time.Time
}

// NewJournalService creates a new JournalService.
func NewJournalService(store EventStore) *JournalService {
	return &JournalService{store: store, now: time.Now}
}

// Record inserts a new event for the user. An empty category gets the
// default label.
func (s *JournalService) Record(ctx context.Context, userID int64, description, category string) (model.EventView, error) {
	if strings.TrimSpace(description) == "" {
		return model.EventView{}, ErrDescriptionRequired
	}
	if category == "" {
		category = model.DefaultCategory
	}

	event := &model.PositiveEvent{
		UserID:      userID,
		Description: description,
		Category:    category,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.store.Insert(ctx, event); err != nil {
		return model.EventView{}, err
	}

	return eventToView(*event), nil
}

// Recall returns all of the user's events, newest first.
func (s *JournalService) Recall(ctx context.Context, userID int64) ([]model.EventView, error) {
	events, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return eventsToViews(events), nil
}

// RecallBetween returns the user's events within [start, end], inclusive on
// both bounds, newest first.
func (s *JournalService) RecallBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.EventView, error) {
	events, err := s.store.ListByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return eventsToViews(events), nil
}

// RecallGrouped partitions the last three UTC calendar days of the user's
// journal into fixed buckets. Bucketing compares calendar dates, not elapsed
// hours, so an event at 23:59 yesterday is still "Yesterday". Older events
// are excluded entirely.
func (s *JournalService) RecallGrouped(ctx context.Context, userID int64) (model.GroupedEvents, error) {
	now := s.now().UTC()
	today := now.Truncate(24 * time.Hour)
	windowStart := today.AddDate(0, 0, -2)

	events, err := s.store.ListByUserBetween(ctx, userID, windowStart, now)
	if err != nil {
		return model.GroupedEvents{}, err
	}

	grouped := model.GroupedEvents{
		Today:              []model.EventView{},
		Yesterday:          []model.EventView{},
		DayBeforeYesterday: []model.EventView{},
	}

	todayStr := today.Format(dateLayout)
	yesterdayStr := today.AddDate(0, 0, -1).Format(dateLayout)
	dayBeforeStr := windowStart.Format(dateLayout)

	for _, e := range events {
		view := eventToView(e)
		switch e.CreatedAt.UTC().Format(dateLayout) {
		case todayStr:
			grouped.Today = append(grouped.Today, view)
		case yesterdayStr:
			grouped.Yesterday = append(grouped.Yesterday, view)
		case dayBeforeStr:
			grouped.DayBeforeYesterday = append(grouped.DayBeforeYesterday, view)
		}
	}

	return grouped, nil
}

// ParsePeriod turns a "start..end" pair into inclusive day bounds using a
// permissive date parser. Ambiguous numeric dates are read day-first
// (05/01/2024 is January 5th). Anything unparseable means "no range".
func ParsePeriod(s string) (start, end time.Time, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), "..", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, false
	}

	startParsed, err := dateparse.ParseAny(strings.TrimSpace(parts[0]), dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	endParsed, err := dateparse.ParseAny(strings.TrimSpace(parts[1]), dateparse.PreferMonthFirst(false))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	if endParsed.Before(startParsed) {
		return time.Time{}, time.Time{}, false
	}

	start = startParsed.UTC().Truncate(24 * time.Hour)
	end = endParsed.UTC().Truncate(24 * time.Hour).Add(24*time.Hour - time.Nanosecond)
	return start, end, true
}

func eventToView(e model.PositiveEvent) model.EventView {
	return model.EventView{
		Description: e.Description,
		Category:    e.Category,
		Date:        e.CreatedAt.UTC().Format(dateLayout),
	}
}

func eventsToViews(events []model.PositiveEvent) []model.EventView {
	views := make([]model.EventView, len(events))
	for i, e := range events {
		views[i] = eventToView(e)
	}
	return views
}
