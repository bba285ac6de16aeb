package model

import "time"

// DefaultCategory is assigned to events recorded without an explicit category.
const DefaultCategory = "souvenir"

// PositiveEvent represents a journal entry in the database. Events are
// immutable once written: there is no update or delete path.
type PositiveEvent struct {
	ID          int64
	UserID      int64
	Description string
	Category    string
	CreatedAt   time.Time
}

// EventView represents a journal entry as returned to API callers.
type EventView struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date"`
}

// EventCandidate is a not-yet-persisted event awaiting user confirmation.
type EventCandidate struct {
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// GroupedEvents buckets the last three calendar days of a user's journal.
type GroupedEvents struct {
	Today              []EventView `json:"Today"`
	Yesterday          []EventView `json:"Yesterday"`
	DayBeforeYesterday []EventView `json:"DayBeforeYesterday"`
}
