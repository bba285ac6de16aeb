package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/kokua/kokua-go/internal/model"
)

// EventRepository handles positive event persistence operations.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert stores a new event and sets the generated ID and creation time on
// the event struct. Events are never updated afterwards.
func (r *EventRepository) Insert(ctx context.Context, event *model.PositiveEvent) error {
	query := `INSERT INTO positive_events (user_id, description, category, created_at) VALUES (?, ?, ?, ?)`

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx, query, event.UserID, event.Description, event.Category, event.CreatedAt)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	event.ID = id
	return nil
}

// ListByUser retrieves all events owned by a user, newest first.
func (r *EventRepository) ListByUser(ctx context.Context, userID int64) ([]model.PositiveEvent, error) {
	query := `SELECT id, user_id, description, category, created_at
		FROM positive_events WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListByUserBetween retrieves a user's events with creation time in
// [start, end], newest first.
func (r *EventRepository) ListByUserBetween(ctx context.Context, userID int64, start, end time.Time) ([]model.PositiveEvent, error) {
	query := `SELECT id, user_id, description, category, created_at
		FROM positive_events WHERE user_id = ? AND created_at >= ? AND created_at <= ?
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]model.PositiveEvent, error) {
	var events []model.PositiveEvent
	for rows.Next() {
		var e model.PositiveEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &e.Category, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
