package service

import (
	"context"
	"sort"
	"time"

	"github.com/kokua/kokua-go/internal/model"
	"github.com/kokua/kokua-go/internal/oracle"
	"github.com/kokua/kokua-go/internal/repository"
)

// memUserStore is an in-memory UserStore for tests.
type memUserStore struct {
	users  map[string]*model.User
	nextID int64
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]*model.User{}, nextID: 1}
}

func (m *memUserStore) Create(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	user.ID = m.nextID
	user.CreatedAt = time.Now().UTC()
	m.nextID++
	stored := *user
	m.users[user.Email] = &stored
	return nil
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := m.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *memUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// memEventStore is an in-memory EventStore for tests.
type memEventStore struct {
	events []model.PositiveEvent
	nextID int64
}

func newMemEventStore() *memEventStore {
	return &memEventStore{nextID: 1}
}

func (m *memEventStore) Insert(_ context.Context, event *model.PositiveEvent) error {
	event.ID = m.nextID
	m.nextID++
	m.events = append(m.events, *event)
	return nil
}

func (m *memEventStore) ListByUser(_ context.Context, userID int64) ([]model.PositiveEvent, error) {
	var out []model.PositiveEvent
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *memEventStore) ListByUserBetween(_ context.Context, userID int64, start, end time.Time) ([]model.PositiveEvent, error) {
	var out []model.PositiveEvent
	for _, e := range m.events {
		if e.UserID == userID && !e.CreatedAt.Before(start) && !e.CreatedAt.After(end) {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(events []model.PositiveEvent) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
}

// stubOracle replies from a per-profile-instructions table, or fails.
type stubOracle struct {
	replies map[string]string
	err     error
	calls   []string
}

func (s *stubOracle) Complete(_ context.Context, profile oracle.Profile, prompt string) (string, error) {
	s.calls = append(s.calls, profile.Instructions)
	if s.err != nil {
		return "", s.err
	}
	if reply, ok := s.replies[profile.Instructions]; ok {
		return reply, nil
	}
	return "stub reply", nil
}

// testProfiles gives each profile distinct instructions so stubOracle can
// tell which profile a call used.
func testProfiles() oracle.Profiles {
	names := []string{"default", "record", "support", "extract_period", "convert_date_range"}
	profiles := oracle.Profiles{}
	for _, name := range names {
		profiles[name] = oracle.Profile{Model: "test-model", Instructions: name}
	}
	return profiles
}
