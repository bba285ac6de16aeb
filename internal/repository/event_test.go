package repository

import (
	"testing"
)

func TestNewEventRepository(t *testing.T) {
	repo := NewEventRepository(nil)
	if repo == nil {
		t.Fatal("expected non-nil EventRepository")
	}
	if repo.db != nil {
		t.Fatal("expected nil db when constructed with nil")
	}
}
