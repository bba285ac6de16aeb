package service

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kokua/kokua-go/internal/intent"
	"github.com/kokua/kokua-go/internal/model"
	"github.com/kokua/kokua-go/internal/oracle"
)

// Confirmation values for the two-step recording flow.
const (
	ConfirmationAccept = "Confirmer"
	ConfirmationCancel = "Annuler"
)

const (
	statusOK        = "ok"
	statusPending   = "pending"
	statusRecorded  = "recorded"
	statusCancelled = "cancelled"

	msgRecorded  = "Événement enregistré avec succès"
	msgCancelled = "Événement annulé"
	msgConfirm   = "Souhaitez-vous enregistrer cet événement ?"
)

var descriptionPattern = regexp.MustCompile(`(?i)description:\s*(.*)`)

// Completer is the oracle seam the assistant needs.
type Completer interface {
	Complete(ctx context.Context, profile oracle.Profile, prompt string) (string, error)
}

// AssistantService routes free-form user text to the journal or the chat
// oracle based on classified intent. It holds no per-request state.
type AssistantService struct {
	oracle     Completer
	profiles   oracle.Profiles
	classifier *intent.Classifier
	journal    *JournalService
}

// NewAssistantService creates a new AssistantService.
func NewAssistantService(completer Completer, profiles oracle.Profiles, classifier *intent.Classifier, journal *JournalService) *AssistantService {
	return &AssistantService{
		oracle:     completer,
		profiles:   profiles,
		classifier: classifier,
		journal:    journal,
	}
}

// Ask forwards a question to the oracle under the default profile. Works for
// anonymous callers; email is echoed back when known.
func (s *AssistantService) Ask(ctx context.Context, email, question string) (model.AskResponse, error) {
	answer, err := s.oracle.Complete(ctx, s.profiles.Get(oracle.ProfileDefault), question)
	if err != nil {
		return model.AskResponse{}, err
	}

	return model.AskResponse{LoggedInAs: email, Response: answer}, nil
}

// Interact classifies the text and dispatches: record inserts a journal
// event, recall reads the journal (optionally narrowed to a period derived
// from the text), anything else gets a supportive oracle reply.
func (s *AssistantService) Interact(ctx context.Context, user *model.User, text string) (model.InteractResponse, error) {
	switch s.classifier.Classify(text) {
	case intent.Record:
		description := s.extractDescription(ctx, text)
		if _, err := s.journal.Record(ctx, user.ID, description, ""); err != nil {
			return model.InteractResponse{}, err
		}
		return model.InteractResponse{Response: msgRecorded}, nil

	case intent.Recall:
		events, err := s.recallForText(ctx, user.ID, text)
		if err != nil {
			return model.InteractResponse{}, err
		}
		return model.InteractResponse{Response: events}, nil

	default:
		answer, err := s.oracle.Complete(ctx, s.profiles.Get(oracle.ProfileSupport), text)
		if err != nil {
			return model.InteractResponse{}, err
		}
		return model.InteractResponse{Response: answer}, nil
	}
}

// ProposeEvent is the first half of the confirmed recording flow: a record
// intent yields a candidate event and confirmation options without writing
// anything. Other intents behave as Interact.
func (s *AssistantService) ProposeEvent(ctx context.Context, user *model.User, text string) (model.ProposeResponse, error) {
	switch s.classifier.Classify(text) {
	case intent.Record:
		return model.ProposeResponse{
			Status:  statusPending,
			Message: msgConfirm,
			Event: &model.EventCandidate{
				Description: s.extractDescription(ctx, text),
				Category:    model.DefaultCategory,
			},
			Options: []string{ConfirmationAccept, ConfirmationCancel},
		}, nil

	case intent.Recall:
		events, err := s.recallForText(ctx, user.ID, text)
		if err != nil {
			return model.ProposeResponse{}, err
		}
		return model.ProposeResponse{Status: statusOK, Events: events}, nil

	default:
		answer, err := s.oracle.Complete(ctx, s.profiles.Get(oracle.ProfileSupport), text)
		if err != nil {
			return model.ProposeResponse{}, err
		}
		return model.ProposeResponse{Status: statusOK, Message: answer}, nil
	}
}

// ConfirmEvent persists a proposed event only when the caller answered
// exactly ConfirmationAccept. Any other value cancels with no side effects.
func (s *AssistantService) ConfirmEvent(ctx context.Context, user *model.User, confirmation string, event model.EventCandidate) (model.ConfirmResponse, error) {
	if confirmation != ConfirmationAccept {
		return model.ConfirmResponse{Status: statusCancelled, Message: msgCancelled}, nil
	}

	if _, err := s.journal.Record(ctx, user.ID, event.Description, event.Category); err != nil {
		return model.ConfirmResponse{}, err
	}

	return model.ConfirmResponse{Status: statusRecorded, Message: msgRecorded}, nil
}

// RecentActions returns the user's last three days of events, bucketed by
// calendar day.
func (s *AssistantService) RecentActions(ctx context.Context, user *model.User) (model.GroupedEvents, error) {
	return s.journal.RecallGrouped(ctx, user.ID)
}

// extractDescription asks the oracle to condense the text into a
// "description: ..." line. A failed call or an empty extraction degrades to
// the raw text so the user's entry is never dropped.
func (s *AssistantService) extractDescription(ctx context.Context, text string) string {
	out, err := s.oracle.Complete(ctx, s.profiles.Get(oracle.ProfileRecord), text)
	if err != nil {
		slog.Warn("description extraction failed, recording raw text", "error", err)
		return text
	}

	if m := descriptionPattern.FindStringSubmatch(out); m != nil {
		if d := strings.TrimSpace(m[1]); d != "" {
			return d
		}
	}

	return text
}

// recallForText recalls the user's events, narrowed to a date range when one
// can be derived from the text via the extract_period and convert_date_range
// profiles. An unavailable oracle or an unparseable range recalls everything.
func (s *AssistantService) recallForText(ctx context.Context, userID int64, text string) ([]model.EventView, error) {
	period, err := s.oracle.Complete(ctx, s.profiles.Get(oracle.ProfileExtractPeriod), text)
	if err != nil {
		return s.journal.Recall(ctx, userID)
	}

	rangeText, err := s.oracle.Complete(ctx, s.profiles.Get(oracle.ProfileConvertDateRange), period)
	if err != nil {
		return s.journal.Recall(ctx, userID)
	}

	start, end, ok := ParsePeriod(rangeText)
	if !ok {
		return s.journal.Recall(ctx, userID)
	}

	return s.journal.RecallBetween(ctx, userID, start, end)
}
