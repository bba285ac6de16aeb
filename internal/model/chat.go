package model

// AskRequest represents a free-form question to the assistant.
type AskRequest struct {
	Question string `json:"question"`
}

// AskResponse carries the oracle's answer plus the caller's identity, which
// is empty for anonymous callers.
type AskResponse struct {
	LoggedInAs string `json:"logged_in_as"`
	Response   string `json:"response"`
}

// InteractResponse carries the result of an intent-routed interaction.
// Response is a string for the record and support paths and a list of
// EventView for the recall path.
type InteractResponse struct {
	Response any `json:"response"`
}

// ProposeResponse is the first half of the two-step confirmation flow.
type ProposeResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Event   *EventCandidate `json:"event,omitempty"`
	Options []string        `json:"options,omitempty"`
	Events  []EventView     `json:"events,omitempty"`
}

// ConfirmRequest carries the caller's decision about a proposed event.
type ConfirmRequest struct {
	Confirmation string         `json:"confirmation"`
	Event        EventCandidate `json:"event"`
}

// ConfirmResponse reports whether the proposed event was persisted.
type ConfirmResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
