package handler

import (
	"errors"
	"net/http"

	"github.com/kokua/kokua-go/internal/middleware"
	"github.com/kokua/kokua-go/internal/model"
	"github.com/kokua/kokua-go/internal/oracle"
	"github.com/kokua/kokua-go/internal/service"
)

// AssistantHandler handles HTTP requests for the conversational assistant.
type AssistantHandler struct {
	assistant *service.AssistantService
	auth      *service.AuthService
}

// NewAssistantHandler creates a new AssistantHandler.
func NewAssistantHandler(assistant *service.AssistantService, auth *service.AuthService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant, auth: auth}
}

// HandleAsk handles POST /ask requests. Callers may be anonymous.
func (h *AssistantHandler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	var req model.AskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.assistant.Ask(r.Context(), identity.Email, req.Question)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleInteract handles POST /interact requests.
func (h *AssistantHandler) HandleInteract(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(w, r)
	if !ok {
		return
	}

	var req model.AskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.assistant.Interact(r.Context(), user, req.Question)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleProposeEvent handles POST /propose_event requests.
func (h *AssistantHandler) HandleProposeEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(w, r)
	if !ok {
		return
	}

	var req model.AskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.assistant.ProposeEvent(r.Context(), user, req.Question)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleConfirmEvent handles POST /confirm_event requests.
func (h *AssistantHandler) HandleConfirmEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(w, r)
	if !ok {
		return
	}

	var req model.ConfirmRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.assistant.ConfirmEvent(r.Context(), user, req.Confirmation, req.Event)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetActions handles POST /get_actions requests.
func (h *AssistantHandler) HandleGetActions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.actingUser(w, r)
	if !ok {
		return
	}

	grouped, err := h.assistant.RecentActions(r.Context(), user)
	if err != nil {
		writeAssistantError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grouped)
}

// actingUser resolves the account behind the request identity. Anonymous or
// unknown callers get a 404, as the original frontend expects.
func (h *AssistantHandler) actingUser(w http.ResponseWriter, r *http.Request) (*model.User, bool) {
	identity, _ := middleware.IdentityFromContext(r.Context())

	user, err := h.auth.ResolveUser(r.Context(), identity.Email)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse("user not found"))
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return nil, false
	}

	return user, true
}

func writeAssistantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, oracle.ErrUnavailable):
		writeJSON(w, http.StatusBadGateway, errorResponse("assistant temporarily unavailable"))
	case errors.Is(err, service.ErrDescriptionRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}
