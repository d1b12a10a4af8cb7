package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/voidecho/engine/internal/session"
	"github.com/voidecho/engine/internal/storage"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateGameRequest is the character-creation payload.
type CreateGameRequest struct {
	PlayerName   string           `json:"player_name"`
	PlayerBio    string           `json:"player_bio,omitempty"`
	Archetype    string           `json:"archetype"`
	Vow          string           `json:"vow"`
	Difficulty   world.Difficulty `json:"difficulty,omitempty"`
	WorldAnswers []string         `json:"world_answers,omitempty"`
}

// ActionRequest is one player input for a live game.
type ActionRequest struct {
	Action string `json:"action"`
}

// TurnResponse is the wire form of a resolved turn.
type TurnResponse struct {
	GameState   *state.GameState `json:"game_state,omitempty"`
	Outcome     string           `json:"outcome,omitempty"`
	BrokenRule  string           `json:"broken_rule,omitempty"`
	KeyEvents   []string         `json:"key_events,omitempty"`
	LocalAnswer string           `json:"local_answer,omitempty"`
}

// GameHandler serves the game lifecycle.
// Routes:
// POST /v1/game                - Create a new run (character creation)
// GET /v1/game/{id}            - Read current game state
// DELETE /v1/game/{id}         - Delete the save and drop the session
// POST /v1/game/{id}/action    - Submit one player action
// POST /v1/game/{id}/act       - Acknowledge a chapter break
// POST /v1/game/{id}/restart   - Record the echo and delete the save
// POST /v1/game/{id}/save      - Persist the current state
type GameHandler struct {
	manager *session.Manager
	logger  *slog.Logger
}

func NewGameHandler(manager *session.Manager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		manager: manager,
		logger:  logger,
	}
}

func (h *GameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/game"), "/")

	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use POST to create a game")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid game ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid game ID format")
		return
	}

	verb := ""
	if len(parts) == 2 {
		verb = parts[1]
	}

	switch {
	case verb == "" && r.Method == http.MethodGet:
		h.handleRead(w, r, id)
	case verb == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case verb == "action" && r.Method == http.MethodPost:
		h.handleAction(w, r, id)
	case verb == "act" && r.Method == http.MethodPost:
		h.handleResumeAct(w, r, id)
	case verb == "restart" && r.Method == http.MethodPost:
		h.handleRestart(w, r, id)
	case verb == "save" && r.Method == http.MethodPost:
		h.handleSave(w, r, id)
	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed for this endpoint")
	}
}

func (h *GameHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.PlayerName) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "player_name is required")
		return
	}

	sess, err := h.manager.Create(r.Context(), session.NewGameParams{
		PlayerName:   req.PlayerName,
		PlayerBio:    req.PlayerBio,
		Archetype:    req.Archetype,
		Vow:          req.Vow,
		Difficulty:   req.Difficulty,
		WorldAnswers: req.WorldAnswers,
	})
	if err != nil {
		h.logger.Error("Failed to create game", "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "Failed to generate a new nightmare")
		return
	}

	gs, err := sess.Snapshot()
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read game state")
		return
	}
	w.WriteHeader(http.StatusCreated)
	h.writeJSON(w, gs)
}

func (h *GameHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	gs, err := sess.Snapshot()
	if err != nil {
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to read game state")
		return
	}
	h.writeJSON(w, gs)
}

func (h *GameHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if err := sess.Restart(r.Context()); err != nil {
		h.logger.Error("Failed to delete game", "game_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game")
		return
	}
	h.manager.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	sess, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	out, err := sess.ApplyAction(r.Context(), req.Action)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyAction):
			writeError(w, h.logger, http.StatusBadRequest, "Action text is empty")
		case errors.Is(err, session.ErrBusy):
			writeError(w, h.logger, http.StatusConflict, "A turn is already resolving")
		case errors.Is(err, session.ErrWrongPhase):
			writeError(w, h.logger, http.StatusConflict, "The game is not accepting actions right now")
		default:
			h.logger.Error("Turn failed", "game_id", id, "error", err)
			writeError(w, h.logger, http.StatusBadGateway, "The oracle did not answer. Try the same action again")
		}
		return
	}

	resp := TurnResponse{
		GameState:   out.Snapshot,
		BrokenRule:  out.BrokenRule,
		KeyEvents:   out.KeyEvents,
		LocalAnswer: out.LocalAnswer,
	}
	if out.LocalAnswer == "" {
		resp.Outcome = outcomeString(out.Outcome)
	}
	h.writeJSON(w, resp)
}

func (h *GameHandler) handleResumeAct(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	gs, err := sess.ResumeAct()
	if err != nil {
		if errors.Is(err, session.ErrWrongPhase) {
			writeError(w, h.logger, http.StatusConflict, "No chapter break is pending")
			return
		}
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to resume")
		return
	}
	h.writeJSON(w, gs)
}

func (h *GameHandler) handleRestart(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if err := sess.Restart(r.Context()); err != nil {
		h.logger.Error("Failed to restart", "game_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to restart")
		return
	}
	h.manager.Drop(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) handleSave(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, err)
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		h.logger.Error("Failed to save game", "game_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *GameHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, h.logger, http.StatusNotFound, "Game not found")
	case errors.Is(err, storage.ErrCorruptSave):
		writeError(w, h.logger, http.StatusGone, "The save was corrupt and has been discarded")
	default:
		h.logger.Error("Failed to load session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game")
	}
}

func (h *GameHandler) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func outcomeString(o state.Outcome) string {
	switch o {
	case state.OutcomeActTransition:
		return "act_transition"
	case state.OutcomeDefeat:
		return "defeat"
	case state.OutcomeVictory:
		return "victory"
	default:
		return "continue"
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
