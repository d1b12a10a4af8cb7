package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/voidecho/engine/internal/storage"
	"github.com/voidecho/engine/pkg/actor"
)

// EchoesHandler exposes the cross-run broken-rule log, read-only.
type EchoesHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewEchoesHandler(storage storage.Storage, logger *slog.Logger) *EchoesHandler {
	return &EchoesHandler{storage: storage, logger: logger}
}

func (h *EchoesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use GET")
		return
	}
	echoes, err := h.storage.LoadEchoes(r.Context())
	if err != nil {
		h.logger.Error("Failed to load echoes", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load echoes")
		return
	}
	if echoes == nil {
		echoes = []string{}
	}
	if err := json.NewEncoder(w).Encode(map[string][]string{"echoes": echoes}); err != nil {
		h.logger.Error("Failed to encode echoes", "error", err)
	}
}

// ArchetypesResponse is the character-creation menu.
type ArchetypesResponse struct {
	Archetypes []actor.Archetype `json:"archetypes"`
	Vows       []actor.Vow       `json:"vows"`
}

// ArchetypesHandler serves the fixed character-creation options.
type ArchetypesHandler struct {
	logger *slog.Logger
}

func NewArchetypesHandler(logger *slog.Logger) *ArchetypesHandler {
	return &ArchetypesHandler{logger: logger}
}

func (h *ArchetypesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Use GET")
		return
	}
	resp := ArchetypesResponse{
		Archetypes: actor.Archetypes(),
		Vows:       actor.Vows(),
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode archetypes", "error", err)
	}
}
