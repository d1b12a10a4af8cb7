package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/voidecho/engine/pkg/state"
)

// ErrCorruptSave marks a persisted save-game record that failed to parse.
// The record is discarded on read; callers surface the error and return
// the player to the entry state.
var ErrCorruptSave = errors.New("saved game record is corrupt")

// Storage persists the save-game bundle and the cross-run echo log.
// Saves are wholesale: a full snapshot in, a full bundle out, never a
// partial write.
type Storage interface {
	// Ping tests the storage connection
	Ping(ctx context.Context) error

	// Close closes the storage connection
	Close() error

	// SaveGameState writes the full bundle for the given session id.
	SaveGameState(ctx context.Context, id uuid.UUID, gs *state.GameState) error

	// LoadGameState retrieves a bundle by session id. Returns nil if no
	// save exists; returns ErrCorruptSave (and discards the record) if the
	// stored bytes fail to parse.
	LoadGameState(ctx context.Context, id uuid.UUID) (*state.GameState, error)

	// DeleteGameState removes a bundle by session id.
	DeleteGameState(ctx context.Context, id uuid.UUID) error

	// LoadEchoes reads the cross-run broken-rule log, newest first.
	LoadEchoes(ctx context.Context) ([]string, error)

	// SaveEchoes replaces the cross-run broken-rule log wholesale.
	SaveEchoes(ctx context.Context, echoes []string) error
}
