package services

import (
	"context"
	"errors"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/prompts"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

// ErrMissingAPIKey marks the oracle as unusable until a credential is
// supplied. Callers detect it with errors.Is and interrupt for a key
// instead of surfacing a generic failure.
var ErrMissingAPIKey = errors.New("oracle API key is not configured")

// MindContext is the input to a single NPC mind refinement.
type MindContext struct {
	SceneDescription string
	Action           string
	NPC              actor.NPC
}

// Oracle is the external narrative-content producer, consumed as a black
// box. The engine specifies only the request/response envelopes; transport
// and prompting live behind this interface.
type Oracle interface {
	// GenerateWorld fabricates a fresh nightmare from the player identity,
	// prior echoes, difficulty and optional world-building answers.
	GenerateWorld(ctx context.Context, seed prompts.WorldSeed) (*world.InitialSituation, error)

	// ProposeTurn answers "what happens as a result of this action" with a
	// sparse delta envelope.
	ProposeTurn(ctx context.Context, gs *state.GameState, action string) (*state.TurnProposal, error)

	// ProposeMindUpdate refines one NPC's psychology after a scene.
	ProposeMindUpdate(ctx context.Context, mc MindContext) (*actor.MindDelta, error)

	// Summarize condenses key events into one chronicle paragraph.
	Summarize(ctx context.Context, events []string) (string, error)
}
