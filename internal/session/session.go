package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/voidecho/engine/internal/services"
	"github.com/voidecho/engine/internal/storage"
	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/prompts"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

// Phase is the turn-cycle state of one session. Exactly one turn can be
// in flight; everything else is rejected until it resolves.
type Phase string

const (
	PhaseAwaitingAction Phase = "awaiting_action"
	PhaseResolving      Phase = "resolving"
	PhaseActTransition  Phase = "act_transition"
	PhaseDefeated       Phase = "defeated"
	PhaseVictorious     Phase = "victorious"
)

var (
	ErrBusy        = errors.New("a turn is already resolving")
	ErrEmptyAction = errors.New("action text is empty")
	ErrWrongPhase  = errors.New("operation not valid in the current phase")
)

// summaryEvery is the turn cadence of the deferred chronicle pass.
const summaryEvery = 5

// summaryWindow is how many trailing key events one chronicle covers.
const summaryWindow = 10

// NewGameParams is the character-creation input for a fresh run.
type NewGameParams struct {
	PlayerName   string
	PlayerBio    string
	Archetype    string
	Vow          string
	Difficulty   world.Difficulty
	WorldAnswers []string
}

// TurnOutput is what the player-facing layer renders after one input.
type TurnOutput struct {
	Snapshot   *state.GameState
	Outcome    state.Outcome
	BrokenRule string
	KeyEvents  []string

	// LocalAnswer is set instead of a turn result when the input was a
	// status command answered from local state.
	LocalAnswer string
}

// Session owns one GameState exclusively. All reads and writes of the
// bundle go through its mutex; callers only ever see clones.
type Session struct {
	mu     sync.Mutex
	gs     *state.GameState
	phase  Phase
	oracle services.Oracle
	store  storage.Storage
	logger *slog.Logger

	// brokenRule is remembered from the defeat turn so that a restart can
	// record the echo even after the player has read the epilogue.
	brokenRule string

	summaries sync.WaitGroup
}

// New creates a fresh run: loads the echo log, asks the oracle to
// fabricate a nightmare, and seeds a new GameState from it.
func New(ctx context.Context, oracle services.Oracle, store storage.Storage, logger *slog.Logger, params NewGameParams) (*Session, error) {
	if !params.Difficulty.Valid() {
		params.Difficulty = world.DifficultyNormal
	}

	echoes, err := store.LoadEchoes(ctx)
	if err != nil {
		logger.Warn("Failed to load echoes, starting without them", "error", err)
		echoes = nil
	}

	archetype := findArchetype(params.Archetype)
	seed := prompts.WorldSeed{
		PlayerName:   params.PlayerName,
		PlayerBio:    params.PlayerBio,
		Archetype:    params.Archetype,
		Vow:          params.Vow,
		Difficulty:   params.Difficulty,
		Echoes:       echoes,
		WorldAnswers: params.WorldAnswers,
	}
	situation, err := oracle.GenerateWorld(ctx, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to generate world: %w", err)
	}

	gs := state.NewGameState(situation, params.PlayerName, params.PlayerBio,
		params.Archetype, params.Vow, archetype.Stats, params.Difficulty)

	return &Session{
		gs:     gs,
		phase:  PhaseAwaitingAction,
		oracle: oracle,
		store:  store,
		logger: logger.With("session_id", gs.ID.String()),
	}, nil
}

// Resume wraps a loaded save in a live session.
func Resume(gs *state.GameState, oracle services.Oracle, store storage.Storage, logger *slog.Logger) *Session {
	phase := PhaseAwaitingAction
	if gs.PendingAct != nil {
		phase = PhaseActTransition
	}
	return &Session{
		gs:     gs,
		phase:  phase,
		oracle: oracle,
		store:  store,
		logger: logger.With("session_id", gs.ID.String()),
	}
}

func findArchetype(name string) actor.Archetype {
	list := actor.Archetypes()
	for _, a := range list {
		if a.Name == name {
			return a
		}
	}
	return list[0]
}

// ID returns the run's stable identifier.
func (s *Session) ID() uuid.UUID {
	return s.gs.ID
}

// Phase returns the current turn-cycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// Snapshot returns a deep copy of the game state for rendering.
func (s *Session) Snapshot() (*state.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gs.Clone()
}

// ApplyAction resolves one player input. Status commands are answered
// locally; everything else goes to the oracle and, on success, commits
// through the turn worker. On oracle failure the state is untouched and
// the same action can simply be retried.
func (s *Session) ApplyAction(ctx context.Context, action string) (*TurnOutput, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return nil, ErrEmptyAction
	}

	s.mu.Lock()
	switch s.phase {
	case PhaseAwaitingAction:
	case PhaseResolving:
		s.mu.Unlock()
		return nil, ErrBusy
	default:
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrWrongPhase, s.phase)
	}

	if cmd := s.gs.TryHandleCommand(action); cmd.Handled {
		s.mu.Unlock()
		return &TurnOutput{LocalAnswer: cmd.Message}, nil
	}

	s.phase = PhaseResolving
	snapshot, err := s.gs.Clone()
	s.mu.Unlock()
	if err != nil {
		s.setPhase(PhaseAwaitingAction)
		return nil, err
	}

	proposal, err := s.oracle.ProposeTurn(ctx, snapshot, action)
	if err != nil {
		s.setPhase(PhaseAwaitingAction)
		s.logger.Error("Turn proposal failed", "error", err)
		return nil, fmt.Errorf("failed to resolve turn: %w", err)
	}

	s.mu.Lock()
	s.gs.StoryHistory = append(s.gs.StoryHistory, "> "+action)
	worker := state.NewTurnWorker(s.gs, proposal, action).WithLogger(s.logger)
	result := worker.Apply()
	sceneDescription := ""
	if s.gs.Scene != nil {
		sceneDescription = s.gs.Scene.Description
	}
	touched := s.touchedNPCs(result.TouchedNPCIDs)
	turnCount := s.gs.TurnCount
	s.mu.Unlock()

	if result.Outcome == state.OutcomeContinue && len(touched) > 0 {
		s.refineMinds(ctx, sceneDescription, action, touched)
	}

	s.mu.Lock()
	switch result.Outcome {
	case state.OutcomeContinue:
		s.phase = PhaseAwaitingAction
	case state.OutcomeActTransition:
		s.phase = PhaseActTransition
	case state.OutcomeDefeat:
		s.phase = PhaseDefeated
		s.brokenRule = result.BrokenRule
	case state.OutcomeVictory:
		s.phase = PhaseVictorious
	}
	out := &TurnOutput{
		Outcome:    result.Outcome,
		BrokenRule: result.BrokenRule,
		KeyEvents:  result.KeyEvents,
	}
	out.Snapshot, err = s.gs.Clone()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	switch result.Outcome {
	case state.OutcomeDefeat, state.OutcomeVictory:
		// The run is over; a stale save must not let the player resume
		// from before the ending. Echo recording stays with Restart.
		if err := s.store.DeleteGameState(ctx, out.Snapshot.ID); err != nil {
			s.logger.Warn("Failed to delete save after game over", "error", err)
		}
	case state.OutcomeContinue:
		if turnCount > 0 && turnCount%summaryEvery == 0 {
			s.spawnSummary(turnCount)
		}
	}
	return out, nil
}

// touchedNPCs resolves ids to NPC copies for the mind pass, outside of
// which the roster may keep changing.
func (s *Session) touchedNPCs(ids []string) []actor.NPC {
	var out []actor.NPC
	for _, id := range ids {
		if npc := s.gs.FindNPC(id); npc != nil {
			out = append(out, *npc)
		}
	}
	return out
}

// refineMinds runs the per-NPC psychology pass concurrently. A failed
// refinement degrades to a no-op for that NPC; the turn never fails here.
func (s *Session) refineMinds(ctx context.Context, sceneDescription, action string, npcs []actor.NPC) {
	deltas := make([]*actor.MindDelta, len(npcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, npc := range npcs {
		g.Go(func() error {
			delta, err := s.oracle.ProposeMindUpdate(gctx, services.MindContext{
				SceneDescription: sceneDescription,
				Action:           action,
				NPC:              npc,
			})
			if err != nil {
				s.logger.Warn("Mind update failed, keeping NPC as-is", "npc_id", npc.ID, "error", err)
				return nil
			}
			deltas[i] = delta
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, npc := range npcs {
		if target := s.gs.FindNPC(npc.ID); target != nil {
			target.ApplyMindDelta(deltas[i])
		}
	}
}

// spawnSummary condenses the trailing key events into one chronicle
// paragraph in the background. The turn that triggered it has already
// returned; a failure here only costs the chronicle entry.
func (s *Session) spawnSummary(turnCount int) {
	s.mu.Lock()
	events := s.gs.KeyEvents
	if len(events) > summaryWindow {
		events = events[len(events)-summaryWindow:]
	}
	window := make([]string, len(events))
	copy(window, events)
	s.mu.Unlock()

	if len(window) == 0 {
		return
	}

	s.summaries.Add(1)
	go func() {
		defer s.summaries.Done()
		summary, err := s.oracle.Summarize(context.Background(), window)
		if err != nil {
			s.logger.Warn("Chronicle summary failed", "turn", turnCount, "error", err)
			return
		}
		if summary == "" {
			return
		}
		s.mu.Lock()
		s.gs.LoreSummaries = append(s.gs.LoreSummaries, summary)
		s.mu.Unlock()
	}()
}

// ResumeAct commits a stashed chapter break: the new main quest takes
// effect and the newly revealed rules join the player's known set. The
// ground-truth rule list stays as generated.
func (s *Session) ResumeAct() (*state.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActTransition || s.gs.PendingAct == nil {
		return nil, fmt.Errorf("%w: no act transition pending", ErrWrongPhase)
	}
	act := s.gs.PendingAct
	if act.NewMainQuest != "" {
		s.gs.MainQuest = act.NewMainQuest
		s.gs.KeyEvents = append(s.gs.KeyEvents, fmt.Sprintf("Main quest updated: %q", act.NewMainQuest))
	}
	if known, added := world.AppendNew(s.gs.KnownRules, act.NewRules); len(added) > 0 {
		s.gs.KnownRules = known
		quoted := make([]string, len(added))
		for i, r := range added {
			quoted[i] = fmt.Sprintf("%q", r)
		}
		s.gs.KeyEvents = append(s.gs.KeyEvents, "Discovered new rules: "+strings.Join(quoted, ", "))
	}
	s.gs.PendingAct = nil
	s.phase = PhaseAwaitingAction
	return s.gs.Clone()
}

// Save persists the current bundle.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	snapshot, err := s.gs.Clone()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.store.SaveGameState(ctx, snapshot.ID, snapshot)
}

// Restart records the fatal rule in the echo log and deletes the save.
// Only meaningful after a defeat; after a victory it just clears the save.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	brokenRule := s.brokenRule
	id := s.gs.ID
	s.mu.Unlock()

	if brokenRule != "" {
		echoes, err := s.store.LoadEchoes(ctx)
		if err != nil {
			s.logger.Warn("Failed to load echoes before restart", "error", err)
			echoes = nil
		}
		echoes = state.PushEcho(echoes, brokenRule)
		if err := s.store.SaveEchoes(ctx, echoes); err != nil {
			s.logger.Error("Failed to record echo", "error", err)
		}
	}
	return s.store.DeleteGameState(ctx, id)
}

// Wait blocks until background chronicle passes have finished.
func (s *Session) Wait() {
	s.summaries.Wait()
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}
