package services

import (
	"context"
	"sync"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/prompts"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

// MockOracle is a test double for the Oracle interface. Behavior is
// overridden per call via the Func fields; calls are tracked for
// assertions.
type MockOracle struct {
	GenerateWorldFunc     func(ctx context.Context, seed prompts.WorldSeed) (*world.InitialSituation, error)
	ProposeTurnFunc       func(ctx context.Context, gs *state.GameState, action string) (*state.TurnProposal, error)
	ProposeMindUpdateFunc func(ctx context.Context, mc MindContext) (*actor.MindDelta, error)
	SummarizeFunc         func(ctx context.Context, events []string) (string, error)

	mu             sync.Mutex
	WorldCalls     []prompts.WorldSeed
	TurnCalls      []string
	MindCalls      []MindContext
	SummarizeCalls [][]string
}

var _ Oracle = (*MockOracle)(nil)

func NewMockOracle() *MockOracle {
	return &MockOracle{}
}

func (m *MockOracle) GenerateWorld(ctx context.Context, seed prompts.WorldSeed) (*world.InitialSituation, error) {
	m.mu.Lock()
	m.WorldCalls = append(m.WorldCalls, seed)
	m.mu.Unlock()
	if m.GenerateWorldFunc != nil {
		return m.GenerateWorldFunc(ctx, seed)
	}
	return &world.InitialSituation{
		Description: "A mock nightmare.",
		FirstScene:  world.FirstScene{Description: "It begins.", Choices: []string{"Wait"}},
	}, nil
}

func (m *MockOracle) ProposeTurn(ctx context.Context, gs *state.GameState, action string) (*state.TurnProposal, error) {
	m.mu.Lock()
	m.TurnCalls = append(m.TurnCalls, action)
	m.mu.Unlock()
	if m.ProposeTurnFunc != nil {
		return m.ProposeTurnFunc(ctx, gs, action)
	}
	return &state.TurnProposal{SceneDescription: "Nothing happens."}, nil
}

func (m *MockOracle) ProposeMindUpdate(ctx context.Context, mc MindContext) (*actor.MindDelta, error) {
	m.mu.Lock()
	m.MindCalls = append(m.MindCalls, mc)
	m.mu.Unlock()
	if m.ProposeMindUpdateFunc != nil {
		return m.ProposeMindUpdateFunc(ctx, mc)
	}
	return &actor.MindDelta{}, nil
}

func (m *MockOracle) Summarize(ctx context.Context, events []string) (string, error) {
	m.mu.Lock()
	m.SummarizeCalls = append(m.SummarizeCalls, events)
	m.mu.Unlock()
	if m.SummarizeFunc != nil {
		return m.SummarizeFunc(ctx, events)
	}
	return "A mock summary.", nil
}

// TurnCallCount returns how many turn proposals were requested.
func (m *MockOracle) TurnCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.TurnCalls)
}

// SummarizeCallCount returns how many summaries were requested.
func (m *MockOracle) SummarizeCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SummarizeCalls)
}
