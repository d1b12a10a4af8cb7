package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/prompts"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiOracle implements Oracle on top of Google's generative language API.
type GeminiOracle struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

var _ Oracle = (*GeminiOracle)(nil)

// NewGeminiOracle creates an oracle bound to the given API key and model.
// Extra client options are passed through, which lets tests target a
// local server.
func NewGeminiOracle(ctx context.Context, apiKey, modelName string, logger *slog.Logger, opts ...option.ClientOption) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiOracle{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (g *GeminiOracle) Close() error {
	return g.client.Close()
}

// generate runs one completion with a system prompt and returns the raw
// text of the first candidate. A fresh model value is built per call so
// that overlapping calls (mind fan-out, background summaries) never share
// a system instruction.
func (g *GeminiOracle) generate(ctx context.Context, system, user string) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("oracle call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("oracle returned no content")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("oracle returned unexpected content type")
	}
	return string(text), nil
}

// decodeJSON strips markdown code fences and decodes into out.
func decodeJSON(raw string, out any) error {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("failed to parse oracle response: %w", err)
	}
	return nil
}

// initialSituationWire matches the world-generation response, with
// world-state values still string-encoded.
type initialSituationWire struct {
	Description string           `json:"situation_description"`
	Lore        world.Lore       `json:"world_lore"`
	RulesSource string           `json:"rules_source"`
	Rules       []string         `json:"rules"`
	AllRules    []string         `json:"all_rules"`
	MainQuest   string           `json:"main_quest"`
	NPCs        []actor.NPC      `json:"npcs"`
	Survivors   []string         `json:"survivors"`
	WorldState  []world.KeyValue `json:"world_state"`
	FirstScene  world.FirstScene `json:"first_scene"`
}

func (g *GeminiOracle) GenerateWorld(ctx context.Context, seed prompts.WorldSeed) (*world.InitialSituation, error) {
	raw, err := g.generate(ctx, prompts.WorldSystemPrompt, prompts.BuildWorldPrompt(seed))
	if err != nil {
		return nil, err
	}
	var wire initialSituationWire
	if err := decodeJSON(raw, &wire); err != nil {
		return nil, err
	}
	situation := &world.InitialSituation{
		Description: wire.Description,
		Lore:        wire.Lore,
		RulesSource: wire.RulesSource,
		Rules:       world.NFCAll(wire.Rules),
		AllRules:    world.NFCAll(wire.AllRules),
		MainQuest:   wire.MainQuest,
		NPCs:        wire.NPCs,
		Survivors:   wire.Survivors,
		WorldState:  world.CoercePairs(wire.WorldState),
		FirstScene:  wire.FirstScene,
	}
	g.logger.Debug("World generated",
		"rules", len(situation.AllRules),
		"npcs", len(situation.NPCs),
		"survivors", len(situation.Survivors))
	return situation, nil
}

func (g *GeminiOracle) ProposeTurn(ctx context.Context, gs *state.GameState, action string) (*state.TurnProposal, error) {
	user, err := prompts.BuildTurnPrompt(gs, action)
	if err != nil {
		return nil, err
	}
	raw, err := g.generate(ctx, prompts.TurnSystemPrompt, user)
	if err != nil {
		return nil, err
	}
	var proposal state.TurnProposal
	if err := decodeJSON(raw, &proposal); err != nil {
		return nil, err
	}
	proposal.Normalize()
	return &proposal, nil
}

func (g *GeminiOracle) ProposeMindUpdate(ctx context.Context, mc MindContext) (*actor.MindDelta, error) {
	user, err := prompts.BuildMindPrompt(mc.SceneDescription, mc.Action, mc.NPC)
	if err != nil {
		return nil, err
	}
	raw, err := g.generate(ctx, prompts.MindSystemPrompt, user)
	if err != nil {
		return nil, err
	}
	var delta actor.MindDelta
	if err := decodeJSON(raw, &delta); err != nil {
		return nil, err
	}
	return &delta, nil
}

func (g *GeminiOracle) Summarize(ctx context.Context, events []string) (string, error) {
	raw, err := g.generate(ctx, prompts.SummarySystemPrompt, prompts.BuildSummaryPrompt(events))
	if err != nil {
		return "", err
	}
	var wire struct {
		Summary string `json:"summary"`
	}
	if err := decodeJSON(raw, &wire); err != nil {
		return "", err
	}
	return wire.Summary, nil
}
