package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

// HistoryWindow bounds how much story history rides along on a turn prompt.
const HistoryWindow = 20

// WorldSeed carries everything the world-generation prompt needs.
type WorldSeed struct {
	PlayerName   string
	PlayerBio    string
	Archetype    string
	Vow          string
	Difficulty   world.Difficulty
	Echoes       []string
	WorldAnswers []string
}

// BuildWorldPrompt renders the user portion of the world-generation call.
func BuildWorldPrompt(seed WorldSeed) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Player: %s (%s)\n", seed.PlayerName, seed.Archetype)
	if seed.PlayerBio != "" {
		fmt.Fprintf(&b, "Background: %s\n", seed.PlayerBio)
	}
	if seed.Vow != "" {
		fmt.Fprintf(&b, "Why they came here: %s\n", seed.Vow)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", seed.Difficulty)
	if len(seed.Echoes) > 0 {
		b.WriteString("\nEchoes of previous deaths in this nightmare. Weave one or more of these broken rules into the new world, changed or half-remembered:\n")
		for _, e := range seed.Echoes {
			fmt.Fprintf(&b, "- %q\n", e)
		}
	}
	if len(seed.WorldAnswers) > 0 {
		b.WriteString("\nThe player has already answered the questions that shape this place. Build the world around these truths:\n")
		for _, a := range seed.WorldAnswers {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	return b.String()
}

// turnState is the compact state snapshot sent along with a turn prompt.
// It carries the hidden rule set, which the oracle needs and the player
// never sees.
type turnState struct {
	Stats      actor.PlayerStats `json:"stats"`
	KnownRules []string          `json:"known_rules,omitempty"`
	AllRules   []string          `json:"all_rules,omitempty"`
	Inventory  []state.Item      `json:"inventory,omitempty"`
	NPCs       []actor.NPC       `json:"npcs,omitempty"`
	Survivors  []actor.Survivor  `json:"survivors,omitempty"`
	World      world.State       `json:"world_state,omitempty"`
	MainQuest  string            `json:"main_quest,omitempty"`
	SideQuests []string          `json:"side_quests,omitempty"`
	KnownClues []string          `json:"known_clues,omitempty"`
	Summaries  []string          `json:"journal_summaries,omitempty"`
	TurnCount  int               `json:"turn_count"`
	Difficulty world.Difficulty  `json:"difficulty"`
}

// BuildTurnPrompt renders the user portion of a next-turn call: windowed
// history, the full state snapshot, and the player's action.
func BuildTurnPrompt(gs *state.GameState, action string) (string, error) {
	snapshot := turnState{
		Stats:      gs.Stats,
		KnownRules: gs.KnownRules,
		Inventory:  gs.Inventory,
		NPCs:       gs.NPCs,
		Survivors:  gs.Survivors,
		World:      gs.World,
		MainQuest:  gs.MainQuest,
		SideQuests: gs.SideQuests,
		KnownClues: gs.KnownClues,
		Summaries:  gs.LoreSummaries,
		TurnCount:  gs.TurnCount,
		Difficulty: gs.Difficulty,
	}
	if gs.Situation != nil {
		snapshot.AllRules = gs.Situation.AllRules
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal turn state: %w", err)
	}

	history := gs.StoryHistory
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	var b strings.Builder
	b.WriteString("Recent story:\n")
	for _, h := range history {
		b.WriteString(h)
		b.WriteString("\n")
	}
	b.WriteString("\nGame state:\n```json\n")
	b.Write(data)
	b.WriteString("\n```\n")
	fmt.Fprintf(&b, "\nPlayer action: %s\n", action)
	return b.String(), nil
}

// BuildMindPrompt renders the user portion of a per-NPC mind-update call.
func BuildMindPrompt(sceneDescription, action string, npc actor.NPC) (string, error) {
	data, err := json.Marshal(npc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal npc: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", npc.Name)
	b.WriteString("Your current record:\n```json\n")
	b.Write(data)
	b.WriteString("\n```\n\n")
	fmt.Fprintf(&b, "What just happened: %s\n", sceneDescription)
	fmt.Fprintf(&b, "What the player did: %s\n", action)
	return b.String(), nil
}

// BuildSummaryPrompt renders the user portion of a chronicle-summary call.
func BuildSummaryPrompt(events []string) string {
	var b strings.Builder
	b.WriteString("Events to condense:\n")
	for _, e := range events {
		fmt.Fprintf(&b, "- %s\n", e)
	}
	return b.String()
}
