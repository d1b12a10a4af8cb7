package state

import (
	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/world"
)

// NPCUpdate is a per-existing-NPC partial overlay keyed by id. Empty
// fields mean "no instruction"; Trust is a pointer so that zero is
// distinguishable from absent.
type NPCUpdate struct {
	ID            string         `json:"id"`
	Name          string         `json:"name,omitempty"`
	State         actor.NPCState `json:"state,omitempty"`
	Description   string         `json:"description,omitempty"`
	Goal          string         `json:"goal,omitempty"`
	CurrentStatus string         `json:"current_status,omitempty"`
	Trust         *int           `json:"trust,omitempty"`
}

// SurvivorUpdate is a status delta for one roster member, by name.
type SurvivorUpdate struct {
	Name      string               `json:"name"`
	NewStatus actor.SurvivorStatus `json:"new_status"`
	Reason    string               `json:"reason,omitempty"`
}

// ActTransition is a chapter-break payload. When a proposal carries one,
// its own fields replace the normal delta application for that turn.
type ActTransition struct {
	Title        string   `json:"title,omitempty"`
	Narrative    string   `json:"narrative"`
	NewMainQuest string   `json:"new_main_quest,omitempty"`
	NewRules     []string `json:"new_rules,omitempty"`
}

// TurnProposal is the oracle's sparse answer to "what happens as a result
// of this action". Every field may be absent, meaning "no change"; the
// reducer must never read an absent field as "set to empty". Optional
// booleans are pointers so absent and false stay distinguishable.
type TurnProposal struct {
	SceneDescription string   `json:"scene_description,omitempty"`
	Choices          []string `json:"choices,omitempty"`

	IsGameOver   *bool  `json:"is_game_over,omitempty"`
	GameOverText string `json:"game_over_text,omitempty"`
	BrokenRule   string `json:"broken_rule,omitempty"`
	IsVictory    *bool  `json:"is_victory,omitempty"`
	VictoryText  string `json:"victory_text,omitempty"`

	StatChanges *actor.StatDelta `json:"stat_changes,omitempty"`

	NewRules []string `json:"new_rules,omitempty"`

	NewItem     *Item    `json:"new_item,omitempty"`
	ItemsUsed   []string `json:"items_used,omitempty"`
	ItemsBroken []string `json:"items_broken,omitempty"`

	NewLoreSnippet string   `json:"new_lore_snippet,omitempty"`
	NewLoreEntries []string `json:"new_lore_entries,omitempty"`

	WorldStateChanges []world.KeyValue `json:"world_state_changes,omitempty"`

	MainQuestUpdate string   `json:"main_quest_update,omitempty"`
	NewSideQuests   []string `json:"new_side_quests,omitempty"`
	CompletedQuests []string `json:"completed_quests,omitempty"`
	NewClues        []string `json:"new_clues,omitempty"`

	NewNPCs         []actor.NPC      `json:"new_npcs,omitempty"`
	NPCUpdates      []NPCUpdate      `json:"npc_updates,omitempty"`
	SurvivorUpdates []SurvivorUpdate `json:"survivor_updates,omitempty"`

	ActTransition *ActTransition `json:"act_transition,omitempty"`
	Hallucination string         `json:"hallucination,omitempty"`

	InteractableNPCIDs []string `json:"interactable_npc_ids,omitempty"`
}

// GameOver reports whether the proposal declares a defeat.
func (p *TurnProposal) GameOver() bool {
	return p.IsGameOver != nil && *p.IsGameOver
}

// Victory reports whether the proposal declares a victory.
func (p *TurnProposal) Victory() bool {
	return p.IsVictory != nil && *p.IsVictory
}

// Normalize NFC-normalizes every string that participates in exact-match
// dedup downstream. Called once at the oracle boundary, right after decode.
func (p *TurnProposal) Normalize() {
	p.NewRules = world.NFCAll(p.NewRules)
	p.NewLoreEntries = world.NFCAll(p.NewLoreEntries)
	p.NewSideQuests = world.NFCAll(p.NewSideQuests)
	p.CompletedQuests = world.NFCAll(p.CompletedQuests)
	p.NewClues = world.NFCAll(p.NewClues)
	p.BrokenRule = world.NFC(p.BrokenRule)
	p.MainQuestUpdate = world.NFC(p.MainQuestUpdate)
	if p.ActTransition != nil {
		p.ActTransition.NewRules = world.NFCAll(p.ActTransition.NewRules)
		p.ActTransition.NewMainQuest = world.NFC(p.ActTransition.NewMainQuest)
	}
}
