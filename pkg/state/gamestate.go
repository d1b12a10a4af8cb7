package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/world"
)

// DefaultMainQuest seeds the quest log when the oracle does not provide one.
const DefaultMainQuest = "Survive and find out what is happening."

// Item is an inventory entry. The inventory is a set keyed by Name.
type Item struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Scene is the player-facing current scene.
type Scene struct {
	Description        string   `json:"scene_description"`
	Choices            []string `json:"choices,omitempty"`
	Hallucination      string   `json:"hallucination,omitempty"`
	InteractableNPCIDs []string `json:"interactable_npc_ids,omitempty"`
}

// GameState is the full save-game bundle for one run. It is owned
// exclusively by the session controller; persistence reads a snapshot or
// replaces the bundle wholesale, never partially.
type GameState struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	PlayerName      string            `json:"player_name"`
	PlayerBio       string            `json:"player_bio,omitempty"`
	PlayerArchetype string            `json:"player_archetype,omitempty"`
	PlayerVow       string            `json:"player_vow,omitempty"`
	Difficulty      world.Difficulty  `json:"difficulty"`
	Stats           actor.PlayerStats `json:"stats"`

	// Situation is the immutable initial-situation record; the hidden
	// AllRules inside it are the ground truth for the whole run.
	Situation *world.InitialSituation `json:"situation"`

	Scene        *Scene   `json:"scene,omitempty"`
	StoryHistory []string `json:"story_history,omitempty"`

	KnownRules     []string `json:"known_rules,omitempty"`
	Inventory      []Item   `json:"inventory,omitempty"`
	DiscoveredLore []string `json:"discovered_lore,omitempty"`
	LoreEntries    []string `json:"lore_entries,omitempty"`
	LoreSummaries  []string `json:"lore_summaries,omitempty"`

	NPCs      []actor.NPC      `json:"npcs,omitempty"`
	Survivors []actor.Survivor `json:"survivors,omitempty"`
	World     world.State      `json:"world_state,omitempty"`

	MainQuest  string   `json:"main_quest,omitempty"`
	SideQuests []string `json:"side_quests,omitempty"`
	KnownClues []string `json:"known_clues,omitempty"`

	KeyEvents []string `json:"key_events,omitempty"`
	TurnCount int      `json:"turn_count"`

	// PendingAct holds a stashed act-transition payload between the
	// chapter-break scene and the player's resume.
	PendingAct *ActTransition `json:"pending_act,omitempty"`
}

// NewGameState seeds a fresh run from a generated situation. Only NPCs the
// first scene introduces enter the visible roster, concealed; the survivor
// roster is the situation's fixed set plus all NPC names.
func NewGameState(situation *world.InitialSituation, playerName, playerBio, archetype, vow string, stats actor.PlayerStats, difficulty world.Difficulty) *GameState {
	now := time.Now()
	gs := &GameState{
		ID:              uuid.New(),
		CreatedAt:       now,
		UpdatedAt:       now,
		PlayerName:      playerName,
		PlayerBio:       playerBio,
		PlayerArchetype: archetype,
		PlayerVow:       vow,
		Difficulty:      difficulty,
		Stats:           stats,
		Situation:       situation,
		MainQuest:       DefaultMainQuest,
	}
	if situation == nil {
		return gs
	}

	gs.KnownRules, _ = world.AppendNew(nil, situation.Rules)
	if situation.MainQuest != "" {
		gs.MainQuest = world.NFC(situation.MainQuest)
	}
	if len(situation.WorldState) > 0 {
		gs.World = make(world.State, len(situation.WorldState))
		gs.World.Merge(situation.WorldState)
	}

	for _, id := range situation.FirstScene.IntroducedNPCIDs {
		for _, npc := range situation.NPCs {
			if npc.ID == id {
				gs.NPCs = append(gs.NPCs, npc.Concealed())
				break
			}
		}
	}

	for _, name := range situation.Survivors {
		if actor.FindSurvivor(gs.Survivors, name) == -1 {
			gs.Survivors = append(gs.Survivors, actor.Survivor{Name: name, Status: actor.SurvivorAlive})
		}
	}
	for _, npc := range situation.NPCs {
		if actor.FindSurvivor(gs.Survivors, npc.Name) == -1 {
			gs.Survivors = append(gs.Survivors, actor.Survivor{Name: npc.Name, Status: actor.SurvivorAlive})
		}
	}

	gs.Scene = &Scene{
		Description: situation.FirstScene.Description,
		Choices:     situation.FirstScene.Choices,
	}
	gs.StoryHistory = []string{situation.Description, situation.FirstScene.Description}
	return gs
}

// FindNPC returns the NPC with the given id, or nil.
func (gs *GameState) FindNPC(id string) *actor.NPC {
	for i := range gs.NPCs {
		if gs.NPCs[i].ID == id {
			return &gs.NPCs[i]
		}
	}
	return nil
}

// HasItem reports whether an inventory item with the exact name exists.
func (gs *GameState) HasItem(name string) bool {
	for _, item := range gs.Inventory {
		if item.Name == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the bundle via its JSON form, for handing
// snapshots out of the session without sharing slices or maps.
func (gs *GameState) Clone() (*GameState, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal gamestate: %w", err)
	}
	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gamestate: %w", err)
	}
	return &out, nil
}
