package world

import "github.com/voidecho/engine/pkg/actor"

// Difficulty selects one of the three oracle tunings. The engine threads it
// through to the oracle unchanged; it never branches on it.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// Lore is the hidden truth of the generated world. It is fixed at
// generation time and never mutated.
type Lore struct {
	WhatItWas         string `json:"what_it_was"`
	WhatHappened      string `json:"what_happened"`
	EntityName        string `json:"entity_name"`
	EntityDescription string `json:"entity_description"`
	EntityMotivation  string `json:"entity_motivation"`
	RulesOrigin       string `json:"rules_origin"`
	MainSymbol        string `json:"main_symbol"`
}

// FirstScene is the opening scene of a freshly generated world.
type FirstScene struct {
	Description      string   `json:"scene_description"`
	Choices          []string `json:"choices,omitempty"`
	IntroducedNPCIDs []string `json:"introduced_npc_ids,omitempty"`
}

// InitialSituation is the immutable world record the oracle produces at
// game start. AllRules is the fixed ground truth the player can violate
// even unknowingly; Rules is the initially known subset.
type InitialSituation struct {
	Description string      `json:"situation_description"`
	Lore        Lore        `json:"world_lore"`
	RulesSource string      `json:"rules_source"`
	Rules       []string    `json:"rules,omitempty"`
	AllRules    []string    `json:"all_rules,omitempty"`
	MainQuest   string      `json:"main_quest,omitempty"`
	NPCs        []actor.NPC `json:"npcs,omitempty"`
	Survivors   []string    `json:"survivors,omitempty"`
	WorldState  State       `json:"world_state,omitempty"`
	FirstScene  FirstScene  `json:"first_scene"`
}
