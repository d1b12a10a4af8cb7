package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/state"
)

// Checks an exported save file for structural problems before it is
// imported back into Redis. Useful when a player mails in a broken save.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <save.json>\n", os.Args[0])
		os.Exit(1)
	}

	filename := os.Args[1]
	validator := &SaveValidator{}

	if err := validator.validateFile(filename); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Save file is valid!")
}

type SaveValidator struct {
	errors []string
}

func (v *SaveValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return fmt.Errorf("file %s failed to unmarshal as a save: %w", filename, err)
	}

	v.validateSave(&gs)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *SaveValidator) errorf(format string, args ...any) {
	v.errors = append(v.errors, fmt.Sprintf(format, args...))
}

func (v *SaveValidator) validateSave(gs *state.GameState) {
	if gs.ID == uuid.Nil {
		v.errorf("save has no game ID")
	}
	if gs.PlayerName == "" {
		v.errorf("save has no player name")
	}
	if gs.Situation == nil {
		v.errorf("save has no initial situation")
	}
	if gs.TurnCount < 0 {
		v.errorf("turn_count is negative: %d", gs.TurnCount)
	}

	if gs.Stats.Stamina < 0 || gs.Stats.Stealth < 0 {
		v.errorf("stats fell below zero: stamina=%d stealth=%d", gs.Stats.Stamina, gs.Stats.Stealth)
	}
	if gs.Stats.MentalPollution < 0 || gs.Stats.MentalPollution > actor.MaxMentalPollution {
		v.errorf("mental_pollution out of range: %d", gs.Stats.MentalPollution)
	}

	v.validateUnique("known_rules", gs.KnownRules)
	v.validateUnique("side_quests", gs.SideQuests)
	v.validateUnique("known_clues", gs.KnownClues)
	v.validateUnique("lore_entries", gs.LoreEntries)

	seenItems := make(map[string]bool)
	for _, item := range gs.Inventory {
		if item.Name == "" {
			v.errorf("inventory item has no name")
			continue
		}
		if seenItems[item.Name] {
			v.errorf("duplicate inventory item: %q", item.Name)
		}
		seenItems[item.Name] = true
	}

	seenNPCs := make(map[string]bool)
	for _, npc := range gs.NPCs {
		if npc.ID == "" {
			v.errorf("NPC %q has no id", npc.Name)
			continue
		}
		if seenNPCs[npc.ID] {
			v.errorf("duplicate NPC id: %q", npc.ID)
		}
		seenNPCs[npc.ID] = true
		if npc.Trust < 0 || npc.Trust > 100 {
			v.errorf("NPC %q trust out of range: %d", npc.ID, npc.Trust)
		}
	}

	seenSurvivors := make(map[string]bool)
	for _, s := range gs.Survivors {
		if s.Name == "" {
			v.errorf("survivor with empty name")
			continue
		}
		if seenSurvivors[s.Name] {
			v.errorf("duplicate survivor: %q", s.Name)
		}
		seenSurvivors[s.Name] = true
		switch s.Status {
		case actor.SurvivorAlive, actor.SurvivorInjured, actor.SurvivorPanicked, actor.SurvivorDead:
		default:
			v.errorf("survivor %q has unknown status %q", s.Name, s.Status)
		}
	}

	if !gs.Difficulty.Valid() {
		v.errorf("unknown difficulty: %q", gs.Difficulty)
	}
}

func (v *SaveValidator) validateUnique(field string, list []string) {
	seen := make(map[string]bool)
	for _, entry := range list {
		if seen[entry] {
			v.errorf("duplicate entry in %s: %q", field, entry)
		}
		seen[entry] = true
	}
}
