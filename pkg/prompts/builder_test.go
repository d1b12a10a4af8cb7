package prompts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

func TestBuildWorldPrompt(t *testing.T) {
	prompt := BuildWorldPrompt(WorldSeed{
		PlayerName: "Linh",
		Archetype:  "Cautious Investigator",
		Vow:        "Search for a loved one",
		Difficulty: world.DifficultyHard,
		Echoes:     []string{"Never speak after midnight"},
	})

	assert.Contains(t, prompt, "Linh")
	assert.Contains(t, prompt, "Cautious Investigator")
	assert.Contains(t, prompt, "Search for a loved one")
	assert.Contains(t, prompt, "hard")
	assert.Contains(t, prompt, `"Never speak after midnight"`)
}

func TestBuildWorldPrompt_NoEchoSectionWhenEmpty(t *testing.T) {
	prompt := BuildWorldPrompt(WorldSeed{PlayerName: "Linh", Difficulty: world.DifficultyEasy})
	assert.NotContains(t, prompt, "Echoes")
}

func TestBuildTurnPrompt_CarriesHiddenRules(t *testing.T) {
	gs := &state.GameState{
		Situation: &world.InitialSituation{
			AllRules: []string{"known rule", "hidden rule"},
		},
		KnownRules:   []string{"known rule"},
		StoryHistory: []string{"The hallway.", "> look"},
		MainQuest:    "Survive.",
		Difficulty:   world.DifficultyNormal,
	}

	prompt, err := BuildTurnPrompt(gs, "open the door")
	require.NoError(t, err)
	assert.Contains(t, prompt, "hidden rule")
	assert.Contains(t, prompt, "Player action: open the door")
	assert.Contains(t, prompt, "The hallway.")
}

func TestBuildTurnPrompt_WindowsHistory(t *testing.T) {
	gs := &state.GameState{Difficulty: world.DifficultyNormal}
	for i := 0; i < HistoryWindow+5; i++ {
		gs.StoryHistory = append(gs.StoryHistory, fmt.Sprintf("entry-%d", i))
	}

	prompt, err := BuildTurnPrompt(gs, "wait")
	require.NoError(t, err)
	assert.NotContains(t, prompt, "entry-0\n")
	assert.Contains(t, prompt, fmt.Sprintf("entry-%d", HistoryWindow+4))
	assert.Equal(t, HistoryWindow, strings.Count(prompt, "entry-"))
}

func TestBuildMindPrompt(t *testing.T) {
	npc := actor.NPC{ID: "npc-1", Name: "Bà Hằng", Goal: "Keep the gate shut."}
	prompt, err := BuildMindPrompt("The gate creaks open.", "push the gate", npc)
	require.NoError(t, err)
	assert.Contains(t, prompt, "You are Bà Hằng.")
	assert.Contains(t, prompt, "The gate creaks open.")
	assert.Contains(t, prompt, "push the gate")
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := BuildSummaryPrompt([]string{"Found an item: Candle.", "Minh has died: thực thể"})
	assert.Contains(t, prompt, "- Found an item: Candle.")
	assert.Contains(t, prompt, "- Minh has died: thực thể")
}
