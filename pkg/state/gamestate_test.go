package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/world"
)

func TestNewGameState_Seeding(t *testing.T) {
	gs := testState()

	assert.NotEqual(t, "", gs.ID.String())
	assert.Equal(t, "Linh", gs.PlayerName)
	assert.Equal(t, "Find the night nurse's logbook.", gs.MainQuest)
	assert.Equal(t, []string{"Do not enter room 307."}, gs.KnownRules)
	assert.Equal(t, 0, gs.TurnCount)

	// Only introduced NPCs enter the roster, concealed
	require.Len(t, gs.NPCs, 1)
	assert.Equal(t, actor.ConcealedName, gs.NPCs[0].Name)
	assert.Equal(t, "clinical", gs.NPCs[0].Personality)

	// Survivors: the fixed set plus every NPC's real name
	assert.NotEqual(t, -1, actor.FindSurvivor(gs.Survivors, "Minh"))
	assert.NotEqual(t, -1, actor.FindSurvivor(gs.Survivors, "Bác sĩ Quang"))

	require.NotNil(t, gs.Scene)
	assert.Equal(t, []string{
		"An old French-colonial hospital, long condemned.",
		"The reception desk is still staffed. Nobody is behind it.",
	}, gs.StoryHistory)
}

func TestNewGameState_DefaultMainQuest(t *testing.T) {
	situation := &world.InitialSituation{Description: "Somewhere dark."}
	gs := NewGameState(situation, "Linh", "", "", "", actor.PlayerStats{}, world.DifficultyEasy)
	assert.Equal(t, DefaultMainQuest, gs.MainQuest)
}

func TestClone_IsDeep(t *testing.T) {
	gs := testState()
	gs.Inventory = []Item{{Name: "Candle"}}

	clone, err := gs.Clone()
	require.NoError(t, err)

	clone.Inventory[0].Name = "Changed"
	clone.KnownRules = append(clone.KnownRules, "extra")
	assert.Equal(t, "Candle", gs.Inventory[0].Name)
	assert.Len(t, gs.KnownRules, 1)
}

func TestHasItemAndFindNPC(t *testing.T) {
	gs := testState()
	gs.Inventory = []Item{{Name: "Candle"}}

	assert.True(t, gs.HasItem("Candle"))
	assert.False(t, gs.HasItem("candle"))
	assert.NotNil(t, gs.FindNPC("npc-1"))
	assert.Nil(t, gs.FindNPC("npc-404"))
}

func TestTurnProposal_SparseDecode(t *testing.T) {
	// Absent fields stay nil so the reducer can tell "no instruction"
	// from "set to empty"
	var p TurnProposal
	require.NoError(t, json.Unmarshal([]byte(`{"scene_description": "A hallway."}`), &p))
	assert.Nil(t, p.IsGameOver)
	assert.Nil(t, p.StatChanges)
	assert.Nil(t, p.NewItem)
	assert.Nil(t, p.ActTransition)
	assert.False(t, p.GameOver())
	assert.False(t, p.Victory())

	var q TurnProposal
	require.NoError(t, json.Unmarshal([]byte(`{"is_game_over": false}`), &q))
	require.NotNil(t, q.IsGameOver)
	assert.False(t, q.GameOver())
}

func TestTurnProposal_Normalize(t *testing.T) {
	// Decomposed "ồ" (o + combining marks) normalizes to the composed form
	decomposed := "khồng"
	composed := "khồng"

	p := TurnProposal{NewRules: []string{decomposed}, BrokenRule: decomposed}
	p.Normalize()
	assert.Equal(t, composed, p.NewRules[0])
	assert.Equal(t, composed, p.BrokenRule)
}
