package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/world"
)

func testState() *GameState {
	situation := &world.InitialSituation{
		Description: "An old French-colonial hospital, long condemned.",
		Rules:       []string{"Do not enter room 307."},
		AllRules:    []string{"Do not enter room 307.", "Never speak after midnight."},
		MainQuest:   "Find the night nurse's logbook.",
		NPCs: []actor.NPC{
			{ID: "npc-1", Name: "Bác sĩ Quang", Personality: "clinical", State: actor.NPCNeutral},
		},
		Survivors: []string{"Minh"},
		FirstScene: world.FirstScene{
			Description:      "The reception desk is still staffed. Nobody is behind it.",
			Choices:          []string{"Ring the bell", "Walk past"},
			IntroducedNPCIDs: []string{"npc-1"},
		},
	}
	return NewGameState(situation, "Linh", "", "Cautious Investigator", "Unravel the mystery",
		actor.PlayerStats{Stamina: 8, Stealth: 10}, world.DifficultyNormal)
}

func apply(gs *GameState, p *TurnProposal) *TurnResult {
	return NewTurnWorker(gs, p, "test action").Apply()
}

func TestApply_EmptyProposalIsNoOp(t *testing.T) {
	gs := testState()
	before := gs.Stats
	result := apply(gs, &TurnProposal{})

	assert.Equal(t, OutcomeContinue, result.Outcome)
	assert.Equal(t, 1, gs.TurnCount)
	assert.Equal(t, before, gs.Stats)
	assert.Empty(t, result.KeyEvents)
}

func TestApply_StatClamping(t *testing.T) {
	gs := testState()
	gs.Stats.MentalPollution = 95

	apply(gs, &TurnProposal{StatChanges: &actor.StatDelta{MentalPollution: 20, Stamina: -50}})

	assert.Equal(t, actor.MaxMentalPollution, gs.Stats.MentalPollution)
	assert.Equal(t, 0, gs.Stats.Stamina)
}

func TestApply_RulesAppendOnlyAndDedup(t *testing.T) {
	gs := testState()

	result := apply(gs, &TurnProposal{
		NewRules: []string{"Do not enter room 307.", "Count the stairs on the way down."},
	})

	assert.Equal(t, []string{"Do not enter room 307.", "Count the stairs on the way down."}, gs.KnownRules)
	require.Len(t, result.KeyEvents, 1)
	assert.Equal(t, `Discovered new rules: "Count the stairs on the way down."`, result.KeyEvents[0])

	// All duplicates: no growth, no event
	result = apply(gs, &TurnProposal{NewRules: []string{"Do not enter room 307."}})
	assert.Len(t, gs.KnownRules, 2)
	assert.Empty(t, result.KeyEvents)
}

func TestApply_ItemAddIsIdempotent(t *testing.T) {
	gs := testState()
	item := &Item{Name: "Rusted key", Description: "Stamped 307."}

	result := apply(gs, &TurnProposal{NewItem: item})
	require.Len(t, gs.Inventory, 1)
	assert.Equal(t, []string{"Found an item: Rusted key."}, result.KeyEvents)

	result = apply(gs, &TurnProposal{NewItem: item})
	assert.Len(t, gs.Inventory, 1)
	assert.Empty(t, result.KeyEvents)
}

func TestApply_ItemUseAndBreak(t *testing.T) {
	gs := testState()
	gs.Inventory = []Item{{Name: "Candle"}, {Name: "Mirror shard"}}

	result := apply(gs, &TurnProposal{
		ItemsUsed:   []string{"Candle", "Not carried"},
		ItemsBroken: []string{"Mirror shard"},
	})

	assert.Empty(t, gs.Inventory)
	assert.Equal(t, []string{"Used an item: Candle.", "An item broke: Mirror shard."}, result.KeyEvents)
}

func TestApply_SurvivorDeathIsTerminal(t *testing.T) {
	gs := testState()

	result := apply(gs, &TurnProposal{
		SurvivorUpdates: []SurvivorUpdate{
			{Name: "Minh", NewStatus: actor.SurvivorDead, Reason: "thực thể"},
		},
	})
	require.Len(t, result.KeyEvents, 1)
	assert.Equal(t, "Minh has died: thực thể", result.KeyEvents[0])

	// A later revival attempt is silently ignored
	result = apply(gs, &TurnProposal{
		SurvivorUpdates: []SurvivorUpdate{{Name: "Minh", NewStatus: actor.SurvivorAlive}},
	})
	assert.Empty(t, result.KeyEvents)
	i := actor.FindSurvivor(gs.Survivors, "Minh")
	require.NotEqual(t, -1, i)
	assert.Equal(t, actor.SurvivorDead, gs.Survivors[i].Status)

	// And no second death event either
	result = apply(gs, &TurnProposal{
		SurvivorUpdates: []SurvivorUpdate{{Name: "Minh", NewStatus: actor.SurvivorDead, Reason: "again"}},
	})
	assert.Empty(t, result.KeyEvents)
}

func TestApply_UnknownSurvivorIgnored(t *testing.T) {
	gs := testState()
	result := apply(gs, &TurnProposal{
		SurvivorUpdates: []SurvivorUpdate{{Name: "Nobody", NewStatus: actor.SurvivorDead}},
	})
	assert.Empty(t, result.KeyEvents)
	assert.Equal(t, -1, actor.FindSurvivor(gs.Survivors, "Nobody"))
}

func TestApply_NewNPCConcealed(t *testing.T) {
	gs := testState()

	result := apply(gs, &TurnProposal{
		NewNPCs: []actor.NPC{{
			ID:          "npc-2",
			Name:        "Cô Y Tá",
			Personality: "serene",
			Background:  "She worked the night shift in 1967.",
			Goal:        "Keep the third floor quiet.",
		}},
	})

	npc := gs.FindNPC("npc-2")
	require.NotNil(t, npc)
	assert.Equal(t, actor.ConcealedName, npc.Name)
	assert.Equal(t, actor.ConcealedBackground, npc.Background)
	assert.Equal(t, actor.ConcealedGoal, npc.Goal)
	assert.Equal(t, "serene", npc.Personality)
	assert.Contains(t, result.KeyEvents, "Met a mysterious stranger.")

	// The real name still joins the survivor roster
	assert.NotEqual(t, -1, actor.FindSurvivor(gs.Survivors, "Cô Y Tá"))

	// Reintroduction with the same id is ignored
	result = apply(gs, &TurnProposal{NewNPCs: []actor.NPC{{ID: "npc-2", Name: "Cô Y Tá"}}})
	assert.Empty(t, result.KeyEvents)
	assert.Len(t, gs.NPCs, 2)
}

func TestApply_NameRevealHappensOnce(t *testing.T) {
	gs := testState()
	gs.NPCs = []actor.NPC{{ID: "npc-1", Name: actor.ConcealedName, State: actor.NPCNeutral}}

	result := apply(gs, &TurnProposal{
		NPCUpdates: []NPCUpdate{{ID: "npc-1", Name: "Bác sĩ Quang"}},
	})
	assert.Contains(t, result.KeyEvents, "You learned the stranger's name: Bác sĩ Quang.")
	assert.Equal(t, "Bác sĩ Quang", gs.FindNPC("npc-1").Name)

	// Same name again: no second reveal event
	result = apply(gs, &TurnProposal{
		NPCUpdates: []NPCUpdate{{ID: "npc-1", Name: "Bác sĩ Quang"}},
	})
	assert.Empty(t, result.KeyEvents)
}

func TestApply_NPCStateChangeAndTrustClamp(t *testing.T) {
	gs := testState()
	over := 140
	result := apply(gs, &TurnProposal{
		NPCUpdates: []NPCUpdate{{ID: "npc-1", State: actor.NPCHostile, Trust: &over}},
	})

	npc := gs.FindNPC("npc-1")
	assert.Equal(t, actor.NPCHostile, npc.State)
	assert.Equal(t, 100, npc.Trust)
	assert.Contains(t, result.KeyEvents, "Bác sĩ Quang's attitude has changed to hostile.")
	assert.Equal(t, []string{"npc-1"}, result.TouchedNPCIDs)
}

func TestApply_UnknownNPCUpdateIgnored(t *testing.T) {
	gs := testState()
	result := apply(gs, &TurnProposal{
		NPCUpdates: []NPCUpdate{{ID: "npc-404", State: actor.NPCHostile}},
	})
	assert.Empty(t, result.TouchedNPCIDs)
	assert.Len(t, gs.NPCs, 1)
}

func TestApply_QuestsAndClues(t *testing.T) {
	gs := testState()
	gs.SideQuests = []string{"Find the elevator key"}

	result := apply(gs, &TurnProposal{
		MainQuestUpdate: "Escape before the shift change.",
		NewSideQuests:   []string{"Find the elevator key", "Read the logbook"},
		CompletedQuests: []string{"Find the elevator key"},
		NewClues:        []string{"The logbook skips every seventh night."},
	})

	assert.Equal(t, "Escape before the shift change.", gs.MainQuest)
	assert.Equal(t, []string{"Read the logbook"}, gs.SideQuests)
	assert.Equal(t, []string{"The logbook skips every seventh night."}, gs.KnownClues)
	assert.Contains(t, result.KeyEvents, `Main quest updated: "Escape before the shift change."`)
}

func TestApply_LoreAndWorldState(t *testing.T) {
	gs := testState()

	apply(gs, &TurnProposal{
		NewLoreSnippet: "The hospital never had a room 307.",
		NewLoreEntries: []string{"Floor plans from 1965"},
		WorldStateChanges: []world.KeyValue{
			{Key: "elevator_power", Value: "true"},
			{Key: "floor", Value: "3"},
			{Key: "weather", Value: "rain"},
		},
	})

	assert.Equal(t, []string{"The hospital never had a room 307."}, gs.DiscoveredLore)
	assert.Equal(t, []string{"Floor plans from 1965"}, gs.LoreEntries)
	assert.Equal(t, world.BoolValue(true), gs.World["elevator_power"])
	assert.Equal(t, world.NumberValue(3), gs.World["floor"])
	assert.Equal(t, world.StringValue("rain"), gs.World["weather"])
}

func TestApply_Defeat(t *testing.T) {
	gs := testState()
	over := true

	result := apply(gs, &TurnProposal{
		IsGameOver:   &over,
		GameOverText: "You spoke. The hospital answered.",
		BrokenRule:   "Never speak after midnight",
		// Scene fields on a terminal proposal are ignored
		SceneDescription: "should not appear",
	})

	assert.Equal(t, OutcomeDefeat, result.Outcome)
	assert.Equal(t, "Never speak after midnight", result.BrokenRule)
	assert.Equal(t, 0, gs.TurnCount)
	assert.Contains(t, gs.StoryHistory, "You spoke. The hospital answered.")
	assert.NotContains(t, gs.StoryHistory, "should not appear")
}

func TestApply_VictoryWinsOverDefeat(t *testing.T) {
	gs := testState()
	yes := true

	result := apply(gs, &TurnProposal{IsGameOver: &yes, IsVictory: &yes})
	assert.Equal(t, OutcomeVictory, result.Outcome)
	assert.Contains(t, gs.StoryHistory, "The nightmare has ended.")
}

func TestApply_ActTransitionShortCircuits(t *testing.T) {
	gs := testState()

	result := apply(gs, &TurnProposal{
		ActTransition: &ActTransition{
			Title:     "Act II",
			Narrative: "The shift changes.",
		},
		// Everything else on the proposal is discarded
		StatChanges: &actor.StatDelta{Stamina: -5},
		NewRules:    []string{"Never ride the elevator alone."},
	})

	assert.Equal(t, OutcomeActTransition, result.Outcome)
	require.NotNil(t, gs.PendingAct)
	assert.Equal(t, "Act II", gs.PendingAct.Title)
	assert.Contains(t, gs.StoryHistory, "The shift changes.")
	assert.Equal(t, 8, gs.Stats.Stamina)
	assert.Len(t, gs.KnownRules, 1)
	assert.Equal(t, 0, gs.TurnCount)
}

func TestApply_SceneCommitAndTurnCount(t *testing.T) {
	gs := testState()

	apply(gs, &TurnProposal{
		SceneDescription:   "Room 306 is open. Room 307 has no door at all.",
		Choices:            []string{"Enter 306", "Back away"},
		Hallucination:      "Someone hums a lullaby two rooms over.",
		InteractableNPCIDs: []string{"npc-1"},
	})

	require.NotNil(t, gs.Scene)
	assert.Equal(t, "Room 306 is open. Room 307 has no door at all.", gs.Scene.Description)
	assert.Equal(t, "Someone hums a lullaby two rooms over.", gs.Scene.Hallucination)
	assert.Equal(t, 1, gs.TurnCount)
	assert.Contains(t, gs.StoryHistory, "Room 306 is open. Room 307 has no door at all.")
}

func TestApply_KeyEventsAccumulate(t *testing.T) {
	gs := testState()
	apply(gs, &TurnProposal{NewItem: &Item{Name: "Candle"}})
	apply(gs, &TurnProposal{NewClues: []string{"A wet footprint, going up."}})

	assert.Equal(t, []string{
		"Found an item: Candle.",
		`Found new clues: "A wet footprint, going up."`,
	}, gs.KeyEvents)
}
