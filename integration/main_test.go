//go:build integration
// +build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voidecho/engine/internal/handlers"
	"github.com/voidecho/engine/internal/services"
	"github.com/voidecho/engine/internal/session"
	"github.com/voidecho/engine/internal/storage"
	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/prompts"
	"github.com/voidecho/engine/pkg/state"
	"github.com/voidecho/engine/pkg/world"
)

// startServer wires the real handlers over Redis-backed storage, with a
// scripted oracle standing in for the model.
func startServer(t *testing.T, oracle services.Oracle) (*httptest.Server, storage.Storage) {
	t.Helper()
	mr := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewRedisStorage(mr.Addr(), logger)
	t.Cleanup(func() { _ = store.Close() })

	manager := session.NewManager(oracle, store, logger)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, logger))
	gameHandler := handlers.NewGameHandler(manager, logger)
	mux.Handle("/v1/game", gameHandler)
	mux.Handle("/v1/game/", gameHandler)
	mux.Handle("/v1/echoes", handlers.NewEchoesHandler(store, logger))
	mux.Handle("/v1/archetypes", handlers.NewArchetypesHandler(logger))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, out), string(data))
	}
	return resp.StatusCode
}

func scriptedOracle() *services.MockOracle {
	oracle := services.NewMockOracle()
	oracle.GenerateWorldFunc = func(ctx context.Context, seed prompts.WorldSeed) (*world.InitialSituation, error) {
		return &world.InitialSituation{
			Description: "A drowned village under a paper-lantern sky.",
			Rules:       []string{"Do not light more than one lantern."},
			AllRules:    []string{"Do not light more than one lantern.", "Never answer your own name."},
			MainQuest:   "Find who keeps relighting the lanterns.",
			Survivors:   []string{"Minh"},
			FirstScene: world.FirstScene{
				Description: "One lantern is already burning.",
				Choices:     []string{"Blow it out", "Walk past"},
			},
		}, nil
	}
	return oracle
}

func TestFullRun_DefeatAndEcho(t *testing.T) {
	oracle := scriptedOracle()
	srv, store := startServer(t, oracle)

	// Character creation
	var gs state.GameState
	code := postJSON(t, srv.URL+"/v1/game", handlers.CreateGameRequest{
		PlayerName: "Linh",
		Archetype:  "Desperate Survivor",
		Vow:        "Search for a loved one",
		Difficulty: world.DifficultyHard,
	}, &gs)
	require.Equal(t, http.StatusCreated, code)
	require.NotNil(t, gs.Scene)

	// A few ordinary turns
	oracle.ProposeTurnFunc = func(ctx context.Context, st *state.GameState, action string) (*state.TurnProposal, error) {
		return &state.TurnProposal{
			SceneDescription: fmt.Sprintf("The village reacts to %q.", action),
			StatChanges:      &actor.StatDelta{MentalPollution: 10},
			NewClues:         []string{"Clue from " + action},
		}, nil
	}
	var turn handlers.TurnResponse
	for _, action := range []string{"walk past", "listen at the well"} {
		code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/action", handlers.ActionRequest{Action: action}, &turn)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, "continue", turn.Outcome)
	}
	assert.Equal(t, 2, turn.GameState.TurnCount)
	assert.Equal(t, 20, turn.GameState.Stats.MentalPollution)
	assert.Len(t, turn.GameState.KnownClues, 2)

	// Defeat turn
	over := true
	oracle.ProposeTurnFunc = func(ctx context.Context, st *state.GameState, action string) (*state.TurnProposal, error) {
		return &state.TurnProposal{
			IsGameOver:   &over,
			GameOverText: "You answered. It was your own voice.",
			BrokenRule:   "Never answer your own name",
		}, nil
	}
	code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/action", handlers.ActionRequest{Action: "answer"}, &turn)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "defeat", turn.Outcome)
	assert.Equal(t, "Never answer your own name", turn.BrokenRule)
	// Defeat does not advance the turn counter
	assert.Equal(t, 2, turn.GameState.TurnCount)

	// The save does not outlive the run
	stale, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	assert.Nil(t, stale)

	// Restart records the echo
	code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/restart", nil, nil)
	require.Equal(t, http.StatusNoContent, code)

	resp, err := http.Get(srv.URL + "/v1/echoes")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	var echoResp map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&echoResp))
	require.NotEmpty(t, echoResp["echoes"])
	assert.Equal(t, "Never answer your own name", echoResp["echoes"][0])

	// The echo feeds the next run's world seed
	code = postJSON(t, srv.URL+"/v1/game", handlers.CreateGameRequest{
		PlayerName: "Linh",
		Archetype:  "Desperate Survivor",
		Vow:        "Search for a loved one",
	}, &gs)
	require.Equal(t, http.StatusCreated, code)
	seeds := oracle.WorldCalls
	require.Len(t, seeds, 2)
	assert.Contains(t, seeds[1].Echoes, "Never answer your own name")
}

func TestFullRun_ActTransitionAndSave(t *testing.T) {
	oracle := scriptedOracle()
	srv, store := startServer(t, oracle)

	var gs state.GameState
	code := postJSON(t, srv.URL+"/v1/game", handlers.CreateGameRequest{
		PlayerName: "Huy",
		Archetype:  "Reluctant Fighter",
		Vow:        "Hunt the relic",
	}, &gs)
	require.Equal(t, http.StatusCreated, code)

	oracle.ProposeTurnFunc = func(ctx context.Context, st *state.GameState, action string) (*state.TurnProposal, error) {
		return &state.TurnProposal{
			ActTransition: &state.ActTransition{
				Title:        "Act II: The Second Lantern",
				Narrative:    "Every lantern in the village ignites at once.",
				NewMainQuest: "Put them all out before they finish counting.",
				NewRules:     []string{"Do not count the lanterns aloud."},
			},
		}, nil
	}

	var turn handlers.TurnResponse
	code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/action", handlers.ActionRequest{Action: "light a second lantern"}, &turn)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "act_transition", turn.Outcome)
	require.NotNil(t, turn.GameState.PendingAct)

	// Actions are refused until the break is acknowledged
	code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/action", handlers.ActionRequest{Action: "look"}, nil)
	assert.Equal(t, http.StatusConflict, code)

	var resumed state.GameState
	code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/act", nil, &resumed)
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, resumed.PendingAct)
	assert.Equal(t, "Put them all out before they finish counting.", resumed.MainQuest)
	assert.Contains(t, resumed.KnownRules, "Do not count the lanterns aloud.")
	assert.NotContains(t, resumed.Situation.AllRules, "Do not count the lanterns aloud.")

	// Save survives a round trip through storage
	code = postJSON(t, srv.URL+"/v1/game/"+gs.ID.String()+"/save", nil, nil)
	require.Equal(t, http.StatusNoContent, code)
	saved, err := store.LoadGameState(context.Background(), gs.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Put them all out before they finish counting.", saved.MainQuest)
}
