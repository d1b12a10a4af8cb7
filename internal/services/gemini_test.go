package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/voidecho/engine/pkg/actor"
	"github.com/voidecho/engine/pkg/state"
)

func TestNewGeminiOracle_RequiresKey(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	_, err := NewGeminiOracle(context.Background(), "", "", logger)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

// Mind updates fan out per NPC while a background summary may still be in
// flight, so overlapping calls must each carry their own system prompt.
func TestGeminiOracle_ConcurrentCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{}"}]}}]}`)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	oracle, err := NewGeminiOracle(context.Background(), "test-key", "", logger, option.WithEndpoint(srv.URL))
	require.NoError(t, err)
	defer oracle.Close()

	npc := actor.NPC{ID: "npc-1", Name: "Chú Tùng", Personality: "gruff"}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := oracle.ProposeMindUpdate(context.Background(), MindContext{
				SceneDescription: "The corridor floods.",
				Action:           "wade toward the stairwell",
				NPC:              npc,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := oracle.Summarize(context.Background(), []string{"The water rose past the second floor."})
		assert.NoError(t, err)
	}()
	wg.Wait()
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bare object", `{"scene_description": "A hallway."}`},
		{"json fence", "```json\n{\"scene_description\": \"A hallway.\"}\n```"},
		{"plain fence", "```\n{\"scene_description\": \"A hallway.\"}\n```"},
		{"surrounding whitespace", "  \n{\"scene_description\": \"A hallway.\"}\n  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p state.TurnProposal
			require.NoError(t, decodeJSON(tt.raw, &p))
			assert.Equal(t, "A hallway.", p.SceneDescription)
		})
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	var p state.TurnProposal
	err := decodeJSON("The door opens. (not json)", &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse oracle response")
}
