package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/voidecho/engine/internal/handlers"
	"github.com/voidecho/engine/pkg/state"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func (c *apiClient) healthy() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do runs one request and decodes the response into out (unless out is nil
// or the status is 204).
func (c *apiClient) do(method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errorResp ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *apiClient) fetchArchetypes() (*handlers.ArchetypesResponse, error) {
	var resp handlers.ArchetypesResponse
	if err := c.do(http.MethodGet, "/v1/archetypes", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) fetchEchoes() ([]string, error) {
	var resp map[string][]string
	if err := c.do(http.MethodGet, "/v1/echoes", nil, &resp); err != nil {
		return nil, err
	}
	return resp["echoes"], nil
}

func (c *apiClient) createGame(req handlers.CreateGameRequest) (*state.GameState, error) {
	var gs state.GameState
	if err := c.do(http.MethodPost, "/v1/game", req, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

func (c *apiClient) sendAction(id uuid.UUID, action string) (*handlers.TurnResponse, error) {
	var resp handlers.TurnResponse
	err := c.do(http.MethodPost, "/v1/game/"+id.String()+"/action", handlers.ActionRequest{Action: action}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *apiClient) resumeAct(id uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	if err := c.do(http.MethodPost, "/v1/game/"+id.String()+"/act", nil, &gs); err != nil {
		return nil, err
	}
	return &gs, nil
}

func (c *apiClient) saveGame(id uuid.UUID) error {
	return c.do(http.MethodPost, "/v1/game/"+id.String()+"/save", nil, nil)
}

func (c *apiClient) restart(id uuid.UUID) error {
	return c.do(http.MethodPost, "/v1/game/"+id.String()+"/restart", nil, nil)
}
