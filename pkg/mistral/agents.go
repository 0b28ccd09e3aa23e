package mistral

import (
	"context"
	"net/http"
)

// Tool is a raw tool definition as the agents API expects it.
type Tool map[string]interface{}

type AgentRequest struct {
	Model        string   `json:"model"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Instructions string   `json:"instructions,omitempty"`
	Tools        []Tool   `json:"tools,omitempty"`
	Handoffs     []string `json:"handoffs,omitempty"`
}

type Agent struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Model       string   `json:"model"`
	Description string   `json:"description"`
	Handoffs    []string `json:"handoffs"`
}

func (c *Client) CreateAgent(ctx context.Context, req AgentRequest) (*Agent, error) {
	var agent Agent
	if err := c.doJSON(ctx, http.MethodPost, "/v1/agents", req, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

// SetHandoffs replaces the agent's handoff list.
func (c *Client) SetHandoffs(ctx context.Context, agentID string, handoffs []string) (*Agent, error) {
	var agent Agent
	body := map[string]interface{}{"handoffs": handoffs}
	if err := c.doJSON(ctx, http.MethodPatch, "/v1/agents/"+agentID, body, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (c *Client) GetAgent(ctx context.Context, agentID string) (*Agent, error) {
	var agent Agent
	if err := c.doJSON(ctx, http.MethodGet, "/v1/agents/"+agentID, nil, &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (c *Client) ListAgents(ctx context.Context) ([]Agent, error) {
	var agents []Agent
	if err := c.doJSON(ctx, http.MethodGet, "/v1/agents", nil, &agents); err != nil {
		return nil, err
	}
	return agents, nil
}
