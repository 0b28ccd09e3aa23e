package dto

import "time"

type HealthResponse struct {
	Status  string          `json:"status"`
	Version string          `json:"version"`
	Service string          `json:"service"`
	Agents  map[string]bool `json:"agents"`
}

type StatusResponse struct {
	Status      string    `json:"status"`
	Service     string    `json:"service"`
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}

type AgentStatus struct {
	Name    string `json:"name"`
	AgentId string `json:"agent_id,omitempty"`
	Ready   bool   `json:"ready"`
	Source  string `json:"source,omitempty"`
}

type AgentsStatusResponse struct {
	TotalAgents          int                    `json:"total_agents"`
	ReadyAgents          int                    `json:"ready_agents"`
	AllReady             bool                   `json:"all_ready"`
	Agents               map[string]AgentStatus `json:"agents"`
	MistralAPIConfigured bool                   `json:"mistral_api_configured"`
	Timestamp            time.Time              `json:"timestamp"`
}

type WorkflowProgress struct {
	FactsCollected   map[string]bool `json:"facts_collected"`
	FactsComplete    bool            `json:"facts_complete"`
	AnalysisDone     bool            `json:"analysis_done"`
	SummaryGenerated bool            `json:"summary_generated"`
	WrapupConfirmed  bool            `json:"wrapup_confirmed"`
	MessageCount     int64           `json:"message_count"`
	DocumentCount    int             `json:"document_count"`
}

type ConversationStatusResponse struct {
	ConversationId   string           `json:"conversation_id"`
	Status           string           `json:"status"`
	CurrentAgent     *string          `json:"current_agent"`
	NextAgent        string           `json:"next_agent"`
	WorkflowProgress WorkflowProgress `json:"workflow_progress"`
	NextStep         string           `json:"next_step"`
	Timestamp        time.Time        `json:"timestamp"`
}
