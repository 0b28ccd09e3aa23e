package mistral

import (
	"context"
	"net/http"

	"github.com/tidwall/gjson"
)

// FunctionResult answers a function call inside a running conversation.
type FunctionResult struct {
	Type       string `json:"type"`
	ToolCallID string `json:"tool_call_id"`
	Result     string `json:"result"`
}

func NewFunctionResult(toolCallID, result string) FunctionResult {
	return FunctionResult{Type: "function.result", ToolCallID: toolCallID, Result: result}
}

type startRequest struct {
	AgentID string      `json:"agent_id"`
	Inputs  interface{} `json:"inputs"`
	Stream  bool        `json:"stream"`
	Store   bool        `json:"store"`
}

type appendRequest struct {
	Inputs interface{} `json:"inputs"`
	Stream bool        `json:"stream"`
	Store  bool        `json:"store"`
}

// StreamStart opens a new conversation with agentID and streams its events.
// inputs is either a string or a slice of entries such as FunctionResult.
func (c *Client) StreamStart(ctx context.Context, agentID string, inputs interface{}, fn func(StreamEvent) error) error {
	return c.stream(ctx, "/v1/conversations", startRequest{AgentID: agentID, Inputs: inputs, Stream: true, Store: true}, fn)
}

// StreamAppend continues an existing vendor conversation.
func (c *Client) StreamAppend(ctx context.Context, conversationID string, inputs interface{}, fn func(StreamEvent) error) error {
	return c.stream(ctx, "/v1/conversations/"+conversationID, appendRequest{Inputs: inputs, Stream: true, Store: true}, fn)
}

func (c *Client) stream(ctx context.Context, path string, body interface{}, fn func(StreamEvent) error) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return ReadStream(resp.Body, fn)
}

// Output is one entry of a non-streamed conversation response.
type Output struct {
	Type       string
	Content    string
	AgentID    string
	Name       string
	Arguments  string
	ToolCallID string
}

type ConversationResponse struct {
	ConversationID string
	Outputs        []Output
}

// Text joins all message outputs.
func (r *ConversationResponse) Text() string {
	var out string
	for _, o := range r.Outputs {
		if o.Type == "message.output" {
			out += o.Content
		}
	}
	return out
}

// FunctionCall returns the first call to name, if any.
func (r *ConversationResponse) FunctionCall(name string) (Output, bool) {
	for _, o := range r.Outputs {
		if o.Type == "function.call" && o.Name == name {
			return o, true
		}
	}
	return Output{}, false
}

// Run starts a conversation with agentID and waits for the full answer.
func (c *Client) Run(ctx context.Context, agentID string, inputs interface{}) (*ConversationResponse, error) {
	raw, err := c.do(ctx, http.MethodPost, "/v1/conversations", startRequest{AgentID: agentID, Inputs: inputs, Store: false})
	if err != nil {
		return nil, err
	}
	parsed := gjson.ParseBytes(raw)
	resp := &ConversationResponse{ConversationID: parsed.Get("conversation_id").String()}
	parsed.Get("outputs").ForEach(func(_, o gjson.Result) bool {
		resp.Outputs = append(resp.Outputs, Output{
			Type:       o.Get("type").String(),
			Content:    contentText(o.Get("content")),
			AgentID:    o.Get("agent_id").String(),
			Name:       o.Get("name").String(),
			Arguments:  o.Get("arguments").String(),
			ToolCallID: o.Get("tool_call_id").String(),
		})
		return true
	})
	return resp, nil
}
