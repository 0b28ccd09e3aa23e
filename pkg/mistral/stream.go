package mistral

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	EventResponseStarted = "conversation.response.started"
	EventResponseDone    = "conversation.response.done"
	EventResponseError   = "conversation.response.error"
	EventMessageDelta    = "message.output.delta"
	EventHandoffStarted  = "agent.handoff.started"
	EventHandoffDone     = "agent.handoff.done"
	EventFunctionCall    = "function.call.delta"
	EventToolExecStarted = "tool.execution.started"
	EventToolExecDone    = "tool.execution.done"
)

// StreamEvent is one decoded server-sent event of a conversation stream.
type StreamEvent struct {
	Type           string
	ConversationID string
	AgentID        string
	Content        string
	// AgentName holds previous_agent_name for handoff.started and next_agent_name for handoff.done.
	AgentName    string
	ToolCallID   string
	FunctionName string
	Arguments    string
	Error        string
	Raw          []byte
}

func decodeEvent(eventName string, data []byte) StreamEvent {
	parsed := gjson.ParseBytes(data)
	ev := StreamEvent{
		Type:           parsed.Get("type").String(),
		ConversationID: parsed.Get("conversation_id").String(),
		AgentID:        parsed.Get("agent_id").String(),
		Raw:            data,
	}
	if ev.Type == "" {
		ev.Type = eventName
	}

	switch ev.Type {
	case EventMessageDelta:
		ev.Content = contentText(parsed.Get("content"))
	case EventHandoffStarted:
		ev.AgentName = parsed.Get("previous_agent_name").String()
		ev.AgentID = parsed.Get("previous_agent_id").String()
	case EventHandoffDone:
		ev.AgentName = parsed.Get("next_agent_name").String()
		ev.AgentID = parsed.Get("next_agent_id").String()
	case EventFunctionCall:
		ev.ToolCallID = parsed.Get("tool_call_id").String()
		ev.FunctionName = parsed.Get("name").String()
		ev.Arguments = parsed.Get("arguments").String()
	case EventResponseError:
		ev.Error = parsed.Get("message").String()
		if ev.Error == "" {
			ev.Error = parsed.Get("error").String()
		}
		if ev.Error == "" {
			ev.Error = "Unknown error"
		}
	}
	return ev
}

// contentText flattens either a plain string or a list of text chunks.
func contentText(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	if !v.IsArray() {
		return ""
	}
	var sb strings.Builder
	v.ForEach(func(_, chunk gjson.Result) bool {
		if chunk.Get("type").String() == "text" || chunk.Get("text").Exists() {
			sb.WriteString(chunk.Get("text").String())
		}
		return true
	})
	return sb.String()
}

// ReadStream parses an SSE body and calls fn for each event until EOF or fn returns an error.
func ReadStream(r io.Reader, fn func(StreamEvent) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var eventName string
	var data bytes.Buffer

	flush := func() error {
		if data.Len() == 0 {
			eventName = ""
			return nil
		}
		payload := bytes.TrimSpace(data.Bytes())
		data.Reset()
		name := eventName
		eventName = ""
		if len(payload) == 0 || string(payload) == "[DONE]" {
			return nil
		}
		return fn(decodeEvent(name, append([]byte(nil), payload...)))
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event:"):
			eventName = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}
