package service

import (
	"context"
	"testing"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/repository/scope"
	"sumii-mobile-api/internal/repository/specification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const firstTurnStream = `event: conversation.response.started
data: {"type":"conversation.response.started","conversation_id":"conv_1"}

event: agent.handoff.started
data: {"type":"agent.handoff.started","previous_agent_name":"Legal Router Agent"}

event: agent.handoff.done
data: {"type":"agent.handoff.done","next_agent_name":"Legal Intake Agent","next_agent_id":"ag_intake"}

event: message.output.delta
data: {"type":"message.output.delta","content":"Verstanden. "}

event: function.call.delta
data: {"type":"function.call.delta","tool_call_id":"call_1","name":"extract_facts","arguments":"{\"who\":{\"plaintiff\":\"Anna\",\"defendant\":\"Vermieter\"},"}

event: function.call.delta
data: {"type":"function.call.delta","tool_call_id":"call_1","arguments":"\"what\":{\"legal_area\":\"Mietrecht\",\"issue_description\":\"Schimmel\"},\"why\":{\"urgency\":\"weeks\"}}"}

event: conversation.response.done
data: {"type":"conversation.response.done"}

data: [DONE]
`

const followUpStream = `event: message.output.delta
data: {"type":"message.output.delta","content":"Seit wann besteht der Schimmel?"}

event: conversation.response.done
data: {"type":"conversation.response.done"}

data: [DONE]
`

type frameRecorder struct {
	frames []dto.ChatServerFrame
}

func (r *frameRecorder) emit(f dto.ChatServerFrame) error {
	r.frames = append(r.frames, f)
	return nil
}

func (r *frameRecorder) types() []string {
	out := make([]string, 0, len(r.frames))
	for _, f := range r.frames {
		out = append(out, f.Type)
	}
	return out
}

func TestChatRejectsInvalidFrames(t *testing.T) {
	h := newHarness(t)
	_, client := newFakeMistral(t, "text/event-stream", followUpStream)
	svc := NewChatService(h.uow, newTestRegistry(t, client), client, h.log)
	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)

	rec := &frameRecorder{}
	require.NoError(t, svc.HandleMessage(context.Background(), user.Id, conv.Id, dto.ChatClientFrame{Type: "ping"}, rec.emit))
	require.NoError(t, svc.HandleMessage(context.Background(), user.Id, conv.Id, dto.ChatClientFrame{Type: "message", Content: "   "}, rec.emit))

	require.Len(t, rec.frames, 2)
	assert.Equal(t, constant.ErrCodeInvalidMessageType, rec.frames[0].Code)
	assert.Equal(t, constant.ErrCodeEmptyMessage, rec.frames[1].Code)
}

func TestChatRelaysStreamAndStoresFacts(t *testing.T) {
	h := newHarness(t)
	fake, client := newFakeMistral(t, "text/event-stream", firstTurnStream, followUpStream)
	svc := NewChatService(h.uow, newTestRegistry(t, client), client, h.log)
	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)

	rec := &frameRecorder{}
	err := svc.HandleMessage(context.Background(), user.Id, conv.Id, dto.ChatClientFrame{Type: "message", Content: "Meine Wohnung hat Schimmel"}, rec.emit)
	require.NoError(t, err)

	assert.Equal(t, []string{
		constant.FrameAgentStart,
		constant.FrameHandoffStarted,
		constant.FrameHandoffDone,
		constant.FrameMessageChunk,
		constant.FrameFunctionCall,
		constant.FrameMessageChunk,
		constant.FrameMessageComplete,
	}, rec.types())
	assert.Equal(t, "router", rec.frames[0].Agent)
	assert.Equal(t, "extract_facts", rec.frames[4].Function)
	assert.Equal(t, "intake", rec.frames[6].Agent)
	assert.Equal(t, "Verstanden. Seit wann besteht der Schimmel?", rec.frames[6].Content)

	reqs := fake.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/v1/conversations", reqs[0].Path)
	assert.Equal(t, "ag_router", gjson.Get(reqs[0].Body, "agent_id").String())
	assert.Equal(t, "/v1/conversations/conv_1", reqs[1].Path)
	assert.Equal(t, "call_1", gjson.Get(reqs[1].Body, "inputs.0.tool_call_id").String())

	uow := h.uow.NewUnitOfWork(context.Background())
	stored, err := uow.ConversationRepository().FindOne(context.Background(), specification.ByID{ID: conv.Id})
	require.NoError(t, err)
	require.NotNil(t, stored.MistralConversationId)
	assert.Equal(t, "conv_1", *stored.MistralConversationId)
	assert.Equal(t, entity.AgentIntake, *stored.CurrentAgent)
	require.NotNil(t, stored.LegalArea)
	assert.Equal(t, entity.LegalAreaMietrecht, *stored.LegalArea)
	require.NotNil(t, stored.Urgency)
	assert.Equal(t, entity.UrgencyWeeks, *stored.Urgency)
	assert.True(t, gjson.GetBytes(stored.Facts.Who, "collected").Bool())
	assert.Equal(t, "Vermieter", gjson.GetBytes(stored.Facts.Who, "defendant").String())
	assert.Empty(t, stored.Facts.When)
	assert.False(t, stored.Facts.Complete())

	msgs, err := uow.MessageRepository().FindAll(context.Background(),
		specification.ByConversationID{ConversationID: conv.Id},
		specification.Scoped{Fn: scope.Chronological},
	)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.MessageRoleUser, msgs[0].Role)
	assert.Equal(t, entity.MessageRoleAssistant, msgs[1].Role)
	assert.Equal(t, "intake", *msgs[1].AgentName)
}

func TestChatReportsVendorErrors(t *testing.T) {
	h := newHarness(t)
	_, client := newFakeMistral(t, "text/event-stream", `event: conversation.response.error
data: {"type":"conversation.response.error","message":"rate limited"}

data: [DONE]
`)
	svc := NewChatService(h.uow, newTestRegistry(t, client), client, h.log)
	user := h.user(t, "anna@example.com")
	conv := h.conversation(t, user)

	rec := &frameRecorder{}
	require.NoError(t, svc.HandleMessage(context.Background(), user.Id, conv.Id, dto.ChatClientFrame{Type: "message", Content: "Hallo"}, rec.emit))

	require.Equal(t, []string{constant.FrameAgentStart, constant.FrameError}, rec.types())
	assert.Equal(t, constant.ErrCodeConversationError, rec.frames[1].Code)
	assert.Equal(t, "rate limited", rec.frames[1].Error)
}

func TestChatForeignConversation(t *testing.T) {
	h := newHarness(t)
	_, client := newFakeMistral(t, "text/event-stream", followUpStream)
	svc := NewChatService(h.uow, newTestRegistry(t, client), client, h.log)
	owner := h.user(t, "anna@example.com")
	other := h.user(t, "ben@example.com")
	conv := h.conversation(t, owner)

	rec := &frameRecorder{}
	require.NoError(t, svc.HandleMessage(context.Background(), other.Id, conv.Id, dto.ChatClientFrame{Type: "message", Content: "Hallo"}, rec.emit))
	require.Len(t, rec.frames, 1)
	assert.Equal(t, constant.ErrCodeConversationError, rec.frames[0].Code)
}

func TestApplyFactsMarksCollected(t *testing.T) {
	conv := &entity.Conversation{}
	applyFacts(conv, `{"when":{"timeline":[{"date":"2024-01-01","event":"Einzug"}]},"where":{},"what":{"legal_area":"Steuerrecht"}}`)

	assert.True(t, gjson.GetBytes(conv.Facts.When, "collected").Bool())
	assert.Empty(t, conv.Facts.Where)
	assert.Nil(t, conv.LegalArea)
	assert.JSONEq(t, `{"who":false,"what":true,"when":true,"where":false,"why":false}`, string(conv.FactsCollected))
}
