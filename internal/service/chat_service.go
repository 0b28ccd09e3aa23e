package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"sumii-mobile-api/internal/constant"
	"sumii-mobile-api/internal/dto"
	"sumii-mobile-api/internal/entity"
	"sumii-mobile-api/internal/pkg/logger"
	"sumii-mobile-api/internal/repository/specification"
	"sumii-mobile-api/internal/repository/unitofwork"
	"sumii-mobile-api/pkg/mistral"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const extractFactsFunction = "extract_facts"

// FrameSink delivers one frame to the connected client. An error means the client is gone.
type FrameSink func(frame dto.ChatServerFrame) error

type IChatService interface {
	HandleMessage(ctx context.Context, userId, conversationId uuid.UUID, frame dto.ChatClientFrame, emit FrameSink) error
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   IAgentRegistry
	client     *mistral.Client
	logger     logger.ILogger
}

func NewChatService(uowFactory unitofwork.RepositoryFactory, registry IAgentRegistry, client *mistral.Client, log logger.ILogger) IChatService {
	return &chatService{uowFactory: uowFactory, registry: registry, client: client, logger: log}
}

func timestamp() string {
	return now().Format(time.RFC3339Nano)
}

func errorFrame(message, code string) dto.ChatServerFrame {
	return dto.ChatServerFrame{Type: constant.FrameError, Timestamp: timestamp(), Error: message, Code: code}
}

// pendingCall accumulates one streamed function call.
type pendingCall struct {
	id        string
	name      string
	arguments strings.Builder
}

// turn is the state of one user message relayed through the vendor.
type turn struct {
	conv     *entity.Conversation
	agent    string
	text     strings.Builder
	calls    []*pendingCall
	failed   bool
	emit     FrameSink
	registry IAgentRegistry
}

func (t *turn) call(id string) *pendingCall {
	for _, c := range t.calls {
		if c.id == id {
			return c
		}
	}
	c := &pendingCall{id: id}
	t.calls = append(t.calls, c)
	return c
}

var errStreamFailed = errors.New("vendor stream reported an error")

// handle maps one vendor stream event to client frames and turn state.
func (t *turn) handle(ev mistral.StreamEvent) error {
	if ev.ConversationID != "" && t.conv.MistralConversationId == nil {
		id := ev.ConversationID
		t.conv.MistralConversationId = &id
	}

	switch ev.Type {
	case mistral.EventMessageDelta:
		if ev.Content == "" {
			return nil
		}
		t.text.WriteString(ev.Content)
		return t.emit(dto.ChatServerFrame{Type: constant.FrameMessageChunk, Timestamp: timestamp(), Content: ev.Content, Agent: t.agent})

	case mistral.EventHandoffStarted:
		return t.emit(dto.ChatServerFrame{Type: constant.FrameHandoffStarted, Timestamp: timestamp(), FromAgent: ev.AgentName})

	case mistral.EventHandoffDone:
		if key := t.registry.KeyFor(ev.AgentID, ev.AgentName); key != "" {
			t.agent = key
			if key == string(entity.AgentSummary) {
				t.conv.AnalysisDone = true
			}
		}
		return t.emit(dto.ChatServerFrame{Type: constant.FrameHandoffDone, Timestamp: timestamp(), ToAgent: ev.AgentName})

	case mistral.EventFunctionCall:
		c := t.call(ev.ToolCallID)
		if c.name == "" {
			c.name = ev.FunctionName
		}
		c.arguments.WriteString(ev.Arguments)
		return nil

	case mistral.EventResponseError:
		t.failed = true
		if err := t.emit(errorFrame(ev.Error, constant.ErrCodeConversationError)); err != nil {
			return err
		}
		return errStreamFailed
	}
	return nil
}

// applyFacts merges extract_facts arguments into the conversation.
func applyFacts(conv *entity.Conversation, arguments string) {
	parsed := gjson.Parse(arguments)
	set := func(name string, target *json.RawMessage) {
		obj := parsed.Get(name)
		if !obj.IsObject() {
			return
		}
		fields := map[string]interface{}{}
		if err := json.Unmarshal([]byte(obj.Raw), &fields); err != nil || len(fields) == 0 {
			return
		}
		fields["collected"] = true
		if raw, err := json.Marshal(fields); err == nil {
			*target = raw
		}
	}
	set("who", &conv.Facts.Who)
	set("what", &conv.Facts.What)
	set("when", &conv.Facts.When)
	set("where", &conv.Facts.Where)
	set("why", &conv.Facts.Why)

	if area := entity.LegalArea(parsed.Get("what.legal_area").String()); area.Valid() {
		conv.LegalArea = &area
	}
	if urgency := entity.Urgency(parsed.Get("why.urgency").String()); urgency.Valid() {
		conv.Urgency = &urgency
	}
	if raw, err := json.Marshal(conv.Facts.Collected()); err == nil {
		conv.FactsCollected = raw
	}
}

func decodeArguments(raw string) map[string]interface{} {
	args := map[string]interface{}{}
	if raw == "" {
		return args
	}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		args["raw"] = raw
	}
	return args
}

// resolveCalls surfaces each completed function call and builds the results sent back to the vendor.
func (t *turn) resolveCalls() ([]mistral.FunctionResult, error) {
	results := make([]mistral.FunctionResult, 0, len(t.calls))
	for _, c := range t.calls {
		args := c.arguments.String()
		if err := t.emit(dto.ChatServerFrame{
			Type:      constant.FrameFunctionCall,
			Timestamp: timestamp(),
			Function:  c.name,
			Arguments: decodeArguments(args),
		}); err != nil {
			return nil, err
		}

		result := `{"status":"ignored"}`
		switch c.name {
		case extractFactsFunction:
			applyFacts(t.conv, args)
			out, _ := json.Marshal(map[string]interface{}{
				"status":          "stored",
				"facts_complete":  t.conv.Facts.Complete(),
				"facts_collected": t.conv.Facts.Collected(),
			})
			result = string(out)
		case generateSummaryFunction:
			result = `{"status":"received"}`
		}
		if c.id != "" {
			results = append(results, mistral.NewFunctionResult(c.id, result))
		}
	}
	t.calls = nil
	return results, nil
}

func (s *chatService) HandleMessage(ctx context.Context, userId, conversationId uuid.UUID, frame dto.ChatClientFrame, emit FrameSink) error {
	if frame.Type != constant.FrameTypeUserMessage {
		return emit(errorFrame("Invalid message type", constant.ErrCodeInvalidMessageType))
	}
	content := strings.TrimSpace(frame.Content)
	if content == "" {
		return emit(errorFrame("Empty message", constant.ErrCodeEmptyMessage))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := ownedConversation(ctx, uow, userId, conversationId)
	if err != nil {
		return emit(errorFrame(err.Error(), constant.ErrCodeConversationError))
	}

	prior, err := uow.MessageRepository().Count(ctx, specification.ByConversationID{ConversationID: conv.Id})
	if err != nil {
		return emit(errorFrame("Failed to load conversation", constant.ErrCodeInternal))
	}

	if err := uow.MessageRepository().Create(ctx, &entity.Message{
		Id:             uuid.New(),
		ConversationId: conv.Id,
		Role:           entity.MessageRoleUser,
		Content:        content,
		DocumentIds:    frame.DocumentIds,
	}); err != nil {
		s.logger.Error("Chat", "failed to save user message", map[string]interface{}{"conversation_id": conv.Id, "error": err})
		return emit(errorFrame("Failed to save message", constant.ErrCodeInternal))
	}

	prompt := BuildPrompt(content, s.attachedDocuments(ctx, uow, conv, frame.DocumentIds))

	t := &turn{conv: conv, emit: emit, registry: s.registry}
	var agentId string
	if conv.MistralConversationId == nil {
		t.agent = string(entity.AgentRouter)
		if prior > 0 {
			t.agent = string(DetermineNextAgent(conv))
		}
		agentId, err = s.registry.Resolve(ctx, t.agent)
		if err != nil {
			s.logger.Warn("Chat", "agent not available", map[string]interface{}{"agent": t.agent, "error": err})
			return emit(errorFrame("Agent "+t.agent+" not initialized", constant.ErrCodeAgentNotFound))
		}
	} else {
		t.agent = string(entity.AgentRouter)
		if conv.CurrentAgent != nil {
			t.agent = string(*conv.CurrentAgent)
		}
	}

	if err := emit(dto.ChatServerFrame{Type: constant.FrameAgentStart, Timestamp: timestamp(), Agent: t.agent}); err != nil {
		return err
	}

	var inputs interface{} = prompt
	for round := 0; ; round++ {
		if conv.MistralConversationId == nil {
			err = s.client.StreamStart(ctx, agentId, inputs, t.handle)
		} else {
			err = s.client.StreamAppend(ctx, *conv.MistralConversationId, inputs, t.handle)
		}
		if t.failed {
			s.persistState(ctx, uow, t)
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("Chat", "agent stream failed", map[string]interface{}{"conversation_id": conv.Id, "error": err})
			s.persistState(ctx, uow, t)
			return emit(errorFrame(err.Error(), constant.ErrCodeAgentProcessing))
		}

		if len(t.calls) == 0 {
			break
		}
		results, err := t.resolveCalls()
		if err != nil {
			return err
		}
		if len(results) == 0 || round >= constant.MaxFunctionRounds || conv.MistralConversationId == nil {
			break
		}
		inputs = results
	}

	return s.complete(ctx, uow, t)
}

// attachedDocuments loads the referenced documents that belong to this conversation.
func (s *chatService) attachedDocuments(ctx context.Context, uow unitofwork.UnitOfWork, conv *entity.Conversation, ids []string) []*entity.Document {
	if len(ids) == 0 {
		return nil
	}
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		if id, err := uuid.Parse(raw); err == nil {
			parsed = append(parsed, id)
		}
	}
	if len(parsed) == 0 {
		return nil
	}
	docs, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByIDs{IDs: parsed},
		specification.ByConversationID{ConversationID: conv.Id},
	)
	if err != nil {
		s.logger.Warn("Chat", "failed to load attached documents", map[string]interface{}{"conversation_id": conv.Id, "error": err})
		return nil
	}
	return docs
}

func (s *chatService) persistState(ctx context.Context, uow unitofwork.UnitOfWork, t *turn) {
	agent := entity.AgentName(t.agent)
	t.conv.CurrentAgent = &agent
	if err := uow.ConversationRepository().Update(ctx, t.conv); err != nil {
		s.logger.Error("Chat", "failed to update conversation", map[string]interface{}{"conversation_id": t.conv.Id, "error": err})
	}
}

func (s *chatService) complete(ctx context.Context, uow unitofwork.UnitOfWork, t *turn) error {
	s.persistState(ctx, uow, t)

	text := t.text.String()
	if text == "" {
		return nil
	}
	msg := &entity.Message{
		Id:             uuid.New(),
		ConversationId: t.conv.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        text,
		AgentName:      strPtr(t.agent),
	}
	if err := uow.MessageRepository().Create(ctx, msg); err != nil {
		s.logger.Error("Chat", "failed to save assistant message", map[string]interface{}{"conversation_id": t.conv.Id, "error": err})
		return t.emit(errorFrame("Failed to save message", constant.ErrCodeInternal))
	}

	return t.emit(dto.ChatServerFrame{
		Type:      constant.FrameMessageComplete,
		Timestamp: msg.CreatedAt.Format(time.RFC3339Nano),
		MessageId: msg.Id.String(),
		Content:   text,
		Agent:     t.agent,
	})
}
