package constant

// Chat socket frame types.
const (
	FrameAgentStart       = "agent_start"
	FrameHandoffStarted   = "agent_handoff_started"
	FrameHandoffDone      = "agent_handoff_done"
	FrameMessageChunk     = "message_chunk"
	FrameFunctionCall     = "function_call"
	FrameMessageComplete  = "message_complete"
	FrameError            = "error"
	FrameTypeUserMessage  = "message"
	SummaryMessagePattern = "Zusammenfassung generiert: %d Zeichen"
)

// Chat error codes.
const (
	ErrCodeInvalidMessageType = "invalid_message_type"
	ErrCodeEmptyMessage       = "empty_message"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeAgentNotFound      = "agent_not_found"
	ErrCodeConversationError  = "conversation_error"
	ErrCodeAgentProcessing    = "agent_processing_error"
	ErrCodeInternal           = "internal_error"
)

// WebSocket close codes.
const (
	CloseUnsupportedData = 1003
	ClosePolicyViolation = 1008
	CloseInternalError   = 1011
)
