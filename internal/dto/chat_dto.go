package dto

// ChatClientFrame is what the mobile app sends over the chat socket.
type ChatClientFrame struct {
	Type        string   `json:"type"`
	Content     string   `json:"content"`
	DocumentIds []string `json:"document_ids"`
}

// ChatServerFrame is one event pushed to the chat socket. Unused fields are omitted.
type ChatServerFrame struct {
	Type      string                 `json:"type"`
	Timestamp string                 `json:"timestamp"`
	Agent     string                 `json:"agent,omitempty"`
	FromAgent string                 `json:"from_agent,omitempty"`
	ToAgent   string                 `json:"to_agent,omitempty"`
	Content   string                 `json:"content,omitempty"`
	MessageId string                 `json:"message_id,omitempty"`
	Function  string                 `json:"function,omitempty"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Code      string                 `json:"code,omitempty"`
}
