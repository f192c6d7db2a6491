package model

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// PromptMessage is the wire format sent to the completion API.
type PromptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationTurn is one retained question or answer in a session's
// role-tagged transcript.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
