package model

import "github.com/cloudwego/eino/schema"

const (
	// PlaceholderText marks the in-progress assistant turn.
	PlaceholderText = "...thinking..."
	// ChatFailureText replaces the placeholder when a reply cannot be fetched.
	ChatFailureText = "माफ़ कीजिये, अभी कुछ गड़बड़ हो गयी है। कृपया थोड़ी देर बाद try करें।"
)

// ChatTurn is one entry of a chat session. Role is schema.User or
// schema.Assistant.
type ChatTurn struct {
	ID          string          `json:"id"`
	Role        schema.RoleType `json:"role"`
	Text        string          `json:"text"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

// Message converts the turn into an eino message for archiving.
func (t ChatTurn) Message() *schema.Message {
	if t.Role == schema.User {
		return schema.UserMessage(t.Text)
	}
	return schema.AssistantMessage(t.Text, nil)
}

// HistoryEntry is the wire form of a prior turn sent with a chat message.
type HistoryEntry struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type ChatReply struct {
	Text string `json:"response"`
}
