package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

type TranscriptRepository interface {
	// AppendMessages adds settled chat messages to the session transcript
	AppendMessages(ctx context.Context, sessionID string, messages ...*schema.Message) error

	// LoadTranscript retrieves every archived message of a session
	LoadTranscript(ctx context.Context, sessionID string) ([]*schema.Message, error)

	// ClearTranscript removes a session transcript
	ClearTranscript(ctx context.Context, sessionID string) error

	// MessageCount returns the number of archived messages of a session
	MessageCount(ctx context.Context, sessionID string) (int, error)
}
