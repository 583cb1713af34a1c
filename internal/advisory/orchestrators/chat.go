package orchestrators

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/fasal-sarthi-core/client/internal/advisory/async"
	"github.com/fasal-sarthi-core/client/internal/advisory/model"
	errx "github.com/fasal-sarthi-core/client/internal/core/error"
	logx "github.com/fasal-sarthi-core/client/pkg/logger"
)

// historyRoleAssistant is how the chat service names assistant turns.
const historyRoleAssistant = "bot"

var (
	errEmptyMessage = errx.Validation("Please type a message first.")
	errReplyPending = errx.Validation("Please wait for the current reply before sending another message.")
	errNoArchive    = errx.Validation("Transcript archive is not configured.")
	errEmptySession = errx.Validation("Session id must not be empty.")
	errNoSuchChat   = errx.Validation("No archived chat found for this session.")
)

// ChatSnapshot is a chat session at one instant. Turns is shared between
// snapshots and must not be modified.
type ChatSnapshot struct {
	Version   uint64                       `json:"version"`
	SessionID string                       `json:"session_id"`
	Turns     []model.ChatTurn             `json:"turns"`
	Reply     async.State[model.ChatReply] `json:"reply"`
}

func (s ChatSnapshot) SnapshotVersion() uint64 { return s.Version }

// Pending reports whether a reply is outstanding.
func (s ChatSnapshot) Pending() bool { return s.Reply.IsPending() }

// Chat runs one conversation with the advisor. Each send appends the user
// turn and a placeholder; the placeholder is swapped for the reply, or for
// model.ChatFailureText, when the call settles.
type Chat struct {
	gw         model.ChatGateway
	archive    model.TranscriptRepository
	greeting   string
	maxHistory int

	mu        sync.Mutex
	sessionID string
	turns     []model.ChatTurn
	reply     async.Slot[model.ChatReply]
	version   uint64

	hub *async.Hub[ChatSnapshot]
}

// NewChat starts a fresh session. archive may be nil.
func NewChat(gw model.ChatGateway, cfg model.ChatConfig, archive model.TranscriptRepository) *Chat {
	c := &Chat{
		gw:         gw,
		archive:    archive,
		greeting:   strings.TrimSpace(cfg.Greeting),
		maxHistory: cfg.MaxHistoryTurns,
		hub:        async.NewHub[ChatSnapshot](),
	}
	c.sessionID = uuid.NewString()
	c.turns = c.initialTurns()
	return c
}

func (c *Chat) Snapshot() ChatSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Chat) Subscribe() (<-chan ChatSnapshot, func()) {
	return c.hub.Subscribe()
}

// Send submits a user message and blocks until the reply settles. Only an
// empty message or a send while a reply is outstanding returns an error;
// those leave the session unchanged.
func (c *Chat) Send(ctx context.Context, text string) (ChatSnapshot, error) {
	text = strings.TrimSpace(text)

	c.mu.Lock()
	if text == "" || c.reply.State().IsPending() {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		if text == "" {
			return snap, errEmptyMessage
		}
		return snap, errReplyPending
	}

	history := c.historyLocked()
	user := model.ChatTurn{ID: uuid.NewString(), Role: schema.User, Text: text}
	placeholder := model.ChatTurn{ID: uuid.NewString(), Role: schema.Assistant, Text: model.PlaceholderText, Placeholder: true}
	c.turns = appendTurns(c.turns, user, placeholder)
	tok := c.reply.Begin()
	sessionID := c.sessionID
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)

	reply, err := c.gw.SendChatMessage(ctx, text, history)

	c.mu.Lock()
	settled := model.ChatTurn{ID: placeholder.ID, Role: schema.Assistant}
	var applied bool
	if err != nil {
		applied = c.reply.Fail(tok, err)
		settled.Text = model.ChatFailureText
	} else {
		applied = c.reply.Succeed(tok, reply)
		settled.Text = reply.Text
	}
	if !applied {
		logx.Debug().Str("session", sessionID).Uint64("token", uint64(tok)).Msg("discarding stale chat reply")
		snap = c.snapshotLocked()
		c.mu.Unlock()
		return snap, nil
	}
	if err != nil {
		logx.Warn().Err(err).Str("session", sessionID).Msg("chat reply failed")
	}
	c.turns = replaceTurn(c.turns, settled)
	snap = c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)

	if err == nil {
		c.archiveTurns(ctx, sessionID, user, settled)
	}
	return snap, nil
}

// Reset starts a new session. A reply still in flight is discarded.
func (c *Chat) Reset() ChatSnapshot {
	c.mu.Lock()
	c.sessionID = uuid.NewString()
	c.turns = c.initialTurns()
	c.reply.Reset()
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)
	return snap
}

// Resume replaces the current session with an archived one.
func (c *Chat) Resume(ctx context.Context, sessionID string) (ChatSnapshot, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return c.Snapshot(), errEmptySession
	}
	if c.archive == nil {
		return c.Snapshot(), errNoArchive
	}
	n, err := c.archive.MessageCount(ctx, sessionID)
	if err != nil {
		return c.Snapshot(), err
	}
	if n == 0 {
		return c.Snapshot(), errNoSuchChat
	}
	msgs, err := c.archive.LoadTranscript(ctx, sessionID)
	if err != nil {
		return c.Snapshot(), err
	}

	turns := c.initialTurns()
	for _, m := range msgs {
		if m == nil || (m.Role != schema.User && m.Role != schema.Assistant) {
			continue
		}
		turns = append(turns, model.ChatTurn{ID: uuid.NewString(), Role: m.Role, Text: m.Content})
	}

	c.mu.Lock()
	c.sessionID = sessionID
	c.turns = turns
	c.reply.Reset()
	snap := c.commitLocked()
	c.mu.Unlock()
	c.hub.Publish(snap)

	logx.Info().Str("session", sessionID).Int("messages", len(msgs)).Msg("chat session resumed")
	return snap, nil
}

func (c *Chat) archiveTurns(ctx context.Context, sessionID string, turns ...model.ChatTurn) {
	if c.archive == nil {
		return
	}
	msgs := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		msgs = append(msgs, t.Message())
	}
	if err := c.archive.AppendMessages(ctx, sessionID, msgs...); err != nil {
		logx.Error().Err(err).Str("session", sessionID).Msg("failed to archive chat turns")
	}
}

func (c *Chat) initialTurns() []model.ChatTurn {
	if c.greeting == "" {
		return nil
	}
	return []model.ChatTurn{{ID: uuid.NewString(), Role: schema.Assistant, Text: c.greeting}}
}

// historyLocked returns the settled turns sent as context with the next
// message, newest last.
func (c *Chat) historyLocked() []model.HistoryEntry {
	settled := make([]model.ChatTurn, 0, len(c.turns))
	for _, t := range c.turns {
		if !t.Placeholder {
			settled = append(settled, t)
		}
	}
	settled = trimTail(settled, c.maxHistory)

	history := make([]model.HistoryEntry, 0, len(settled))
	for _, t := range settled {
		role := string(t.Role)
		if t.Role == schema.Assistant {
			role = historyRoleAssistant
		}
		history = append(history, model.HistoryEntry{Role: role, Message: t.Text})
	}
	return history
}

func (c *Chat) commitLocked() ChatSnapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Chat) snapshotLocked() ChatSnapshot {
	return ChatSnapshot{
		Version:   c.version,
		SessionID: c.sessionID,
		Turns:     c.turns,
		Reply:     c.reply.State(),
	}
}

// appendTurns returns a new slice; turns is never written to.
func appendTurns(turns []model.ChatTurn, more ...model.ChatTurn) []model.ChatTurn {
	out := make([]model.ChatTurn, 0, len(turns)+len(more))
	out = append(out, turns...)
	return append(out, more...)
}

// replaceTurn returns a copy of turns with the entry sharing t's ID swapped
// for t.
func replaceTurn(turns []model.ChatTurn, t model.ChatTurn) []model.ChatTurn {
	out := make([]model.ChatTurn, len(turns))
	copy(out, turns)
	for i := range out {
		if out[i].ID == t.ID {
			out[i] = t
			break
		}
	}
	return out
}

func trimTail[T any](items []T, maxTurns int) []T {
	if maxTurns <= 0 || len(items) <= maxTurns {
		return items
	}
	return items[len(items)-maxTurns:]
}
