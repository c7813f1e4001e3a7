package chat

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is the placeholder title a session carries until its
// first real user message fixes the title.
const DefaultSessionTitle = "New Chat"

const titleMaxLen = 30

// ChatSession is one independent conversation thread. Messages is never
// empty at rest: a fresh session holds exactly one welcome sentinel.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewChatSession creates a session seeded with the welcome sentinel. The id
// is time-based; uniqueness and stable creation order are all that matter.
func NewChatSession() ChatSession {
	now := time.Now()
	return ChatSession{
		ID:    strconv.FormatInt(now.UnixNano(), 10),
		Title: DefaultSessionTitle,
		Messages: []Message{
			{
				ID:        uuid.NewString(),
				Content:   PlainText(WelcomeSentinel),
				Role:      RoleAssistant,
				Timestamp: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DeriveTitle derives a session title from its transcript: the first 30
// characters of the first plain-text user message, with an ellipsis marker
// if truncated. Falls back to a date-stamped default when no plain-text user
// message exists yet.
func DeriveTitle(msgs []Message) string {
	for _, msg := range msgs {
		if msg.Role != RoleUser || msg.Content.IsMultiPart() {
			continue
		}
		runes := []rune(msg.Content.Text)
		if len(runes) > titleMaxLen {
			return string(runes[:titleMaxLen]) + "..."
		}
		return msg.Content.Text
	}
	return "Chat " + time.Now().Format("1/2/2006")
}
