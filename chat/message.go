package chat

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Message roles. Assistant messages always carry plain-text content.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// WelcomeSentinel marks the placeholder message seeded into every new
// session. It is never sent to the provider and never counts as real
// conversation content.
const WelcomeSentinel = "WELCOME_MESSAGE"

// Part is one element of multi-part message content, mirroring the
// provider's wire shape
type Part struct {
	Type     string    `json:"type"` // "text" or "image_url"
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image payload as a data URL
type ImageURL struct {
	URL string `json:"url"`
}

// Part types
const (
	PartTypeText     = "text"
	PartTypeImageURL = "image_url"
)

// Content is message content in one of two variants: plain text, or an
// ordered list of typed parts used for the single user turn that carries an
// attachment. The zero value is empty plain text.
type Content struct {
	Text  string
	Parts []Part
}

// PlainText builds a plain-text content value
func PlainText(text string) Content {
	return Content{Text: text}
}

// MultiPart builds a multi-part content value
func MultiPart(parts []Part) Content {
	return Content{Parts: parts}
}

// IsMultiPart reports whether the content is the parts variant
func (c Content) IsMultiPart() bool {
	return c.Parts != nil
}

// DisplayText returns the text to show in a transcript: the string itself
// for plain content, or the first text part for multi-part content.
func (c Content) DisplayText() string {
	if !c.IsMultiPart() {
		return c.Text
	}
	for _, part := range c.Parts {
		if part.Type == PartTypeText {
			return part.Text
		}
	}
	return "Image uploaded"
}

// MarshalJSON encodes plain content as a JSON string and multi-part content
// as a JSON array, matching the provider wire format.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.IsMultiPart() {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

// UnmarshalJSON accepts either wire shape
func (c *Content) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = Content{Text: text}
		return nil
	}

	var parts []Part
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("content is neither a string nor a part list: %w", err)
	}
	*c = Content{Parts: parts}
	return nil
}

// Message is a single entry in a session transcript
type Message struct {
	ID        string    `json:"id"`
	Content   Content   `json:"content"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Image holds the raw attachment data URL for re-rendering the
	// thumbnail. It is never sent to the provider a second time.
	Image string `json:"image,omitempty"`
}

// NewUserMessage creates a user message. image is the optional attachment
// preview retained for display.
func NewUserMessage(content Content, image string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      RoleUser,
		Timestamp: time.Now(),
		Image:     image,
	}
}

// NewAssistantMessage creates a plain-text assistant message
func NewAssistantMessage(text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   PlainText(text),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

// IsPlaceholder reports whether the message is the welcome sentinel.
// Multi-part content never matches.
func (m Message) IsPlaceholder() bool {
	return !m.Content.IsMultiPart() && m.Content.Text == WelcomeSentinel
}

// StripPlaceholders returns msgs without sentinel entries. Used before
// building any outbound request.
func StripPlaceholders(msgs []Message) []Message {
	filtered := make([]Message, 0, len(msgs))
	for _, msg := range msgs {
		if msg.IsPlaceholder() {
			continue
		}
		filtered = append(filtered, msg)
	}
	return filtered
}

// IsPlaceholderOnly reports whether every message is the sentinel, i.e. the
// transcript has not yet received a real turn.
func IsPlaceholderOnly(msgs []Message) bool {
	for _, msg := range msgs {
		if !msg.IsPlaceholder() {
			return false
		}
	}
	return true
}

// FormatTimestamp renders a message time as hour:minute for display
func FormatTimestamp(t time.Time) string {
	return t.Format("15:04")
}
