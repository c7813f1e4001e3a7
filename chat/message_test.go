package chat

import (
	"encoding/json"
	"testing"
	"time"
)

func sentinelMessage() Message {
	return Message{
		ID:        "1",
		Content:   PlainText(WelcomeSentinel),
		Role:      RoleAssistant,
		Timestamp: time.Now(),
	}
}

func TestStripPlaceholders(t *testing.T) {
	sentinel := sentinelMessage()
	user := NewUserMessage(PlainText("Hello"), "")

	if got := StripPlaceholders([]Message{sentinel}); len(got) != 0 {
		t.Errorf("sentinel-only transcript should strip to empty, got %d messages", len(got))
	}

	got := StripPlaceholders([]Message{sentinel, user})
	if len(got) != 1 || got[0].ID != user.ID {
		t.Errorf("expected only the user message to survive, got %v", got)
	}
}

func TestStripPlaceholdersKeepsMultiPart(t *testing.T) {
	// Multi-part content never equals the sentinel, even if a text part does
	msg := NewUserMessage(MultiPart([]Part{{Type: PartTypeText, Text: WelcomeSentinel}}), "")
	if got := StripPlaceholders([]Message{msg}); len(got) != 1 {
		t.Errorf("multi-part message should never be treated as a placeholder")
	}
}

func TestIsPlaceholderOnly(t *testing.T) {
	sentinel := sentinelMessage()
	user := NewUserMessage(PlainText("hi"), "")

	if !IsPlaceholderOnly([]Message{sentinel}) {
		t.Error("sentinel-only transcript should be placeholder-only")
	}
	if IsPlaceholderOnly([]Message{sentinel, user}) {
		t.Error("transcript with a user message is not placeholder-only")
	}
}

func TestContentJSONPlainText(t *testing.T) {
	data, err := json.Marshal(PlainText("Hello"))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"Hello"` {
		t.Errorf("plain content should marshal to a JSON string, got %s", data)
	}

	var decoded Content
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.IsMultiPart() || decoded.Text != "Hello" {
		t.Errorf("round-trip changed content: %+v", decoded)
	}
}

func TestContentJSONMultiPart(t *testing.T) {
	content := MultiPart([]Part{
		{Type: PartTypeText, Text: "What do you see in this image?"},
		{Type: PartTypeImageURL, ImageURL: &ImageURL{URL: "data:image/png;base64,AAAA"}},
	})

	data, err := json.Marshal(content)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if data[0] != '[' {
		t.Errorf("multi-part content should marshal to a JSON array, got %s", data)
	}

	var decoded Content
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !decoded.IsMultiPart() || len(decoded.Parts) != 2 {
		t.Fatalf("round-trip changed content: %+v", decoded)
	}
	if decoded.Parts[1].ImageURL == nil || decoded.Parts[1].ImageURL.URL != "data:image/png;base64,AAAA" {
		t.Errorf("image part lost its payload: %+v", decoded.Parts[1])
	}
}

func TestDisplayText(t *testing.T) {
	if got := PlainText("hi").DisplayText(); got != "hi" {
		t.Errorf("DisplayText = %q, want %q", got, "hi")
	}

	multi := MultiPart([]Part{
		{Type: PartTypeText, Text: "look at this"},
		{Type: PartTypeImageURL, ImageURL: &ImageURL{URL: "data:x"}},
	})
	if got := multi.DisplayText(); got != "look at this" {
		t.Errorf("DisplayText = %q, want the text part", got)
	}

	imageOnly := MultiPart([]Part{{Type: PartTypeImageURL, ImageURL: &ImageURL{URL: "data:x"}}})
	if got := imageOnly.DisplayText(); got != "Image uploaded" {
		t.Errorf("DisplayText = %q, want fallback", got)
	}
}

func TestNewMessagesHaveDistinctIDs(t *testing.T) {
	a := NewUserMessage(PlainText("a"), "")
	b := NewAssistantMessage("b")
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		t.Errorf("message ids must be unique and non-empty: %q, %q", a.ID, b.ID)
	}
	if b.Content.IsMultiPart() {
		t.Error("assistant messages are always plain text")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "09:05" {
		t.Errorf("FormatTimestamp = %q, want %q", got, "09:05")
	}
}
