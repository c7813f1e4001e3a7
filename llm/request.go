package llm

import (
	"github.com/sashabaranov/go-openai"

	"novacore-chat/chat"
)

// BuildRequest transforms a transcript plus the pending input into the
// provider payload. Sentinel messages are stripped; when an image is
// pending, the just-appended user turn is rewritten as multi-part content
// carrying a text part and the image part. The caller guarantees at least
// one of pendingText or imageURL is non-empty.
func BuildRequest(cfg Config, history []chat.Message, pendingText, imageURL string) openai.ChatCompletionRequest {
	stripped := chat.StripPlaceholders(history)

	messages := make([]openai.ChatCompletionMessage, 0, len(stripped))
	for _, msg := range stripped {
		messages = append(messages, convertMessage(msg))
	}

	if imageURL != "" && len(messages) > 0 {
		prompt := pendingText
		if prompt == "" {
			prompt = DefaultImagePrompt
		}
		messages[len(messages)-1] = openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: prompt,
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL: imageURL,
					},
				},
			},
		}
	}

	return openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		Stream:      false,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
	}
}

// convertMessage maps a transcript message to the provider format, handling
// both content variants
func convertMessage(msg chat.Message) openai.ChatCompletionMessage {
	if !msg.Content.IsMultiPart() {
		return openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content.Text,
		}
	}

	parts := make([]openai.ChatMessagePart, 0, len(msg.Content.Parts))
	for _, part := range msg.Content.Parts {
		switch part.Type {
		case chat.PartTypeImageURL:
			url := ""
			if part.ImageURL != nil {
				url = part.ImageURL.URL
			}
			parts = append(parts, openai.ChatMessagePart{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: url},
			})
		default:
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		}
	}

	return openai.ChatCompletionMessage{
		Role:         msg.Role,
		MultiContent: parts,
	}
}
