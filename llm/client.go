package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"novacore-chat/chat"
	"novacore-chat/utils"
)

const fallbackErrorMessage = "Failed to get response from OpenAI"

// Client performs chat-completion calls against an OpenAI-compatible
// endpoint. One attempt per call: no retry, no timeout beyond the transport
// default.
type Client struct {
	cfg    Config
	logger *utils.Logger
}

// NewClient creates a completion client
func NewClient(cfg Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:    cfg,
		logger: logger,
	}
}

// Complete implements chat.Completer. It builds the provider request from
// the transcript and pending input, issues it with the credential as a
// bearer token and extracts the first choice's message text.
func (c *Client) Complete(ctx context.Context, history []chat.Message, pendingText, imageURL, credential string) (string, error) {
	req := BuildRequest(c.cfg, history, pendingText, imageURL)

	clientConfig := openai.DefaultConfig(credential)
	if c.cfg.BaseURL != "" {
		clientConfig.BaseURL = c.cfg.BaseURL
	}
	api := openai.NewClientWithConfig(clientConfig)

	c.logger.Debug("Sending completion request: model=%s messages=%d", req.Model, len(req.Messages))

	resp, err := api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", providerError(err)
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Message: "malformed response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// providerError maps a transport or HTTP failure to a ProviderError carrying
// the most specific human-readable message available. A parsed error body's
// message is used verbatim; anything else falls back to a generic notice.
func providerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		message := fallbackErrorMessage
		if apiErr.Message != "" {
			message = apiErr.Message
		}
		return &ProviderError{Message: message, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{
			Message: fmt.Sprintf("%s (status %d)", fallbackErrorMessage, reqErr.HTTPStatusCode),
			Err:     err,
		}
	}

	return &ProviderError{Message: fallbackErrorMessage, Err: err}
}
