package chat

import (
	"context"
	"strings"
	"sync/atomic"

	"novacore-chat/utils"
)

// Completer is the completion client collaborator. history is the transcript
// including the just-appended user turn; pendingText and imageURL describe
// the pending input that turn was built from.
type Completer interface {
	Complete(ctx context.Context, history []Message, pendingText, imageURL, credential string) (string, error)
}

// Pipeline drives the send-message flow: precondition checks, optimistic
// user append, the provider call and reconciliation of the reply. It is a
// two-state machine, Idle and Sending, and the Sending flag doubles as the
// mutual-exclusion guard: at most one request is in flight.
type Pipeline struct {
	store    *SessionStore
	creds    *CredentialStore
	client   Completer
	notifier Notifier
	logger   *utils.Logger

	sending atomic.Bool
}

// NewPipeline wires the orchestrator to its collaborators
func NewPipeline(store *SessionStore, creds *CredentialStore, client Completer, notifier Notifier, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		store:    store,
		creds:    creds,
		client:   client,
		notifier: notifier,
		logger:   logger,
	}
}

// Sending reports whether a request is in flight. The UI disables the send
// control while this is true.
func (p *Pipeline) Sending() bool {
	return p.sending.Load()
}

// Send runs one pipeline execution: validates preconditions, appends the
// user message, calls the provider and appends the reply. The reply is
// routed to the session that originated the request, by id, even if the
// user has switched sessions while it was in flight.
//
// A failed send never appends an assistant message; the user's own message
// stays in the transcript since it was appended optimistically. The Sending
// flag is cleared on every path.
func (p *Pipeline) Send(ctx context.Context, text, imageURL string) error {
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return ErrEmptyInput
	}

	credential, ok := p.creds.Current()
	if !ok {
		p.notifier.Error("Please set your OpenAI API key in settings first")
		return ErrMissingCredential
	}

	if !p.sending.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer p.sending.Store(false)

	sessionID := p.store.CurrentID()

	// Drop the welcome sentinel when the real conversation starts
	history := StripPlaceholders(p.store.ActiveMessages())

	displayText := text
	if displayText == "" {
		displayText = "Image uploaded"
	}
	history = append(history, NewUserMessage(PlainText(displayText), imageURL))
	p.store.RecordActiveMessages(history)

	reply, err := p.client.Complete(ctx, history, text, imageURL, credential)
	if err != nil {
		p.logger.Error("Completion request failed: %v", err)
		p.notifier.Error(err.Error())
		return err
	}

	p.store.AppendToSession(sessionID, NewAssistantMessage(reply))
	p.notifier.Success("Response received!")
	return nil
}
