package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"novacore-chat/chat"
	"novacore-chat/db"
	"novacore-chat/llm"
	"novacore-chat/utils"
)

// App is a line-oriented terminal front-end over the chat core. It stands in
// for the browser surface: it owns the pending input and attachment, relays
// actions to the stores and pipeline, and renders notifications and
// transcript updates as they happen.
type App struct {
	cfg    *utils.Config
	logger *utils.Logger

	store    *chat.SessionStore
	creds    *chat.CredentialStore
	pipeline *chat.Pipeline

	in  io.Reader
	out io.Writer

	// Pending attachment for the next turn (image data URL)
	pendingImage string

	// Guards lastPrinted: subscriber callbacks arrive on the send goroutine
	printMu     sync.Mutex
	lastPrinted string
}

// NewApp wires the stores and pipeline to the database and terminal
func NewApp(cfg *utils.Config, database *db.DB, logger *utils.Logger) *App {
	app := &App{
		cfg:    cfg,
		logger: logger,
		in:     os.Stdin,
		out:    os.Stdout,
	}

	app.store = chat.NewSessionStore(database, app, logger)
	app.creds = chat.NewCredentialStore(database, app)

	clientCfg := llm.DefaultConfig()
	if cfg.Provider.BaseURL != "" {
		clientCfg.BaseURL = cfg.Provider.BaseURL
	}
	if cfg.Provider.Model != "" {
		clientCfg.Model = cfg.Provider.Model
	}
	if cfg.Provider.MaxTokens > 0 {
		clientCfg.MaxTokens = cfg.Provider.MaxTokens
	}
	if cfg.Provider.Temperature > 0 {
		clientCfg.Temperature = float32(cfg.Provider.Temperature)
	}
	client := llm.NewClient(clientCfg, logger)

	app.pipeline = chat.NewPipeline(app.store, app.creds, client, app, logger)
	app.store.Subscribe(app.renderLatest)

	return app
}

// Success implements chat.Notifier
func (a *App) Success(message string) {
	fmt.Fprintf(a.out, "✔ %s\n", message)
}

// Error implements chat.Notifier
func (a *App) Error(message string) {
	fmt.Fprintf(a.out, "✖ %s\n", message)
}

// Run starts the read-eval loop and blocks until the input ends or the user
// quits.
func (a *App) Run() error {
	if err := a.creds.Load(); err != nil {
		return fmt.Errorf("failed to load credential: %w", err)
	}
	if err := a.store.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}

	if _, ok := a.creds.Current(); !ok {
		fmt.Fprintln(a.out, "No API key configured. Set one with: /key sk-...")
	}
	fmt.Fprintln(a.out, "Type a message to chat, or /help for commands.")

	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		a.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		a.handle(line)
	}
}

func (a *App) prompt() {
	if a.pipeline.Sending() {
		fmt.Fprint(a.out, "(thinking) > ")
		return
	}
	if a.pendingImage != "" {
		fmt.Fprint(a.out, "[image attached] > ")
		return
	}
	fmt.Fprint(a.out, "> ")
}

func (a *App) handle(line string) {
	if !strings.HasPrefix(line, "/") {
		a.send(line)
		return
	}

	command, arg := line, ""
	if idx := strings.IndexByte(line, ' '); idx > 0 {
		command, arg = line[:idx], strings.TrimSpace(line[idx+1:])
	}

	switch command {
	case "/help":
		a.printHelp()
	case "/key":
		// Validation and the success/error notice happen in the store
		a.creds.Save(arg)
	case "/new":
		session := a.store.CreateSession()
		fmt.Fprintf(a.out, "Started %s\n", session.Title)
	case "/list":
		a.printSessions()
	case "/switch":
		a.store.SwitchTo(a.resolveSessionID(arg))
		a.printHistory()
	case "/delete":
		a.store.DeleteSession(a.resolveSessionID(arg))
	case "/image":
		a.attachImage(arg)
	case "/file":
		a.attachTextFile(arg)
	case "/history":
		a.printHistory()
	default:
		a.Error("Unknown command: " + command)
	}
}

// send runs the pipeline in the background so the loop stays responsive.
// The pipeline rejects overlapping sends on its own.
func (a *App) send(text string) {
	if a.pipeline.Sending() {
		a.Error("Still waiting for the previous response")
		return
	}

	image := a.pendingImage
	a.pendingImage = ""

	utils.SafeGo(a.logger, "send message", func() {
		// Errors are surfaced through the notifier; nothing else to do here
		_ = a.pipeline.Send(context.Background(), text, image)
	})
}

func (a *App) attachImage(path string) {
	if path == "" {
		a.Error("Usage: /image <path>")
		return
	}
	dataURL, err := utils.LoadImageAttachment(path)
	if err != nil {
		a.Error(err.Error())
		return
	}
	a.pendingImage = dataURL
	a.Success("Selected: " + path)
}

func (a *App) attachTextFile(path string) {
	if path == "" {
		a.Error("Usage: /file <path>")
		return
	}
	content, err := utils.LoadTextAttachment(path)
	if err != nil {
		a.Error(err.Error())
		return
	}
	a.Success("Selected: " + path)
	fmt.Fprintln(a.out, "File content will be sent as your next message; add a question after it if you like.")
	a.send(content)
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `Commands:
  /key <sk-...>    set the OpenAI API key
  /new             start a new chat
  /list            list chats
  /switch <n|id>   switch to a chat
  /delete <n|id>   delete a chat
  /image <path>    attach an image to the next message
  /file <path>     send a text file's content
  /history         show the current transcript
  /quit            exit`)
}

func (a *App) printSessions() {
	current := a.store.CurrentID()
	for i, session := range a.store.Sessions() {
		marker := " "
		if session.ID == current {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %2d. %s (%d messages)\n", marker, i+1, session.Title, len(chat.StripPlaceholders(session.Messages)))
	}
}

func (a *App) printHistory() {
	msgs := chat.StripPlaceholders(a.store.ActiveMessages())
	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "(empty chat)")
		return
	}
	for _, msg := range msgs {
		a.printMessage(msg)
	}
}

func (a *App) printMessage(msg chat.Message) {
	label := "you"
	if msg.Role == chat.RoleAssistant {
		label = "assistant"
	}
	fmt.Fprintf(a.out, "[%s] %s: %s\n", chat.FormatTimestamp(msg.Timestamp), label, msg.Content.DisplayText())
	if msg.Image != "" {
		fmt.Fprintf(a.out, "    (attached image, %s)\n", utils.FormatFileSize(int64(len(msg.Image))))
	}
}

// resolveSessionID accepts either a 1-based list position or a raw session
// id. Unknown input passes through unchanged; the store treats it as a
// silent no-op.
func (a *App) resolveSessionID(arg string) string {
	sessions := a.store.Sessions()
	var n int
	if _, err := fmt.Sscanf(arg, "%d", &n); err == nil && n >= 1 && n <= len(sessions) {
		return sessions[n-1].ID
	}
	return arg
}

// renderLatest prints the newest message of the active transcript after a
// store mutation, skipping anything already shown.
func (a *App) renderLatest() {
	msgs := a.store.ActiveMessages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	if last.IsPlaceholder() {
		return
	}

	a.printMu.Lock()
	seen := last.ID == a.lastPrinted
	a.lastPrinted = last.ID
	a.printMu.Unlock()
	if seen {
		return
	}
	a.printMessage(last)
}
