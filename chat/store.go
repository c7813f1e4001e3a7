package chat

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"novacore-chat/utils"
)

// Settings key for the serialized session collection
const sessionsKey = "chat-sessions"

// SessionStore owns the session collection, the notion of the current
// session and the active transcript. The collection is ordered newest-created
// first. Every change is serialized in full back to persistent storage.
//
// All state lives behind one mutex: the completion reply arrives on a
// goroutine while the UI keeps reading.
type SessionStore struct {
	settings Settings
	notifier Notifier
	logger   *utils.Logger

	mu        sync.Mutex
	sessions  []ChatSession
	currentID string
	active    []Message
	subs      []func()
}

// NewSessionStore creates a session store backed by settings
func NewSessionStore(settings Settings, notifier Notifier, logger *utils.Logger) *SessionStore {
	return &SessionStore{
		settings: settings,
		notifier: notifier,
		logger:   logger,
	}
}

// Subscribe registers a callback fired after every store mutation. Callbacks
// run outside the store lock, so they may call back into the store.
func (s *SessionStore) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// Initialize loads the persisted collection. If sessions exist, the
// most-recently-created one (first in stored order) becomes current;
// otherwise a fresh session is created.
func (s *SessionStore) Initialize() error {
	raw, ok, err := s.settings.GetSetting(sessionsKey)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	if ok {
		var sessions []ChatSession
		if err := json.Unmarshal([]byte(raw), &sessions); err != nil {
			return fmt.Errorf("failed to decode stored sessions: %w", err)
		}
		if len(sessions) > 0 {
			s.mu.Lock()
			s.sessions = sessions
			s.currentID = sessions[0].ID
			s.active = copyMessages(sessions[0].Messages)
			s.mu.Unlock()
			s.notifySubscribers()
			return nil
		}
	}

	s.CreateSession()
	return nil
}

// CreateSession builds a new session with one sentinel message, inserts it
// at the front of the collection and makes it current.
func (s *SessionStore) CreateSession() ChatSession {
	session := NewChatSession()

	s.mu.Lock()
	s.sessions = append([]ChatSession{session}, s.sessions...)
	s.currentID = session.ID
	s.active = copyMessages(session.Messages)
	s.persistLocked()
	s.mu.Unlock()

	s.notifySubscribers()
	return session
}

// SwitchTo makes the given session current and loads its transcript as
// active. An unknown id is a silent no-op.
func (s *SessionStore) SwitchTo(sessionID string) {
	s.mu.Lock()
	idx := s.indexLocked(sessionID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.currentID = sessionID
	s.active = copyMessages(s.sessions[idx].Messages)
	s.mu.Unlock()

	s.notifySubscribers()
}

// RecordActiveMessages writes the transcript into the current session's slot
// and persists the collection. On the session's first transition away from
// its single-message state the title is derived and frozen.
func (s *SessionStore) RecordActiveMessages(msgs []Message) {
	s.mu.Lock()
	s.active = copyMessages(msgs)
	idx := s.indexLocked(s.currentID)
	if idx >= 0 && len(msgs) > 0 {
		if len(s.sessions[idx].Messages) == 1 {
			s.sessions[idx].Title = DeriveTitle(msgs)
		}
		s.sessions[idx].Messages = copyMessages(msgs)
		s.sessions[idx].UpdatedAt = time.Now()
		s.persistLocked()
	}
	s.mu.Unlock()

	s.notifySubscribers()
}

// AppendToSession appends a message to the session it originated from,
// whether or not that session is still current. A reply for a session the
// user has deleted in the meantime is dropped.
func (s *SessionStore) AppendToSession(sessionID string, msg Message) {
	s.mu.Lock()
	idx := s.indexLocked(sessionID)
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("Dropping message for deleted session %s", sessionID)
		return
	}
	s.sessions[idx].Messages = append(s.sessions[idx].Messages, msg)
	s.sessions[idx].UpdatedAt = time.Now()
	if sessionID == s.currentID {
		s.active = copyMessages(s.sessions[idx].Messages)
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notifySubscribers()
}

// DeleteSession removes a session. When the current session is deleted, the
// last remaining session in stored order is promoted; when none remain, a
// fresh session takes its place. Deletion always reports success.
func (s *SessionStore) DeleteSession(sessionID string) {
	s.mu.Lock()
	idx := s.indexLocked(sessionID)
	if idx >= 0 {
		s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	}
	if sessionID == s.currentID {
		if len(s.sessions) > 0 {
			promoted := &s.sessions[len(s.sessions)-1]
			s.currentID = promoted.ID
			s.active = copyMessages(promoted.Messages)
		} else {
			session := NewChatSession()
			s.sessions = []ChatSession{session}
			s.currentID = session.ID
			s.active = copyMessages(session.Messages)
		}
	}
	s.persistLocked()
	s.mu.Unlock()

	s.notifier.Success("Chat deleted")
	s.notifySubscribers()
}

// Sessions returns a snapshot of the collection in stored order
func (s *SessionStore) Sessions() []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessions := make([]ChatSession, len(s.sessions))
	for i, session := range s.sessions {
		sessions[i] = session
		sessions[i].Messages = copyMessages(session.Messages)
	}
	return sessions
}

// CurrentID returns the id of the current session
func (s *SessionStore) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// ActiveMessages returns a snapshot of the active transcript
func (s *SessionStore) ActiveMessages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.active)
}

// persistLocked serializes the whole collection to storage. Called with the
// lock held; an empty collection is never written.
func (s *SessionStore) persistLocked() {
	if len(s.sessions) == 0 {
		return
	}
	data, err := json.Marshal(s.sessions)
	if err != nil {
		s.logger.Error("Failed to serialize sessions: %v", err)
		return
	}
	if err := s.settings.SetSetting(sessionsKey, string(data)); err != nil {
		s.logger.Error("Failed to persist sessions: %v", err)
	}
}

// indexLocked returns the collection index for a session id, or -1
func (s *SessionStore) indexLocked(sessionID string) int {
	for i, session := range s.sessions {
		if session.ID == sessionID {
			return i
		}
	}
	return -1
}

func (s *SessionStore) notifySubscribers() {
	s.mu.Lock()
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

func copyMessages(msgs []Message) []Message {
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out
}
