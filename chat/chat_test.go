package chat

import (
	"path/filepath"
	"sync"
	"testing"

	"novacore-chat/utils"
)

// fakeSettings is an in-memory Settings implementation
type fakeSettings struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{values: make(map[string]string)}
}

func (f *fakeSettings) GetSetting(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *fakeSettings) SetSetting(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}

// fakeNotifier records notifications
type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (f *fakeNotifier) Success(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successes = append(f.successes, message)
}

func (f *fakeNotifier) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, message)
}

func (f *fakeNotifier) lastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errors) == 0 {
		return ""
	}
	return f.errors[len(f.errors)-1]
}

func newTestLogger(t *testing.T) *utils.Logger {
	t.Helper()
	logger, err := utils.NewLogger(filepath.Join(t.TempDir(), "test.log"))
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger
}

func newTestStore(t *testing.T) (*SessionStore, *fakeSettings, *fakeNotifier) {
	t.Helper()
	settings := newFakeSettings()
	notifier := &fakeNotifier{}
	store := NewSessionStore(settings, notifier, newTestLogger(t))
	return store, settings, notifier
}
