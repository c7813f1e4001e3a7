package db

import (
	"path/filepath"
	"testing"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "data", "chat.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSettingMissing(t *testing.T) {
	database := newTestDB(t)

	value, ok, err := database.GetSetting("nope")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if ok || value != "" {
		t.Errorf("missing key returned (%q, %v), want empty and false", value, ok)
	}
}

func TestSettingRoundTrip(t *testing.T) {
	database := newTestDB(t)

	if err := database.SetSetting("openai-api-key", "sk-test"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}

	value, ok, err := database.GetSetting("openai-api-key")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != "sk-test" {
		t.Errorf("got (%q, %v), want the stored value", value, ok)
	}
}

func TestSettingOverwrite(t *testing.T) {
	database := newTestDB(t)

	if err := database.SetSetting("chat-sessions", `[{"id":"1"}]`); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := database.SetSetting("chat-sessions", `[{"id":"2"}]`); err != nil {
		t.Fatalf("second SetSetting failed: %v", err)
	}

	value, ok, err := database.GetSetting("chat-sessions")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if !ok || value != `[{"id":"2"}]` {
		t.Errorf("got (%q, %v), want the latest value", value, ok)
	}
}

func TestSettingDelete(t *testing.T) {
	database := newTestDB(t)

	if err := database.SetSetting("key", "value"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := database.DeleteSetting("key"); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	if _, ok, _ := database.GetSetting("key"); ok {
		t.Error("deleted key still present")
	}

	// Deleting a missing key is not an error
	if err := database.DeleteSetting("key"); err != nil {
		t.Errorf("deleting a missing key failed: %v", err)
	}
}
