package chat

import (
	"strings"
	"sync"
)

// Settings key for the persisted API key
const credentialKey = "openai-api-key"

// Provider key prefix convention
const credentialPrefix = "sk-"

// CredentialStore holds the provider API key in memory and mirrors it to
// persistent storage.
type CredentialStore struct {
	settings Settings
	notifier Notifier

	mu  sync.Mutex
	key string
}

// NewCredentialStore creates a credential store backed by settings
func NewCredentialStore(settings Settings, notifier Notifier) *CredentialStore {
	return &CredentialStore{
		settings: settings,
		notifier: notifier,
	}
}

// Load reads the persisted credential into memory. Absence is not an error.
func (c *CredentialStore) Load() error {
	value, ok, err := c.settings.GetSetting(credentialKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	c.mu.Lock()
	c.key = value
	c.mu.Unlock()
	return nil
}

// Current returns the active credential and whether one is set
func (c *CredentialStore) Current() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key, c.key != ""
}

// Validate checks a candidate key against the provider's conventions
func (c *CredentialStore) Validate(candidate string) error {
	if strings.TrimSpace(candidate) == "" {
		return ErrEmptyCredential
	}
	if !strings.HasPrefix(candidate, credentialPrefix) {
		return ErrMalformedCredential
	}
	return nil
}

// Save validates the candidate, persists it and makes it the active
// credential. The outcome is reported through the notifier either way.
func (c *CredentialStore) Save(candidate string) error {
	if err := c.Validate(candidate); err != nil {
		c.notifier.Error(err.Error())
		return err
	}

	if err := c.settings.SetSetting(credentialKey, candidate); err != nil {
		c.notifier.Error("Failed to save API key: " + err.Error())
		return err
	}

	c.mu.Lock()
	c.key = candidate
	c.mu.Unlock()

	c.notifier.Success("API key saved successfully!")
	return nil
}
