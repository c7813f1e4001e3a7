package chat

// Notifier receives user-facing notices. The UI layer implements it; the
// core never renders anything itself.
type Notifier interface {
	// Success reports a completed action
	Success(message string)

	// Error reports a failure the user should see
	Error(message string)
}

// Settings is the persistent key-value storage the chat state is mirrored
// to. *db.DB satisfies it.
type Settings interface {
	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}
