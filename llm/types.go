package llm

// DefaultImagePrompt accompanies an image turn the user sent without text
const DefaultImagePrompt = "What do you see in this image?"

// Config holds the completion endpoint parameters
type Config struct {
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
}

// DefaultConfig returns the stock request envelope: gpt-4o-mini, a bounded
// completion budget and a fixed temperature.
func DefaultConfig() Config {
	return Config{
		Model:       "gpt-4o-mini",
		MaxTokens:   2000,
		Temperature: 0.7,
	}
}

// ProviderError is a failure reported by, or while reaching, the completion
// endpoint. Error returns the human-readable message verbatim so it can be
// surfaced to the user unchanged.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
