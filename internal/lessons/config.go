package lessons

// RegistryKey is the KV key of the lesson registry blob.
const RegistryKey = "examprep-lesson-registry"

// Config holds lesson generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for lesson generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   1024,
		Temperature: 0.5,
	}
}
