package content

// MinTestWords is the smallest vocabulary list a test can be built from.
const MinTestWords = 4

// Config holds generation settings.
type Config struct {
	// Per-purpose token limits.
	TopicsMaxTokens     int
	VocabularyMaxTokens int
	TestMaxTokens       int
	ExplainMaxTokens    int
	SpeakingMaxTokens   int

	Temperature float64

	TopicCount int
	WordCount  int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TopicsMaxTokens:     256,
		VocabularyMaxTokens: 2048,
		TestMaxTokens:       2048,
		ExplainMaxTokens:    768,
		SpeakingMaxTokens:   2048,
		Temperature:         0.7,
		TopicCount:          5,
		WordCount:           10,
	}
}
