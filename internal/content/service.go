package content

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/llm"
)

// ErrNotEnoughWords is returned by GenerateTest for lists shorter than
// MinTestWords.
var ErrNotEnoughWords = errors.New("not enough vocabulary to build a test")

// ErrEmptyContent is returned when the provider answers with an empty list.
var ErrEmptyContent = errors.New("provider returned no content")

// Service generates study material.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger

	// shuffle reorders MCQ options. Replaced in tests.
	shuffle func([]string)
}

// NewService creates a content Service.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		shuffle: func(s []string) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

func (s *Service) generate(ctx context.Context, purpose, system, msg string, schema *llm.Schema, maxTokens int) (*llm.Response, error) {
	ctx = llm.WithPurpose(ctx, purpose)
	return s.provider.Generate(ctx, llm.Request{
		System:      system,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		Schema:      schema,
		MaxTokens:   maxTokens,
		Temperature: s.cfg.Temperature,
	})
}

type topicsOutput struct {
	Topics []string `json:"topics"`
}

// Topics suggests topics for a level.
func (s *Service) Topics(ctx context.Context, level Level) ([]string, error) {
	resp, err := s.generate(ctx, "topics", tutorSystemPrompt,
		buildTopicsMessage(level, s.cfg.TopicCount), TopicsSchema, s.cfg.TopicsMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("topic generation: %w", err)
	}
	out, err := llm.Decode[topicsOutput](resp)
	if err != nil {
		return nil, fmt.Errorf("parse topics response: %w", err)
	}

	topics := make([]string, 0, len(out.Topics))
	for _, t := range out.Topics {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics, nil
}

type vocabularyOutput struct {
	Vocabulary []VocabularyWord `json:"vocabulary"`
}

// Vocabulary generates a word list for a topic at a level.
func (s *Service) Vocabulary(ctx context.Context, level Level, topic string) ([]VocabularyWord, error) {
	resp, err := s.generate(ctx, "vocabulary", tutorSystemPrompt,
		buildVocabularyMessage(level, topic, s.cfg.WordCount), VocabularySchema, s.cfg.VocabularyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("vocabulary generation for %q: %w", topic, err)
	}
	vocab, err := decodeVocabulary(resp)
	if err != nil {
		return nil, fmt.Errorf("vocabulary generation for %q: %w", topic, err)
	}
	s.logger.Debug("vocabulary generated",
		zap.String("level", string(level)),
		zap.String("topic", topic),
		zap.Int("words", len(vocab)),
	)
	return vocab, nil
}

// WordDetails returns full entries for the given words. An empty list
// returns nil without calling the provider.
func (s *Service) WordDetails(ctx context.Context, words []string) ([]VocabularyWord, error) {
	if len(words) == 0 {
		return nil, nil
	}
	resp, err := s.generate(ctx, "word-details", tutorSystemPrompt,
		buildWordDetailsMessage(words), VocabularySchema, s.cfg.VocabularyMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("word details: %w", err)
	}
	vocab, err := decodeVocabulary(resp)
	if err != nil {
		return nil, fmt.Errorf("word details: %w", err)
	}
	return vocab, nil
}

func decodeVocabulary(resp *llm.Response) ([]VocabularyWord, error) {
	out, err := llm.Decode[vocabularyOutput](resp)
	if err != nil {
		return nil, fmt.Errorf("parse vocabulary response: %w", err)
	}

	vocab := out.Vocabulary[:0]
	for _, w := range out.Vocabulary {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word != "" {
			vocab = append(vocab, w)
		}
	}
	if len(vocab) == 0 {
		return nil, ErrEmptyContent
	}
	return vocab, nil
}

// Explain returns synonyms, antonyms, collocations and usage notes.
func (s *Service) Explain(ctx context.Context, word VocabularyWord) (*WordExplanation, error) {
	resp, err := s.generate(ctx, "word-explanation", tutorSystemPrompt,
		buildExplanationMessage(word), WordExplanationSchema, s.cfg.ExplainMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("explain %q: %w", word.Word, err)
	}
	out, err := llm.Decode[WordExplanation](resp)
	if err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}
	return &out, nil
}

// GenerateTest builds a test from a vocabulary list. MCQ options are
// shuffled.
func (s *Service) GenerateTest(ctx context.Context, vocab []VocabularyWord) (*Test, error) {
	if len(vocab) < MinTestWords {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughWords, len(vocab), MinTestWords)
	}

	msg, err := buildTestMessage(vocab)
	if err != nil {
		return nil, err
	}
	resp, err := s.generate(ctx, "test", tutorSystemPrompt, msg, TestSchema, s.cfg.TestMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("test generation: %w", err)
	}
	test, err := llm.Decode[Test](resp)
	if err != nil {
		return nil, fmt.Errorf("parse test response: %w", err)
	}
	if test.QuestionCount() == 0 {
		return nil, fmt.Errorf("test generation: %w", ErrEmptyContent)
	}

	for i := range test.MCQs {
		s.shuffle(test.MCQs[i].Options)
	}
	return &test, nil
}

// AnalyzeSpeaking grades a speaking transcript.
func (s *Service) AnalyzeSpeaking(ctx context.Context, transcript []TranscriptItem) (*SpeakingFeedback, error) {
	if len(transcript) == 0 {
		return nil, fmt.Errorf("speaking analysis: %w", ErrEmptyContent)
	}
	resp, err := s.generate(ctx, "speaking-analysis", examinerSystemPrompt,
		buildSpeakingMessage(transcript), SpeakingFeedbackSchema, s.cfg.SpeakingMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("speaking analysis: %w", err)
	}
	fb, err := llm.Decode[SpeakingFeedback](resp)
	if err != nil {
		return nil, fmt.Errorf("parse speaking response: %w", err)
	}
	s.logger.Info("speaking analyzed", zap.Float64("band", fb.OverallBandScore))
	return &fb, nil
}
