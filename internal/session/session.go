// Package session runs the learner-facing flows on top of a progress store:
// finishing a test or a speaking session, reviewing due words and weak
// points, and unlocking achievements as progress changes.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/fluenz/internal/achievements"
	"github.com/abhisek/fluenz/internal/activity"
	"github.com/abhisek/fluenz/internal/content"
	"github.com/abhisek/fluenz/internal/progress"
)

const (
	// XPPerCorrectAnswer is awarded per correct test answer.
	XPPerCorrectAnswer = 10
	// SpeakingXP is awarded for each analysed speaking session.
	SpeakingXP = 50
	// TopicPassRatio is the accuracy a test must exceed to complete its topic.
	TopicPassRatio = 0.6
)

var (
	// ErrGuest is returned by flows that need a saved profile.
	ErrGuest = errors.New("sign in to use this feature")
	// ErrNothingToReview is returned when a review has no words.
	ErrNothingToReview = errors.New("nothing to review")
)

// WordSource fetches full entries for words. content.Service satisfies it.
type WordSource interface {
	WordDetails(ctx context.Context, words []string) ([]content.VocabularyWord, error)
}

// Service runs session flows for one learner.
type Service struct {
	store  *progress.Store
	words  WordSource
	logger *zap.Logger

	// nil for guests.
	achievements *achievements.Service
}

// New creates a Service. words may be nil when no content provider is
// configured; StartWeaknessReview then fails.
func New(store *progress.Store, words WordSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: store, words: words, logger: logger}
	if !store.IsGuest() {
		s.achievements = achievements.NewService(store, logger)
	}
	return s
}

// Store returns the underlying progress store.
func (s *Service) Store() *progress.Store { return s.store }

// Unlocked returns the achievements unlocked during this session.
func (s *Service) Unlocked() []achievements.Achievement {
	if s.achievements == nil {
		return nil
	}
	return s.achievements.SessionUnlocks
}

func (s *Service) checkAchievements() []achievements.Achievement {
	if s.achievements == nil {
		return nil
	}
	return s.achievements.CheckAndUnlock()
}

// Begin marks the learner's first activity: the day counts toward the
// streak and the new-learner flag is cleared. Unlocked starts empty again.
func (s *Service) Begin() activity.StreakResult {
	if s.achievements != nil {
		s.achievements.ResetSession()
	}
	streak := s.store.RecordDailyTouch()
	if s.store.MarkOnboarded() {
		s.logger.Info("learner onboarded", zap.String("user_id", s.store.UserID()))
	}
	s.checkAchievements()
	return streak
}

// TestOutcome is a graded topic test.
type TestOutcome struct {
	Level string
	Topic string
	// Vocabulary is every word the lesson covered.
	Vocabulary []string
	// Missed are the words answered incorrectly.
	Missed  []string
	Correct int
	Total   int
}

// TestSummary reports what finishing a test changed.
type TestSummary struct {
	XPEarned        int
	Percentage      float64
	Perfect         bool
	Goal            activity.GoalResult
	Streak          activity.StreakResult
	TopicCompleted  bool
	WordsIntroduced int
	WeakAdded       int
	Unlocked        []achievements.Achievement
}

// FinishTest records a finished test: XP per correct answer, the daily
// touch, the rounded percentage, missed words as weak vocabulary, topic
// completion above TopicPassRatio, and every lesson word on the ladder.
func (s *Service) FinishTest(o TestOutcome) TestSummary {
	correct := max(o.Correct, 0)
	var sum TestSummary
	sum.XPEarned = correct * XPPerCorrectAnswer
	sum.Perfect = o.Total > 0 && correct == o.Total
	if o.Total > 0 {
		sum.Percentage = math.Round(float64(correct) / float64(o.Total) * 100)
	}

	sum.Goal = s.store.RecordXP(sum.XPEarned, sum.Perfect)
	sum.Streak = s.store.RecordDailyTouch()
	s.store.RecordTestResult(sum.Percentage)

	if len(o.Missed) > 0 {
		sum.WeakAdded = s.store.RecordWeakPoints(progress.WeakPoints{Vocabulary: o.Missed})
	}
	if o.Level != "" && o.Topic != "" && o.Total > 0 && float64(correct)/float64(o.Total) > TopicPassRatio {
		sum.TopicCompleted = s.store.RecordTopicCompletion(o.Level, o.Topic)
	}
	sum.WordsIntroduced = s.store.IntroduceWords(o.Vocabulary)
	sum.Unlocked = s.checkAchievements()

	s.logger.Info("test finished",
		zap.String("topic", o.Topic),
		zap.Int("correct", correct),
		zap.Int("total", o.Total),
		zap.Bool("topic_completed", sum.TopicCompleted),
	)
	return sum
}

// SpeakingSummary reports what finishing a speaking session changed.
type SpeakingSummary struct {
	Goal      activity.GoalResult
	Streak    activity.StreakResult
	WeakAdded int
	Unlocked  []achievements.Achievement
}

// FinishSpeaking records analysed speaking feedback.
func (s *Service) FinishSpeaking(fb content.SpeakingFeedback) SpeakingSummary {
	var sum SpeakingSummary
	sum.Goal = s.store.RecordXP(SpeakingXP, false)
	sum.Streak = s.store.RecordDailyTouch()
	s.store.RecordSpeakingResult(fb.OverallBandScore)
	sum.WeakAdded = s.store.RecordWeakPoints(progress.WeakPoints{
		Vocabulary: fb.SpeakingWeakPoints.Vocabulary,
		Grammar:    fb.SpeakingWeakPoints.Grammar,
	})
	sum.Unlocked = s.checkAchievements()
	return sum
}

// StartWeaknessReview fetches entries for the weak vocabulary and then
// clears it. The weak points are kept when fetching fails.
func (s *Service) StartWeaknessReview(ctx context.Context) ([]content.VocabularyWord, error) {
	if s.store.IsGuest() {
		return nil, ErrGuest
	}
	weak := s.store.Snapshot().WeakPoints.Vocabulary
	if len(weak) == 0 {
		return nil, ErrNothingToReview
	}
	if s.words == nil {
		return nil, fmt.Errorf("weakness review: no content provider configured")
	}

	words, err := s.words.WordDetails(ctx, weak)
	if err != nil {
		return nil, fmt.Errorf("weakness review: %w", err)
	}
	s.store.ClearWeakPoints(progress.WeakVocabulary)
	return words, nil
}

// Learn puts words on the ladder and returns how many were new.
func (s *Service) Learn(words []string) int {
	n := s.store.IntroduceWords(words)
	s.checkAchievements()
	return n
}

// CompleteTopic marks a topic completed outside of a test.
func (s *Service) CompleteTopic(level, topic string) bool {
	ok := s.store.RecordTopicCompletion(level, topic)
	s.checkAchievements()
	return ok
}

// ToggleFavorite flips a topic's favorite mark.
func (s *Service) ToggleFavorite(level, topic string) bool {
	on := s.store.ToggleFavorite(level, topic)
	s.checkAchievements()
	return on
}

// CompletedTopics returns the completed topics for a level, or for every
// level when level is empty.
func (s *Service) CompletedTopics(level string) []string {
	return s.store.Snapshot().CompletedTopicsFor(strings.TrimSpace(level))
}

// UseTutor records that the learner asked the tutor for an explanation.
// It returns the achievement when this unlocked it.
func (s *Service) UseTutor() (achievements.Achievement, bool) {
	if s.achievements == nil {
		return achievements.Achievement{}, false
	}
	return s.achievements.UnlockManual(achievements.ExploreTutor)
}
