package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/fluenz/internal/spacedrep"
)

// DefaultReviewSize caps the words served in one review.
const DefaultReviewSize = 20

// ReviewResult is the outcome for one reviewed word.
type ReviewResult struct {
	Word    string
	Correct bool
	From    int
	To      int
}

// Review walks the due words, most overdue first. It is not safe for
// concurrent use.
type Review struct {
	svc     *Service
	words   []string
	pos     int
	results []ReviewResult
	start   time.Time
}

// StartReview builds a review of at most limit due words (DefaultReviewSize
// when limit <= 0). Guests cannot review.
func (s *Service) StartReview(limit int) (*Review, error) {
	if s.store.IsGuest() {
		return nil, ErrGuest
	}
	if limit <= 0 {
		limit = DefaultReviewSize
	}
	snap := s.store.Snapshot()
	words := spacedrep.MostOverdue(snap.WordMastery, s.store.Today())
	if len(words) == 0 {
		return nil, ErrNothingToReview
	}
	if len(words) > limit {
		words = words[:limit]
	}
	return &Review{svc: s, words: words, start: time.Now()}, nil
}

// Words returns the planned words.
func (r *Review) Words() []string { return r.words }

// Current returns the word awaiting an answer.
func (r *Review) Current() (string, bool) {
	if r.Done() {
		return "", false
	}
	return r.words[r.pos], true
}

// Done reports whether every word has been answered.
func (r *Review) Done() bool { return r.pos >= len(r.words) }

// Position returns the number of answered words and the total.
func (r *Review) Position() (int, int) { return r.pos, len(r.words) }

// Answer records the outcome for the current word and moves on. It returns
// false once the review is done.
func (r *Review) Answer(correct bool) (ReviewResult, bool) {
	word, ok := r.Current()
	if !ok {
		return ReviewResult{}, false
	}
	from := r.svc.store.Snapshot().WordMastery[word].Level
	rec, tracked := r.svc.store.ReviewWord(word, correct)
	res := ReviewResult{Word: word, Correct: correct, From: from, To: from}
	if tracked {
		res.To = rec.Level
	}
	r.results = append(r.results, res)
	r.pos++
	if r.Done() {
		r.svc.checkAchievements()
	}
	return res, true
}

// Summary holds the figures shown after a review.
type Summary struct {
	Duration time.Duration
	Total    int
	Correct  int
	Accuracy float64
	Promoted int
	Demoted  int
	Results  []ReviewResult
}

// Summary reports the answers so far.
func (r *Review) Summary() Summary {
	sum := Summary{
		Duration: time.Since(r.start),
		Total:    len(r.results),
		Results:  append([]ReviewResult(nil), r.results...),
	}
	for _, res := range r.results {
		if res.Correct {
			sum.Correct++
		}
		switch {
		case res.To > res.From:
			sum.Promoted++
		case res.To < res.From:
			sum.Demoted++
		}
	}
	if sum.Total > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Total)
	}
	return sum
}

// ErrNotTracked is returned when reviewing a word that is not on the ladder.
var ErrNotTracked = errors.New("word is not being learned")

// ReviewWord grades a single word outside of a Review.
func (s *Service) ReviewWord(word string, correct bool) (ReviewResult, error) {
	if s.store.IsGuest() {
		return ReviewResult{}, ErrGuest
	}
	key := spacedrep.CanonicalKey(word)
	prev, ok := s.store.Snapshot().WordMastery[key]
	if !ok {
		return ReviewResult{}, fmt.Errorf("%q: %w", word, ErrNotTracked)
	}
	rec, _ := s.store.ReviewWord(key, correct)
	s.checkAchievements()
	return ReviewResult{Word: key, Correct: correct, From: prev.Level, To: rec.Level}, nil
}
