// Package content generates IELTS study material through an LLM provider:
// topic ideas, vocabulary lists, word details, tests and speaking feedback.
package content

import (
	"slices"
	"strings"
)

// Level is an IELTS band range a learner studies at.
type Level string

const (
	LevelBand5 Level = "Band 5.0-5.5"
	LevelBand6 Level = "Band 6.0-6.5"
	LevelBand7 Level = "Band 7.0-7.5"
	LevelBand8 Level = "Band 8.0+"
)

// Levels returns every level from lowest to highest.
func Levels() []Level {
	return []Level{LevelBand5, LevelBand6, LevelBand7, LevelBand8}
}

// ParseLevel accepts a full level name or its leading band number
// ("5", "6.0", "7", "8+").
func ParseLevel(s string) (Level, bool) {
	s = strings.TrimSpace(s)
	for _, l := range Levels() {
		if strings.EqualFold(s, string(l)) {
			return l, true
		}
	}
	switch strings.TrimSuffix(strings.TrimPrefix(strings.ToLower(s), "band "), "+") {
	case "5", "5.0", "5.5":
		return LevelBand5, true
	case "6", "6.0", "6.5":
		return LevelBand6, true
	case "7", "7.0", "7.5":
		return LevelBand7, true
	case "8", "8.0":
		return LevelBand8, true
	}
	return "", false
}

// VocabularyWord is one study entry. Vietnamese glosses ride along with the
// English definition and example.
type VocabularyWord struct {
	Word         string `json:"word"`
	Phonetic     string `json:"phonetic"`
	Type         string `json:"type"`
	Definition   string `json:"definition"`
	Example      string `json:"example"`
	DefinitionVI string `json:"definition_vi"`
	ExampleVI    string `json:"example_vi"`
}

// Words returns the headwords of a vocabulary list.
func Words(vocab []VocabularyWord) []string {
	out := make([]string, len(vocab))
	for i, v := range vocab {
		out[i] = v.Word
	}
	return out
}

// WordExplanation is the deeper breakdown of a single word.
type WordExplanation struct {
	Synonyms            []string `json:"synonyms"`
	Antonyms            []string `json:"antonyms"`
	Collocations        []string `json:"collocations"`
	DetailedExplanation string   `json:"detailedExplanation"`
}

// MCQ asks for the word matching a definition.
type MCQ struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// FillInTheBlank is an example sentence with the word replaced by "___".
type FillInTheBlank struct {
	Sentence      string `json:"sentence"`
	CorrectAnswer string `json:"correctAnswer"`
}

// MatchingPair pairs a word with its definition.
type MatchingPair struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Test is a topic test. Matching pairs are not graded per question.
type Test struct {
	MCQs            []MCQ            `json:"mcqs"`
	FillInTheBlanks []FillInTheBlank `json:"fillInTheBlanks"`
	MatchingPairs   []MatchingPair   `json:"matchingPairs"`
}

// QuestionCount returns the number of graded questions.
func (t Test) QuestionCount() int {
	return len(t.MCQs) + len(t.FillInTheBlanks)
}

// Answer returns the expected answer of graded question i, MCQs first.
func (t Test) Answer(i int) (string, bool) {
	switch {
	case i < 0:
		return "", false
	case i < len(t.MCQs):
		return t.MCQs[i].CorrectAnswer, true
	case i < t.QuestionCount():
		return t.FillInTheBlanks[i-len(t.MCQs)].CorrectAnswer, true
	}
	return "", false
}

// Grade compares answers to the graded questions case-insensitively and
// returns the correct count and the expected answers that were missed.
// Missing answers count as wrong.
func (t Test) Grade(answers []string) (correct int, missed []string) {
	for i := range t.QuestionCount() {
		want, _ := t.Answer(i)
		if i < len(answers) && strings.EqualFold(strings.TrimSpace(answers[i]), want) {
			correct++
			continue
		}
		if !slices.Contains(missed, want) {
			missed = append(missed, want)
		}
	}
	return correct, missed
}

// CriterionScore is the band score and feedback for one speaking criterion.
type CriterionScore struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// SpeakingWeakPoints lists what an examiner flagged in a speaking test.
type SpeakingWeakPoints struct {
	Vocabulary []string `json:"vocabulary"`
	Grammar    []string `json:"grammar"`
}

// SpeakingFeedback is an IELTS-style evaluation of a speaking transcript.
type SpeakingFeedback struct {
	OverallBandScore            float64            `json:"overallBandScore"`
	FluencyAndCoherence         CriterionScore     `json:"fluencyAndCoherence"`
	LexicalResource             CriterionScore     `json:"lexicalResource"`
	GrammaticalRangeAndAccuracy CriterionScore     `json:"grammaticalRangeAndAccuracy"`
	Pronunciation               CriterionScore     `json:"pronunciation"`
	SpeakingWeakPoints          SpeakingWeakPoints `json:"speakingWeakPoints"`
	Suggestions                 []string           `json:"suggestions"`
}

// Speaker identifies a transcript line's author.
type Speaker string

const (
	SpeakerUser     Speaker = "user"
	SpeakerExaminer Speaker = "examiner"
)

// TranscriptItem is one line of a speaking test.
type TranscriptItem struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}
