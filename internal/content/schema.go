package content

import "github.com/abhisek/fluenz/internal/llm"

func stringArray(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": desc,
	}
}

func object(props map[string]any, required ...any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

var vocabularyWordDef = object(map[string]any{
	"word":          map[string]any{"type": "string"},
	"phonetic":      map[string]any{"type": "string", "description": "IPA transcription"},
	"type":          map[string]any{"type": "string", "description": "Part of speech, e.g. noun, verb"},
	"definition":    map[string]any{"type": "string", "description": "English definition"},
	"example":       map[string]any{"type": "string", "description": "English example sentence"},
	"definition_vi": map[string]any{"type": "string", "description": "Concise Vietnamese definition"},
	"example_vi":    map[string]any{"type": "string", "description": "Vietnamese translation of the example"},
}, "word", "phonetic", "type", "definition", "example", "definition_vi", "example_vi")

// TopicsSchema is a list of topic suggestions.
var TopicsSchema = &llm.Schema{
	Name:        "topic-list",
	Description: "Suggested IELTS vocabulary topics",
	Definition: object(map[string]any{
		"topics": stringArray("Short topic names"),
	}, "topics"),
}

// VocabularySchema is a list of vocabulary entries.
var VocabularySchema = &llm.Schema{
	Name:        "vocabulary-list",
	Description: "IELTS vocabulary entries with Vietnamese glosses",
	Definition: object(map[string]any{
		"vocabulary": map[string]any{
			"type":     "array",
			"items":    vocabularyWordDef,
			"minItems": 1,
		},
	}, "vocabulary"),
}

// WordExplanationSchema is the deeper breakdown of one word.
var WordExplanationSchema = &llm.Schema{
	Name:        "word-explanation",
	Description: "Synonyms, antonyms, collocations and usage notes for a word",
	Definition: object(map[string]any{
		"synonyms":            stringArray("2-3 relevant synonyms"),
		"antonyms":            stringArray("1-2 relevant antonyms"),
		"collocations":        stringArray("2-3 common collocations"),
		"detailedExplanation": map[string]any{"type": "string"},
	}, "synonyms", "antonyms", "collocations", "detailedExplanation"),
}

// TestSchema is a topic test.
var TestSchema = &llm.Schema{
	Name:        "vocabulary-test",
	Description: "Multiple choice, fill-in-the-blank and matching questions",
	Definition: object(map[string]any{
		"mcqs": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"question":      map[string]any{"type": "string"},
				"options":       stringArray("Four word options including the answer"),
				"correctAnswer": map[string]any{"type": "string"},
			}, "question", "options", "correctAnswer"),
		},
		"fillInTheBlanks": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"sentence":      map[string]any{"type": "string", "description": "Example sentence with the word replaced by ___"},
				"correctAnswer": map[string]any{"type": "string"},
			}, "sentence", "correctAnswer"),
		},
		"matchingPairs": map[string]any{
			"type": "array",
			"items": object(map[string]any{
				"word":       map[string]any{"type": "string"},
				"definition": map[string]any{"type": "string"},
			}, "word", "definition"),
		},
	}, "mcqs", "fillInTheBlanks", "matchingPairs"),
}

func criterionDef() map[string]any {
	return object(map[string]any{
		"score":    map[string]any{"type": "number", "minimum": 0, "maximum": 9},
		"feedback": map[string]any{"type": "string"},
	}, "score", "feedback")
}

// SpeakingFeedbackSchema is an examiner evaluation of a transcript.
var SpeakingFeedbackSchema = &llm.Schema{
	Name:        "speaking-feedback",
	Description: "IELTS speaking evaluation with band scores per criterion",
	Definition: object(map[string]any{
		"overallBandScore":            map[string]any{"type": "number", "minimum": 0, "maximum": 9},
		"fluencyAndCoherence":         criterionDef(),
		"lexicalResource":             criterionDef(),
		"grammaticalRangeAndAccuracy": criterionDef(),
		"pronunciation":               criterionDef(),
		"speakingWeakPoints": object(map[string]any{
			"vocabulary": stringArray("Words the speaker misused or could improve"),
			"grammar":    stringArray("Grammatical error types observed"),
		}, "vocabulary", "grammar"),
		"suggestions": stringArray("Actionable suggestions for improvement"),
	}, "overallBandScore", "fluencyAndCoherence", "lexicalResource",
		"grammaticalRangeAndAccuracy", "pronunciation", "speakingWeakPoints", "suggestions"),
}
