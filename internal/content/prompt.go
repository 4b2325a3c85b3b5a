package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

const tutorSystemPrompt = `You are an experienced IELTS tutor for Vietnamese learners. Write natural, accurate English. Vietnamese glosses must be concise and idiomatic.`

const examinerSystemPrompt = `You are an expert IELTS speaking examiner. Grade strictly against the official band descriptors. Feedback and suggestions are written in Vietnamese.`

func buildTopicsMessage(level Level, n int) string {
	return fmt.Sprintf("Generate a list of %d diverse and interesting IELTS vocabulary topics suitable for a student at the %s level.", n, level)
}

const entryFields = "word, phonetic (IPA), type (e.g. noun, verb), definition (in English), example (in English), definition_vi (a concise Vietnamese definition) and example_vi (a Vietnamese translation of the example)"

func buildVocabularyMessage(level Level, topic string, n int) string {
	return fmt.Sprintf("Generate a list of %d essential IELTS vocabulary words for the topic %q suitable for a %s student. For each word provide: %s.",
		n, topic, level, entryFields)
}

func buildWordDetailsMessage(words []string) string {
	return fmt.Sprintf("For the following English words: [%s], provide a complete vocabulary entry for each. For each word provide: %s.",
		strings.Join(words, ", "), entryFields)
}

func buildExplanationMessage(word VocabularyWord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain the English word %q for an IELTS student.\n", word.Word)
	if word.Definition != "" {
		fmt.Fprintf(&b, "Definition: %s\n", word.Definition)
	}
	fmt.Fprintf(&b, `
Include:
1. synonyms: 2-3 relevant synonyms.
2. antonyms: 1-2 relevant antonyms.
3. collocations: 2-3 common collocations (e.g. "verb + %[1]s", "%[1]s + noun").
4. detailedExplanation: the nuance, usage and connotation in a few sentences, in Vietnamese.`, word.Word)
	return b.String()
}

func buildTestMessage(vocab []VocabularyWord) (string, error) {
	data, err := json.Marshal(vocab)
	if err != nil {
		return "", fmt.Errorf("marshal vocabulary: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based ONLY on these vocabulary words: %s.\n", strings.Join(Words(vocab), ", "))
	fmt.Fprintf(&b, "Full data: %s\n", data)
	b.WriteString(`
Create a test with exactly:
1. Four multiple-choice questions (mcqs). Each uses a definition as the prompt and the correct word as the answer, with three other plausible but incorrect words from the list as options.
2. Four fill-in-the-blank questions (fillInTheBlanks). Use the example sentence from the data with the word replaced by '___'.
3. Four word-definition matching pairs (matchingPairs).`)
	return b.String(), nil
}

func buildSpeakingMessage(transcript []TranscriptItem) string {
	var b strings.Builder
	b.WriteString("Analyze the following IELTS speaking test transcript. The candidate is a Vietnamese learner.\n\nTranscript:\n---\n")
	for _, t := range transcript {
		fmt.Fprintf(&b, "%s: %s\n", t.Speaker, t.Text)
	}
	b.WriteString(`---

For each of the four criteria (Fluency and Coherence, Lexical Resource, Grammatical Range and Accuracy, Pronunciation) give a band score (e.g. 6.5) and concise, constructive feedback. Also give an overall band score.
Include speakingWeakPoints with two lists: vocabulary (specific words the candidate misused or could improve) and grammar (error types observed, e.g. "Subject-verb agreement").
Finish with 3-4 concrete, actionable suggestions.`)
	return b.String()
}
