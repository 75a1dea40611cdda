package usecase

import (
	"strings"

	"github.com/mindfulplate/backend/internal/domain"
)

// greetingPhrases mark a message as small talk rather than a food log.
var greetingPhrases = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening",
}

// questionStarters mark a message as a question about nutrition or the app.
var questionStarters = []string{
	"what", "how", "why", "when", "should", "can i", "is it", "do i",
}

// KeywordIntentClassifier is a simple keyword-rule classifier, injected as a
// pre-filter so greeting and question messages never reach the resolution
// pipeline. Food logging is the default intent.
type KeywordIntentClassifier struct{}

// NewKeywordIntentClassifier creates the default classifier.
func NewKeywordIntentClassifier() *KeywordIntentClassifier {
	return &KeywordIntentClassifier{}
}

// Classify decides the coarse intent of a message.
func (c *KeywordIntentClassifier) Classify(text string) domain.Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return domain.IntentLogFood
	}

	words := strings.Fields(lower)
	first := ""
	if len(words) > 0 {
		first = strings.TrimRight(words[0], "!.,")
	}
	for _, greeting := range greetingPhrases {
		if lower == greeting || first == greeting || strings.HasPrefix(lower, greeting+" ") {
			return domain.IntentGreeting
		}
	}

	if strings.Contains(lower, "?") {
		return domain.IntentQuestion
	}
	for _, starter := range questionStarters {
		if strings.HasPrefix(lower, starter+" ") {
			return domain.IntentQuestion
		}
	}

	return domain.IntentLogFood
}
