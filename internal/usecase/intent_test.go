package usecase

import (
	"testing"

	"github.com/mindfulplate/backend/internal/domain"
)

func TestKeywordIntentClassifier(t *testing.T) {
	c := NewKeywordIntentClassifier()

	tests := []struct {
		text string
		want domain.Intent
	}{
		{"hi", domain.IntentGreeting},
		{"Hello!", domain.IntentGreeting},
		{"hey there", domain.IntentGreeting},
		{"good morning", domain.IntentGreeting},
		{"what should I eat for dinner", domain.IntentQuestion},
		{"how much protein do I need", domain.IntentQuestion},
		{"is pizza healthy?", domain.IntentQuestion},
		{"can i eat bread every day", domain.IntentQuestion},
		{"2 eggs and toast", domain.IntentLogFood},
		{"8oz grilled chicken", domain.IntentLogFood},
		{"had a banana", domain.IntentLogFood},
		{"", domain.IntentLogFood},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}
