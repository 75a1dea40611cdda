package domain

import (
	"context"
	"time"
)

// NutrientCache is the intermediate lookup layer, checked after the
// dictionary and before the oracle. Implementations must tolerate concurrent
// writers for the same key; last writer wins.
type NutrientCache interface {
	Get(ctx context.Context, normalizedName string) (*NutrientRecord, error)
	Set(ctx context.Context, normalizedName string, record *NutrientRecord, ttl time.Duration) error
	Delete(ctx context.Context, normalizedName string) error
	Exists(ctx context.Context, normalizedName string) (bool, error)
}

// NutritionOracle is the last-resort external lookup for foods absent from
// the dictionary and cache. A failed or empty response is "no data", never a
// condition to retry at this layer.
type NutritionOracle interface {
	Lookup(ctx context.Context, foodPhrase, portionLabel string) (*NutrientRecord, error)
}

// HistoryRepository provides per-user time-ordered meal log access. The core
// never owns storage state; it only reads and writes through this interface.
type HistoryRepository interface {
	RecentEntries(ctx context.Context, userID string, since time.Time) ([]HistoryEntry, error)
	Save(ctx context.Context, entry *HistoryEntry) error
}

// IntentClassifier decides what a message is before the resolution pipeline
// is invoked. Kept outside the core as an injected pre-filter.
type IntentClassifier interface {
	Classify(text string) Intent
}
