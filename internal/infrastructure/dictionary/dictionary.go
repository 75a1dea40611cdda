package dictionary

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mindfulplate/backend/internal/domain"
)

// Dictionary is the static mapping from canonical lowercase food name to its
// per-serving nutrient vector and category. It is loaded once at startup and
// never modified afterwards.
type Dictionary struct {
	entries map[string]domain.DictionaryEntry

	// names holds every key sorted by descending length (ties alphabetical)
	// so the matcher can claim the most specific key first.
	names []string
}

// New builds a dictionary from the given entries.
func New(entries map[string]domain.DictionaryEntry) *Dictionary {
	d := &Dictionary{entries: make(map[string]domain.DictionaryEntry, len(entries))}
	for name, entry := range entries {
		d.entries[name] = entry
	}
	d.reindex()
	return d
}

// Builtin returns a dictionary seeded with the built-in food table.
func Builtin() *Dictionary {
	return New(builtinFoods)
}

// LoadOverlay merges entries from a JSON file on top of the current set.
// The file maps canonical names to objects with the five nutrient fields and
// a category. Called during startup only; a bad file is a fatal condition
// for the caller to handle.
func (d *Dictionary) LoadOverlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading dictionary overlay: %w", err)
	}

	var overlay map[string]overlayEntry
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return fmt.Errorf("parsing dictionary overlay: %w", err)
	}

	for name, e := range overlay {
		if !domain.ValidCategory(e.Category) {
			return fmt.Errorf("dictionary overlay entry %q: unknown category %q", name, e.Category)
		}
		d.entries[name] = domain.DictionaryEntry{
			PerServing: domain.NutrientVector{
				Calories: e.Calories,
				Protein:  e.Protein,
				Carbs:    e.Carbs,
				Fat:      e.Fat,
				Fiber:    e.Fiber,
			},
			Category: e.Category,
		}
	}
	d.reindex()
	return nil
}

type overlayEntry struct {
	Calories float64         `json:"calories"`
	Protein  float64         `json:"protein"`
	Carbs    float64         `json:"carbs"`
	Fat      float64         `json:"fat"`
	Fiber    float64         `json:"fiber"`
	Category domain.Category `json:"category"`
}

// Lookup returns the entry for a canonical name.
func (d *Dictionary) Lookup(name string) (domain.DictionaryEntry, bool) {
	entry, ok := d.entries[name]
	return entry, ok
}

// Names returns every canonical name sorted by descending length, ties
// broken alphabetically. The slice is shared; callers must not modify it.
func (d *Dictionary) Names() []string {
	return d.names
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

func (d *Dictionary) reindex() {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	d.names = names
}
