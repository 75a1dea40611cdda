package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mindfulplate/backend/internal/domain"
)

func TestBuiltin(t *testing.T) {
	dict := Builtin()

	if dict.Len() == 0 {
		t.Fatal("Builtin() dictionary is empty")
	}

	t.Run("known foods resolve", func(t *testing.T) {
		for _, name := range []string{"grilled chicken", "banana", "greek yogurt", "rice"} {
			entry, ok := dict.Lookup(name)
			if !ok {
				t.Errorf("Lookup(%q) missing", name)
				continue
			}
			if entry.PerServing.Calories <= 0 {
				t.Errorf("Lookup(%q) Calories = %v, want > 0", name, entry.PerServing.Calories)
			}
			if !domain.ValidCategory(entry.Category) {
				t.Errorf("Lookup(%q) Category = %q, not a valid category", name, entry.Category)
			}
		}
	})

	t.Run("unknown food misses", func(t *testing.T) {
		if _, ok := dict.Lookup("unobtainium stew"); ok {
			t.Error("Lookup(unobtainium stew) = true, want false")
		}
	})
}

func TestNames_Ordering(t *testing.T) {
	dict := Builtin()
	names := dict.Names()

	if len(names) != dict.Len() {
		t.Fatalf("Names() has %d entries, Len() = %d", len(names), dict.Len())
	}

	for i := 1; i < len(names); i++ {
		prev, cur := names[i-1], names[i]
		if len(prev) < len(cur) {
			t.Fatalf("Names() not sorted by descending length: %q before %q", prev, cur)
		}
		if len(prev) == len(cur) && prev > cur {
			t.Fatalf("Names() ties not alphabetical: %q before %q", prev, cur)
		}
	}

	// Longer keys must come first so the matcher claims the most specific.
	idxOf := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		t.Fatalf("Names() missing %q", name)
		return -1
	}
	if idxOf("grilled chicken") > idxOf("chicken") {
		t.Error("grilled chicken should precede chicken in Names()")
	}
}

func TestLoadOverlay(t *testing.T) {
	writeOverlay := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "overlay.json")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing overlay: %v", err)
		}
		return path
	}

	t.Run("merges new entries", func(t *testing.T) {
		dict := Builtin()
		before := dict.Len()

		path := writeOverlay(t, `{
			"dragonfruit": {"calories": 60, "protein": 1.2, "carbs": 13, "fat": 0, "fiber": 3, "category": "fruits"}
		}`)
		if err := dict.LoadOverlay(path); err != nil {
			t.Fatalf("LoadOverlay() error = %v", err)
		}

		if dict.Len() != before+1 {
			t.Errorf("Len() = %d, want %d", dict.Len(), before+1)
		}
		entry, ok := dict.Lookup("dragonfruit")
		if !ok {
			t.Fatal("Lookup(dragonfruit) missing after overlay")
		}
		if entry.PerServing.Calories != 60 || entry.Category != domain.CategoryFruits {
			t.Errorf("dragonfruit entry = %+v", entry)
		}
	})

	t.Run("overrides builtin entries", func(t *testing.T) {
		dict := Builtin()

		path := writeOverlay(t, `{
			"banana": {"calories": 999, "protein": 1, "carbs": 2, "fat": 3, "fiber": 4, "category": "fruits"}
		}`)
		if err := dict.LoadOverlay(path); err != nil {
			t.Fatalf("LoadOverlay() error = %v", err)
		}

		entry, _ := dict.Lookup("banana")
		if entry.PerServing.Calories != 999 {
			t.Errorf("banana Calories = %v, want overlay value 999", entry.PerServing.Calories)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		dict := Builtin()
		path := writeOverlay(t, `{
			"slime mold": {"calories": 10, "protein": 1, "carbs": 1, "fat": 0, "fiber": 0, "category": "cryptid"}
		}`)
		if err := dict.LoadOverlay(path); err == nil {
			t.Error("LoadOverlay() = nil, want error for unknown category")
		}
	})

	t.Run("rejects invalid json", func(t *testing.T) {
		dict := Builtin()
		path := writeOverlay(t, `{not json`)
		if err := dict.LoadOverlay(path); err == nil {
			t.Error("LoadOverlay() = nil, want parse error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		dict := Builtin()
		if err := dict.LoadOverlay(filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("LoadOverlay() = nil, want error for missing file")
		}
	})
}
