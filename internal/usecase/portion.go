package usecase

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Package-level compiled regex patterns for performance
var (
	ouncePattern = regexp.MustCompile(`(\d+\.?\d*)\s*(?:oz|ounces?)`)
	cupPattern   = regexp.MustCompile(`(\d+\.?\d*|1/2|half|1/4|quarter)\s*(?:cups?)`)
	gramPattern  = regexp.MustCompile(`(\d+\.?\d*)\s*(?:grams?|g)\b`)
	piecePattern = regexp.MustCompile(`(\d+)\s*(?:pieces?|slices?)`)
)

// Serving equivalences: 4 oz or 100 g count as one serving.
const (
	ouncesPerServing = 4.0
	gramsPerServing  = 100.0
)

// sizeWords are qualitative portion cues, consulted only when no numeric
// unit matched. Ordered so lookup is deterministic.
var sizeWords = []struct {
	word       string
	multiplier float64
}{
	{"small", 0.75},
	{"medium", 1.0},
	{"large", 1.5},
	{"huge", 2.0},
}

// ResolvePortion extracts a quantity and unit from raw text and converts it
// to a serving-count multiplier plus a caller-facing label. Unit families are
// tried in a fixed priority order (ounces, cups, grams, piece/slice count,
// qualitative size word); the first family that yields a parseable amount
// wins and units are never combined. Unparseable quantities fall through
// silently; when nothing matches the default is one serving.
func ResolvePortion(text string) (float64, string) {
	text = strings.ToLower(text)

	if strings.Contains(text, "oz") || strings.Contains(text, "ounce") {
		if m := ouncePattern.FindStringSubmatch(text); m != nil {
			amount, err := strconv.ParseFloat(m[1], 64)
			if err == nil && amount > 0 {
				return amount / ouncesPerServing, fmt.Sprintf("%s oz", trimFloat(amount))
			}
		}
	}

	if strings.Contains(text, "cup") {
		if m := cupPattern.FindStringSubmatch(text); m != nil {
			switch m[1] {
			case "1/2", "half":
				return 0.5, "1/2 cup"
			case "1/4", "quarter":
				return 0.25, "1/4 cup"
			default:
				amount, err := strconv.ParseFloat(m[1], 64)
				if err == nil && amount > 0 {
					return amount, fmt.Sprintf("%s cup", trimFloat(amount))
				}
			}
		}
	}

	if m := gramPattern.FindStringSubmatch(text); m != nil {
		grams, err := strconv.ParseFloat(m[1], 64)
		if err == nil && grams > 0 {
			return grams / gramsPerServing, fmt.Sprintf("%sg", trimFloat(grams))
		}
	}

	if strings.Contains(text, "piece") || strings.Contains(text, "slice") {
		if m := piecePattern.FindStringSubmatch(text); m != nil {
			count, err := strconv.Atoi(m[1])
			if err == nil && count > 0 {
				label := fmt.Sprintf("%d piece", count)
				if count > 1 {
					label += "s"
				}
				return float64(count), label
			}
		}
	}

	for _, size := range sizeWords {
		if strings.Contains(text, size.word) {
			return size.multiplier, size.word
		}
	}

	return 1.0, "1 serving"
}

// trimFloat formats a float without trailing zeros ("8", "1.5").
func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
