package boxscore

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// SafeInt coerces a raw stat value into an int and never fails.
// Fractions like "5/10" (made/attempted) yield the numerator, numeric strings
// are truncated ("12.0" -> 12), and anything unparseable yields 0.
func SafeInt(v any) int {
	switch val := v.(type) {
	case nil:
		return 0
	case StatValue:
		return SafeInt(val.Value())
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float64:
		return truncate(val)
	case float32:
		return truncate(float64(val))
	case bool:
		if val {
			return 1
		}
		return 0
	case json.Number:
		return SafeInt(string(val))
	case string:
		s := strings.TrimSpace(val)
		if idx := strings.Index(s, "/"); idx >= 0 {
			s = strings.TrimSpace(s[:idx])
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return truncate(f)
	default:
		return 0
	}
}

func truncate(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

// ParseMadeAttempted splits a shooting line like "10-18" into made and
// attempted. Malformed input yields zeros.
func ParseMadeAttempted(shot string) (made, attempted int) {
	parts := strings.Split(strings.TrimSpace(shot), "-")
	if len(parts) != 2 {
		return 0, 0
	}
	made, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0
	}
	attempted, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0
	}
	return made, attempted
}

func formatMadeAttempted(made, attempted int) string {
	return fmt.Sprintf("%d-%d", made, attempted)
}
