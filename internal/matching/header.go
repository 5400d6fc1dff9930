package matching

import "strings"

// MatchHeaders checks that every expected header is present in the actual
// headers with a matching value. Both names and values compare
// case-insensitively. Headers the script does not mention are ignored, so
// incidental headers a real client adds (User-Agent, Accept, ...) never
// cause a mismatch.
func MatchHeaders(expected, actual map[string]string) *Mismatch {
	if len(expected) == 0 {
		return nil
	}

	lowered := make(map[string]string, len(actual))
	for name, value := range actual {
		lowered[strings.ToLower(name)] = value
	}

	for name, want := range expected {
		got, ok := lowered[strings.ToLower(name)]
		if !ok {
			return &Mismatch{
				Field:    "header " + strings.ToLower(name),
				Expected: want,
				Actual:   "(not present)",
			}
		}
		if !strings.EqualFold(want, got) {
			return &Mismatch{
				Field:    "header " + strings.ToLower(name),
				Expected: want,
				Actual:   got,
			}
		}
	}
	return nil
}
