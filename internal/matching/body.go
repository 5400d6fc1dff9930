package matching

// MatchBody compares an observed request body against the expected one.
// Bodies match exactly; an absent body (nil) is distinct from an empty one,
// and absence must match absence.
func MatchBody(expected, actual *string) *Mismatch {
	if expected == nil && actual == nil {
		return nil
	}
	if expected != nil && actual != nil && *expected == *actual {
		return nil
	}
	return &Mismatch{
		Field:    "body",
		Expected: formatBody(expected),
		Actual:   formatBody(actual),
	}
}

func formatBody(body *string) string {
	if body == nil {
		return "(no body)"
	}
	return *body
}
